package profile

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"google.golang.org/grpc"

	"github.com/oggyb/muzz-dating/internal/app"
	"github.com/oggyb/muzz-dating/internal/db"
	"github.com/oggyb/muzz-dating/internal/server"
)

const serviceName = "dating.v1.ProfileService"

// GetUserRequest names the profile to fetch.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// ListUsersRequest is empty; the list is unfiltered.
type ListUsersRequest struct{}

// ListUsersResponse wraps every profile in creation order.
type ListUsersResponse struct {
	Users []db.User `json:"users"`
}

// Server is the gRPC handler contract for ProfileService.
type Server interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) (*db.User, error)
	GetUser(ctx context.Context, userID string) (*db.User, error)
	ListUsers(ctx context.Context) ([]db.User, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		server.Unary(serviceName, "CreateUser", func(s Server, ctx context.Context, req *CreateUserRequest) (*db.User, error) {
			return s.CreateUser(ctx, req)
		}),
		server.Unary(serviceName, "GetUser", func(s Server, ctx context.Context, req *GetUserRequest) (*db.User, error) {
			return s.GetUser(ctx, req.UserID)
		}),
		server.Unary(serviceName, "ListUsers", func(s Server, ctx context.Context, _ *ListUsersRequest) (*ListUsersResponse, error) {
			users, err := s.ListUsers(ctx)
			if err != nil {
				return nil, err
			}
			return &ListUsersResponse{Users: users}, nil
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dating/v1/profile",
}

// Registrar ties the Profile service into the gRPC server and HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Profile service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Profile service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	s.RegisterService(&serviceDesc, NewProfileService(r.appCtx))
}

// Routes mounts the HTTP endpoints.
func (r *Registrar) Routes(router *mux.Router) {
	svc := NewProfileService(r.appCtx)
	log := r.appCtx.Logger

	router.HandleFunc("/api/users", func(w http.ResponseWriter, req *http.Request) {
		var body CreateUserRequest
		if err := server.DecodeJSON(req, &body); err != nil {
			server.WriteError(w, log, err)
			return
		}
		u, err := svc.CreateUser(req.Context(), &body)
		if err != nil {
			server.WriteError(w, log, err)
			return
		}
		server.WriteJSON(w, http.StatusOK, u)
	}).Methods(http.MethodPost)

	router.HandleFunc("/api/users", func(w http.ResponseWriter, req *http.Request) {
		users, err := svc.ListUsers(req.Context())
		if err != nil {
			server.WriteError(w, log, err)
			return
		}
		server.WriteJSON(w, http.StatusOK, users)
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/users/{user_id}", func(w http.ResponseWriter, req *http.Request) {
		u, err := svc.GetUser(req.Context(), mux.Vars(req)["user_id"])
		if err != nil {
			server.WriteError(w, log, err)
			return
		}
		server.WriteJSON(w, http.StatusOK, u)
	}).Methods(http.MethodGet)
}
