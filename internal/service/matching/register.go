package matching

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"google.golang.org/grpc"

	"github.com/oggyb/muzz-dating/internal/app"
	"github.com/oggyb/muzz-dating/internal/db"
	"github.com/oggyb/muzz-dating/internal/server"
)

const serviceName = "dating.v1.MatchingService"

// RecordLikeRequest is a like from LikerID to LikedID.
type RecordLikeRequest struct {
	LikerID string `json:"liker_id"`
	LikedID string `json:"liked_id"`
}

// UserRequest addresses a per-user query.
type UserRequest struct {
	UserID string `json:"user_id"`
}

// ListMatchesResponse lists a user's matches in insertion order.
type ListMatchesResponse struct {
	Matches []db.Match `json:"matches"`
}

// CountLikesResponse carries the number of distinct likers.
type CountLikesResponse struct {
	Count int64 `json:"count"`
}

// Server is the gRPC handler contract for MatchingService.
type Server interface {
	RecordLike(ctx context.Context, likerID, likedID string) (*LikeResult, error)
	ListMatchesForUser(ctx context.Context, userID string) ([]db.Match, error)
	CountLikesReceived(ctx context.Context, userID string) (int64, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		server.Unary(serviceName, "RecordLike", func(s Server, ctx context.Context, req *RecordLikeRequest) (*LikeResult, error) {
			return s.RecordLike(ctx, req.LikerID, req.LikedID)
		}),
		server.Unary(serviceName, "ListMatches", func(s Server, ctx context.Context, req *UserRequest) (*ListMatchesResponse, error) {
			matches, err := s.ListMatchesForUser(ctx, req.UserID)
			if err != nil {
				return nil, err
			}
			return &ListMatchesResponse{Matches: matches}, nil
		}),
		server.Unary(serviceName, "CountLikesReceived", func(s Server, ctx context.Context, req *UserRequest) (*CountLikesResponse, error) {
			n, err := s.CountLikesReceived(ctx, req.UserID)
			if err != nil {
				return nil, err
			}
			return &CountLikesResponse{Count: n}, nil
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dating/v1/matching",
}

// Registrar ties the Matching service into the gRPC server and HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Matching service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Matching service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	s.RegisterService(&serviceDesc, NewMatchingService(r.appCtx))
}

// Routes mounts the HTTP endpoints.
func (r *Registrar) Routes(router *mux.Router) {
	svc := NewMatchingService(r.appCtx)
	log := r.appCtx.Logger

	router.HandleFunc("/api/likes", func(w http.ResponseWriter, req *http.Request) {
		var body RecordLikeRequest
		if err := server.DecodeJSON(req, &body); err != nil {
			server.WriteError(w, log, err)
			return
		}
		res, err := svc.RecordLike(req.Context(), body.LikerID, body.LikedID)
		if err != nil {
			server.WriteError(w, log, err)
			return
		}
		server.WriteJSON(w, http.StatusOK, res)
	}).Methods(http.MethodPost)

	router.HandleFunc("/api/matches/{user_id}", func(w http.ResponseWriter, req *http.Request) {
		matches, err := svc.ListMatchesForUser(req.Context(), mux.Vars(req)["user_id"])
		if err != nil {
			server.WriteError(w, log, err)
			return
		}
		server.WriteJSON(w, http.StatusOK, matches)
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/users/{user_id}/likes/count", func(w http.ResponseWriter, req *http.Request) {
		n, err := svc.CountLikesReceived(req.Context(), mux.Vars(req)["user_id"])
		if err != nil {
			server.WriteError(w, log, err)
			return
		}
		server.WriteJSON(w, http.StatusOK, CountLikesResponse{Count: n})
	}).Methods(http.MethodGet)
}
