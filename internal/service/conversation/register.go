package conversation

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"google.golang.org/grpc"

	"github.com/oggyb/muzz-dating/internal/app"
	"github.com/oggyb/muzz-dating/internal/db"
	"github.com/oggyb/muzz-dating/internal/server"
)

const serviceName = "dating.v1.ConversationService"

// SendMessageRequest posts Text to a match on behalf of SenderID.
type SendMessageRequest struct {
	MatchID  string `json:"match_id"`
	SenderID string `json:"sender_id"`
	Text     string `json:"text"`
}

// ListMessagesRequest names the match whose history to read.
type ListMessagesRequest struct {
	MatchID string `json:"match_id"`
}

// ListMessagesResponse holds a match's messages oldest first.
type ListMessagesResponse struct {
	Messages []db.Message `json:"messages"`
}

// Server is the gRPC handler contract for ConversationService.
type Server interface {
	SendMessage(ctx context.Context, matchID, senderID, text string) (*db.Message, error)
	ListMessages(ctx context.Context, matchID string) ([]db.Message, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		server.Unary(serviceName, "SendMessage", func(s Server, ctx context.Context, req *SendMessageRequest) (*db.Message, error) {
			return s.SendMessage(ctx, req.MatchID, req.SenderID, req.Text)
		}),
		server.Unary(serviceName, "ListMessages", func(s Server, ctx context.Context, req *ListMessagesRequest) (*ListMessagesResponse, error) {
			msgs, err := s.ListMessages(ctx, req.MatchID)
			if err != nil {
				return nil, err
			}
			return &ListMessagesResponse{Messages: msgs}, nil
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dating/v1/conversation",
}

// Registrar ties the Conversation service into the gRPC server and HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Conversation service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Conversation service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	s.RegisterService(&serviceDesc, NewConversationService(r.appCtx))
}

// Routes mounts the HTTP endpoints.
func (r *Registrar) Routes(router *mux.Router) {
	svc := NewConversationService(r.appCtx)
	log := r.appCtx.Logger

	router.HandleFunc("/api/messages", func(w http.ResponseWriter, req *http.Request) {
		var body SendMessageRequest
		if err := server.DecodeJSON(req, &body); err != nil {
			server.WriteError(w, log, err)
			return
		}
		msg, err := svc.SendMessage(req.Context(), body.MatchID, body.SenderID, body.Text)
		if err != nil {
			server.WriteError(w, log, err)
			return
		}
		server.WriteJSON(w, http.StatusOK, msg)
	}).Methods(http.MethodPost)

	router.HandleFunc("/api/messages/{match_id}", func(w http.ResponseWriter, req *http.Request) {
		msgs, err := svc.ListMessages(req.Context(), mux.Vars(req)["match_id"])
		if err != nil {
			server.WriteError(w, log, err)
			return
		}
		server.WriteJSON(w, http.StatusOK, msgs)
	}).Methods(http.MethodGet)
}
