package server

import (
	"github.com/gorilla/mux"
	"google.golang.org/grpc"
)

// Registrar is a common interface for all service registrars.
// Each service exposes the same operations over gRPC and HTTP.
type Registrar interface {
	Register(s *grpc.Server)
	Routes(r *mux.Router)
}
