package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/oggyb/muzz-dating/internal/config"
)

// HealthCheck reports whether the backing store is usable.
type HealthCheck func(ctx context.Context) error

// NewGRPCServer builds a gRPC server with every registrar attached, plus the
// standard health and reflection services.
func NewGRPCServer(log *slog.Logger, registrars ...Registrar) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(log)))

	// register all services
	for _, r := range registrars {
		r.Register(grpcServer)
	}

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	// enable reflection for easier debugging with grpcurl
	reflection.Register(grpcServer)

	return grpcServer, hs
}

// StartGRPCServer boots a gRPC server and serves until ctx is done.
func StartGRPCServer(ctx context.Context, cfg *config.Config, log *slog.Logger, check HealthCheck, registrars ...Registrar) error {
	addr := fmt.Sprintf("%s:%s", cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	grpcServer, hs := NewGRPCServer(log, registrars...)
	go WatchHealth(ctx, hs, check, 30*time.Second, log)

	go func() {
		<-ctx.Done()
		hs.Shutdown()
		grpcServer.GracefulStop()
	}()

	return grpcServer.Serve(lis)
}

// WatchHealth runs check immediately and then every interval, publishing the
// result as the overall serving status. It returns when ctx is done.
func WatchHealth(ctx context.Context, hs *health.Server, check HealthCheck, interval time.Duration, log *slog.Logger) {
	update := func() {
		st := healthpb.HealthCheckResponse_SERVING
		if check != nil {
			if err := check(ctx); err != nil {
				log.Warn("health check failed", "err", err)
				st = healthpb.HealthCheckResponse_NOT_SERVING
			}
		}
		hs.SetServingStatus("", st)
	}

	update()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			update()
		}
	}
}

func loggingInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		attrs := []any{"method", info.FullMethod, "code", code.String(), "latency", time.Since(start)}
		if err != nil {
			log.Warn("grpc call failed", append(attrs, "err", err)...)
		} else {
			log.Debug("grpc call", attrs...)
		}
		return resp, err
	}
}
