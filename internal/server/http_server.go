package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/oggyb/muzz-dating/internal/config"
	"github.com/oggyb/muzz-dating/internal/store"
)

// NewHTTPHandler builds the router: banner and diagnostics endpoints, every
// registrar's routes, request logging and CORS.
func NewHTTPHandler(cfg *config.Config, log *slog.Logger, st *store.Store, registrars ...Registrar) http.Handler {
	r := mux.NewRouter()
	r.Use(loggingMiddleware(log))

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"message": "Dating API running"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/test", func(w http.ResponseWriter, req *http.Request) {
		WriteJSON(w, http.StatusOK, struct {
			Backend string `json:"backend"`
			store.Diagnostics
		}{Backend: "Running", Diagnostics: st.Diagnose(req.Context())})
	}).Methods(http.MethodGet)

	for _, reg := range registrars {
		reg.Routes(r)
	}

	return cors.New(cors.Options{
		AllowedOrigins:   cfg.HTTP.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(r)
}

// StartHTTPServer serves handler until ctx is done, then shuts down gracefully.
func StartHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server on %s: %w", srv.Addr, err)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs every request with method, path, status and latency.
func loggingMiddleware(log *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			level := slog.LevelDebug
			switch {
			case rec.status >= 500:
				level = slog.LevelError
			case rec.status >= 400:
				level = slog.LevelWarn
			}
			log.Log(r.Context(), level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"latency", time.Since(start),
			)
		})
	}
}
