package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	svcErr "github.com/oggyb/muzz-dating/internal/errors"
)

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to its outward status and writes {"detail": msg}.
// Server-side failures are logged with the full error.
func WriteError(w http.ResponseWriter, log *slog.Logger, err error) {
	code, msg := svcErr.HTTPStatus(err)
	if code >= http.StatusInternalServerError {
		log.Error("request failed", "status", code, "err", err)
	}
	WriteJSON(w, code, map[string]string{"detail": msg})
}

// DecodeJSON reads the request body into v. A malformed body is reported as
// a validation error on "body".
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return svcErr.Invalid("body", "must be a valid JSON object")
	}
	return nil
}
