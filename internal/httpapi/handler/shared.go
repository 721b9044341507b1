package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vntrieu/werewolf/internal/auth"
)

// contextKey type for request context keys (avoids collisions with other packages).
type contextKey string

// ClaimsContextKey is the context key for the verified player token (set by RequirePlayer middleware).
const ClaimsContextKey contextKey = "player_claims"

// ClaimsFromRequest returns the verified player claims if set by the auth middleware; otherwise nil.
func ClaimsFromRequest(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(ClaimsContextKey).(*auth.Claims)
	return claims
}

// requestID returns the request ID from chi's context for logging.
func requestID(r *http.Request) string {
	if id, ok := r.Context().Value(middleware.RequestIDKey).(string); ok {
		return id
	}
	return ""
}

func requestLogger(log zerolog.Logger, r *http.Request) *zerolog.Logger {
	l := log.With().Str("request_id", requestID(r)).Logger()
	return &l
}

func writeJSON(w http.ResponseWriter, r *http.Request, log zerolog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		requestLogger(log, r).Warn().Err(err).Msg("encode response")
	}
}
