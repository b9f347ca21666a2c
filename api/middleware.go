// Package api exposes the service over HTTP. Handlers translate
// requests into service calls and service errors into status codes;
// they hold no business rules of their own.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"chat-hub/auth"
	"chat-hub/observability"
)

type contextKey string

const userIDKey contextKey = "user_id"

// ActorID returns the authenticated user id installed by Authenticate.
func ActorID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// Authenticate validates the bearer token and stores the caller's id in
// the request context. Everything behind it can assume an identified
// caller; the ban check stays with the services.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeMessage(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logging records every request with its duration and status.
func Logging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

// Metrics feeds the monitoring counters from the edge: every response
// is counted, successful creations bump the matching domain counter.
func Metrics(mm *observability.MonitoringManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			mm.IncrRequestsServed()
			if rec.status >= 400 {
				mm.IncrRequestsFailed()
				return
			}
			if r.Method != http.MethodPost || rec.status != http.StatusCreated {
				return
			}
			switch {
			case r.URL.Path == "/auth/register":
				mm.IncrAccountsCreated()
			case r.URL.Path == "/group":
				mm.IncrGroupsCreated()
			case strings.HasPrefix(r.URL.Path, "/chat/"):
				mm.IncrMessagesSent()
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
