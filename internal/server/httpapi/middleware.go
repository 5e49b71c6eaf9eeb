package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/libris/internal/common"
	"github.com/dmitrijs2005/libris/internal/server/metrics"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const userKey ctxKey = "user"

// UserFromContext returns the user RequireAuth attached to ctx.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

func withUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// RequireAuth resolves the bearer access token to an active user. The user
// is loaded on every request so that role changes and deactivation take
// effect without waiting for the token to expire.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}

		user, err := s.svc.Users.Authenticate(r.Context(), token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

// Authorize checks the authenticated user's role against the route policy.
// It must run after RequireAuth.
func (s *Server) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}

		// chi serves "/api/books/" as "/api/books"; the policy only knows the latter
		path := r.URL.Path
		if len(path) > 1 {
			path = strings.TrimSuffix(path, "/")
		}
		allowed, err := s.authz.Allow(user.Role, path, r.Method)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if !allowed {
			s.logger.Warn(r.Context(), "access denied",
				"user_id", user.ID, "role", string(user.Role), "method", r.Method, "path", path)
			s.writeError(w, r, common.ErrorForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// instrument logs each request and records its latency.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		metrics.RecordHTTPRequest(r.Method, route, status, elapsed)

		s.logger.Debug(r.Context(), "request",
			"request_id", chimiddleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed.String(),
		)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

var errMissingUser = errors.New("no authenticated user in context")

func currentUser(r *http.Request) (*models.User, error) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		return nil, errMissingUser
	}
	return u, nil
}
