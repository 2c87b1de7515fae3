package middleware

import (
	"context"
	"net/http"
	"strings"

	"hrms/internal/domain/auth"
	"hrms/internal/transport/http/api"
)

type ctxKeyType string

const ctxKeySession ctxKeyType = "session"

// Session is the decoded bearer token attached to the request context.
type Session struct {
	EmployeeID string
	Name       string
	Role       string
}

// Restricted reports whether this session came from a
// must-change-password token.
func (s Session) Restricted() bool {
	return s.Role == auth.RoleChangePassword
}

// Authenticate verifies the bearer token on every protected request.
// A missing credential and an invalid or expired one are reported with
// distinct codes; handlers past this point never see the difference.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.Fail(w, http.StatusUnauthorized, "token_missing", "authentication required", GetRequestID(r.Context()))
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				api.Fail(w, http.StatusUnauthorized, "token_invalid", "invalid authorization header", GetRequestID(r.Context()))
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				api.Fail(w, http.StatusUnauthorized, "token_invalid", "invalid or expired token", GetRequestID(r.Context()))
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeySession, Session{
				EmployeeID: claims.EmployeeID,
				Name:       claims.Name,
				Role:       claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSession(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(ctxKeySession).(Session)
	return session, ok
}

// RequireFull rejects restricted must-change-password sessions; they
// may only reach the change-password endpoint.
func RequireFull(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSession(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "token_missing", "authentication required", GetRequestID(r.Context()))
			return
		}
		if session.Restricted() {
			api.Fail(w, http.StatusForbidden, "forbidden", "password change required before access", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin gates mutating operations. The request was identified
// but insufficiently privileged, so the failure is 403, not 401.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSession(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "token_missing", "authentication required", GetRequestID(r.Context()))
			return
		}
		if session.Role != auth.RoleAdmin {
			api.Fail(w, http.StatusForbidden, "forbidden", "admin role required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
