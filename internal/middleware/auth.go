package middleware

import (
	"context"
	"net/http"
	"strings"

	"dashboard/internal/auth"
	"dashboard/internal/utils"
)

type ctxKey string

const identityKey ctxKey = "identity"

// IdentityFrom returns the verified identity stored by Authenticate.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// WithIdentity returns a context carrying the given identity. Used by
// Authenticate and by tests exercising handlers directly.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Authenticate verifies the Bearer token on each request and pushes the
// identity into the request context. A missing token yields 401, a bad
// or expired one 403.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				utils.JSONError(w, http.StatusUnauthorized, "No token provided")
				return
			}

			id, err := auth.Verify(secret, token)
			if err != nil {
				utils.JSONError(w, http.StatusForbidden, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAdmin rejects non-admin identities. Must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			utils.JSONError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if !id.IsAdmin() {
			utils.JSONError(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
