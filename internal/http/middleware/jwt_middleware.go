package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/SahanaD8/Trackify/internal/http/response"
	"github.com/SahanaD8/Trackify/pkg/auth"
)

type ctxKey string

const CtxClaims ctxKey = "claims"

// RequireRole verifies the bearer token and checks that the caller holds
// one of the allowed roles before passing the request on. The parsed
// claims are stored in the request context for handlers.
func RequireRole(secret string, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				response.Unauthorized(w, "invalid authorization header")
				return
			}
			raw := strings.TrimPrefix(authz, "Bearer ")
			claims, err := auth.Parse(raw, secret)
			if err != nil {
				response.Unauthorized(w, "invalid authorization token")
				return
			}
			if len(allowed) > 0 && !allowed[claims.Role] {
				response.Forbidden(w, "insufficient permissions")
				return
			}
			ctx := context.WithValue(r.Context(), CtxClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func Claims(r *http.Request) *auth.Claims {
	v := r.Context().Value(CtxClaims)
	if v == nil {
		return nil
	}
	return v.(*auth.Claims)
}
