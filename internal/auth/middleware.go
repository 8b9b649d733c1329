package auth

import (
	"net/http"

	contextx "github.com/icaliwag/pasokit/internal/context"
	"github.com/icaliwag/pasokit/internal/pkg/message"
	"github.com/icaliwag/pasokit/internal/pkg/security"
	"github.com/icaliwag/pasokit/internal/pkg/web"
	"github.com/icaliwag/pasokit/internal/platform/jwt"
)

// RequireToken guards a route behind a valid Bearer token. The verified
// user ID is placed in the request context for downstream handlers.
func RequireToken(signer jwt.Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := security.ExtractBearerToken(r)
			if err != nil || token == "" {
				web.Fail(w, http.StatusUnauthorized, err, message.TokenMissing, nil)
				return
			}

			claims, err := signer.Verify(token)
			if err != nil {
				web.Fail(w, http.StatusUnauthorized, err, message.TokenInvalid, nil)
				return
			}

			ctx := contextx.NewContextWithUser(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
