package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

// VoterIDKey carries the opaque voter token through the request
// context. The token only serves as an equality key; it is not
// authenticated and identifies nobody.
const VoterIDKey contextKey = "voterID"

const voterCookieName = "voter_token"

// VoterToken issues a random 128-bit voter token as a long-lived cookie
// on first contact and exposes it to handlers via the request context.
func VoterToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if c, err := r.Cookie(voterCookieName); err == nil && c.Value != "" {
			token = c.Value
		} else {
			token = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     voterCookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   180 * 24 * 60 * 60,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), VoterIDKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
