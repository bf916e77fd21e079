package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dailymd-dev/dailymd/internal/jwt"
	"github.com/dailymd-dev/dailymd/internal/utils"

	internal_errors "github.com/dailymd-dev/dailymd/internal/errors"
)

// Key to store the session claims in the request context
type key int

const ClaimsKey key = 0

type Auth struct {
	jwtService jwt.JwtService
}

func NewAuth(jwtService jwt.JwtService) *Auth {
	return &Auth{jwtService}
}

var errNoToken = &internal_errors.ErrorWithStatusCode{
	Message:    "You need to be logged in to use this feature.",
	StatusCode: http.StatusUnauthorized,
}

// NeedAuth returns middleware that requires a valid session token. A token
// missing any claim is rejected outright.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := a.extractClaims(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *Auth) extractClaims(r *http.Request) (*jwt.Claims, error) {
	var tokenString string
	if accessCookie, err := r.Cookie("accessToken"); err == nil {
		tokenString = accessCookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}

	if tokenString == "" {
		return nil, errNoToken
	}
	return a.jwtService.DecodeClaims(tokenString)
}

// ClaimsFromContext returns the session claims stored by NeedAuth.
func ClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims)
	return claims, ok
}
