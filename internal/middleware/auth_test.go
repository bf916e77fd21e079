package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailymd-dev/dailymd/internal/domain"
	"github.com/dailymd-dev/dailymd/internal/jwt"
)

func authedHandler(t *testing.T) (http.Handler, jwt.JwtService) {
	t.Helper()
	jwtService := jwt.New("test-secret", time.Hour)
	auth := NewAuth(jwtService)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-User", claims.FullName)
		w.WriteHeader(http.StatusOK)
	})
	return auth.NeedAuth()(next), jwtService
}

func validToken(t *testing.T, jwtService jwt.JwtService) string {
	t.Helper()
	token, err := jwtService.NewToken(&domain.User{Id: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)
	return token
}

func TestNeedAuth_CookieToken(t *testing.T) {
	handler, jwtService := authedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: validToken(t, jwtService)})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ada Lovelace", rec.Header().Get("X-User"))
}

func TestNeedAuth_BearerToken(t *testing.T) {
	handler, jwtService := authedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+validToken(t, jwtService))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNeedAuth_MissingToken(t *testing.T) {
	handler, _ := authedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNeedAuth_InvalidToken(t *testing.T) {
	handler, _ := authedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNeedAuth_TokenSignedWithOtherKey(t *testing.T) {
	handler, _ := authedHandler(t)
	otherService := jwt.New("other-secret", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+validToken(t, otherService))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
