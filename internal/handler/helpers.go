package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dailymd-dev/dailymd/internal/errors"
	"github.com/dailymd-dev/dailymd/internal/jwt"
	"github.com/dailymd-dev/dailymd/internal/middleware"
)

// idParam reads a numeric URL parameter. Non-numeric values are a 400, not
// a 404, so typos in hand-built URLs are reported as such.
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &errors.ErrorWithStatusCode{
			Message:    "The " + name + " submitted is not a valid ID.",
			StatusCode: http.StatusBadRequest,
		}
	}
	return id, nil
}

// pageParam reads the page query parameter. Anything unparseable counts as
// page zero; negative pages are clamped by the pagination layer.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 0
	}
	return page
}

func sessionClaims(r *http.Request) (*jwt.Claims, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return nil, &errors.ErrorWithStatusCode{
			Message:    "You need to be logged in to use this feature.",
			StatusCode: http.StatusUnauthorized,
		}
	}
	return claims, nil
}
