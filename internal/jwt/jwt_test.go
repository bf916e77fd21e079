package jwt

import (
	"net/http"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailymd-dev/dailymd/internal/domain"
	internal_errors "github.com/dailymd-dev/dailymd/internal/errors"
)

const testSecret = "test-secret"

func testUser() *domain.User {
	return &domain.User{Id: 42, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
}

func TestNewTokenAndDecodeClaims(t *testing.T) {
	j := New(testSecret, time.Hour)

	tokenStr, err := j.NewToken(testUser())
	require.NoError(t, err)

	claims, err := j.DecodeClaims(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, domain.UserId(42), claims.UserId)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada Lovelace", claims.FullName)
}

func TestDecodeClaims_WrongSecret(t *testing.T) {
	tokenStr, err := New(testSecret, time.Hour).NewToken(testUser())
	require.NoError(t, err)

	_, err = New("other-secret", time.Hour).DecodeClaims(tokenStr)
	assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
}

func TestDecodeClaims_ExpiredToken(t *testing.T) {
	tokenStr, err := New(testSecret, -time.Minute).NewToken(testUser())
	require.NoError(t, err)

	_, err = New(testSecret, -time.Minute).DecodeClaims(tokenStr)
	assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
}

func TestDecodeClaims_GarbageToken(t *testing.T) {
	_, err := New(testSecret, time.Hour).DecodeClaims("not a token")
	assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
}

// A token missing any single claim is invalid as a whole.
func TestDecodeClaims_MissingClaimInvalidatesToken(t *testing.T) {
	full := gojwt.MapClaims{
		"uid":       float64(42),
		"email":     "ada@example.com",
		"full_name": "Ada Lovelace",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}

	j := New(testSecret, time.Hour)
	for claim := range full {
		t.Run("missing "+claim, func(t *testing.T) {
			partial := gojwt.MapClaims{}
			for k, v := range full {
				if k != claim {
					partial[k] = v
				}
			}
			tokenStr, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, partial).SignedString([]byte(testSecret))
			require.NoError(t, err)

			_, err = j.DecodeClaims(tokenStr)
			assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
		})
	}
}

func TestDecodeClaims_RejectsUnsignedToken(t *testing.T) {
	tokenStr, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{
		"uid":       float64(42),
		"email":     "ada@example.com",
		"full_name": "Ada Lovelace",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = New(testSecret, time.Hour).DecodeClaims(tokenStr)
	assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
}
