package jwt

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dailymd-dev/dailymd/internal/domain"
	internal_errors "github.com/dailymd-dev/dailymd/internal/errors"
	"github.com/dailymd-dev/dailymd/internal/logger"
)

type JwtService interface {
	NewToken(user *domain.User) (string, error)
	DecodeClaims(jwtStr string) (*Claims, error)
}

// Claims are the minimum facts needed to re-derive identity and display
// name without a storage lookup on every request.
type Claims struct {
	UserId   domain.UserId
	Email    string
	FullName string
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) JwtService {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) NewToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{}
	claims["uid"] = user.Id
	claims["email"] = user.Email
	claims["full_name"] = user.FullName()
	claims["exp"] = time.Now().Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", &internal_errors.ErrorWithStatusCode{Message: "Can't create token", StatusCode: http.StatusInternalServerError}
	}

	return tokenString, nil
}

// DecodeClaims parses and verifies a session token. A token missing any of
// its claims is invalid as a whole, not just in the missing field.
func (j *Jwt) DecodeClaims(jwtStr string) (*Claims, error) {
	unauthorized := &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}

	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "Unexpected signing method", StatusCode: http.StatusUnauthorized}
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		logger.Log.Debug("token parse failed", "error", err)
		return nil, unauthorized
	}
	if !token.Valid {
		return nil, unauthorized
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, unauthorized
	}

	// jwt.Parse already rejects expired tokens, but only when the exp
	// claim is present. Require it explicitly.
	if _, ok := mapClaims["exp"].(float64); !ok {
		return nil, unauthorized
	}
	uid, ok := mapClaims["uid"].(float64)
	if !ok {
		return nil, unauthorized
	}
	email, ok := mapClaims["email"].(string)
	if !ok {
		return nil, unauthorized
	}
	fullName, ok := mapClaims["full_name"].(string)
	if !ok {
		return nil, unauthorized
	}

	return &Claims{
		UserId:   domain.UserId(uid),
		Email:    email,
		FullName: fullName,
	}, nil
}
