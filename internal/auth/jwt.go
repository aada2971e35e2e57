package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dataroom/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the standard claims plus the user identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	Username string `json:"usr"`
}

func generateToken(userID, username string, secret []byte, issuedAt time.Time, ttl time.Duration) (string, time.Time, error) {
	expires := issuedAt.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UserID:   userID,
		Username: username,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires.Truncate(time.Second), nil
}

// parseToken validates signature, algorithm and expiry. Expired tokens map
// to common.ErrSessionExpired, anything else invalid to common.ErrInvalidToken.
func parseToken(tokenString string, secret []byte, now func() time.Time) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
