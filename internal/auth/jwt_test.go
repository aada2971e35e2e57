package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/dataroom/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("secret")
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tok, exp, err := generateToken("u1", "alice", secret, now, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	claims, err := parseToken(tok, secret, func() time.Time { return now.Add(time.Minute) })
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "u1", claims.Subject)

	_, err = parseToken(tok, secret, func() time.Time { return now.Add(2 * time.Hour) })
	assert.ErrorIs(t, err, common.ErrSessionExpired)

	_, err = parseToken(tok, []byte("other"), func() time.Time { return now })
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = parseToken("not-a-jwt", secret, time.Now)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		UserID:           "u1",
	})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = parseToken(s, []byte("secret"), time.Now)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_RequiresExpiry(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u1"})
	s, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = parseToken(s, []byte("secret"), time.Now)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
