package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *Issuer {
	return &Issuer{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Issuer:        "projectdesk-test",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}
}

func TestIssueAndVerifyPair(t *testing.T) {
	j := newTestIssuer()
	pair, err := j.IssuePair("uid-1", "user")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	claims, err := j.VerifyAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UID)
	assert.Equal(t, "user", claims.Role)

	rc, err := j.VerifyRefresh(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", rc.UID)
}

func TestVerifyAccessRejectsRefreshToken(t *testing.T) {
	j := newTestIssuer()
	refresh, err := j.IssueRefresh("uid-1")
	require.NoError(t, err)

	_, err = j.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	j := newTestIssuer()
	other := newTestIssuer()
	other.AccessSecret = []byte("a completely different secret")

	token, err := j.IssueAccess("uid-1", "user")
	require.NoError(t, err)

	_, err = other.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyExpired(t *testing.T) {
	j := newTestIssuer()
	j.AccessTTL = -time.Second // 签出来就已过期

	token, err := j.IssueAccess("uid-1", "user")
	require.NoError(t, err)

	_, err = j.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyMalformed(t *testing.T) {
	j := newTestIssuer()
	_, err := j.VerifyAccess("not-a-jwt")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestVerifyNotYetValid(t *testing.T) {
	j := newTestIssuer()
	now := time.Now()
	claims := Claims{
		UID: "uid-1",
		Typ: typAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   "uid-1",
			NotBefore: jwt.NewNumericDate(now.Add(time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.AccessSecret)
	require.NoError(t, err)

	_, err = j.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrNotYetValid)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	j := newTestIssuer()
	other := newTestIssuer()
	other.Issuer = "someone-else"

	token, err := other.IssueAccess("uid-1", "user")
	require.NoError(t, err)

	_, err = j.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrInvalid)
}
