package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediflow/hms-gateway/internal/model"
)

func testStore(secret string) *Store {
	return &Store{secret: []byte(secret), ttl: time.Hour}
}

func mintToken(t *testing.T, secret string, claims sessionClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims() sessionClaims {
	now := time.Now()
	return sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			Subject:   "drhouse",
		},
		SessionID: "b3b9c0de-0000-4000-8000-000000000001",
		Username:  "drhouse",
		Role:      model.RoleDoctor,
	}
}

func TestParseTokenRoundTrip(t *testing.T) {
	store := testStore("secret-key")
	token := mintToken(t, "secret-key", validClaims())

	claims, err := store.parseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "b3b9c0de-0000-4000-8000-000000000001", claims.SessionID)
	assert.Equal(t, "drhouse", claims.Username)
	assert.Equal(t, model.RoleDoctor, claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	store := testStore("secret-key")
	token := mintToken(t, "other-key", validClaims())

	_, err := store.parseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	store := testStore("secret-key")
	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	token := mintToken(t, "secret-key", claims)

	_, err := store.parseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsMissingSessionID(t *testing.T) {
	store := testStore("secret-key")
	claims := validClaims()
	claims.SessionID = ""
	token := mintToken(t, "secret-key", claims)

	_, err := store.parseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsUnsignedAlgorithm(t *testing.T) {
	store := testStore("secret-key")
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims()).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = store.parseToken(token)
	assert.Error(t, err)
}

// Every malformed credential restores to the logged-out state, never an
// internal error.
func TestLoadFailsOpenOnGarbageToken(t *testing.T) {
	store := testStore("secret-key")

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := store.Load(context.Background(), token)
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	}
}

// A token that no longer parses destroys to a no-op rather than an error.
func TestDestroyIgnoresInvalidToken(t *testing.T) {
	store := testStore("secret-key")
	assert.NoError(t, store.Destroy(context.Background(), "garbage"))
}
