package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LaptopStore/pkg/kit"
)

func TestTokenMaker_RoundTrip(t *testing.T) {
	tm := NewTokenMaker("secret")

	tok, err := tm.New("u_1", "a@example.com", kit.RoleAdmin, time.Minute)
	require.NoError(t, err)

	c, err := tm.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u_1", c.UserID)
	assert.Equal(t, kit.RoleAdmin, c.Role)
	assert.Equal(t, tokenIssuer, c.Issuer)
}

func TestTokenMaker_Rejects(t *testing.T) {
	tm := NewTokenMaker("secret")
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tm.now = func() time.Time { return now }

	expired, err := tm.New("u_1", "a@example.com", kit.RoleCustomer, time.Minute)
	require.NoError(t, err)

	otherSecret, err := NewTokenMaker("other").New("u_1", "a@example.com", kit.RoleCustomer, time.Hour)
	require.NoError(t, err)

	badRole, err := tm.New("u_1", "a@example.com", "root", time.Hour)
	require.NoError(t, err)

	noUser, err := tm.New("", "a@example.com", kit.RoleCustomer, time.Hour)
	require.NoError(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u_1", Role: kit.RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	})
	foreignTok, err := foreign.SignedString([]byte("secret"))
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u_1", Role: kit.RoleCustomer})
	noneTok, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)

	for name, tok := range map[string]string{
		"expired":      expired,
		"other secret": otherSecret,
		"bad role":     badRole,
		"no user":      noUser,
		"issuer":       foreignTok,
		"alg none":     noneTok,
		"garbage":      "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tm.Parse(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestBearerToken(t *testing.T) {
	r, _ := http.NewRequest(http.MethodGet, "/", nil)

	_, ok := BearerToken(r)
	assert.False(t, ok)

	r.Header.Set("Authorization", "Basic abc")
	_, ok = BearerToken(r)
	assert.False(t, ok)

	r.Header.Set("Authorization", "Bearer abc")
	tok, ok := BearerToken(r)
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)
}
