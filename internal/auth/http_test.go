package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"LaptopStore/pkg/kit"
)

func newTestStore() *MemStore {
	s := NewMemStore()
	s.cost = bcrypt.MinCost
	return s
}

func newTestServer(t *testing.T, store UserStore) *httptest.Server {
	t.Helper()

	s := &Server{Store: store, JWT: NewTokenMaker("secret")}
	ts := httptest.NewServer(NewHandler(s, HTTPDeps{Log: zap.NewNop(), Service: "auth"}))
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url string, body any) (*http.Response, []byte) {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw bytes.Buffer
	_, err = raw.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, raw.Bytes()
}

func TestRegisterLoginWhoami(t *testing.T) {
	ts := newTestServer(t, newTestStore())

	resp, raw := post(t, ts.URL+"/auth/register", map[string]any{"email": " Buyer@Example.com ", "password": "password123"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var reg registerResp
	require.NoError(t, json.Unmarshal(raw, &reg))
	assert.Equal(t, kit.RoleCustomer, reg.Role)

	resp, _ = post(t, ts.URL+"/auth/register", map[string]any{"email": "buyer@example.com", "password": "password123"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = post(t, ts.URL+"/auth/login", map[string]any{"email": "buyer@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, raw = post(t, ts.URL+"/auth/login", map[string]any{"email": "buyer@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login loginResp
	require.NoError(t, json.Unmarshal(raw, &login))
	require.NotEmpty(t, login.AccessToken)
	assert.Equal(t, int(DefaultTokenTTL.Seconds()), login.ExpiresIn)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/auth/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	wresp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer wresp.Body.Close()
	require.Equal(t, http.StatusOK, wresp.StatusCode)

	var who map[string]any
	require.NoError(t, json.NewDecoder(wresp.Body).Decode(&who))
	assert.Equal(t, reg.UserID, who["user_id"])
	assert.Equal(t, kit.RoleCustomer, who["role"])
}

func TestRegister_Validation(t *testing.T) {
	ts := newTestServer(t, newTestStore())

	resp, _ := post(t, ts.URL+"/auth/register", map[string]any{"email": "a@example.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, ts.URL+"/auth/register", map[string]any{"email": "", "password": "password123"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, ts.URL+"/auth/register", map[string]any{"email": "a@example.com", "password": "password123", "role": "admin"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, EnsureAdmin(ctx, store, "u_admin", "admin@example.com", "adminpass1", nil))
	u, err := store.Verify(ctx, "admin@example.com", "adminpass1")
	require.NoError(t, err)
	assert.Equal(t, kit.RoleAdmin, u.Role)

	require.NoError(t, store.Create(ctx, NewUser{ID: "u_2", Email: "ops@example.com", Password: "opspass12", Role: kit.RoleCustomer}))
	require.NoError(t, EnsureAdmin(ctx, store, "u_ignored", "ops@example.com", "different1", nil))

	u, err = store.Verify(ctx, "ops@example.com", "opspass12")
	require.NoError(t, err)
	assert.Equal(t, "u_2", u.ID)
	assert.Equal(t, kit.RoleAdmin, u.Role)

	ts := newTestServer(t, store)
	resp, raw := post(t, ts.URL+"/auth/login", map[string]any{"email": "admin@example.com", "password": "adminpass1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login loginResp
	require.NoError(t, json.Unmarshal(raw, &login))
	assert.Equal(t, kit.RoleAdmin, login.Role)
}

func TestMemStore_Roles(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	err := store.Create(ctx, NewUser{ID: "u_1", Email: "x@example.com", Password: "password123", Role: "root"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	assert.ErrorIs(t, store.SetRole(ctx, "missing@example.com", kit.RoleAdmin), ErrUserNotFound)
}

func TestLogin_RateLimited(t *testing.T) {
	ts := newTestServer(t, newTestStore())

	var last int
	for i := 0; i < loginLimitPerMin+1; i++ {
		resp, _ := post(t, ts.URL+"/auth/login", map[string]any{"email": "nobody@example.com", "password": "password123"})
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
