package gateway_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"LaptopStore/internal/auth"
	"LaptopStore/internal/cart"
	"LaptopStore/internal/catalog"
	"LaptopStore/internal/gateway"
	"LaptopStore/internal/pricing"
	"LaptopStore/pkg/kit"
)

const (
	adminEmail = "admin@example.com"
	adminPass  = "adminpass123"
)

func newAuthTS(t *testing.T, jwtSecret string) *httptest.Server {
	t.Helper()

	store := auth.NewStore()
	if err := auth.EnsureAdmin(context.Background(), store, "u_admin", adminEmail, adminPass, nil); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	s := &auth.Server{
		Log:   zap.NewNop(),
		Store: store,
		JWT:   auth.NewTokenMaker(jwtSecret),
	}

	h := auth.NewHandler(s, auth.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "auth",
	})

	return httptest.NewServer(h)
}

func newCatalogTS(t *testing.T) *httptest.Server {
	t.Helper()

	store := catalog.NewStore()
	s := &catalog.Server{
		Store:   store,
		Pricing: pricing.NewProvider(catalog.PricingSource(store), pricing.ProviderDeps{}),
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "catalog",
	})

	return httptest.NewServer(h)
}

func newCartTS(t *testing.T, catalogURL string) *httptest.Server {
	t.Helper()

	s := &cart.Server{
		Store:   cart.NewStore(),
		Catalog: cart.NewCatalogClient(catalogURL),
	}

	h := cart.NewHandler(s, cart.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "cart",
	})

	return httptest.NewServer(h)
}

func newGatewayTS(t *testing.T, jwtSecret, authURL, catalogURL, cartURL string) *httptest.Server {
	t.Helper()

	h, err := gateway.NewHandler(
		gateway.Deps{
			JWTSecret:  jwtSecret,
			AuthURL:    authURL,
			CatalogURL: catalogURL,
			CartURL:    cartURL,
		},
		gateway.HTTPDeps{
			Log:     zap.NewNop(),
			Service: "gateway",
		},
	)
	if err != nil {
		t.Fatalf("gateway.NewHandler: %v", err)
	}

	return httptest.NewServer(h)
}

type stack struct {
	gw *httptest.Server
}

func newStack(t *testing.T) stack {
	t.Helper()
	const jwtSecret = "test-secret"

	authTS := newAuthTS(t, jwtSecret)
	t.Cleanup(authTS.Close)

	catalogTS := newCatalogTS(t)
	t.Cleanup(catalogTS.Close)

	cartTS := newCartTS(t, catalogTS.URL)
	t.Cleanup(cartTS.Close)

	gwTS := newGatewayTS(t, jwtSecret, authTS.URL, catalogTS.URL, cartTS.URL)
	t.Cleanup(gwTS.Close)

	return stack{gw: gwTS}
}

func doJSON(t *testing.T, c *http.Client, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func login(t *testing.T, c *http.Client, base, email, password string) string {
	t.Helper()

	resp, raw := doJSON(t, c, http.MethodPost, base+"/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status=%d body=%s", resp.StatusCode, string(raw))
	}

	var lr struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &lr); err != nil {
		t.Fatalf("decode login: %v body=%s", err, string(raw))
	}
	if lr.AccessToken == "" {
		t.Fatalf("empty access_token")
	}
	return lr.AccessToken
}

func bearer(tok string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + tok}
}

func TestGateway_PublicAPI_HappyPath(t *testing.T) {
	s := newStack(t)
	c := &http.Client{}

	{
		resp, raw := doJSON(t, c, http.MethodPost, s.gw.URL+"/auth/register", map[string]any{
			"email":    "user@example.com",
			"password": "password123",
		}, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("register status=%d body=%s", resp.StatusCode, string(raw))
		}
	}

	token := login(t, c, s.gw.URL, "user@example.com", "password123")

	{
		resp, raw := doJSON(t, c, http.MethodGet, s.gw.URL+"/products/lp-1/upgrades", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("upgrades status=%d body=%s", resp.StatusCode, string(raw))
		}

		var u catalog.Upgrades
		if err := json.Unmarshal(raw, &u); err != nil {
			t.Fatalf("decode upgrades: %v", err)
		}
		if len(u.RAM) != 2 || len(u.SSD) != 2 {
			t.Fatalf("ram=%d ssd=%d", len(u.RAM), len(u.SSD))
		}
	}

	var line cart.Line
	{
		resp, raw := doJSON(t, c, http.MethodPost, s.gw.URL+"/cart/items", map[string]any{
			"product_id": "lp-1",
			"qty":        1,
			"customization": map[string]any{
				"ram_option_id": 4,
				"ssd_option_id": 7,
			},
		}, bearer(token))
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("add to cart status=%d body=%s", resp.StatusCode, string(raw))
		}
		if err := json.Unmarshal(raw, &line); err != nil {
			t.Fatalf("decode line: %v body=%s", err, string(raw))
		}

		if line.FinalPrice != 67000 {
			t.Fatalf("final_price=%v", line.FinalPrice)
		}
		if line.UserID == "" || line.UserID == "u_admin" {
			t.Fatalf("user_id=%q", line.UserID)
		}
	}

	{
		resp, raw := doJSON(t, c, http.MethodGet, s.gw.URL+"/cart", nil, bearer(token))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get cart status=%d body=%s", resp.StatusCode, string(raw))
		}

		var sum cart.Summary
		if err := json.Unmarshal(raw, &sum); err != nil {
			t.Fatalf("decode cart: %v", err)
		}
		if len(sum.Lines) != 1 || sum.Lines[0].ID != line.ID {
			t.Fatalf("lines=%+v", sum.Lines)
		}
		if sum.Total != 67000 {
			t.Fatalf("total=%v", sum.Total)
		}
	}
}

func TestGateway_PublicAPI_CartRequiresAuth(t *testing.T) {
	s := newStack(t)
	c := &http.Client{}

	resp, raw := doJSON(t, c, http.MethodPost, s.gw.URL+"/cart/items", map[string]any{
		"product_id": "lp-1",
	}, map[string]string{kit.HeaderUserID: "u_spoofed"})

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}
}

func TestGateway_PublicAPI_AdminPricing(t *testing.T) {
	s := newStack(t)
	c := &http.Client{}

	update := map[string]any{"ssd_256_to_512": 6000}

	{
		resp, _ := doJSON(t, c, http.MethodPut, s.gw.URL+"/pricing", update, map[string]string{
			kit.HeaderUserRole: kit.RoleAdmin,
		})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("anonymous put status=%d", resp.StatusCode)
		}
	}

	{
		resp, raw := doJSON(t, c, http.MethodPost, s.gw.URL+"/auth/register", map[string]any{
			"email":    "shopper@example.com",
			"password": "password123",
		}, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("register status=%d body=%s", resp.StatusCode, string(raw))
		}

		tok := login(t, c, s.gw.URL, "shopper@example.com", "password123")
		resp, _ = doJSON(t, c, http.MethodPut, s.gw.URL+"/pricing", update, bearer(tok))
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("customer put status=%d", resp.StatusCode)
		}
	}

	adminTok := login(t, c, s.gw.URL, adminEmail, adminPass)

	{
		resp, raw := doJSON(t, c, http.MethodPut, s.gw.URL+"/pricing", update, bearer(adminTok))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("admin put status=%d body=%s", resp.StatusCode, string(raw))
		}
	}

	{
		resp, raw := doJSON(t, c, http.MethodGet, s.gw.URL+"/pricing", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get pricing status=%d", resp.StatusCode)
		}

		var table pricing.Table
		if err := json.Unmarshal(raw, &table); err != nil {
			t.Fatalf("decode pricing: %v", err)
		}
		if table["ssd_256_to_512"] != 6000 {
			t.Fatalf("ssd_256_to_512=%v", table["ssd_256_to_512"])
		}
	}
}

func TestGateway_PublicAPI_StripsSpoofedRole(t *testing.T) {
	s := newStack(t)
	c := &http.Client{}

	resp, _ := doJSON(t, c, http.MethodGet, s.gw.URL+"/upgrade-options?all=1", nil, map[string]string{
		kit.HeaderUserRole: kit.RoleAdmin,
		kit.HeaderUserID:   "u_spoofed",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("spoofed list status=%d", resp.StatusCode)
	}

	adminTok := login(t, c, s.gw.URL, adminEmail, adminPass)
	resp, raw := doJSON(t, c, http.MethodGet, s.gw.URL+"/upgrade-options?all=1", nil, bearer(adminTok))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin list status=%d body=%s", resp.StatusCode, string(raw))
	}

	var opts []map[string]any
	if err := json.Unmarshal(raw, &opts); err != nil {
		t.Fatalf("decode options: %v", err)
	}
	if len(opts) != 9 {
		t.Fatalf("options=%d", len(opts))
	}

	resp, _ = doJSON(t, c, http.MethodGet, s.gw.URL+"/products", nil, map[string]string{
		"Authorization": "Bearer garbage",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token status=%d", resp.StatusCode)
	}
}
