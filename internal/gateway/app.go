package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"LaptopStore/internal/auth"
	"LaptopStore/pkg/kit"
)

type HTTPDeps = kit.HTTPDeps

type Deps struct {
	AuthURL    string
	CatalogURL string
	CartURL    string
	JWTSecret  string
}

const (
	readyTimeout      = 2 * time.Second
	readyProbeTimeout = 700 * time.Millisecond
)

var readyClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	},
}

type upstreams struct {
	auth, catalog, cart http.Handler
}

func NewHandler(deps Deps, httpDeps HTTPDeps) (http.Handler, error) {
	up, err := buildProxies(deps, httpDeps.Log)
	if err != nil {
		return nil, err
	}

	jwt := auth.NewTokenMaker(deps.JWTSecret)
	admin := chi.Chain(AuthJWT(jwt), RequireRole(kit.RoleAdmin))

	r := kit.NewRouter(httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps, httpDeps.Log))

	r.Handle("/auth", up.auth)
	r.Handle("/auth/*", up.auth)

	r.Group(func(pr chi.Router) {
		pr.Use(OptionalJWT(jwt))
		pr.Handle("/products", up.catalog)
		pr.Handle("/products/*", up.catalog)
		pr.Get("/upgrade-options", up.catalog.ServeHTTP)
		pr.Get("/pricing", up.catalog.ServeHTTP)
	})

	r.With(admin.Handler).Put("/upgrade-options/{id}", up.catalog.ServeHTTP)
	r.With(admin.Handler).Put("/pricing", up.catalog.ServeHTTP)

	r.Group(func(pr chi.Router) {
		pr.Use(AuthJWT(jwt))
		pr.Handle("/cart", up.cart)
		pr.Handle("/cart/*", up.cart)
	})

	return r, nil
}

func buildProxies(deps Deps, log *zap.Logger) (upstreams, error) {
	var up upstreams
	for _, p := range []struct {
		url string
		dst *http.Handler
	}{
		{deps.AuthURL, &up.auth},
		{deps.CatalogURL, &up.catalog},
		{deps.CartURL, &up.cart},
	} {
		rp, err := NewReverseProxy(p.url, log)
		if err != nil {
			return upstreams{}, err
		}
		*p.dst = InjectHeaders(rp)
	}
	return up, nil
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	checks := []struct{ name, url string }{
		{"auth", deps.AuthURL + "/readyz"},
		{"catalog", deps.CatalogURL + "/readyz"},
		{"cart", deps.CartURL + "/readyz"},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		for _, c := range checks {
			g.Go(func() error {
				if err := checkReady(gctx, c.url); err != nil {
					log.Warn("readyz failed", zap.String("upstream", c.name), zap.Error(err))
					return fmt.Errorf("%s not ready", c.name)
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			kit.WriteError(w, r, http.StatusServiceUnavailable, err.Error(), nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func checkReady(ctx context.Context, url string) error {
	cctx, cancel := context.WithTimeout(ctx, readyProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := readyClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status=%d", resp.StatusCode)
	}
	return nil
}
