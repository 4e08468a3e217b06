package main

import (
	"errors"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"LaptopStore/internal/gateway"
	"LaptopStore/pkg/kit"
)

var errWeakSecret = errors.New("JWT_SECRET is required and must be at least 32 chars")

func main() {
	service := "gateway"
	envErr := kit.LoadEnv()

	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Fatal("load env failed", zap.Error(envErr))
	}
	if err := run(log, service); err != nil {
		log.Fatal("gateway stopped", zap.Error(err))
	}
}

func run(log *zap.Logger, service string) error {
	secret := os.Getenv("JWT_SECRET")
	if len(secret) < 32 {
		return errWeakSecret
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	deps := gateway.Deps{
		JWTSecret:  secret,
		AuthURL:    kit.Getenv("AUTH_URL", "http://auth:8081"),
		CatalogURL: kit.Getenv("CATALOG_URL", "http://catalog:8082"),
		CartURL:    kit.Getenv("CART_URL", "http://cart:8083"),
	}
	h, err := gateway.NewHandler(deps, gateway.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: kit.GetenvBool("METRICS_ENABLED", true),
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
	})
	if err != nil {
		return err
	}

	log.Info("routing upstreams",
		zap.String("auth", deps.AuthURL),
		zap.String("catalog", deps.CatalogURL),
		zap.String("cart", deps.CartURL),
	)
	return kit.RunHTTPServer(":"+kit.Getenv("PORT", "8080"), h, log)
}
