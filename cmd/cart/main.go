package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"LaptopStore/internal/cart"
	"LaptopStore/pkg/kit"
)

func main() {
	service := "cart"
	envErr := kit.LoadEnv()

	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Fatal("load env failed", zap.Error(envErr))
	}
	if err := run(log, service); err != nil {
		log.Fatal("cart stopped", zap.Error(err))
	}
}

func run(log *zap.Logger, service string) error {
	ctx := context.Background()

	store := cart.NewStore()
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := kit.OpenPostgres(ctx, dsn)
		if err != nil {
			return err
		}
		defer db.Close()

		pg := cart.NewPostgresStore(db)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		store = pg
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	s := &cart.Server{
		Store:   store,
		Catalog: cart.NewCatalogClient(kit.Getenv("CATALOG_URL", "http://localhost:8082")),
		Log:     log,
	}
	h := cart.NewHandler(s, cart.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: kit.GetenvBool("METRICS_ENABLED", true),
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
	})

	return kit.RunHTTPServer(":"+kit.Getenv("PORT", "8083"), h, log)
}
