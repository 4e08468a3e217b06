package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"LaptopStore/internal/catalog"
	"LaptopStore/internal/pricing"
	"LaptopStore/pkg/kit"
)

func main() {
	service := "catalog"
	envErr := kit.LoadEnv()

	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Fatal("load env failed", zap.Error(envErr))
	}
	if err := run(log, service); err != nil {
		log.Fatal("catalog stopped", zap.Error(err))
	}
}

func run(log *zap.Logger, service string) error {
	ctx := context.Background()

	seed := catalog.DefaultSeed()
	if path := os.Getenv("CATALOG_SEED_FILE"); path != "" {
		var err error
		if seed, err = catalog.LoadSeedFile(path); err != nil {
			return err
		}
		log.Info("seed loaded", zap.String("path", path), zap.Int("products", len(seed.Products)))
	}

	var store catalog.Store = catalog.NewMemStore(seed)
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := kit.OpenPostgres(ctx, dsn)
		if err != nil {
			return err
		}
		defer db.Close()

		pg := catalog.NewPostgresStore(db)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		seeded, err := pg.SeedIfEmpty(ctx, seed)
		if err != nil {
			return err
		}
		log.Info("postgres store ready", zap.Bool("seeded", seeded))
		store = pg
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	prov := pricing.NewProvider(catalog.PricingSource(store), pricing.ProviderDeps{
		TTL:     kit.GetenvDuration("PRICING_TTL", pricing.DefaultTTL),
		Log:     log,
		Metrics: pricing.NewMetrics(reg),
	})

	s := &catalog.Server{Store: store, Pricing: prov, Log: log}
	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: kit.GetenvBool("METRICS_ENABLED", true),
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
	})

	return kit.RunHTTPServer(":"+kit.Getenv("PORT", "8082"), h, log)
}
