package main

import (
	"context"
	"errors"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"LaptopStore/internal/auth"
	"LaptopStore/pkg/kit"
)

const minSecretLen = 32

func main() {
	service := "auth"
	envErr := kit.LoadEnv()

	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Fatal("load env failed", zap.Error(envErr))
	}
	if err := run(log, service); err != nil {
		log.Fatal("auth stopped", zap.Error(err))
	}
}

func run(log *zap.Logger, service string) error {
	ctx := context.Background()

	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < minSecretLen {
		return errors.New("JWT_SECRET is required and must be at least 32 chars")
	}

	var store auth.UserStore = auth.NewStore()
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := kit.OpenPostgres(ctx, dsn)
		if err != nil {
			return err
		}
		defer db.Close()

		pg := auth.NewPostgresStore(db)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		store = pg
	}

	if email, pass := os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD"); email != "" && pass != "" {
		if err := auth.EnsureAdmin(ctx, store, "u_"+uuid.NewString(), email, pass, log); err != nil {
			return err
		}
	}

	s := &auth.Server{
		Log:      log,
		Store:    store,
		JWT:      auth.NewTokenMaker(jwtSecret),
		TokenTTL: kit.GetenvDuration("TOKEN_TTL", auth.DefaultTokenTTL),
	}
	h := auth.NewHandler(s, auth.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: kit.GetenvBool("METRICS_ENABLED", true),
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
	})

	return kit.RunHTTPServer(":"+kit.Getenv("PORT", "8081"), h, log)
}
