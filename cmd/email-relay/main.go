package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/vendixo/vendixo-backend/internal/relay"
	"github.com/vendixo/vendixo-backend/pkg/config"
	"github.com/vendixo/vendixo-backend/pkg/logger"
	"github.com/vendixo/vendixo-backend/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "email-relay"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "email-relay",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	sender, err := relay.NewSMTPSender(cfg.SMTP)
	if err != nil {
		logg.Error(context.Background(), "failed to create smtp sender", err)
		os.Exit(1)
	}

	service, err := relay.NewService(sender, cfg.Coupon.Code)
	if err != nil {
		logg.Error(context.Background(), "failed to create relay service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Relay.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting email relay")

	server := &http.Server{
		Addr:    addr,
		Handler: relay.NewRouter(service, logg, metrics.NewStorefrontMetrics(nil)),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "email relay stopped unexpectedly", err)
		os.Exit(1)
	}
}
