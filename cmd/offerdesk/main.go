package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/offerdesk/internal/api"
	"github.com/MikeSquared-Agency/offerdesk/internal/config"
	"github.com/MikeSquared-Agency/offerdesk/internal/hermes"
	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
	"github.com/MikeSquared-Agency/offerdesk/internal/pipeline"
	"github.com/MikeSquared-Agency/offerdesk/internal/provider"
	"github.com/MikeSquared-Agency/offerdesk/internal/store"
	"github.com/MikeSquared-Agency/offerdesk/internal/webhook"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("offerdesk starting", "port", cfg.Port, "provider", cfg.LLM.Provider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Generator. A missing credential is a warning; stages fail with an auth
	// error on first use.
	if cfg.LLM.APIKey() == "" {
		slog.Warn("no credential configured for generation provider", "provider", cfg.LLM.Provider)
	}
	gen, err := provider.New(ctx, cfg.LLM)
	if err != nil {
		slog.Error("failed to create generator", "error", err)
		os.Exit(1)
	}

	// Industry frameworks
	frameworks := knowledge.DefaultFrameworks()
	if cfg.FrameworksPath != "" {
		frameworks, err = knowledge.LoadFrameworks(cfg.FrameworksPath)
		if err != nil {
			slog.Error("failed to load frameworks", "path", cfg.FrameworksPath, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("frameworks loaded", "industries", frameworks.Industries())

	// Record store
	var db store.Store
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, using in-memory store; records are lost on exit")
		db = store.NewMemory()
	} else {
		pg, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		if err := pg.Migrate(ctx); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		db = pg
		slog.Info("database connected")
	}

	// NATS/Hermes (optional)
	var events hermes.Publisher = hermes.Nop{}
	var hermesClient *hermes.Client
	if cfg.NatsURL != "" {
		hermesClient, err = hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer hermesClient.Close()
		events = hermesClient
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set, domain events disabled")
	}

	// Webhook sink
	sender := webhook.NewSender(cfg.WebhookURL, slog.Default())
	if !sender.Configured() {
		slog.Warn("OFFERDESK_WEBHOOK_URL not set, sending offers is disabled")
	}

	pipe := pipeline.New(ctx, pipeline.Deps{
		Store:             db,
		Generator:         gen,
		Frameworks:        frameworks,
		Events:            events,
		Notifier:          sender,
		Logger:            slog.Default(),
		AuditDebounce:     cfg.AuditDebounce,
		ImportConcurrency: cfg.ImportConcurrency,
	})
	defer pipe.Close()

	if hermesClient != nil {
		if err := hermesClient.SubscribeInbound(pipe.HandleInboundRequest); err != nil {
			slog.Error("failed to subscribe to inbound requests", "error", err)
			os.Exit(1)
		}
	}

	// HTTP API
	srv := api.NewServer(pipe, api.Options{
		Port:           cfg.Port,
		APIToken:       cfg.APIToken,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Provider:       cfg.LLM.Provider,
		Stats:          gen.Stats(),
	}, slog.Default())
	if cfg.APIToken == "" {
		slog.Warn("OFFERDESK_API_TOKEN not set, API is unauthenticated")
	}
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("offerdesk ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown error", "error", err)
	}
	cancel()
	slog.Info("offerdesk stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
