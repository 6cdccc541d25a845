package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study-buddy/internal/api"
	"study-buddy/internal/config"
	"study-buddy/internal/db"
	"study-buddy/internal/logger"
	"study-buddy/internal/services"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode, cfg.LogFile)
	if err != nil {
		log = logger.StderrFallback()
		log.Warn("falling back to stderr logger", "error", err)
	}
	defer log.Sync()

	conn, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatal("open database", "path", cfg.Database, "error", err)
	}
	defer conn.Close()

	history := services.NewHistoryService(conn)
	backend := services.NewOpenAIBackend(cfg)
	generator := services.NewGenerationService(backend, history, log.With("component", "generator"))
	if backend == nil {
		log.Warn("OPENAI_API_KEY not set, serving deterministic fallback artifacts")
	}

	server := api.NewServer(api.ServerConfig{
		Generator:          generator,
		PDF:                services.NewPDFService(),
		History:            history,
		Metrics:            api.NewMetrics(),
		Logger:             log.With("component", "http"),
		MaxPDFBytes:        cfg.MaxPDFBytes,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		AllowedOrigins:     cfg.CORSAllowedOrigins,
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("listening", "addr", srv.Addr, "backend", generator.BackendName(), "model", cfg.OpenAIModel)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("generation jobs still running at exit", "error", err)
	}
}
