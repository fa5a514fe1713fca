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

	"github.com/joho/godotenv"

	"github.com/dgallion1/ligjet/internal/api"
	"github.com/dgallion1/ligjet/internal/config"
	"github.com/dgallion1/ligjet/internal/library"
	"github.com/dgallion1/ligjet/internal/relay"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize generation.
	gemini, err := relay.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Error("create gemini client", "error", err)
		os.Exit(1)
	}
	rl := relay.New(gemini, cfg.Tuning.Labels(), cfg.RelayTimeout, log)

	// Load the law library.
	store := library.NewStore()
	loader := library.NewLoader(store, cfg.Tuning.SegmentConfig(), cfg.LoadConcurrency, log)
	loadLaws(ctx, loader, cfg.LawsDir, log)

	// Initialize HTTP server.
	srv := api.NewServer(store, loader, rl, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RelayTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// SIGHUP reloads the laws directory, SIGINT/SIGTERM shut down.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		for sig := range sigCh {
			if sig == syscall.SIGHUP {
				loadLaws(ctx, loader, cfg.LawsDir, log)
				continue
			}
			log.Info("shutting down...")
			cancel()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			httpServer.Shutdown(shutdownCtx)
			return
		}
	}()

	log.Info("starting ligjet", "port", cfg.Port, "model", gemini.Model(), "laws", store.Len())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func loadLaws(ctx context.Context, loader *library.Loader, dir string, log *slog.Logger) {
	start := time.Now()
	rep, err := loader.LoadDir(ctx, dir)
	if err != nil {
		log.Warn("law directory not loaded", "dir", dir, "error", err)
		return
	}
	log.Info("law directory loaded",
		"dir", dir,
		"loaded", rep.Loaded,
		"unchanged", rep.Unchanged,
		"failed", rep.Failed,
		"duplicate", rep.Duplicate,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
