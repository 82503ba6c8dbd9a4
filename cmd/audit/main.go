package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Asonyu-Ng/career-profile-pal/internal/audit"
	"github.com/Asonyu-Ng/career-profile-pal/internal/auth"
	"github.com/Asonyu-Ng/career-profile-pal/internal/config"
	"github.com/Asonyu-Ng/career-profile-pal/internal/observability"
	"github.com/Asonyu-Ng/career-profile-pal/internal/session"
	"github.com/Asonyu-Ng/career-profile-pal/internal/storage"
	"github.com/Asonyu-Ng/career-profile-pal/internal/storage/memory"
	pgstore "github.com/Asonyu-Ng/career-profile-pal/internal/storage/postgres"
	"github.com/Asonyu-Ng/career-profile-pal/internal/storage/redisstore"
	"github.com/Asonyu-Ng/career-profile-pal/internal/store"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := observability.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	blobs, cleanup, err := buildStorage(ctx, cfg)

	if err != nil {
		log.Error("storage backend unavailable", "backend", cfg.Backend, "err", err)
		os.Exit(1)
	}

	defer cleanup()

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	tokens := auth.NewManager(cfg.SessionSecret, 30*24*time.Hour)
	accounts := session.NewManager(blobs, tokens, log)
	records := store.New(blobs, accounts.Validator(), log, metrics)
	auditor := audit.New(records, accounts, log, metrics)

	// metrics listener; observability only, not a product surface
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

		addr := fmt.Sprintf(":%d", cfg.MetricsPort)
		log.Info("metrics listening", "addr", addr)

		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("metrics listener failed", "err", err)
		}
	}()

	auditor.Sweep(ctx)

	if cfg.AuditInterval <= 0 {
		log.Info("single sweep done")
		return
	}

	ticker := time.NewTicker(cfg.AuditInterval)
	defer ticker.Stop()

	log.Info("periodic sweeps started", "interval", cfg.AuditInterval.String())

	for {
		select {
		case <-ctx.Done():
			log.Info("audit shutting down")
			return

		case <-ticker.C:
			auditor.Sweep(ctx)
		}
	}
}

func buildStorage(ctx context.Context, cfg config.Config) (storage.Store, func(), error) {
	switch cfg.Backend {
	case "redis":
		s := redisstore.New(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		if err := s.Ping(ctx); err != nil {
			return nil, nil, err
		}

		return s, func() { _ = s.Close() }, nil

	case "postgres":
		pool, err := pgstore.NewPool(cfg.DBURL)

		if err != nil {
			return nil, nil, err
		}

		if err := pgstore.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return pgstore.New(pool), pool.Close, nil

	default:
		return memory.New(), func() {}, nil
	}
}
