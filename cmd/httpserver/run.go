package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Brownie44l1/httpserver/internal/config"
	"github.com/Brownie44l1/httpserver/internal/files"
	"github.com/Brownie44l1/httpserver/internal/logging"
	"github.com/Brownie44l1/httpserver/internal/router"
	"github.com/Brownie44l1/httpserver/internal/server"
)

func run(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New(logging.Options{
		Level:     cfg.Log.SlogLevel(),
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
		Output:    os.Stderr,
	})
	slog.SetDefault(logger)

	var metrics *server.Metrics
	if cfg.Metrics.Enabled() {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = server.NewMetrics(reg, cfg.Metrics.Namespace)

		shutdown := serveMetrics(cfg.Metrics.Addr, reg, logger)
		defer shutdown()
	}

	store := files.NewOS(cfg.Server.Directory)
	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}, router.NewDefault(store), logger, metrics)

	logger.Info("starting server",
		"addr", cfg.Server.Addr,
		"directory", store.Root(),
		"version", Version,
	)

	err := srv.ListenAndServe(ctx)
	if errors.Is(err, server.ErrServerClosed) {
		logger.Info("server stopped")
		return nil
	}
	return err
}

// serveMetrics exposes reg on addr/metrics and returns a func that stops it.
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", fmt.Errorf("listen on %s: %w", addr, err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
