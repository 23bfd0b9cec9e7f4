package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/M-Chris/testing-hello-worlds-on-common-langs/internal/api"
	"github.com/M-Chris/testing-hello-worlds-on-common-langs/internal/config"
	"github.com/M-Chris/testing-hello-worlds-on-common-langs/internal/logging"
	"github.com/M-Chris/testing-hello-worlds-on-common-langs/internal/metrics"
	"github.com/M-Chris/testing-hello-worlds-on-common-langs/internal/server"
)

func main() {
	// ---- configuration ----
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("configuration resolved",
		zap.Int("workers", cfg.Workers),
		zap.String("listen_addr", cfg.ListenAddr),
		zap.String("metrics_addr", cfg.MetricsAddr),
	)

	if cfg.SetGOMAXPROCS && cfg.Workers > 0 {
		prev := runtime.GOMAXPROCS(cfg.Workers)
		logger.Info("GOMAXPROCS set", zap.Int("from", prev), zap.Int("to", cfg.Workers))
	}

	// ---- metrics ----
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	m.Workers.Set(float64(cfg.Workers))

	// ---- HTTP servers ----
	onStart, onDone := m.RequestHooks()
	router := api.NewRouter(logger, api.RequestHooks{OnStart: onStart, OnDone: onDone})

	app := server.New("app", router, cfg.Workers, logger,
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
		server.WithAcceptHook(m.OnAccept()),
	)
	if err := app.Listen(cfg.ListenAddr); err != nil {
		logger.Fatal("failed to bind", zap.Error(err))
	}

	servers := []*server.Server{app}
	if cfg.MetricsAddr != "" {
		ms := server.New("metrics", api.NewMetricsRouter(reg), 1, logger,
			server.WithShutdownTimeout(cfg.ShutdownTimeout),
		)
		if err := ms.Listen(cfg.MetricsAddr); err != nil {
			logger.Fatal("failed to bind metrics listener", zap.Error(err))
		}
		servers = append(servers, ms)
	}

	// ---- run until signalled ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		g.Go(func() error { return s.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}

	logger.Info("server stopped cleanly")
}
