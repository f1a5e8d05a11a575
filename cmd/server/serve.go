package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/atharv3903/logiroute/internal/api"
	"github.com/atharv3903/logiroute/internal/loader"
	"github.com/atharv3903/logiroute/internal/metrics"
	"github.com/atharv3903/logiroute/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownGrace = 10 * time.Second

func runServe(cmd *cobra.Command, f *flags) error {
	cfg, logger, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, err := loader.Load(ctx, cfg.GraphSource(), logger)
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svc := service.NewRoutingService(g, service.Config{
		CacheSize:    cfg.RouteCacheSize,
		QueryTimeout: cfg.QueryTimeout,
	}, m, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.New(svc, cfg, m, reg, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("server listening",
			"addr", srv.Addr,
			"app", cfg.AppName,
			"version", cfg.AppVersion,
			"nodes", g.NodeCount(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		logger.Error("server stopped", "err", err)
		return err
	}
	return nil
}
