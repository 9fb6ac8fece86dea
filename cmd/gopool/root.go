package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nemanja-m/gopool/internal/shared/config"
	"github.com/nemanja-m/gopool/internal/shared/httpserver"
	"github.com/nemanja-m/gopool/internal/shared/logging"
	"github.com/nemanja-m/gopool/pkg/pool"
)

type app struct {
	configPath string
	cfg        *config.Config
	logger     logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "gopool",
		Short:        "Run text workloads on a fixed-size worker pool",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file")
	cmd.PersistentFlags().Int("workers", 0, "number of workers (overrides config, 0 = number of CPUs)")

	cmd.AddCommand(newWordCountCmd(a), newGrepCmd(a))
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		workers, _ := cmd.Flags().GetInt("workers")
		if workers < 0 {
			return fmt.Errorf("--workers must be non-negative")
		}
		cfg.Pool.Workers = workers
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.NewSlogLoggerTo(cmd.ErrOrStderr(), level, cfg.Logging.Format)
	return nil
}

// run builds a pool, optionally serves /metrics next to it, and hands the pool
// to workload. The pool is closed before run returns.
func (a *app) run(ctx context.Context, name string, workload func(p *pool.Pool) error) error {
	opts := append(a.cfg.PoolOptions(), pool.WithName(name), pool.WithLogger(a.logger))

	var server *httpserver.MetricsServer
	if a.cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		metrics, err := pool.NewMetrics(a.cfg.Metrics.Namespace, reg)
		if err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		opts = append(opts, pool.WithMetrics(metrics))
		server = httpserver.NewMetricsServer(a.cfg.Metrics.Addr, reg, a.logger)
	}

	p := pool.New(opts...)
	defer p.Close()

	serveCtx, stopServing := context.WithCancel(ctx)
	defer stopServing()

	g, gctx := errgroup.WithContext(serveCtx)
	if server != nil {
		g.Go(func() error {
			return server.Run(gctx)
		})
	}

	g.Go(func() error {
		defer stopServing()
		start := time.Now()
		if err := workload(p); err != nil {
			return err
		}
		stats := p.Stats()
		a.logger.Info("Workload completed",
			"workload", name,
			"workers", stats.Workers,
			"jobs", stats.Completed,
			"panicked", stats.Panicked,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	})

	return g.Wait()
}
