package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gasket/internal/api"
	"github.com/matzehuels/gasket/pkg/observability/prom"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API.

Requests are generated through the configured cache and saved runs go to
the configured run store. Prometheus metrics are exposed on /metrics unless
disabled in the config or with --no-metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if noMetrics {
				cfg.Metrics = false
			}
			return c.runServe(cmd.Context(), cfg.Addr, cfg.Metrics, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, metrics, noCache bool) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := &api.Server{
		Runner:   runner,
		Store:    st,
		Logger:   logger,
		Defaults: c.Config.Generate,
		MaxDepth: c.Config.Server.MaxDepth,
	}
	if metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		prom.New(reg).Register()
		srv.Gatherer = reg
	}

	cacheName := c.Config.Cache.Backend
	if noCache {
		cacheName = "none"
	}
	d := c.Config.Generate
	logger.Info("Starting server",
		"addr", addr,
		"cache", cacheName,
		"store", c.Config.Store.Backend,
		"metrics", metrics)
	logger.Debug("Request defaults",
		"depth", d.Depth,
		"policy", d.Policy,
		"radius", d.Radius,
		"max_depth", srv.MaxDepth)
	return api.Serve(ctx, addr, api.NewHandler(srv), c.Config.Server, logger)
}
