package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/fiducial/internal/metrics"
	"github.com/matzehuels/fiducial/internal/server"
	"github.com/matzehuels/fiducial/pkg/cache"
	"github.com/matzehuels/fiducial/pkg/pipeline"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr, backend string
	var noMetrics bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve markers over HTTP",
		Long: `Run the HTTP API. Markers are served at /api/v1/markers/{key}.png
and /api/v1/markers/{key}.svg; Prometheus metrics at /metrics.`,
		Example: `  fiducial serve
  fiducial serve --addr :9000 --cache redis`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("cache") {
				cfg.Server.Cache = backend
			}

			store, err := cache.Open(ctx, cfg.CacheFor(true))
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(store, nil, c.Logger)
			runner.TTL = cfg.Cache.TTL.Std()
			defer runner.Close()

			sc := server.Config{
				Addr:            cfg.Server.Addr,
				ReadTimeout:     cfg.Server.ReadTimeout.Std(),
				WriteTimeout:    cfg.Server.WriteTimeout.Std(),
				ShutdownTimeout: cfg.Server.ShutdownTimeout.Std(),
				Defaults:        cfg.PipelineOptions(),
			}
			if !noMetrics {
				m := metrics.New()
				m.Register()
				sc.Metrics = m.Handler()
			}

			c.Logger.Info("starting server", "addr", sc.Addr, "cache", cache.BackendName(store))
			return server.New(sc, runner, c.Logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&backend, "cache", cache.BackendMemory, "cache backend: none, memory, file, redis, mongo")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}
