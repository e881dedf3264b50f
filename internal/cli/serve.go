package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drivetrain/pkg/cache"
	"github.com/matzehuels/drivetrain/pkg/observability"
	"github.com/matzehuels/drivetrain/pkg/pipeline"
	"github.com/matzehuels/drivetrain/pkg/server"
	"github.com/matzehuels/drivetrain/pkg/session"
)

type serveFlags struct {
	addr       string
	redisURL   string
	sessionTTL time.Duration
	timeout    time.Duration
	maxBody    int64
	noStats    bool
}

// serveCommand runs the HTTP layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and renders over HTTP",
		Long: `Serve layouts and renders over HTTP.

Scenes, artifacts and warning sessions are kept in memory, or in Redis
when --redis is given so that several instances can share them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&flags.redisURL, "redis", "", "redis URL for the shared cache (e.g. redis://localhost:6379/0)")
	cmd.Flags().DurationVar(&flags.sessionTTL, "session-ttl", session.DefaultTTL, "idle lifetime of a warning session")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 30*time.Second, "per-request timeout")
	cmd.Flags().Int64Var(&flags.maxBody, "max-body", 1<<20, "maximum request body in bytes")
	cmd.Flags().BoolVar(&flags.noStats, "no-stats", false, "do not serve event counters on /v1/stats")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	var store cache.Cache = cache.NewMemoryCache()
	if flags.redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, flags.redisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		store = rc
		c.Logger.Info("using redis cache", "url", flags.redisURL)
	}

	keyer := cache.NewDefaultKeyer()
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	defer runner.Close()

	opts := []server.Option{
		server.WithSessionTTL(flags.sessionTTL),
		server.WithRequestTimeout(flags.timeout),
		server.WithMaxBodySize(flags.maxBody),
	}
	if !flags.noStats {
		stats := observability.NewCounters()
		observability.Register(observability.Hooks{Pipeline: stats, Cache: stats, HTTP: stats})
		defer observability.Reset()
		opts = append(opts, server.WithStats(stats))
	}

	srv := server.New(runner, session.NewCacheStore(store, keyer), c.Logger, opts...)

	printInfo("Listening on %s", StyleHighlight.Render(flags.addr))
	return srv.ListenAndServe(ctx, flags.addr)
}
