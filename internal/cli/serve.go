package cli

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codexray/internal/server"
	"github.com/matzehuels/codexray/pkg/cache"
	"github.com/matzehuels/codexray/pkg/pipeline"
	"github.com/matzehuels/codexray/pkg/session"
)

// shutdownTimeout bounds how long in-flight requests may take after an
// interrupt.
const shutdownTimeout = 10 * time.Second

type serveOpts struct {
	addr     string
	envFile  string
	noCache  bool
	sessions int
}

// serveCommand creates the serve command, which runs the interactive
// session API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve interactive treemap sessions over HTTP",
		Long: `Serve interactive treemap sessions over HTTP.

Settings are read from the environment and an optional .env file:
  CODEXRAY_ADDR            listen address (default :8080)
  CODEXRAY_REDIS_ADDR      share rendered artifacts through Redis
  CODEXRAY_REDIS_PASSWORD  Redis password
  CODEXRAY_SESSION_LIMIT   sessions kept in memory
  CODEXRAY_SESSION_TTL     idle time before a session expires, e.g. 30m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides CODEXRAY_ADDR)")
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable artifact caching")
	cmd.Flags().IntVar(&opts.sessions, "sessions", 0, "sessions kept in memory (overrides CODEXRAY_SESSION_LIMIT)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	cfg := server.LoadConfig(opts.envFile)
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	if opts.sessions > 0 {
		cfg.SessionLimit = opts.sessions
	}

	artifacts, err := c.serverCache(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(artifacts, nil, c.Logger)
	defer runner.Close()

	store, err := session.NewMemoryStore(cfg.SessionLimit)
	if err != nil {
		return err
	}
	srv := server.New(cfg, runner, store, c.Logger)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start(ctx) }()

	printSuccess("Listening on %s", cfg.Addr)
	printDetail("Sessions: up to %d, idle timeout %s", cfg.SessionLimit, cfg.SessionTTL)
	if _, port, err := net.SplitHostPort(cfg.Addr); err == nil {
		printNextStep("Create a session", "curl -X POST http://localhost:"+port+"/api/sessions")
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errc
}

// serverCache picks the artifact cache: Redis when configured, so several
// server processes share renders, otherwise the local file cache.
func (c *CLI) serverCache(ctx context.Context, cfg server.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr == "" {
		return newCache(false)
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		Prefix:   appName + ":",
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("Using Redis cache", "addr", cfg.RedisAddr)
	return rc, nil
}
