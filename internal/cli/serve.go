package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modelviz/modelviz/internal/server"
	"github.com/modelviz/modelviz/pkg/cache"
	"github.com/modelviz/modelviz/pkg/config"
	"github.com/modelviz/modelviz/pkg/pipeline"
	"github.com/modelviz/modelviz/pkg/store"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

The server exposes the derive/layout/render pipeline and the inspection
store over HTTP. Cache and store backends are selected in the config file;
without one the server uses a local file cache and file store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath, addr)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// runServe builds the backends from config and serves until ctx is canceled.
func (c *CLI) runServe(ctx context.Context, configPath, addr string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	cch, err := c.openCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer cch.Close()

	st, err := c.openStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close(context.Background())

	runner := pipeline.NewRunner(cch, nil, c.Logger)
	srv := server.New(runner, st, c.Logger, cfg.Server)

	c.Logger.Info("starting server",
		"addr", cfg.Server.Addr,
		"cache", cfg.Cache.Backend,
		"store", cfg.Store.Backend)

	return srv.ListenAndServe(ctx)
}

// openCache builds the cache backend named in the config.
func (c *CLI) openCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheBackendNone:
		return cache.NewNullCache(), nil
	case config.CacheBackendRedis:
		return cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
}

// openStore builds the store backend named in the config.
func (c *CLI) openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case config.StoreBackendMongo:
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		dir := cfg.Dir
		if dir == "" {
			d, err := storeDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return store.NewFileStore(dir)
	}
}
