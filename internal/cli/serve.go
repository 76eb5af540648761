package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cartpile/internal/server"
	"github.com/matzehuels/cartpile/pkg/config"
	"github.com/matzehuels/cartpile/pkg/store"
)

// minSweepInterval bounds how often expired file snapshots are removed.
const minSweepInterval = time.Minute

func (c *CLI) serveCommand() *cobra.Command {
	var addr, backend, dir, dialoguePath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the cart HTTP API",
		Long: `Run the cart HTTP API.

Carts are kept in the configured store: memory (default), file, redis or
mongo. Flags override the config file.`,
		Example: `  cartpile serve --addr :9000
  cartpile serve --store redis
  cartpile serve --store file --store-dir ./carts --dialogue lines.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("addr") {
				cfg.Server.Addr = addr
			}
			if f.Changed("store") {
				cfg.Store.Backend = backend
			}
			if f.Changed("store-dir") {
				cfg.Store.Dir = dir
			}
			if f.Changed("dialogue") {
				cfg.Dialogue.Path = dialoguePath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&backend, "store", "", "store backend: memory, file, redis, mongo")
	cmd.Flags().StringVar(&dir, "store-dir", "", "directory for the file store")
	cmd.Flags().StringVar(&dialoguePath, "dialogue", "", "dialogue catalog (TOML)")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	logger := loggerFromContext(ctx)
	defer registerLogHooks(logger)()

	sp := newSpinner(ctx, "Opening "+cfg.Store.Backend+" store").start()
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		sp.stopWithError("Could not open %s store", cfg.Store.Backend)
		return err
	}
	sp.stop()
	defer st.Close()

	cat, err := loadCatalog(cfg.Dialogue.Path)
	if err != nil {
		return err
	}
	logger.Debug("dialogue loaded", "lines", cat.Len())

	if fs, ok := st.(*store.FileStore); ok && cfg.Store.TTL > 0 {
		go sweep(ctx, fs, max(cfg.Store.TTL/2, minSweepInterval), logger)
	}

	printInfo("Serving carts on %s", StyleHighlight.Render(cfg.Server.Addr))
	printDetail("store: %s", cfg.Store.Backend)
	return server.New(cfg, st, cat, logger).Run(ctx)
}

// sweep removes expired file snapshots every interval until ctx is done.
func sweep(ctx context.Context, fs *store.FileStore, interval time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := fs.Cleanup(ctx)
			if err != nil {
				logger.Warn("snapshot cleanup failed", "err", err)
				continue
			}
			if n > 0 {
				logger.Info("removed expired carts", "count", n)
			}
		}
	}
}
