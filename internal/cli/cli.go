// Package cli implements the cartpile command-line interface.
//
// # Commands
//
//   - place: drop widths or an item list into a cart and print or export the pile
//   - serve: run the HTTP API
//   - play: interactive terminal cart
//   - carts: list, show, delete and clean up saved carts
//   - panels: draw a panel navigation flow as DOT or SVG
//   - dialogue: look up dialogue lines
//   - config: show, locate or create the config file
//
// All commands accept --config to pick a config file and --verbose (-v) for
// debug logging. The logger is passed through context.Context.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cartpile/pkg/buildinfo"
	"github.com/matzehuels/cartpile/pkg/config"
	"github.com/matzehuels/cartpile/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "cartpile"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Cartpile piles dropped items into a shopping cart",
		Long:         `Cartpile lays out items dropped into a bounded cart region: left to right, wrapping into rows, with a little random jitter so the pile looks tossed in.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cartpile/config.toml)")

	root.AddCommand(c.placeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.cartsCommand())
	root.AddCommand(c.panelsCommand())
	root.AddCommand(c.dialogueCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Store Helpers
// =============================================================================

// loadConfig reads the --config file, or the default location when unset.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("config loaded", "path", c.configPath, "backend", cfg.Store.Backend)
	return cfg, nil
}

// openFileStore opens the file store used by play and carts. dir overrides
// cfg.Store.Dir; both empty means the XDG data dir.
func openFileStore(cfg config.Config, dir string) (*store.FileStore, error) {
	if dir == "" {
		dir = cfg.Store.Dir
	}
	if dir == "" {
		var err error
		if dir, err = config.DataDir(); err != nil {
			return nil, err
		}
	}
	return store.NewFileStore(dir, cfg.Store.TTL)
}
