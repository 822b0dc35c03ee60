package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deckfit/pkg/buildinfo"
	"github.com/matzehuels/deckfit/pkg/cache"
	"github.com/matzehuels/deckfit/pkg/observability"
	"github.com/matzehuels/deckfit/pkg/pipeline"
	"github.com/matzehuels/deckfit/pkg/skin"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "deckfit"

	// envRedisAddr selects the shared Redis cache instead of the file cache.
	envRedisAddr = "DECKFIT_REDIS_ADDR"

	// envCachePrefix scopes Redis keys, for several deployments on one Redis.
	envCachePrefix = "DECKFIT_CACHE_PREFIX"
)

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

	// skinFile is the --skins flag: extra skins loaded on top of the built-ins.
	skinFile string
	verbose  bool
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
		Use:   appName,
		Short: "Deckfit lays out and fits card-deck slides",
		Long: `Deckfit picks a grid for a deck of cards, shrinks titles that overflow and
scales slides that are too tall, either natively or as a standalone script
that does the same work in the browser.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				observability.NewLogHooks(c.Logger).Install()
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.skinFile, "skins", "", "TOML file with extra skins")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.scriptCommand())
	root.AddCommand(c.skinsCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	skins, err := c.skins()
	if err != nil {
		return nil, err
	}
	cc, keyer, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, keyer, skins, c.Logger), nil
}

// newCache picks Redis when DECKFIT_REDIS_ADDR is set and the XDG file
// cache otherwise. A cache that cannot be opened disables caching rather than
// failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	if noCache {
		return cache.NewNullCache(), nil, nil
	}
	if addr := os.Getenv(envRedisAddr); addr != "" {
		rc, err := cache.NewRedisCache(ctx, addr)
		if err != nil {
			return nil, nil, fmt.Errorf("connect cache: %w", err)
		}
		c.Logger.Debug("using redis cache", "addr", addr)
		return rc, cache.NewScopedKeyer(nil, os.Getenv(envCachePrefix)), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "err", err)
		return cache.NewNullCache(), nil, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("cache disabled", "err", err)
		return cache.NewNullCache(), nil, nil
	}
	return fc, nil, nil
}

// skins returns the built-in registry plus the --skins file, if any.
func (c *CLI) skins() (*skin.Registry, error) {
	if c.skinFile == "" {
		return skin.Default(), nil
	}
	reg := skin.Default()
	if err := reg.LoadFile(c.skinFile); err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded skins", "file", c.skinFile, "skins", reg.Names())
	return reg, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/deckfit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
