// Package cli implements the sourceflow command-line interface.
//
// This package provides commands for rendering source dependency diagrams
// from declarative sources configs, serving them over HTTP, browsing a
// config interactively, and sharing configs through a central store. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - diagram: Render the dependency diagram for a source key
//   - legend: Render the diagram key charts
//   - serve: Serve diagrams over HTTP
//   - browse: Interactively pick a source key and render its diagram
//   - publish: Publish a sources config to the shared store
//   - configs: List or delete published configs
package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sourceflow/pkg/buildinfo"
	"github.com/matzehuels/sourceflow/pkg/cache"
	"github.com/matzehuels/sourceflow/pkg/errors"
	"github.com/matzehuels/sourceflow/pkg/source"
	"github.com/matzehuels/sourceflow/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "sourceflow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Sourceflow visualizes how data sources are built",
		Long:         `Sourceflow renders the dependency tree behind any source in a declarative sources config as a flowchart, so you can see exactly which files, tables and unions a source is built from.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.diagramCommand())
	root.AddCommand(c.legendCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.publishCommand())
	root.AddCommand(c.configsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config Sources
// =============================================================================

// storeOpts holds the flags shared by every command that can read a config
// from the shared store instead of a local file.
type storeOpts struct {
	fromStore string // published config name; empty means a local file
	mongoURI  string
	database  string
}

func (o *storeOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.fromStore, "from-store", "", "read the config from the shared store by name")
	cmd.Flags().StringVar(&o.mongoURI, "mongo", "", "MongoDB connection URI for the shared store")
	cmd.Flags().StringVar(&o.database, "database", "", "store database name (default sourceflow)")
}

// loadConfig loads the sources config, either from the local file at path or
// from the shared store when --from-store is set.
func (c *CLI) loadConfig(ctx context.Context, path string, opts storeOpts) (source.Config, error) {
	if opts.fromStore == "" {
		if path == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"a config file argument or --from-store is required")
		}
		return source.LoadFile(path)
	}

	if opts.mongoURI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"--from-store requires --mongo")
	}

	s, err := store.NewMongoStore(ctx, opts.mongoURI, opts.database)
	if err != nil {
		return nil, err
	}
	defer s.Close(ctx)

	record, err := s.Fetch(ctx, opts.fromStore)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config from store", "name", opts.fromStore, "updated", record.UpdatedAt)
	return record.Config, nil
}

// configDigest produces a stable digest of a config, used to key cached
// markup regardless of whether the config came from a file or the store.
func configDigest(config source.Config) string {
	data, _ := json.Marshal(config)
	return cache.Hash(data)
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache picks the markup cache backend: null when disabled, Redis when an
// address is given, the XDG file cache otherwise.
func newCache(ctx context.Context, noCache bool, redisAddr string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		return cache.NewRedisCache(ctx, redisAddr)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/sourceflow/).
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
