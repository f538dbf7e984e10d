// Package cli implements the bikebuilder command-line interface.
//
// # Commands
//
//   - catalog: list and filter catalog parts, or its manufacturers
//   - render: compose a bike from part keys and write SVG, PNG, JSON or DOT
//   - build: interactive terminal builder
//   - serve: HTTP API over builder sessions
//   - cache: manage the artifact cache
//
// # Configuration
//
// Settings come from ~/.config/bikebuilder/config.toml, a .env file and
// BIKEBUILDER_* variables, in that order; flags override all of them.
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bikebuilder/pkg/buildinfo"
	"github.com/matzehuels/bikebuilder/pkg/cache"
	"github.com/matzehuels/bikebuilder/pkg/catalog"
	"github.com/matzehuels/bikebuilder/pkg/render"
)

// appName is the application name used for directories and display.
const appName = "bikebuilder"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        Config
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), cfg: defaultConfig()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var catalogFlag, assetsFlag string

	root := &cobra.Command{
		Use:          appName,
		Short:        "Bikebuilder composes bicycles from a parts catalog",
		Long:         `Bikebuilder walks through a fixed sequence of part categories, lets you pick one part per category, and composites the selection into a layered picture with running weight and price totals.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			if catalogFlag != "" {
				cfg.Catalog = catalogFlag
			}
			if assetsFlag != "" {
				cfg.Assets = assetsFlag
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/bikebuilder/config.toml)")
	root.PersistentFlags().StringVarP(&catalogFlag, "catalog", "c", "", "catalog file (.json, .toml, .yaml)")
	root.PersistentFlags().StringVar(&assetsFlag, "assets", "", "directory holding part images")

	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared setup
// =============================================================================

// catalogSource picks the configured catalog backend. Database sources take
// precedence over the file.
func (c *CLI) catalogSource(ctx context.Context) (catalog.Source, func(), error) {
	src := c.cfg.Source
	switch {
	case src.Postgres != "":
		db, err := catalog.OpenPostgres(ctx, src.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return catalog.PostgresSource{DB: db, Table: src.Table}, func() { db.Close() }, nil
	case src.Mongo != "":
		client, coll, err := catalog.ConnectMongo(ctx, src.Mongo, src.Database, src.Collection)
		if err != nil {
			return nil, nil, err
		}
		return catalog.MongoSource{Collection: coll}, func() { client.Disconnect(context.Background()) }, nil
	case c.cfg.Catalog != "":
		return catalog.FileSource{Path: c.cfg.Catalog}, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("no catalog configured: pass --catalog or set %sCATALOG", envPrefix)
	}
}

// loadCatalog builds a loaded store from the configured source.
func (c *CLI) loadCatalog(ctx context.Context) (*catalog.Store, error) {
	src, closeFn, err := c.catalogSource(ctx)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	prog := newProgress(c.Logger)
	store := catalog.NewStore(c.Logger)
	if err := store.LoadFrom(ctx, src); err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Loaded %d parts from %s", store.Len(), src.Describe()))
	return store, nil
}

// newCache opens the configured artifact cache: Redis when a URL is set,
// otherwise files under the cache directory.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cc := c.cfg.Cache
	if noCache || cc.Disabled {
		return cache.NewNullCache(), nil
	}
	if cc.RedisURL != "" {
		return cache.NewRedisCache(ctx, cc.RedisURL)
	}
	dir := cc.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// assetLoader resolves local images under the assets directory and remote
// images over HTTP, caching fetched bytes in store.
func (c *CLI) assetLoader(store cache.Cache) render.AssetLoader {
	loaders := render.Loaders{
		Remote: render.HTTPLoader{
			Client: &http.Client{Timeout: 20 * time.Second},
			Cache:  store,
			TTL:    c.cfg.Cache.TTL,
		},
	}
	if c.cfg.Assets != "" {
		loaders.Local = render.DirLoader{Root: c.cfg.Assets}
	}
	return loaders
}
