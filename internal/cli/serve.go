package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bikebuilder/pkg/server"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve builder sessions over HTTP",
		Example: `  bikebuilder serve -c parts.json --assets ./images --addr :8080
  curl -X POST localhost:8080/sessions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	store, err := c.loadCatalog(ctx)
	if err != nil {
		return err
	}

	artifacts, err := c.newCache(ctx, noCache)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	metrics := server.NewMetrics()
	metrics.Install()

	srv := server.New(store, server.Config{
		Width:       c.cfg.Render.Width,
		Height:      c.cfg.Render.Height,
		AssetBase:   c.cfg.Server.AssetBase,
		Loader:      c.assetLoader(artifacts),
		Cache:       artifacts,
		CacheTTL:    c.cfg.Cache.TTL,
		SessionIdle: c.cfg.Server.SessionIdle,
		Metrics:     metrics,
		Logger:      c.Logger,
	})

	prog := newProgress(c.Logger)
	err = srv.ListenAndServe(ctx, addr)
	prog.done("Server stopped")
	return err
}
