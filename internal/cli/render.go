package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bikebuilder/pkg/builder"
	"github.com/matzehuels/bikebuilder/pkg/cache"
	"github.com/matzehuels/bikebuilder/pkg/catalog"
	"github.com/matzehuels/bikebuilder/pkg/errors"
	"github.com/matzehuels/bikebuilder/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file, or base path for several formats
	formats []string // svg, png, json, dot, stack
	width   int
	height  int
	noCache bool
}

// pick is one category=key argument.
type pick struct {
	category catalog.Category
	key      string
}

// renderCommand composes a bike from category=key arguments.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render category=part...",
		Short: "Compose a bike from part keys and write it out",
		Long: `Select one part per category by slug or model name and render the composite.

Arguments are category=key pairs; the key is a part slug, or its model name
when the part has no slug. Categories may be given in any order.`,
		Example: `  bikebuilder render -c parts.json frames=roadster front_wheel="303 Firecrest" -o bike.svg
  bikebuilder render -c parts.json frames=roadster -f svg,png,json -o out/bike`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			picks, err := parsePicks(args)
			if err != nil {
				return err
			}
			opts.formats = parseFormats(formatsStr, c.cfg.Render.Format)
			for _, f := range opts.formats {
				if err := render.ValidateFormat(f); err != nil {
					return err
				}
			}
			if opts.width == 0 {
				opts.width = c.cfg.Render.Width
			}
			if opts.height == 0 {
				opts.height = c.cfg.Render.Height
			}
			return c.runRender(cmd.Context(), picks, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg, png, json, dot, stack (comma-separated)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "canvas width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 0, "canvas height in pixels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

// parsePicks parses category=key arguments.
func parsePicks(args []string) ([]pick, error) {
	picks := make([]pick, 0, len(args))
	for _, arg := range args {
		name, key, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "expected category=part, got %q", arg)
		}
		cat, err := catalog.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		picks = append(picks, pick{category: cat, key: key})
	}
	return picks, nil
}

// parseFormats splits the --format flag, falling back to def.
func parseFormats(s, def string) []string {
	if s == "" {
		s = def
	}
	if s == "" {
		s = render.FormatSVG
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// outputPaths maps each format to its file. A single format writes to output
// as given; several formats share output's base name with per-format
// extensions. Without output, files are named bike.<ext>.
func outputPaths(output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = "bike"
	}
	if ext := strings.TrimPrefix(filepath.Ext(base), "."); render.ValidateFormat(ext) == nil {
		base = strings.TrimSuffix(base, "."+ext)
	}
	for _, f := range formats {
		paths[f] = base + "." + extension(f)
	}
	return paths
}

func extension(format string) string {
	if format == render.FormatStack {
		return "stack.svg"
	}
	return format
}

// selectPicks builds a session with every pick selected.
func (c *CLI) selectPicks(store *catalog.Store, picks []pick) (*builder.Session, error) {
	sess := builder.NewSession(store, c.Logger)
	for _, p := range picks {
		if _, err := sess.SelectKey(p.category, p.key); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

func (c *CLI) runRender(ctx context.Context, picks []pick, opts renderOpts) error {
	store, err := c.loadCatalog(ctx)
	if err != nil {
		return err
	}
	sess, err := c.selectPicks(store, picks)
	if err != nil {
		return err
	}
	plan := sess.Plan()

	artifacts, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	return c.writeArtifacts(ctx, plan, artifacts, opts)
}

// writeArtifacts renders plan in every requested format and writes the files.
func (c *CLI) writeArtifacts(ctx context.Context, plan builder.Plan, artifacts cache.Cache, opts renderOpts) error {
	keyer := cache.NewDefaultKeyer()
	planHash := cache.HashJSON(plan)
	ropts := render.Options{
		Width:  opts.width,
		Height: opts.height,
		Loader: c.assetLoader(artifacts),
		Logger: c.Logger,
	}

	logger := loggerFromContext(ctx)
	paths := outputPaths(opts.output, opts.formats)
	var written []string
	for _, f := range opts.formats {
		spin := newSpinnerWithContext(ctx, "Rendering "+f+"...")
		spin.Start()
		key := keyer.ArtifactKey(planHash, cache.ArtifactKeyOpts{Format: f, Width: opts.width, Height: opts.height})
		logger.Debug("rendering artifact", "format", f, "key", key)
		data, err := cache.GetOrCompute(ctx, artifacts, key, f, c.cfg.Cache.TTL, func() ([]byte, error) {
			return render.Render(ctx, f, plan, ropts)
		})
		spin.Stop()
		if err != nil {
			return err
		}

		path := paths[f]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess("Rendered %d layers", len(plan.Layers))
	for _, p := range written {
		printFile(p)
	}
	printKeyValue("Weight", plan.Totals.WeightText())
	printKeyValue("Price", plan.Totals.PriceText())
	return nil
}
