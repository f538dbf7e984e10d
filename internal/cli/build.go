package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bikebuilder/pkg/builder"
	"github.com/matzehuels/bikebuilder/pkg/render"
)

// buildCommand starts the interactive builder.
func (c *CLI) buildCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a bike interactively in the terminal",
		Long: `Walk through the categories in build order and pick one part each.

A category must have a part before you can move past it; stepping back is
always allowed. Finish with "w" to write the composite to --output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, c.cfg.Render.Format)
			for _, f := range opts.formats {
				if err := render.ValidateFormat(f); err != nil {
					return err
				}
			}
			opts.width, opts.height = c.cfg.Render.Width, c.cfg.Render.Height
			return c.runBuild(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the finished bike here")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg, png, json, dot, stack (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, opts renderOpts) error {
	store, err := c.loadCatalog(ctx)
	if err != nil {
		return err
	}

	sess := builder.NewSession(store, c.Logger)
	final, err := tea.NewProgram(NewBuildModel(sess), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("builder: %w", err)
	}
	m := final.(BuildModel)

	plan := m.Session.Plan()
	if len(plan.Layers) == 0 {
		printInfo("Nothing selected")
		return nil
	}
	fmt.Println(layerSummary(plan))

	if !m.Saved {
		printNextStep("Finish with w to save", "bikebuilder build -o bike.svg")
		return nil
	}
	if opts.output == "" {
		printWarning("No --output given, nothing written")
		return nil
	}

	artifacts, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer artifacts.Close()
	return c.writeArtifacts(ctx, plan, artifacts, opts)
}
