package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bikebuilder/pkg/catalog"
)

type catalogOpts struct {
	category      string
	manufacturer  string
	search        string
	manufacturers bool
	jsonOut       bool
}

// catalogCommand lists catalog parts.
func (c *CLI) catalogCommand() *cobra.Command {
	var opts catalogOpts

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List and filter catalog parts",
		Example: `  bikebuilder catalog -c parts.json --category frames
  bikebuilder catalog -c parts.json --category front_wheel --manufacturer Zipp
  bikebuilder catalog -c parts.json --manufacturers`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			return runCatalog(store, opts)
		},
	}

	cmd.Flags().StringVar(&opts.category, "category", "", "category to list (all parts when empty)")
	cmd.Flags().StringVarP(&opts.manufacturer, "manufacturer", "m", "", "only this manufacturer")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "search terms, all must match")
	cmd.Flags().BoolVar(&opts.manufacturers, "manufacturers", false, "list manufacturers instead of parts")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print JSON")
	cmd.RegisterFlagCompletionFunc("category", completeCategories)

	return cmd
}

func runCatalog(store *catalog.Store, opts catalogOpts) error {
	if opts.manufacturers {
		m := store.Manufacturers()
		if opts.jsonOut {
			return writeJSONTo(m)
		}
		fmt.Println(strings.Join(m, "\n"))
		return nil
	}

	parts, err := filterParts(store, opts)
	if err != nil {
		return err
	}
	if opts.jsonOut {
		if parts == nil {
			parts = []catalog.Part{}
		}
		return writeJSONTo(parts)
	}
	if len(parts) == 0 {
		printWarning("No parts match")
		return nil
	}
	fmt.Println(partsTable(parts))
	printDetail("%d parts", len(parts))
	return nil
}

// filterParts applies the query to one category, or to each category of the
// build sequence in turn when none is given.
func filterParts(store *catalog.Store, opts catalogOpts) ([]catalog.Part, error) {
	if opts.category != "" {
		cat, err := catalog.ParseCategory(opts.category)
		if err != nil {
			return nil, err
		}
		return store.Filter(catalog.Query{Category: cat, Manufacturer: opts.manufacturer, Search: opts.search})
	}

	var out []catalog.Part
	for _, cat := range catalog.Sequence() {
		parts, err := store.Filter(catalog.Query{Category: cat, Manufacturer: opts.manufacturer, Search: opts.search})
		if err != nil {
			return nil, err
		}
		out = append(out, parts...)
	}
	return out, nil
}

func writeJSONTo(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// completeCategories offers the build sequence for --category flags.
func completeCategories(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, cat := range catalog.Sequence() {
		names = append(names, string(cat))
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
