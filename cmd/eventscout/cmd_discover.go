package main

import (
	"fmt"

	"eventscout/internal/discovery"

	"github.com/spf13/cobra"
)

var (
	discoverJSON    bool
	discoverSources []string
)

// discoverCmd runs discovery only, without generation.
var discoverCmd = &cobra.Command{
	Use:   "discover [query]",
	Short: "Query every event source and list verified signup links",
	Long: `Fetches every catalog source concurrently, extracts event links and
headings, and prints a per-source summary followed by the deduplicated
signup URLs. No LLM is used.

Example:
  eventscout discover "AI agents" --sources meetup,luma-genai-sf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "Print the aggregated report as JSON")
	discoverCmd.Flags().StringSliceVar(&discoverSources, "sources", nil, "Restrict discovery to these source IDs")
}

// selectCatalog returns the default catalog restricted to ids.
func selectCatalog(ids []string) (discovery.Catalog, error) {
	catalog := discovery.DefaultCatalog()
	if len(ids) == 0 {
		return catalog, nil
	}
	return catalog.Select(ids...)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	catalog, err := selectCatalog(discoverSources)
	if err != nil {
		return err
	}
	d, err := discovery.FromConfig(cfg, catalog)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	report, err := d.Discover(ctx, joinArgs(args))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if discoverJSON {
		data, err := report.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, data)
		return nil
	}

	fmt.Fprintln(out, renderSourceTable(report))
	fmt.Fprintln(out)
	fmt.Fprint(out, renderURLList(report.AllSignupURLs))
	if verbose {
		fmt.Fprintln(out)
		fmt.Fprintln(out, report.Narrative)
	}
	return nil
}
