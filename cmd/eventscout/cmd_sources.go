package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourcesQuery string

// sourcesCmd lists the source catalog.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the event sources and the URL each fetches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := selectCatalog(nil)
		if err != nil {
			return err
		}
		if err := catalog.Validate(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderCatalogTable(catalog, sourcesQuery))
		return nil
	},
}

func init() {
	sourcesCmd.Flags().StringVar(&sourcesQuery, "query", "AI", "Query substituted into source URLs")
}
