package main

import (
	"fmt"
	"strings"

	"eventscout/internal/discovery"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const maxCellWidth = 60

func newTable(header ...any) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(header)
	return tw
}

// renderSourceTable summarizes per-source outcomes of a discovery run.
func renderSourceTable(report *discovery.AggregatedReport) string {
	tw := newTable("Source", "Family", "Status", "Links", "Headings", "Detail")
	for _, r := range report.PerSource {
		detail := r.Note
		if r.Error != "" {
			detail = r.Error
		}
		tw.AppendRow(table.Row{r.Source.Name, r.Source.Family.DisplayName(), r.Status, len(r.Links), len(r.Headings), detail})
	}
	tw.AppendFooter(table.Row{"", "", fmt.Sprintf("%d/%d ok", report.Succeeded(), len(report.PerSource)), len(report.AllSignupURLs), "", ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, WidthMax: maxCellWidth},
	})
	return tw.Render()
}

// renderCatalogTable lists sources with the URL each would fetch for query.
func renderCatalogTable(catalog discovery.Catalog, query string) string {
	tw := newTable("ID", "Name", "Family", "URL")
	for _, src := range catalog {
		tw.AppendRow(table.Row{src.ID, src.Name, src.Family.DisplayName(), src.URL(query)})
	}
	return tw.Render()
}

// renderURLList prints signup URLs one per line.
func renderURLList(urls []string) string {
	if len(urls) == 0 {
		return "No signup URLs found.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Signup URLs (%d):\n", len(urls))
	for _, u := range urls {
		fmt.Fprintf(&sb, "  %s\n", u)
	}
	return sb.String()
}
