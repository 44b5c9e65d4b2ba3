package events

import (
	"context"
	"fmt"

	"eventscout/internal/discovery"
	"eventscout/internal/logging"
	"eventscout/internal/tools"
)

// Searcher runs a discovery query.
type Searcher interface {
	Discover(ctx context.Context, query string) (*discovery.AggregatedReport, error)
}

// SearchTool returns the event discovery tool. Its output text is the
// report narrative and its references are the report's signup URLs.
func SearchTool(s Searcher) *tools.Tool {
	return &tools.Tool{
		Name:        "event_search",
		Description: "Search the configured event sources and summarize upcoming events with signup URLs",
		Capability:  tools.CapabilitySearch,
		Execute: func(ctx context.Context, args map[string]any) (tools.Output, error) {
			query, err := tools.StringArg(args, "query")
			if err != nil {
				return tools.Output{}, err
			}
			report, err := s.Discover(ctx, query)
			if err != nil {
				return tools.Output{}, fmt.Errorf("%w: search: %w", tools.ErrCapabilityUnavailable, err)
			}
			logging.Tools("event_search %q: %d/%d sources, %d urls",
				query, report.Succeeded(), len(report.PerSource), len(report.AllSignupURLs))
			return tools.Output{
				Text:       report.Narrative,
				References: append([]string(nil), report.AllSignupURLs...),
			}, nil
		},
		Schema: tools.ToolSchema{
			Required: []string{"query"},
			Properties: map[string]tools.Property{
				"query": {Type: "string", Description: "Topic to search for, e.g. \"AI\""},
			},
		},
	}
}
