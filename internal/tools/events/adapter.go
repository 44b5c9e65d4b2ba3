package events

import (
	"eventscout/internal/document"
	"eventscout/internal/tools"
)

// NewAdapter returns a registry with every collaborator bound to its
// capability. A nil searcher leaves CapabilitySearch unbound.
func NewAdapter(s Searcher, r document.Reader, g Generator, maxInputChars int) (*tools.Registry, error) {
	reg := tools.NewRegistry()
	all := []*tools.Tool{
		DocumentReadTool(r),
		GenerateTool(g, maxInputChars),
	}
	if s != nil {
		all = append(all, SearchTool(s))
	}
	for _, tool := range all {
		if err := reg.Register(tool); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
