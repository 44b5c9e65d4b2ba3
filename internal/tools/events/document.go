package events

import (
	"context"
	"fmt"

	"eventscout/internal/document"
	"eventscout/internal/tools"
)

// NoContent is the document_read output when no document was supplied.
const NoContent = "no content available"

// DocumentReadTool returns the document tool. A nil reader behaves as if no
// document was supplied.
func DocumentReadTool(r document.Reader) *tools.Tool {
	if r == nil {
		r = document.None{}
	}
	return &tools.Tool{
		Name:        "document_read",
		Description: "Return the text of the user-supplied event document",
		Capability:  tools.CapabilityDocumentRead,
		Execute: func(ctx context.Context, args map[string]any) (tools.Output, error) {
			content, ok, err := r.Read(ctx)
			if err != nil {
				return tools.Output{}, fmt.Errorf("document_read: %w", err)
			}
			if !ok {
				return tools.Output{Text: NoContent}, nil
			}
			return tools.Output{Text: content}, nil
		},
	}
}
