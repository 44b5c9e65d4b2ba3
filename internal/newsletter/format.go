// Package newsletter renders the finished markdown newsletter to the
// supported output formats.
package newsletter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Format is an output format.
type Format string

const (
	Markdown Format = "markdown"
	HTML     Format = "html"
	DOCX     Format = "docx"
)

// Formats lists the supported formats.
var Formats = []Format{Markdown, HTML, DOCX}

// ParseFormat accepts a format name or a common extension ("md", "htm").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "markdown", "md":
		return Markdown, nil
	case "html", "htm":
		return HTML, nil
	case "docx", "word":
		return DOCX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	switch f {
	case HTML:
		return "html"
	case DOCX:
		return "docx"
	default:
		return "md"
	}
}

// DefaultFileName returns ai_events_newsletter.<ext>.
func DefaultFileName(f Format) string {
	return "ai_events_newsletter." + f.Ext()
}

// DefaultTitle is used when the newsletter has no level-one heading.
const DefaultTitle = "AI Events Newsletter"

// Title returns the text of the first "# " heading.
func Title(md string) string {
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			if t := strings.TrimSpace(strings.TrimPrefix(line, "# ")); t != "" {
				return t
			}
		}
	}
	return DefaultTitle
}
