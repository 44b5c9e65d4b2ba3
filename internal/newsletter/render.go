package newsletter

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"eventscout/internal/logging"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Linkify),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; max-width: 760px; margin: 2rem auto; line-height: 1.5; color: #222; }
h1 { border-bottom: 1px solid #ddd; padding-bottom: .3rem; }
h2 { margin-top: 2rem; color: #444; }
a { color: #0b63c5; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Render returns the newsletter in a text format. Markdown is returned
// unchanged; HTML is a complete document. DOCX is binary, use WriteFile.
func Render(md string, f Format) ([]byte, error) {
	switch f {
	case Markdown:
		return []byte(md), nil
	case HTML:
		return renderHTML(md)
	case DOCX:
		return nil, fmt.Errorf("%w: docx must be written to a file", ErrUnknownFormat)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

func renderHTML(md string) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(md), &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	var out bytes.Buffer
	err := page.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{Title: Title(md), Body: template.HTML(body.String())})
	if err != nil {
		return nil, fmt.Errorf("render html page: %w", err)
	}
	return out.Bytes(), nil
}

// WriteFile writes the newsletter to path in format f, creating parent
// directories as needed.
func WriteFile(path, md string, f Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	if f == DOCX {
		if err := WriteDOCX(path, md); err != nil {
			return err
		}
	} else {
		data, err := Render(md, f)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write newsletter: %w", err)
		}
	}

	logging.Document("newsletter written: %s (%s)", path, f)
	return nil
}

// RenderTerminal styles the markdown for terminal display.
func RenderTerminal(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create terminal renderer: %w", err)
	}
	return r.Render(md)
}
