package newsletter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# AI Builders Week

## Tuesday, October 20

- RAG Workshop
- Time: 6:00 PM
- Location: Mission Bay, San Francisco
- Description: Build a **retrieval** pipeline end to end.
- Sign Up: https://meetup.com/sf-ai/events/123456
`

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": Markdown, "md": Markdown, "HTML": HTML, ".htm": HTML, "docx": DOCX} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDefaultFileName(t *testing.T) {
	assert.Equal(t, "ai_events_newsletter.md", DefaultFileName(Markdown))
	assert.Equal(t, "ai_events_newsletter.html", DefaultFileName(HTML))
	assert.Equal(t, "ai_events_newsletter.docx", DefaultFileName(DOCX))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "AI Builders Week", Title(sample))
	assert.Equal(t, DefaultTitle, Title("## only dates"))
}

func TestRenderMarkdownUnchanged(t *testing.T) {
	out, err := Render(sample, Markdown)
	require.NoError(t, err)
	assert.Equal(t, sample, string(out))
}

func TestRenderHTML(t *testing.T) {
	out, err := Render(sample, HTML)
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<title>AI Builders Week</title>")
	assert.Contains(t, html, "<h2>Tuesday, October 20</h2>")
	assert.Contains(t, html, `<a href="https://meetup.com/sf-ai/events/123456">`)
	assert.Contains(t, html, "<strong>retrieval</strong>")
}

func TestRenderDOCXNeedsFile(t *testing.T) {
	_, err := Render(sample, DOCX)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			path := filepath.Join(dir, "out", DefaultFileName(f))
			require.NoError(t, WriteFile(path, sample, f))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			require.NotEmpty(t, data)
			if f == DOCX {
				assert.Equal(t, "PK", string(data[:2]), "docx is a zip archive")
			}
		})
	}
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "register (https://lu.ma/x)", plain("[register](https://lu.ma/x)"))
	assert.Equal(t, "https://lu.ma/x", plain("[https://lu.ma/x](https://lu.ma/x)"))
	assert.Equal(t, "bold code", plain("**bold** `code`"))
}

func TestRenderTerminal(t *testing.T) {
	out, err := RenderTerminal(sample, 0)
	require.NoError(t, err)
	assert.Contains(t, out, "Workshop")
}
