package events

import (
	"context"
	"errors"
	"strings"
	"testing"

	"eventscout/internal/discovery"
	"eventscout/internal/document"
	"eventscout/internal/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	report *discovery.AggregatedReport
	err    error
	query  string
}

func (s *stubSearcher) Discover(ctx context.Context, query string) (*discovery.AggregatedReport, error) {
	s.query = query
	return s.report, s.err
}

type stubGenerator struct {
	system, input string
	out           string
	err           error
}

func (g *stubGenerator) CompleteWithSystem(ctx context.Context, system, input string) (string, error) {
	g.system, g.input = system, input
	return g.out, g.err
}

func TestAdapterBindsCapabilities(t *testing.T) {
	reg, err := NewAdapter(&stubSearcher{}, nil, &stubGenerator{}, 0)
	require.NoError(t, err)

	for _, c := range tools.AllCapabilities {
		require.NotNil(t, reg.ForCapability(c), "capability %s", c)
	}
	assert.Equal(t, "document_read", reg.ForCapability(tools.CapabilityDocumentRead).Name)
	assert.Equal(t, "event_search", reg.ForCapability(tools.CapabilitySearch).Name)
	assert.Equal(t, "generate", reg.ForCapability(tools.CapabilityGenerate).Name)

	reg, err = NewAdapter(nil, nil, &stubGenerator{}, 0)
	require.NoError(t, err)
	assert.Nil(t, reg.ForCapability(tools.CapabilitySearch))
}

func TestSearchTool(t *testing.T) {
	s := &stubSearcher{report: &discovery.AggregatedReport{
		Narrative:     "RAG Workshop | signup URL: https://meetup.com/events/123/signup",
		AllSignupURLs: []string{"https://meetup.com/events/123/signup"},
	}}
	reg, err := NewAdapter(s, nil, &stubGenerator{}, 0)
	require.NoError(t, err)

	res, err := reg.Invoke(context.Background(), tools.CapabilitySearch, map[string]any{"query": "AI"})
	require.NoError(t, err)
	assert.Equal(t, "AI", s.query)
	assert.Contains(t, res.Output.Text, "RAG Workshop")
	assert.Equal(t, []string{"https://meetup.com/events/123/signup"}, res.Output.References)
}

func TestSearchToolFailure(t *testing.T) {
	s := &stubSearcher{err: discovery.ErrEmptyQuery}
	_, err := SearchTool(s).Execute(context.Background(), map[string]any{"query": ""})
	assert.ErrorIs(t, err, tools.ErrCapabilityUnavailable)
	assert.ErrorIs(t, err, discovery.ErrEmptyQuery)
}

func TestDocumentReadTool(t *testing.T) {
	out, err := DocumentReadTool(nil).Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, NoContent, out.Text)

	out, err = DocumentReadTool(document.Static{Name: "flyer.txt", Content: []byte("Demo Day Friday")}).Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "File: flyer.txt\n\nContent:\nDemo Day Friday", out.Text)

	_, err = DocumentReadTool(document.FileReader{Path: "flyer.pdf"}).Execute(context.Background(), nil)
	assert.ErrorIs(t, err, document.ErrUnsupportedFormat)
}

func TestGenerateTool(t *testing.T) {
	g := &stubGenerator{out: "# Newsletter"}
	tool := GenerateTool(g, 10)

	out, err := tool.Execute(context.Background(), map[string]any{
		"system": "You are the Writer.",
		"input":  strings.Repeat("x", 50),
	})
	require.NoError(t, err)
	assert.Equal(t, "# Newsletter", out.Text)
	assert.Equal(t, "You are the Writer.", g.system)
	assert.True(t, strings.HasPrefix(g.input, strings.Repeat("x", 10)))
	assert.Contains(t, g.input, "[...truncated...]")
}

func TestGenerateToolFailures(t *testing.T) {
	_, err := GenerateTool(nil, 0).Execute(context.Background(), map[string]any{"input": "x"})
	assert.ErrorIs(t, err, tools.ErrCapabilityUnavailable)

	boom := errors.New("quota exceeded")
	_, err = GenerateTool(&stubGenerator{err: boom}, 0).Execute(context.Background(), map[string]any{"input": "x"})
	assert.ErrorIs(t, err, tools.ErrCapabilityUnavailable)
	assert.ErrorIs(t, err, boom)

	_, err = GenerateTool(&stubGenerator{}, 0).Execute(context.Background(), map[string]any{"input": 7})
	assert.ErrorIs(t, err, tools.ErrInvalidArgType)
}
