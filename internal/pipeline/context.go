package pipeline

import (
	"fmt"
	"strings"
)

// Entry is one completed stage's output.
type Entry struct {
	Role   Role
	Output string
}

// ExecutionContext accumulates stage outputs for one run. It is append-only:
// only the orchestrator adds entries and recorded outputs never change.
type ExecutionContext struct {
	query   string
	entries []Entry
	allowed []string
	seen    map[string]bool
}

// NewContext creates a seed context for a run. allowed pre-seeds the signup
// URLs later stages may cite.
func NewContext(query string, allowed []string) *ExecutionContext {
	ec := &ExecutionContext{query: query, seen: make(map[string]bool)}
	ec.allow(allowed)
	return ec
}

// Query returns the search query.
func (c *ExecutionContext) Query() string {
	return c.query
}

// Entries returns a copy of the recorded outputs in stage order.
func (c *ExecutionContext) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Len returns the number of completed stages.
func (c *ExecutionContext) Len() int {
	return len(c.entries)
}

// Last returns the most recent entry.
func (c *ExecutionContext) Last() (Entry, bool) {
	if len(c.entries) == 0 {
		return Entry{}, false
	}
	return c.entries[len(c.entries)-1], true
}

// AllowedURLs returns a copy of the signup URLs stages may cite.
func (c *ExecutionContext) AllowedURLs() []string {
	return append([]string(nil), c.allowed...)
}

// Render concatenates prior outputs as "### <Role> output" sections.
func (c *ExecutionContext) Render() string {
	var sb strings.Builder
	for _, e := range c.entries {
		fmt.Fprintf(&sb, "### %s output\n\n%s\n\n", e.Role.Title(), e.Output)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (c *ExecutionContext) append(e Entry) {
	c.entries = append(c.entries, e)
}

func (c *ExecutionContext) allow(urls []string) {
	for _, u := range urls {
		if u != "" && !c.seen[u] {
			c.seen[u] = true
			c.allowed = append(c.allowed, u)
		}
	}
}

func (c *ExecutionContext) clone() *ExecutionContext {
	out := NewContext(c.query, c.allowed)
	out.entries = append([]Entry(nil), c.entries...)
	return out
}
