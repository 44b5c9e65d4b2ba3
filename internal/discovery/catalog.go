package discovery

import (
	"fmt"
	"net/url"
	"strings"
)

// Catalog is an ordered, immutable-by-convention list of sources.
type Catalog []SourceDescriptor

// DefaultCatalog returns the built-in Bay Area AI event sources.
func DefaultCatalog() Catalog {
	return Catalog{
		{ID: "meetup", Name: "Meetup", Family: FamilyMeetup, Domain: "meetup.com",
			URLTemplate: "https://www.meetup.com/find/?keywords={query}&location=us--ca--San%20Francisco&source=EVENTS"},
		{ID: "meetup-bay-area-ai", Name: "Bay Area AI (Meetup RSS)", Family: FamilyFeed, Domain: "meetup.com",
			URLTemplate: "https://www.meetup.com/bay-area-ai/events/rss/"},
		{ID: "eventbrite", Name: "Eventbrite", Family: FamilyEventbrite, Domain: "eventbrite.com",
			URLTemplate: "https://www.eventbrite.com/d/ca--san-francisco/{path}/"},
		{ID: "luma-genai-sf", Name: "Luma GenAI SF", Family: FamilyLuma, Domain: "lu.ma",
			URLTemplate: "https://lu.ma/genai-sf?k=c"},
		{ID: "luma-discover", Name: "Luma", Family: FamilyLuma, Domain: "lu.ma",
			URLTemplate: "https://lu.ma/discover?q={query}"},
		{ID: "cerebral-valley", Name: "Cerebral Valley", Family: FamilyGeneric,
			URLTemplate: "https://cerebralvalley.ai/events"},
		{ID: "startup-grind", Name: "Startup Grind", Family: FamilyGeneric,
			URLTemplate: "https://www.startupgrind.com/events/?q={query}"},
		{ID: "ycombinator", Name: "Y Combinator", Family: FamilyGeneric,
			URLTemplate: "https://events.ycombinator.com/"},
		{ID: "a16z", Name: "Andreessen Horowitz", Family: FamilyGeneric,
			URLTemplate: "https://a16z.com/events/"},
		{ID: "500-global", Name: "500 Global", Family: FamilyGeneric,
			URLTemplate: "https://500.co/events"},
		{ID: "stanford", Name: "Stanford Events", Family: FamilyGeneric,
			URLTemplate: "https://events.stanford.edu/search?q={query}"},
		{ID: "berkeley", Name: "UC Berkeley Events", Family: FamilyGeneric,
			URLTemplate: "https://events.berkeley.edu/events/search?search={query}"},
		{ID: "svforum", Name: "Silicon Valley Forum", Family: FamilyGeneric,
			URLTemplate: "https://www.svforum.org/events"},
		{ID: "galvanize", Name: "Galvanize", Family: FamilyGeneric,
			URLTemplate: "https://www.galvanize.com/events"},
		{ID: "strictlyvc", Name: "StrictlyVC", Family: FamilyGeneric,
			URLTemplate: "https://www.strictlyvc.com/events/"},
	}
}

// URL expands the template for a query. {query} is query-escaped and {path}
// is path-escaped with spaces folded to hyphens.
func (s SourceDescriptor) URL(query string) string {
	q := strings.TrimSpace(query)
	out := strings.ReplaceAll(s.URLTemplate, "{query}", url.QueryEscape(q))
	slug := strings.Join(strings.Fields(strings.ToLower(q)), "-")
	return strings.ReplaceAll(out, "{path}", url.PathEscape(slug))
}

// Validate checks IDs are unique, templates are absolute http(s) URLs, and
// platform families carry a domain.
func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c))
	for i, s := range c {
		if s.ID == "" {
			return fmt.Errorf("%w: source %d has no id", ErrInvalidCatalog, i)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate source id %q", ErrInvalidCatalog, s.ID)
		}
		seen[s.ID] = true

		u, err := url.Parse(s.URL("ai"))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: source %q has invalid url template %q", ErrInvalidCatalog, s.ID, s.URLTemplate)
		}

		switch s.Family {
		case FamilyMeetup, FamilyEventbrite, FamilyLuma:
			if s.Domain == "" {
				return fmt.Errorf("%w: platform source %q needs a domain", ErrInvalidCatalog, s.ID)
			}
		case FamilyFeed, FamilyGeneric:
		default:
			return fmt.Errorf("%w: source %q has unknown family %q", ErrInvalidCatalog, s.ID, s.Family)
		}
	}
	return nil
}

// Lookup returns the descriptor with the given id.
func (c Catalog) Lookup(id string) (SourceDescriptor, bool) {
	for _, s := range c {
		if s.ID == id {
			return s, true
		}
	}
	return SourceDescriptor{}, false
}

// Select returns the descriptors whose ids are listed, in catalog order.
// Unknown ids are reported as an error.
func (c Catalog) Select(ids ...string) (Catalog, error) {
	if len(ids) == 0 {
		return c, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := c.Lookup(id); !ok {
			return nil, fmt.Errorf("unknown source %q", id)
		}
		want[id] = true
	}
	var out Catalog
	for _, s := range c {
		if want[s.ID] {
			out = append(out, s)
		}
	}
	return out, nil
}
