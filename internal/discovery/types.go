package discovery

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Family selects the link-extraction strategy for a source.
type Family string

const (
	FamilyMeetup     Family = "meetup"
	FamilyEventbrite Family = "eventbrite"
	FamilyLuma       Family = "luma"
	FamilyFeed       Family = "feed"
	FamilyGeneric    Family = "generic"
)

// DisplayName returns the human-readable platform name.
func (f Family) DisplayName() string {
	switch f {
	case FamilyMeetup:
		return "Meetup"
	case FamilyEventbrite:
		return "Eventbrite"
	case FamilyLuma:
		return "Luma"
	case FamilyFeed:
		return "Feed"
	case FamilyGeneric:
		return "Generic"
	default:
		return string(f)
	}
}

// SourceDescriptor is a configured event-hosting endpoint.
type SourceDescriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URLTemplate string `json:"url_template"`
	Family      Family `json:"family"`
	// Domain restricts emitted links for platform families (e.g. "meetup.com").
	Domain string `json:"domain,omitempty"`
}

// FetchResult is the outcome of one fetch attempt.
type FetchResult struct {
	Source     SourceDescriptor
	URL        string // expanded request URL
	FinalURL   string // after redirects; used as the base for relative links
	HTTPStatus int
	Body       []byte
	Err        error
	Elapsed    time.Duration
}

// OK reports whether the fetch produced a body.
func (r FetchResult) OK() bool {
	return r.Err == nil
}

// BaseURL returns the URL relative links resolve against.
func (r FetchResult) BaseURL() string {
	if r.FinalURL != "" {
		return r.FinalURL
	}
	return r.URL
}

// CandidateLink is a URL believed to point at an individual event's signup page.
type CandidateLink struct {
	URL           string `json:"url"`
	SourceFamily  Family `json:"source_family"`
	NearbyHeading string `json:"nearby_heading,omitempty"`
}

// Category is the classification of a heading.
type Category int

const (
	Irrelevant Category = iota
	Eventish
	Topical
)

func (c Category) String() string {
	switch c {
	case Topical:
		return "topical"
	case Eventish:
		return "eventish"
	default:
		return "irrelevant"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "topical":
		*c = Topical
	case "eventish":
		*c = Eventish
	case "irrelevant", "":
		*c = Irrelevant
	default:
		return fmt.Errorf("unknown category %q", string(b))
	}
	return nil
}

// ClassifiedHeading is a heading text block with its category.
type ClassifiedHeading struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Status is the per-source outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// SourceReport is the extraction result for one attempted source.
type SourceReport struct {
	Source   SourceDescriptor    `json:"source"`
	Status   Status              `json:"status"`
	Links    []CandidateLink     `json:"links"`
	Headings []ClassifiedHeading `json:"headings"`
	Error    string              `json:"error,omitempty"`
	Note     string              `json:"note,omitempty"`

	Err error `json:"-"`
}

// Succeeded reports whether the source was fetched and extracted.
func (r SourceReport) Succeeded() bool {
	return r.Status == StatusSuccess
}

func failedReport(src SourceDescriptor, err error) SourceReport {
	rep := SourceReport{Source: src, Status: StatusFailed, Err: err}
	if err != nil {
		rep.Error = err.Error()
	}
	return rep
}

// AggregatedReport is the deduplicated summary of one discovery run and the
// sole source of truth for signup URLs used downstream.
type AggregatedReport struct {
	RunID         string         `json:"run_id,omitempty"`
	Query         string         `json:"query"`
	GeneratedAt   time.Time      `json:"generated_at"`
	PerSource     []SourceReport `json:"per_source"`
	AllSignupURLs []string       `json:"all_signup_urls"`
	Narrative     string         `json:"narrative"`
}

// Succeeded returns the number of sources with StatusSuccess.
func (r *AggregatedReport) Succeeded() int {
	n := 0
	for _, s := range r.PerSource {
		if s.Succeeded() {
			n++
		}
	}
	return n
}

// HasURL reports whether u (canonicalized) is one of the signup URLs.
func (r *AggregatedReport) HasURL(u string) bool {
	canon, err := CanonicalizeURL(u)
	if err != nil {
		return false
	}
	for _, s := range r.AllSignupURLs {
		if s == canon {
			return true
		}
	}
	return false
}

// JSON renders the report for the CLI.
func (r *AggregatedReport) JSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
