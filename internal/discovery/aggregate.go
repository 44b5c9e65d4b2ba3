package discovery

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"eventscout/internal/logging"
)

// DefaultMaxURLs caps the aggregated signup URL list.
const DefaultMaxURLs = 40

const maxNarrativeHeadings = 25

// Aggregator merges per-source reports into one AggregatedReport. Given the
// same reports and clock it produces the same output.
type Aggregator struct {
	MaxURLs     int
	HorizonDays int
	Now         func() time.Time
}

// NewAggregator returns an aggregator using the wall clock.
func NewAggregator(maxURLs, horizonDays int) *Aggregator {
	if maxURLs <= 0 {
		maxURLs = DefaultMaxURLs
	}
	return &Aggregator{MaxURLs: maxURLs, HorizonDays: horizonDays, Now: time.Now}
}

// Aggregate sorts reports by source id, merges their links in first-seen
// order, caps the list and renders the narrative. Every URL the narrative
// cites is a member of AllSignupURLs.
func (a *Aggregator) Aggregate(query string, reports []SourceReport) *AggregatedReport {
	now := time.Now()
	if a.Now != nil {
		now = a.Now()
	}
	maxURLs := a.MaxURLs
	if maxURLs <= 0 {
		maxURLs = DefaultMaxURLs
	}

	sorted := make([]SourceReport, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Source.ID < sorted[j].Source.ID
	})

	var (
		all  []string
		seen = make(map[string]bool)
	)
	for i := range sorted {
		if !sorted[i].Succeeded() {
			continue
		}
		urls, err := a.collect(sorted[i])
		if err != nil {
			logging.DiscoveryWarn("report for %s downgraded: %v", sorted[i].Source.ID, err)
			sorted[i] = failedReport(sorted[i].Source, err)
			continue
		}
		for _, u := range urls {
			if !seen[u] {
				seen[u] = true
				all = append(all, u)
			}
		}
	}
	if len(all) > maxURLs {
		all = all[:maxURLs]
	}

	report := &AggregatedReport{
		Query:         query,
		GeneratedAt:   now,
		PerSource:     sorted,
		AllSignupURLs: all,
	}
	report.Narrative = a.narrative(report, now)
	return report
}

// collect validates one report's links. A panic while reading a malformed
// report is converted into an error so only that source is affected.
func (a *Aggregator) collect(r SourceReport) (urls []string, err error) {
	defer func() {
		if p := recover(); p != nil {
			urls, err = nil, fmt.Errorf("malformed report: %v", p)
		}
	}()
	for _, l := range r.Links {
		canon, cerr := CanonicalizeURL(l.URL)
		if cerr != nil {
			return nil, fmt.Errorf("invalid link %q: %w", l.URL, cerr)
		}
		u, _ := url.Parse(canon)
		if isBareRoot(u) {
			continue
		}
		urls = append(urls, canon)
	}
	return urls, nil
}

func (a *Aggregator) narrative(r *AggregatedReport, now time.Time) string {
	inList := make(map[string]bool, len(r.AllSignupURLs))
	for _, u := range r.AllSignupURLs {
		inList[u] = true
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Event discovery for %q", r.Query)
	if a.HorizonDays > 0 {
		end := now.AddDate(0, 0, a.HorizonDays)
		fmt.Fprintf(&sb, " (window: %s to %s)", now.Format("Monday, January 2, 2006"), end.Format("Monday, January 2, 2006"))
	}
	fmt.Fprintf(&sb, "\nSources: %d of %d succeeded.\n", r.Succeeded(), len(r.PerSource))

	for _, s := range r.PerSource {
		fmt.Fprintf(&sb, "\n## %s (%s) [%s]\n", s.Source.Name, s.Source.Family.DisplayName(), s.Status)
		if !s.Succeeded() {
			reason := s.Error
			if reason == "" {
				reason = "unknown error"
			}
			fmt.Fprintf(&sb, "Unavailable: %s\n", reason)
			continue
		}
		fmt.Fprintf(&sb, "Links: %d, headings: %d\n", len(s.Links), len(s.Headings))
		if s.Note != "" {
			fmt.Fprintf(&sb, "Note: %s\n", s.Note)
		}

		// Relevant headings are paired positionally with the source's links.
		// This is an approximation: a heading may not belong to its link.
		var links []string
		for _, l := range s.Links {
			if canon, err := CanonicalizeURL(l.URL); err == nil {
				links = append(links, canon)
			}
		}
		k := 0
		for _, h := range s.Headings {
			if h.Category == Irrelevant {
				continue
			}
			if k >= maxNarrativeHeadings {
				break
			}
			partner := "not available"
			if k < len(links) && inList[links[k]] {
				partner = links[k]
			}
			fmt.Fprintf(&sb, "- [%s] %s | signup URL: %s\n", h.Category, h.Text, partner)
			k++
		}
		if k == 0 {
			sb.WriteString("No relevant headings.\n")
		}
	}

	sb.WriteString("\nSignup URLs:\n")
	if len(r.AllSignupURLs) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, u := range r.AllSignupURLs {
		fmt.Fprintf(&sb, "- %s\n", u)
	}
	return sb.String()
}
