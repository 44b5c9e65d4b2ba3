package discovery

import (
	"fmt"
	"net/url"
	"strings"

	"eventscout/internal/logging"
)

// DefaultMaxLinksPerSource caps links kept per source after deduplication.
const DefaultMaxLinksPerSource = 15

// Extractor turns a FetchResult into a SourceReport using the strategy
// registered for the source's family.
type Extractor struct {
	strategies map[Family]LinkExtractionStrategy
	classifier *Classifier
	maxLinks   int
}

// NewExtractor builds an extractor. With no strategies DefaultStrategies is
// used; a nil classifier uses DefaultClassifier.
func NewExtractor(classifier *Classifier, maxLinks int, strategies ...LinkExtractionStrategy) *Extractor {
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	if maxLinks <= 0 {
		maxLinks = DefaultMaxLinksPerSource
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	e := &Extractor{
		strategies: make(map[Family]LinkExtractionStrategy, len(strategies)),
		classifier: classifier,
		maxLinks:   maxLinks,
	}
	for _, s := range strategies {
		e.Register(s)
	}
	return e
}

// Register installs s for its family, replacing any previous strategy.
func (e *Extractor) Register(s LinkExtractionStrategy) {
	e.strategies[s.Family()] = s
}

// strategyFor falls back to the generic strategy for unknown families.
func (e *Extractor) strategyFor(f Family) LinkExtractionStrategy {
	if s, ok := e.strategies[f]; ok {
		return s
	}
	if s, ok := e.strategies[FamilyGeneric]; ok {
		return s
	}
	return NewGenericStrategy(nil)
}

// pageKey identifies a page by host and path. The query is ignored so a
// calendar fetched as /genai-sf?k=c still matches its own /genai-sf link.
func pageKey(u *url.URL) string {
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	return host + strings.TrimRight(u.Path, "/")
}

// Extract never fails: fetch and parse errors produce a Failed report, and
// an empty but parseable page produces a Success report with a note.
func (e *Extractor) Extract(result FetchResult) SourceReport {
	src := result.Source
	if !result.OK() {
		return failedReport(src, result.Err)
	}

	var (
		p   *page
		err error
	)
	if src.Family == FamilyFeed {
		p, err = parseFeed(result.Body)
	} else {
		p, err = parseHTML(result.Body)
	}
	if err != nil {
		logging.Get(logging.CategoryExtract).Warn("parse failed for %s: %v", src.ID, err)
		return failedReport(src, fmt.Errorf("parse %s: %w", src.ID, err))
	}

	base, _ := url.Parse(result.BaseURL())
	self := make(map[string]bool, 2)
	for _, raw := range []string{result.URL, result.FinalURL} {
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			self[pageKey(u)] = true
		}
	}

	strategy := e.strategyFor(src.Family)
	domain := strategy.Domain(src)

	var (
		links    []CandidateLink
		headings = append([]string(nil), p.Headings...)
		seen     = make(map[string]bool)
		titles   = make(map[string]bool, len(p.Headings))
	)
	for _, h := range p.Headings {
		titles[h] = true
	}

	for _, a := range p.Anchors {
		u, canon, err := resolveLink(base, a.Href)
		if err != nil || seen[canon] || self[pageKey(u)] {
			continue
		}
		if isBareRoot(u) || !strategy.Qualifies(u) {
			continue
		}
		if !hostMatches(u.Host, domain) && !acceptsOffDomain(strategy, u) {
			continue
		}
		seen[canon] = true

		heading := a.Heading
		if heading == "" && a.Text != "" && len(a.Text) <= maxHeadingLength {
			// Bare event links: the anchor text is the event title.
			heading = a.Text
			if !titles[heading] {
				titles[heading] = true
				headings = append(headings, heading)
			}
		}
		links = append(links, CandidateLink{URL: canon, SourceFamily: src.Family, NearbyHeading: heading})
		if len(links) >= e.maxLinks {
			break
		}
	}

	report := SourceReport{
		Source:   src,
		Status:   StatusSuccess,
		Links:    links,
		Headings: e.classifier.ClassifyAll(headings),
	}
	if len(links) == 0 && len(report.Headings) == 0 {
		report.Note = ErrExtractionEmpty.Error()
	}
	logging.Get(logging.CategoryExtract).Debug("%s: %d links, %d headings", src.ID, len(links), len(report.Headings))
	return report
}
