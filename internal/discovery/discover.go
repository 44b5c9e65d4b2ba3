package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"eventscout/internal/config"
	"eventscout/internal/logging"

	"github.com/google/uuid"
)

// DefaultDiscoveryTimeout bounds a whole discovery run.
const DefaultDiscoveryTimeout = 60 * time.Second

// Discoverer runs fetch, extraction and aggregation over a catalog.
type Discoverer struct {
	catalog    Catalog
	fetcher    *Fetcher
	extractor  *Extractor
	aggregator *Aggregator
	timeout    time.Duration

	closers []func() error
}

// NewDiscoverer wires the discovery components together.
func NewDiscoverer(catalog Catalog, fetcher *Fetcher, extractor *Extractor, aggregator *Aggregator, timeout time.Duration) *Discoverer {
	if timeout <= 0 {
		timeout = DefaultDiscoveryTimeout
	}
	return &Discoverer{
		catalog:    catalog,
		fetcher:    fetcher,
		extractor:  extractor,
		aggregator: aggregator,
		timeout:    timeout,
	}
}

// FromConfig builds a Discoverer over catalog from configuration. A nil
// catalog uses DefaultCatalog.
func FromConfig(cfg *config.Config, catalog Catalog) (*Discoverer, error) {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	d := cfg.Discovery
	classifier, err := NewClassifier(d.TopicKeywords, d.EventKeywords, d.MinHeadingLength)
	if err != nil {
		return nil, fmt.Errorf("failed to build classifier: %w", err)
	}

	fetcher := NewFetcher(NewHTTPGetter(d.UserAgent, d.MaxBodyBytes), FetcherConfig{
		RequestTimeout: cfg.GetRequestTimeout(),
		MaxConcurrent:  d.MaxConcurrentSources,
		MaxSources:     d.MaxSources,
	})

	disc := NewDiscoverer(
		catalog,
		fetcher,
		NewExtractor(classifier, d.MaxLinksPerSource),
		NewAggregator(d.MaxURLs, d.HorizonDays),
		cfg.GetDiscoveryTimeout(),
	)

	if d.Browser.Enabled {
		families := make([]Family, 0, len(d.Browser.Families))
		for _, f := range d.Browser.Families {
			families = append(families, Family(strings.ToLower(f)))
		}
		browser := NewBrowserGetter(d.Browser.DebuggerURL)
		fetcher.WithBrowser(browser, families...)
		disc.closers = append(disc.closers, browser.Close)
		logging.BootDebug("browser rendering enabled for %v", families)
	}
	return disc, nil
}

// Catalog returns the sources this discoverer queries.
func (d *Discoverer) Catalog() Catalog {
	return d.catalog
}

// Discover queries every source and returns the aggregated report. Source
// failures are recorded in the report; only a blank query is an error.
func (d *Discoverer) Discover(ctx context.Context, query string) (*AggregatedReport, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	runID := uuid.NewString()
	log := logging.Get(logging.CategoryDiscovery).With("run_id", runID)
	start := time.Now()
	log.Info("discovery started: query=%q sources=%d", query, len(d.catalog))

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		reports []SourceReport
	)
	addReport := func(r SourceReport) {
		mu.Lock()
		reports = append(reports, r)
		mu.Unlock()
	}

	d.fetcher.FetchEach(ctx, d.catalog, query, func(res FetchResult) {
		addReport(d.extractor.Extract(res))
	})

	report := d.aggregator.Aggregate(query, reports)
	report.RunID = runID

	log.Info("discovery completed: %d/%d sources, %d signup urls (took %v)",
		report.Succeeded(), len(report.PerSource), len(report.AllSignupURLs), time.Since(start))
	return report, nil
}

// Close releases the browser, if one was started.
func (d *Discoverer) Close() error {
	var firstErr error
	for _, c := range d.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
