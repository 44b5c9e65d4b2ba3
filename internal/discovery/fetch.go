package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"eventscout/internal/logging"

	"golang.org/x/sync/errgroup"
)

// Fetcher defaults.
const (
	DefaultRequestTimeout = 15 * time.Second
	DefaultMaxConcurrent  = 6
	DefaultMaxSources     = 20
	DefaultMaxBodyBytes   = 2 << 20
	DefaultUserAgent      = "Mozilla/5.0 (compatible; eventscout/0.1)"
)

// Response is a retrieved page body.
type Response struct {
	StatusCode int
	Body       []byte
	FinalURL   string
}

// PageGetter retrieves one page. Implementations must honor ctx.
type PageGetter interface {
	Get(ctx context.Context, rawURL string) (*Response, error)
}

// HTTPGetter retrieves pages with net/http. No retries are attempted.
type HTTPGetter struct {
	Client       *http.Client
	UserAgent    string
	MaxBodyBytes int64
}

// NewHTTPGetter returns a getter with default limits.
func NewHTTPGetter(userAgent string, maxBody int64) *HTTPGetter {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &HTTPGetter{Client: &http.Client{}, UserAgent: userAgent, MaxBodyBytes: maxBody}
}

func (g *HTTPGetter) Get(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", g.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/rss+xml,application/xml;q=0.9,*/*;q=0.8")

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	final := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Response{StatusCode: resp.StatusCode, FinalURL: final}, &HTTPStatusError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, g.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body, FinalURL: final}, nil
}

// FetcherConfig bounds a fetch run.
type FetcherConfig struct {
	RequestTimeout time.Duration
	MaxConcurrent  int
	MaxSources     int
}

func (c FetcherConfig) withDefaults() FetcherConfig {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = DefaultMaxConcurrent
	}
	if c.MaxSources <= 0 {
		c.MaxSources = DefaultMaxSources
	}
	return c
}

// Fetcher retrieves source pages concurrently. A failure in one source never
// affects another.
type Fetcher struct {
	getter   PageGetter
	browser  PageGetter
	rendered map[Family]bool
	cfg      FetcherConfig
}

// NewFetcher returns a fetcher using getter for every source.
func NewFetcher(getter PageGetter, cfg FetcherConfig) *Fetcher {
	return &Fetcher{getter: getter, cfg: cfg.withDefaults(), rendered: map[Family]bool{}}
}

// WithBrowser routes the given families through a rendering getter.
func (f *Fetcher) WithBrowser(g PageGetter, families ...Family) *Fetcher {
	f.browser = g
	for _, fam := range families {
		f.rendered[fam] = true
	}
	return f
}

// Fetch returns exactly one result per attempted source, in input order.
// Sources past MaxSources are not attempted.
func (f *Fetcher) Fetch(ctx context.Context, sources []SourceDescriptor, query string) []FetchResult {
	order := make(map[string]int, len(sources))
	for i, s := range sources {
		order[s.ID] = i
	}

	var (
		mu      sync.Mutex
		results []FetchResult
	)
	f.FetchEach(ctx, sources, query, func(r FetchResult) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	})

	sort.SliceStable(results, func(i, j int) bool {
		return order[results[i].Source.ID] < order[results[j].Source.ID]
	})
	return results
}

// FetchEach fetches sources concurrently and calls handle from the worker
// goroutine for each result. handle must be safe for concurrent use.
func (f *Fetcher) FetchEach(ctx context.Context, sources []SourceDescriptor, query string, handle func(FetchResult)) {
	if len(sources) > f.cfg.MaxSources {
		logging.FetchWarn("capping %d sources to %d", len(sources), f.cfg.MaxSources)
		sources = sources[:f.cfg.MaxSources]
	}

	eg := new(errgroup.Group)
	eg.SetLimit(f.cfg.MaxConcurrent)
	for _, src := range sources {
		eg.Go(func() error {
			handle(f.fetchOne(ctx, src, query))
			return nil
		})
	}
	_ = eg.Wait()
}

func (f *Fetcher) fetchOne(ctx context.Context, src SourceDescriptor, query string) FetchResult {
	start := time.Now()
	target := src.URL(query)
	result := FetchResult{Source: src, URL: target}

	if err := ctx.Err(); err != nil {
		result.Err = fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, src.ID, err)
		return result
	}

	getter := f.getter
	if f.browser != nil && f.rendered[src.Family] {
		getter = f.browser
	}

	reqCtx, cancel := context.WithTimeout(ctx, f.cfg.RequestTimeout)
	defer cancel()

	resp, err := getter.Get(reqCtx, target)
	result.Elapsed = time.Since(start)
	if resp != nil {
		result.HTTPStatus = resp.StatusCode
		result.FinalURL = resp.FinalURL
	}
	if err == nil && reqCtx.Err() != nil {
		err = reqCtx.Err()
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logging.FetchWarn("%s timed out after %v", src.ID, result.Elapsed)
		} else {
			logging.FetchWarn("%s failed: %v", src.ID, err)
		}
		result.Err = fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, src.ID, err)
		return result
	}

	result.Body = resp.Body
	logging.FetchDebug("%s: HTTP %d, %d bytes in %v", src.ID, resp.StatusCode, len(resp.Body), result.Elapsed)
	return result
}
