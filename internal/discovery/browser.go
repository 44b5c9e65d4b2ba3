package discovery

import (
	"context"
	"fmt"
	"sync"

	"eventscout/internal/logging"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// BrowserGetter renders pages in headless Chrome for platforms that build
// their event lists client-side. The browser is started lazily on first use.
type BrowserGetter struct {
	debuggerURL string

	mu      sync.Mutex
	browser *rod.Browser
}

// NewBrowserGetter connects to debuggerURL, or launches a local headless
// browser when it is empty.
func NewBrowserGetter(debuggerURL string) *BrowserGetter {
	return &BrowserGetter{debuggerURL: debuggerURL}
}

func (b *BrowserGetter) connect() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	controlURL := b.debuggerURL
	if controlURL == "" {
		u, err := launcher.New().Headless(true).Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	logging.Fetch("headless browser connected")
	b.browser = browser
	return browser, nil
}

func (b *BrowserGetter) Get(ctx context.Context, rawURL string) (*Response, error) {
	browser, err := b.connect()
	if err != nil {
		return nil, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: rawURL})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed to load page: %w", err)
	}
	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read page html: %w", err)
	}

	final := rawURL
	if info, err := page.Info(); err == nil && info.URL != "" {
		final = info.URL
	}
	return &Response{StatusCode: 200, Body: []byte(html), FinalURL: final}, nil
}

// Close shuts down the browser if one was started.
func (b *BrowserGetter) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil
	return err
}
