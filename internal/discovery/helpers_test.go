package discovery

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// fakeGetter serves canned pages keyed by request URL.
type fakeGetter struct {
	pages map[string]string
	errs  map[string]error
	delay map[string]time.Duration

	mu        sync.Mutex
	requested []string

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeGetter) Get(ctx context.Context, rawURL string) (*Response, error) {
	f.mu.Lock()
	f.requested = append(f.requested, rawURL)
	f.mu.Unlock()

	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxInFlight.Load()
		if n <= cur || f.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	if d := f.delay[rawURL]; d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.errs[rawURL]; err != nil {
		return nil, err
	}
	body, ok := f.pages[rawURL]
	if !ok {
		return &Response{StatusCode: 404, FinalURL: rawURL}, &HTTPStatusError{StatusCode: 404, URL: rawURL}
	}
	return &Response{StatusCode: 200, Body: []byte(body), FinalURL: rawURL}, nil
}

var errBoom = errors.New("boom")

var meetupSource = SourceDescriptor{
	ID:          "meetup",
	Name:        "Meetup",
	Family:      FamilyMeetup,
	Domain:      "meetup.com",
	URLTemplate: "https://www.meetup.com/find/?keywords={query}",
}

var lumaSource = SourceDescriptor{
	ID:          "luma",
	Name:        "Luma",
	Family:      FamilyLuma,
	Domain:      "lu.ma",
	URLTemplate: "https://lu.ma/discover?q={query}",
}

const ragWorkshopPage = `<html><body><a href="/events/123/signup">RAG Workshop</a></body></html>`

func fixedClock() time.Time {
	return time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)
}
