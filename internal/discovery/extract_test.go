package discovery

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okResult(src SourceDescriptor, query, body string) FetchResult {
	u := src.URL(query)
	return FetchResult{Source: src, URL: u, FinalURL: u, HTTPStatus: 200, Body: []byte(body)}
}

func TestExtractMeetupSignupLink(t *testing.T) {
	e := NewExtractor(nil, 0)

	rep := e.Extract(okResult(meetupSource, "AI", ragWorkshopPage))

	require.Equal(t, StatusSuccess, rep.Status)
	want := []CandidateLink{{
		URL:           "https://meetup.com/events/123/signup",
		SourceFamily:  FamilyMeetup,
		NearbyHeading: "RAG Workshop",
	}}
	if diff := cmp.Diff(want, rep.Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, rep.Headings, 1)
	assert.Equal(t, ClassifiedHeading{Text: "RAG Workshop", Category: Topical}, rep.Headings[0])
}

func TestExtractPlatformDiscardsForeignLinks(t *testing.T) {
	body := `<html><body>
		<h2>Upcoming AI meetups</h2>
		<a href="https://www.meetup.com/sf-ai/events/987654/">SF AI Night</a>
		<a href="https://evil.example.com/events/123/">Phishing</a>
		<a href="https://www.meetup.com/">Home</a>
		<a href="/find/?keywords=AI">Search again</a>
		<a href="mailto:hi@meetup.com">Mail</a>
	</body></html>`

	rep := NewExtractor(nil, 0).Extract(okResult(meetupSource, "AI", body))

	require.Len(t, rep.Links, 1)
	assert.Equal(t, "https://meetup.com/sf-ai/events/987654", rep.Links[0].URL)
	assert.Equal(t, "Upcoming AI meetups", rep.Links[0].NearbyHeading)
}

func TestExtractLumaSlugs(t *testing.T) {
	body := `<html><body>
		<h3>GenAI Collective Demo Night</h3>
		<a href="/abc123xy">Demo Night</a>
		<a href="/discover">Discover</a>
		<a href="/signin">Sign in</a>
		<a href="/user/someone">Profile</a>
		<a href="https://lu.ma/abc123xy?utm_source=cal">Same event</a>
	</body></html>`

	rep := NewExtractor(nil, 0).Extract(okResult(lumaSource, "AI", body))

	require.Len(t, rep.Links, 1)
	assert.Equal(t, "https://lu.ma/abc123xy", rep.Links[0].URL)
	assert.Equal(t, Topical, rep.Headings[0].Category)
}

func TestExtractLumaCalendarSkipsItself(t *testing.T) {
	src, ok := DefaultCatalog().Lookup("luma-genai-sf")
	require.True(t, ok)
	body := `<html><body>
		<a href="/genai-sf">GenAI SF</a>
		<a href="https://lu.ma/genai-sf?k=c">Calendar</a>
		<a href="/abc123">LLM Agents Night</a>
	</body></html>`

	rep := NewExtractor(nil, 0).Extract(okResult(src, "AI", body))

	require.Len(t, rep.Links, 1)
	assert.Equal(t, "https://lu.ma/abc123", rep.Links[0].URL)
}

func TestExtractEventbrite(t *testing.T) {
	src := SourceDescriptor{ID: "eb", Name: "Eventbrite", Family: FamilyEventbrite, Domain: "eventbrite.com",
		URLTemplate: "https://www.eventbrite.com/d/online/{path}/"}
	body := `<ul>
		<li><a href="https://www.eventbrite.com/e/llm-builders-meetup-tickets-1234567">LLM Builders</a></li>
		<li><a href="https://www.eventbrite.com/d/online/ai/">More</a></li>
	</ul>`

	rep := NewExtractor(nil, 0).Extract(okResult(src, "ai", body))

	require.Len(t, rep.Links, 1)
	assert.Equal(t, "https://eventbrite.com/e/llm-builders-meetup-tickets-1234567", rep.Links[0].URL)
}

func TestExtractGenericKeywordsAndPlatformLinks(t *testing.T) {
	src := SourceDescriptor{ID: "a16z", Name: "a16z", Family: FamilyGeneric, URLTemplate: "https://a16z.com/events/"}
	body := `<html><body>
		<h1>Events</h1>
		<a href="/events/">All events</a>
		<a href="/events/ai-revolution-summit">AI Revolution</a>
		<a href="https://lu.ma/a16z-ai-night">AI Night</a>
		<a href="/about">About</a>
		<a href="https://a16z.com/">Home</a>
		<a href="/portfolio/openai">Portfolio</a>
	</body></html>`

	rep := NewExtractor(nil, 0).Extract(okResult(src, "AI", body))

	var urls []string
	for _, l := range rep.Links {
		urls = append(urls, l.URL)
	}
	assert.Equal(t, []string{
		"https://a16z.com/events/ai-revolution-summit",
		"https://lu.ma/a16z-ai-night",
	}, urls)
}

func TestExtractGenericStaysOnSourceHost(t *testing.T) {
	src := SourceDescriptor{ID: "campus", Name: "Campus", Family: FamilyGeneric, URLTemplate: "https://events.stanford.edu/search?q={query}"}
	body := `<html><body>
		<h2>AI talks</h2>
		<a href="/event/ai-seminar-series">Seminar</a>
		<a href="https://facebook.com/events/12345/rsvp">Facebook</a>
		<a href="https://tickets.example.com/events/ml-day">Reseller</a>
		<a href="https://www.meetup.com/stanford-ai/events/555/">Meetup</a>
	</body></html>`

	rep := NewExtractor(nil, 0).Extract(okResult(src, "AI", body))

	var urls []string
	for _, l := range rep.Links {
		urls = append(urls, l.URL)
	}
	assert.Equal(t, []string{
		"https://events.stanford.edu/event/ai-seminar-series",
		"https://meetup.com/stanford-ai/events/555",
	}, urls)
}

func TestExtractFeed(t *testing.T) {
	src := SourceDescriptor{ID: "feed", Name: "Bay Area AI", Family: FamilyFeed, Domain: "meetup.com",
		URLTemplate: "https://www.meetup.com/bay-area-ai/events/rss/"}
	body := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
  <title>Bay Area AI</title>
  <item><title>LLM Agents Deep Dive</title><link>https://www.meetup.com/bay-area-ai/events/311111111/</link></item>
  <item><title>Offsite link</title><link>https://example.com/events/1</link></item>
</channel></rss>`

	rep := NewExtractor(nil, 0).Extract(okResult(src, "AI", body))

	require.Equal(t, StatusSuccess, rep.Status)
	require.Len(t, rep.Links, 1)
	assert.Equal(t, "https://meetup.com/bay-area-ai/events/311111111", rep.Links[0].URL)
	assert.Equal(t, "LLM Agents Deep Dive", rep.Links[0].NearbyHeading)
	assert.Equal(t, Topical, rep.Headings[0].Category)
}

func TestExtractInvalidFeedFails(t *testing.T) {
	src := SourceDescriptor{ID: "feed", Family: FamilyFeed, URLTemplate: "https://x.com/rss"}
	rep := NewExtractor(nil, 0).Extract(okResult(src, "AI", "this is not a feed"))
	assert.Equal(t, StatusFailed, rep.Status)
	assert.NotEmpty(t, rep.Error)
}

func TestExtractFailedFetch(t *testing.T) {
	res := FetchResult{Source: lumaSource, Err: fmt.Errorf("%w: luma: %w", ErrSourceUnavailable, errBoom)}
	rep := NewExtractor(nil, 0).Extract(res)

	assert.Equal(t, StatusFailed, rep.Status)
	assert.Empty(t, rep.Links)
	assert.ErrorIs(t, rep.Err, ErrSourceUnavailable)
	assert.Contains(t, rep.Error, "boom")
}

func TestExtractEmptyPageNotes(t *testing.T) {
	rep := NewExtractor(nil, 0).Extract(okResult(meetupSource, "AI", "<html><body><p>nothing</p></body></html>"))

	assert.Equal(t, StatusSuccess, rep.Status)
	assert.Empty(t, rep.Links)
	assert.Equal(t, ErrExtractionEmpty.Error(), rep.Note)
}

func TestExtractDedupesThenCaps(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body><h2>AI events this week</h2>")
	for i := 0; i < 10; i++ {
		// each event appears twice, once with tracking params
		fmt.Fprintf(&sb, `<a href="/g/events/%d/">e%d</a><a href="/g/events/%d?utm_source=x">dup</a>`, 100+i, i, 100+i)
	}
	sb.WriteString("</body></html>")

	rep := NewExtractor(nil, 3).Extract(okResult(meetupSource, "AI", sb.String()))

	require.Len(t, rep.Links, 3)
	assert.Equal(t, "https://meetup.com/g/events/100", rep.Links[0].URL)
	assert.Equal(t, "https://meetup.com/g/events/101", rep.Links[1].URL)
	assert.Equal(t, "https://meetup.com/g/events/102", rep.Links[2].URL)
}

func TestExtractHeadingLevelsAndLength(t *testing.T) {
	long := strings.Repeat("x", maxHeadingLength+1)
	body := `<h1>Machine Learning Summit</h1><h5>Agents workshop</h5><h6>ignored level</h6><h2>` + long + `</h2>
		<script><h2>not a heading</h2></script>`

	rep := NewExtractor(nil, 0).Extract(okResult(meetupSource, "AI", body))

	var texts []string
	for _, h := range rep.Headings {
		texts = append(texts, h.Text)
	}
	assert.Equal(t, []string{"Machine Learning Summit", "Agents workshop"}, texts)
}
