package discovery

import (
	"net/url"
	"regexp"
	"strings"
)

// LinkExtractionStrategy decides which links on a page are event signup links.
type LinkExtractionStrategy interface {
	Family() Family
	// Qualifies reports whether a canonical absolute URL is an event link.
	Qualifies(u *url.URL) bool
	// Domain restricts emitted links for src. Empty means any host.
	Domain(src SourceDescriptor) string
}

// offDomainAcceptor is implemented by strategies that accept some links
// outside the source's domain.
type offDomainAcceptor interface {
	AcceptsOffDomain(u *url.URL) bool
}

func acceptsOffDomain(s LinkExtractionStrategy, u *url.URL) bool {
	a, ok := s.(offDomainAcceptor)
	return ok && a.AcceptsOffDomain(u)
}

// PlatformStrategy matches a known event platform's URL layout and discards
// links outside the platform's domain.
type PlatformStrategy struct {
	family        Family
	defaultDomain string
	match         func(u *url.URL) bool
}

func (s *PlatformStrategy) Family() Family { return s.family }

func (s *PlatformStrategy) Qualifies(u *url.URL) bool {
	return hostMatches(u.Host, s.defaultDomain) && s.match(u)
}

func (s *PlatformStrategy) Domain(src SourceDescriptor) string {
	if src.Domain != "" {
		return src.Domain
	}
	return s.defaultDomain
}

var meetupEventPath = regexp.MustCompile(`/events/\d+`)

// MeetupStrategy accepts /events/<digits> paths on meetup.com.
func MeetupStrategy() *PlatformStrategy {
	return &PlatformStrategy{
		family:        FamilyMeetup,
		defaultDomain: "meetup.com",
		match: func(u *url.URL) bool {
			return meetupEventPath.MatchString(u.Path)
		},
	}
}

// EventbriteStrategy accepts /e/<slug> event pages on eventbrite.com.
func EventbriteStrategy() *PlatformStrategy {
	return &PlatformStrategy{
		family:        FamilyEventbrite,
		defaultDomain: "eventbrite.com",
		match: func(u *url.URL) bool {
			return strings.Contains(u.Path, "/e/") && len(strings.TrimPrefix(u.Path, "/e/")) > 0
		},
	}
}

var lumaReserved = map[string]bool{
	"discover": true, "signin": true, "login": true, "signup": true, "create": true,
	"home": true, "explore": true, "calendar": true, "calendars": true, "pricing": true,
	"about": true, "help": true, "ios": true, "android": true, "terms": true,
	"privacy": true, "user": true, "u": true, "search": true, "settings": true,
	"map": true, "sf": true, "nyc": true, "london": true, "ai": true, "tech": true,
}

// LumaStrategy accepts single-segment event slugs on lu.ma.
func LumaStrategy() *PlatformStrategy {
	return &PlatformStrategy{
		family:        FamilyLuma,
		defaultDomain: "lu.ma",
		match: func(u *url.URL) bool {
			seg := strings.Trim(u.Path, "/")
			if seg == "" || strings.Contains(seg, "/") {
				return false
			}
			return len(seg) >= 3 && !lumaReserved[strings.ToLower(seg)]
		},
	}
}

// DefaultGenericKeywords are path fragments that mark event pages on
// arbitrary sites.
var DefaultGenericKeywords = []string{
	"event", "events", "register", "registration", "signup", "sign-up",
	"rsvp", "tickets", "calendar", "meetup",
}

// GenericStrategy matches keyword path segments on the source's own host.
// Links that qualify for a known platform are accepted from any host.
type GenericStrategy struct {
	keywords  []string
	platforms []*PlatformStrategy
}

// NewGenericStrategy builds a generic strategy. Empty keywords use the
// defaults.
func NewGenericStrategy(keywords []string, platforms ...*PlatformStrategy) *GenericStrategy {
	if len(keywords) == 0 {
		keywords = DefaultGenericKeywords
	}
	lower := make([]string, len(keywords))
	for i, k := range keywords {
		lower[i] = strings.ToLower(k)
	}
	return &GenericStrategy{keywords: lower, platforms: platforms}
}

func (s *GenericStrategy) Family() Family { return FamilyGeneric }

// Domain is the descriptor's Domain, or the host of its URL template.
func (s *GenericStrategy) Domain(src SourceDescriptor) string {
	if src.Domain != "" {
		return src.Domain
	}
	u, err := url.Parse(src.URLTemplate)
	if err != nil {
		return ""
	}
	return u.Host
}

// AcceptsOffDomain reports whether u is a known platform's event link, which
// a generic source may list even though it is hosted elsewhere.
func (s *GenericStrategy) AcceptsOffDomain(u *url.URL) bool {
	for _, p := range s.platforms {
		if p.Qualifies(u) {
			return true
		}
	}
	return false
}

func (s *GenericStrategy) Qualifies(u *url.URL) bool {
	if isBareRoot(u) {
		return false
	}
	if s.AcceptsOffDomain(u) {
		return true
	}
	segments := strings.FieldsFunc(strings.ToLower(u.Path), func(r rune) bool {
		return r == '/' || r == '_' || r == '.'
	})
	// Require something after the keyword so index pages like /events are
	// not mistaken for an individual event.
	for i, seg := range segments {
		for _, k := range s.keywords {
			if seg == k && i < len(segments)-1 {
				return true
			}
			if strings.HasPrefix(seg, k+"-") || strings.HasSuffix(seg, "-"+k) {
				return true
			}
		}
	}
	return false
}

// FeedStrategy accepts any non-root item link from an RSS or Atom feed,
// restricted to the source's domain when one is set.
type FeedStrategy struct{}

func (FeedStrategy) Family() Family { return FamilyFeed }

func (FeedStrategy) Qualifies(u *url.URL) bool { return !isBareRoot(u) }

func (FeedStrategy) Domain(src SourceDescriptor) string { return src.Domain }

// DefaultStrategies returns one strategy per family.
func DefaultStrategies() []LinkExtractionStrategy {
	meetup, eventbrite, luma := MeetupStrategy(), EventbriteStrategy(), LumaStrategy()
	return []LinkExtractionStrategy{
		meetup,
		eventbrite,
		luma,
		FeedStrategy{},
		NewGenericStrategy(nil, meetup, eventbrite, luma),
	}
}
