// Package verification checks a finished newsletter for signup links that
// were not discovered. It is structural only: nothing is fetched.
package verification

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"eventscout/internal/discovery"
	"eventscout/internal/logging"
)

// ErrInvalidNewsletter is returned by Report.Err when violations exist.
var ErrInvalidNewsletter = errors.New("newsletter failed validation")

// NotAvailable is the marker an event uses when it has no signup link.
const NotAvailable = "not available"

// QualityViolation is a kind of problem found in an event block.
type QualityViolation string

const (
	MissingSignup  QualityViolation = "missing_signup"   // no allowed URL and no marker
	UnknownURL     QualityViolation = "unknown_url"      // signup URL not in the allowed list
	BareRootDomain QualityViolation = "bare_root_domain" // https://lu.ma/ and friends
	Placeholder    QualityViolation = "placeholder"      // unfilled template field
)

// Event is one event block found under a date heading.
type Event struct {
	Date      string `json:"date"`
	Title     string `json:"title"`
	Line      int    `json:"line"`
	SignupURL string `json:"signup_url,omitempty"`
}

// Violation locates a problem in the newsletter.
type Violation struct {
	Kind  QualityViolation `json:"kind"`
	Event string           `json:"event"`
	Line  int              `json:"line"`
	URL   string           `json:"url,omitempty"`
}

func (v Violation) String() string {
	if v.URL != "" {
		return fmt.Sprintf("line %d: %s: %s (%s)", v.Line, v.Kind, v.URL, v.Event)
	}
	return fmt.Sprintf("line %d: %s (%s)", v.Line, v.Kind, v.Event)
}

// Report is the outcome of Verify.
type Report struct {
	Events     []Event     `json:"events"`
	Violations []Violation `json:"violations,omitempty"`
}

// OK reports whether no violations were found.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// Count returns the number of violations of kind k.
func (r *Report) Count(k QualityViolation) int {
	n := 0
	for _, v := range r.Violations {
		if v.Kind == k {
			n++
		}
	}
	return n
}

// Err returns nil for a clean report, otherwise ErrInvalidNewsletter with
// every violation listed.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	lines := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		lines[i] = v.String()
	}
	return fmt.Errorf("%w: %d violation(s)\n%s", ErrInvalidNewsletter, len(r.Violations), strings.Join(lines, "\n"))
}

var (
	urlPattern         = regexp.MustCompile(`https?://[^\s<>()\[\]"'` + "`" + `]+`)
	placeholderPattern = regexp.MustCompile(`\[(Event Title|Start time|Venue, City|Day of the week|Month Day|One or two sentences|URL[^\]]*)\]`)
	signupLine         = regexp.MustCompile(`(?i)^[-*\s]*(\*\*)?sign[\s-]?up`)
	signupMention      = regexp.MustCompile(`(?i)\bsign[\s-]?up\b`)
)

// Verify checks every event block of markdown against the allowed signup
// URLs. Both sides are canonicalized before comparison. Only URLs on a line
// mentioning Sign Up must be allowed; any URL in a block may not be a bare
// root domain.
func Verify(markdown string, allowed []string) *Report {
	allowedSet := make(map[string]bool, len(allowed))
	for _, u := range allowed {
		allowedSet[canonical(u)] = true
	}

	report := &Report{}
	for _, b := range splitBlocks(markdown) {
		report.check(b, allowedSet)
	}

	if !report.OK() {
		logging.VerifyWarn("newsletter has %d violation(s) across %d event(s)", len(report.Violations), len(report.Events))
	} else {
		logging.Verify("newsletter verified: %d event(s)", len(report.Events))
	}
	return report
}

func (r *Report) check(b block, allowed map[string]bool) {
	ev := Event{Date: b.date, Title: b.title, Line: b.line}
	hasMarker := false
	flag := func(kind QualityViolation, url string, line int) {
		r.Violations = append(r.Violations, Violation{Kind: kind, Event: b.title, Line: line, URL: url})
	}

	for i, text := range b.lines {
		line := b.line + i
		if strings.Contains(strings.ToLower(text), NotAvailable) {
			hasMarker = true
		}
		if placeholderPattern.MatchString(text) {
			flag(Placeholder, "", line)
		}
		signup := signupMention.MatchString(text)
		for _, raw := range urlPattern.FindAllString(text, -1) {
			raw = strings.TrimRight(raw, ".,;:!?*_")
			switch {
			case discovery.IsBareRoot(raw):
				flag(BareRootDomain, raw, line)
			case !signup:
			case allowed[canonical(raw)]:
				if ev.SignupURL == "" {
					ev.SignupURL = raw
				}
			default:
				flag(UnknownURL, raw, line)
			}
		}
	}

	if ev.SignupURL == "" && !hasMarker && !b.flaggedSince(r.Violations) {
		flag(MissingSignup, "", b.line)
	}
	r.Events = append(r.Events, ev)
}

func canonical(raw string) string {
	c, err := discovery.CanonicalizeURL(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return c
}

// block is a run of lines describing one event.
type block struct {
	date  string
	title string
	line  int // 1-based line of the title
	lines []string
}

// flaggedSince reports whether a URL violation was already raised for b.
// A block with a rejected URL is not also reported as missing one.
func (b block) flaggedSince(vs []Violation) bool {
	for i := len(vs) - 1; i >= 0; i-- {
		v := vs[i]
		if v.Line < b.line {
			break
		}
		if v.Kind == UnknownURL || v.Kind == BareRootDomain {
			return true
		}
	}
	return false
}

// splitBlocks groups lines under "## " date headings into event blocks. A
// block opens on a title line (bullet, bold line or "### " heading) and
// closes on a blank line, a heading or after its Sign Up line. Prose outside
// a block is ignored.
func splitBlocks(markdown string) []block {
	var (
		blocks []block
		date   string
		cur    *block
	)
	flush := func() {
		if cur != nil {
			blocks = append(blocks, *cur)
			cur = nil
		}
	}

	for i, raw := range strings.Split(markdown, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			flush()
			continue
		case strings.HasPrefix(line, "## "):
			flush()
			date = strings.TrimSpace(strings.TrimPrefix(line, "## "))
			continue
		case strings.HasPrefix(line, "# "):
			flush()
			date = ""
			continue
		}
		if date == "" {
			continue
		}

		if strings.HasPrefix(line, "### ") {
			flush()
			cur = &block{date: date, title: strings.TrimSpace(strings.TrimPrefix(line, "### ")), line: i + 1}
			continue
		}
		if cur == nil {
			if !isTitleLine(line) {
				continue
			}
			cur = &block{date: date, title: titleText(line), line: i + 1}
		}
		cur.lines = append(cur.lines, line)
		if signupLine.MatchString(line) {
			flush()
		}
	}
	flush()
	return blocks
}

func isTitleLine(line string) bool {
	return strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "**")
}

func titleText(line string) string {
	line = strings.TrimLeft(line, "-* ")
	return strings.TrimSpace(strings.Trim(line, "*"))
}
