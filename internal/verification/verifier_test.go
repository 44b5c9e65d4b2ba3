package verification

import (
	"errors"
	"strings"
	"testing"
)

const allowedURL = "https://www.meetup.com/sf-ai/events/123456/"

func newsletter(blocks ...string) string {
	return "# This Week in AI Events\n\nA short intro with https://example.com/blog in prose.\n\n## Tuesday, October 20\n\n" +
		strings.Join(blocks, "\n\n") + "\n\nThat's all for this week.\n"
}

func containsViolation(vs []Violation, kind QualityViolation) bool {
	for _, v := range vs {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

func TestVerifyClean(t *testing.T) {
	md := newsletter(
		"- RAG Workshop\n- Time: 6:00 PM\n- Location: SF\n- Description: Hands-on.\n- Sign Up: https://meetup.com/sf-ai/events/123456",
		"- Founder Mixer\n- Time: 7:00 PM\n- Sign Up: not available",
	)

	r := Verify(md, []string{allowedURL})
	if !r.OK() {
		t.Fatalf("violations = %v", r.Violations)
	}
	if r.Err() != nil {
		t.Fatalf("Err() = %v", r.Err())
	}
	if len(r.Events) != 2 {
		t.Fatalf("events = %#v", r.Events)
	}
	if r.Events[0].Title != "RAG Workshop" || r.Events[0].Date != "Tuesday, October 20" {
		t.Fatalf("first event = %#v", r.Events[0])
	}
	if r.Events[0].SignupURL == "" || r.Events[1].SignupURL != "" {
		t.Fatalf("signup urls = %q, %q", r.Events[0].SignupURL, r.Events[1].SignupURL)
	}
}

func TestVerifyViolations(t *testing.T) {
	cases := []struct {
		name  string
		block string
		want  QualityViolation
	}{
		{name: "unknown_url", block: "- Invented Event\n- Sign Up: https://lu.ma/made-up-event", want: UnknownURL},
		{name: "bare_root", block: "- Luma Thing\n- Sign Up: https://lu.ma/", want: BareRootDomain},
		{name: "missing", block: "- Mystery Event\n- Time: 5 PM\n- Sign Up: TBD", want: MissingSignup},
		{name: "placeholder", block: "- [Event Title]\n- Sign Up: not available", want: Placeholder},
		{name: "markdown_link", block: "- Linked\n- Sign Up: [register](https://eventbrite.com/e/other-1)", want: UnknownURL},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Verify(newsletter(tc.block), []string{allowedURL})
			if r.OK() {
				t.Fatalf("expected violations for %q", tc.block)
			}
			if !containsViolation(r.Violations, tc.want) {
				t.Fatalf("missing %s: %v", tc.want, r.Violations)
			}
			if !errors.Is(r.Err(), ErrInvalidNewsletter) {
				t.Fatalf("Err() = %v", r.Err())
			}
		})
	}
}

func TestVerifyRejectedURLIsNotAlsoMissing(t *testing.T) {
	r := Verify(newsletter("- Invented\n- Sign Up: https://lu.ma/invented"), nil)
	if r.Count(UnknownURL) != 1 || r.Count(MissingSignup) != 0 {
		t.Fatalf("violations = %v", r.Violations)
	}
	if r.Violations[0].Line != 8 {
		t.Fatalf("line = %d, want 8", r.Violations[0].Line)
	}
}

func TestVerifyIgnoresUnlistedDescriptionLinks(t *testing.T) {
	md := newsletter(
		"- Agents Night\n- Description: Talks on https://arxiv.org/abs/2401.00001 and tools.\n- Sign Up: not available",
		"- RAG Workshop\n- Description: Slides at https://github.com/sf-ai/rag\n- Sign Up: "+allowedURL,
	)
	r := Verify(md, []string{allowedURL})
	if !r.OK() {
		t.Fatalf("violations = %v", r.Violations)
	}
	if r.Events[1].SignupURL != allowedURL {
		t.Fatalf("signup url = %q", r.Events[1].SignupURL)
	}
}

func TestVerifyBareRootOutsideSignupLine(t *testing.T) {
	md := newsletter("- Luma Thing\n- Description: More at https://lu.ma/\n- Sign Up: not available")
	r := Verify(md, nil)
	if r.Count(BareRootDomain) != 1 || len(r.Violations) != 1 {
		t.Fatalf("violations = %v", r.Violations)
	}
}

func TestVerifyCanonicalizesBothSides(t *testing.T) {
	md := newsletter("- RAG Workshop\n- Sign Up: https://meetup.com/sf-ai/events/123456/?utm_source=newsletter#top")
	if r := Verify(md, []string{allowedURL}); !r.OK() {
		t.Fatalf("violations = %v", r.Violations)
	}
}

func TestVerifyBlocksSplitOnHeadingsAndSignup(t *testing.T) {
	md := "# Headline\n\n## Monday, October 19\n" +
		"### Agents Night\nJoin us. Sign up: " + allowedURL + "\n" +
		"### Vision Meetup\n- Sign Up: not available\n" +
		"- Back-to-back Event\n- Sign Up: https://lu.ma/unknown\n"

	r := Verify(md, []string{allowedURL})
	if len(r.Events) != 3 {
		t.Fatalf("events = %#v", r.Events)
	}
	if r.Events[2].Title != "Back-to-back Event" {
		t.Fatalf("third title = %q", r.Events[2].Title)
	}
	if r.Count(UnknownURL) != 1 || len(r.Violations) != 1 {
		t.Fatalf("violations = %v", r.Violations)
	}
}

func TestVerifyIgnoresProseOutsideDateSections(t *testing.T) {
	md := "# Headline\n\nSee https://lu.ma/ for more.\n\n- not an event https://lu.ma/x\n"
	r := Verify(md, nil)
	if !r.OK() || len(r.Events) != 0 {
		t.Fatalf("report = %#v", r)
	}
}
