package discovery

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default keyword sets. They must stay disjoint.
var (
	DefaultTopicKeywords = []string{
		"ai", "artificial intelligence", "machine learning", "ml", "deep learning",
		"genai", "generative ai", "llm", "llms", "gpt", "rag", "agent", "agents", "agentic",
		"nlp", "computer vision", "data science", "neural", "transformer",
		"foundation model", "prompt engineering", "openai", "anthropic", "langchain",
	}
	DefaultEventKeywords = []string{
		"meetup", "workshop", "hackathon", "conference", "summit", "talk",
		"panel", "webinar", "demo day", "networking", "bootcamp", "seminar",
		"symposium", "fireside", "happy hour", "office hours", "event",
		"session", "lecture", "social",
	}
)

// DefaultMinHeadingLength is the shortest heading considered for classification.
const DefaultMinHeadingLength = 8

// Classifier labels heading text as Topical, Eventish or Irrelevant.
// Keywords match on word boundaries, case-insensitively, so "ai" does not
// match "said". A trailing plural "s" is tolerated.
type Classifier struct {
	topic  []string
	event  []string
	minLen int
}

// NewClassifier builds a classifier. Empty keyword lists use the defaults.
func NewClassifier(topic, event []string, minLen int) (*Classifier, error) {
	if len(topic) == 0 {
		topic = DefaultTopicKeywords
	}
	if len(event) == 0 {
		event = DefaultEventKeywords
	}
	if minLen <= 0 {
		minLen = DefaultMinHeadingLength
	}

	c := &Classifier{minLen: minLen}
	seen := make(map[string]bool, len(topic))
	for _, k := range topic {
		if n := normalizeText(k); n != "" {
			c.topic = append(c.topic, n)
			seen[n] = true
		}
	}
	for _, k := range event {
		n := normalizeText(k)
		if n == "" {
			continue
		}
		if seen[n] {
			return nil, fmt.Errorf("keyword %q is both topical and eventish", k)
		}
		c.event = append(c.event, n)
	}
	return c, nil
}

// DefaultClassifier returns a classifier with the built-in keyword sets.
func DefaultClassifier() *Classifier {
	c, err := NewClassifier(nil, nil, 0)
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the category of text. Topical wins over Eventish.
func (c *Classifier) Classify(text string) Category {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < c.minLen {
		return Irrelevant
	}
	norm := " " + normalizeText(text) + " "
	if containsAny(norm, c.topic) {
		return Topical
	}
	if containsAny(norm, c.event) {
		return Eventish
	}
	return Irrelevant
}

// ClassifyAll classifies every heading, preserving order.
func (c *Classifier) ClassifyAll(headings []string) []ClassifiedHeading {
	out := make([]ClassifiedHeading, 0, len(headings))
	for _, h := range headings {
		out = append(out, ClassifiedHeading{Text: h, Category: c.Classify(h)})
	}
	return out
}

func containsAny(padded string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(padded, " "+k+" ") || strings.Contains(padded, " "+k+"s ") {
			return true
		}
	}
	return false
}

// normalizeText lowercases and replaces every non-alphanumeric run with a
// single space.
func normalizeText(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}
