package discovery

import (
	"bytes"
	"strings"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"
)

const maxHeadingLength = 200

// anchor is a raw hyperlink found on a page.
type anchor struct {
	Href    string
	Text    string
	Heading string // nearest enclosing or preceding heading
}

// page is the parsed view of a fetched body.
type page struct {
	Anchors  []anchor
	Headings []string
}

// parseHTML walks an HTML document in order, collecting anchors and h1..h5
// text blocks.
func parseHTML(body []byte) (*page, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	p := &page{}
	var lastHeading string
	walkHTML(doc, p, &lastHeading, 0)
	return p, nil
}

func walkHTML(n *html.Node, p *page, lastHeading *string, depth int) {
	if depth > 200 {
		return
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "template", "svg":
			return
		case "h1", "h2", "h3", "h4", "h5":
			text := collapseSpace(nodeText(n))
			if text != "" && len(text) <= maxHeadingLength {
				p.Headings = append(p.Headings, text)
			}
			*lastHeading = text
		case "a":
			if href := getAttr(n, "href"); href != "" {
				p.Anchors = append(p.Anchors, anchor{
					Href:    href,
					Text:    collapseSpace(nodeText(n)),
					Heading: *lastHeading,
				})
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkHTML(c, p, lastHeading, depth+1)
	}
}

// parseFeed maps RSS/Atom items onto anchors whose titles double as headings.
func parseFeed(body []byte) (*page, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	p := &page{}
	for _, it := range feed.Items {
		title := collapseSpace(it.Title)
		link := strings.TrimSpace(it.Link)
		if link == "" && len(it.Links) > 0 {
			link = strings.TrimSpace(it.Links[0])
		}
		if title != "" && len(title) <= maxHeadingLength {
			p.Headings = append(p.Headings, title)
		}
		if link != "" {
			p.Anchors = append(p.Anchors, anchor{Href: link, Text: title, Heading: title})
		}
	}
	return p, nil
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
