// Package epaper locates the edition document behind a publisher's
// e-paper index page by scanning its anchors.
package epaper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/nkaufmann/bauwatch/internal/fetch"
)

// ErrNoEdition reports that the index page held no anchor matching the
// requested edition.
var ErrNoEdition = errors.New("no matching edition found")

// Edition is one candidate document linked from the index page.
type Edition struct {
	// Title is the anchor text with whitespace collapsed.
	Title string
	// URL is the href resolved against the index page URL.
	URL string
}

// Want describes the edition to select.
type Want struct {
	// DateText must appear in the anchor text (case-insensitive), for
	// example "15. Mai".
	DateText string
	// HostMarker, when set, must appear in the resolved URL. It keeps the
	// selection on the expected viewer host when the index links out.
	HostMarker string
}

// Finder fetches the index page and scans it for edition links.
type Finder struct {
	Client *fetch.Client
}

// Find returns the first edition on the index page matching want, in
// document order. It returns ErrNoEdition when nothing matches.
func (f *Finder) Find(ctx context.Context, indexURL string, want Want) (Edition, error) {
	all, err := f.FindAll(ctx, indexURL)
	if err != nil {
		return Edition{}, err
	}
	dateText := strings.ToLower(strings.TrimSpace(want.DateText))
	for _, ed := range all {
		if dateText != "" && !strings.Contains(strings.ToLower(ed.Title), dateText) {
			continue
		}
		if want.HostMarker != "" && !strings.Contains(ed.URL, want.HostMarker) {
			continue
		}
		return ed, nil
	}
	return Edition{}, fmt.Errorf("%w: date %q on %s", ErrNoEdition, want.DateText, indexURL)
}

// FindAll returns every anchor with a non-empty href, resolved against
// the index page URL, deduplicated by URL, in document order.
func (f *Finder) FindAll(ctx context.Context, indexURL string) ([]Edition, error) {
	base, err := url.Parse(indexURL)
	if err != nil {
		return nil, fmt.Errorf("parse index url: %w", err)
	}
	body, _, err := f.Client.Get(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetch index page: %w", err)
	}
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse index html: %w", err)
	}

	var editions []Edition
	seen := make(map[string]bool)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := attrVal(n, "href")
			if href != "" {
				if resolved := resolveHref(base, href); resolved != "" && !seen[resolved] {
					seen[resolved] = true
					editions = append(editions, Edition{
						Title: anchorText(n),
						URL:   resolved,
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return editions, nil
}

func attrVal(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// anchorText collects the text under an anchor with runs of whitespace
// collapsed to single spaces.
func anchorText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	scheme := strings.ToLower(abs.Scheme)
	if scheme != "http" && scheme != "https" {
		return ""
	}
	return abs.String()
}
