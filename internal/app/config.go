// Package app wires configuration, fetching, extraction and assembly
// into the bauwatch run pipeline.
package app

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Config carries the effective settings of one run after flag, file and
// environment resolution.
type Config struct {
	// TextPath reads page text from a local file instead of a PDF.
	TextPath string
	// PDFPath reads a local edition PDF instead of downloading one.
	PDFPath string

	// EpaperURL is the publisher index page listing editions.
	EpaperURL string
	// EditionDate selects the edition by anchor text, e.g. "15. Mai".
	EditionDate string
	// EditionFallbackURL is fetched directly when no anchor matches.
	EditionFallbackURL string
	// HostMarker restricts edition anchors to a viewer host.
	HostMarker string

	// Pages selects which PDF pages to extract. Empty means all.
	Pages []int

	// OutDir receives the raw text dump, the records file and the
	// downloaded edition.
	OutDir string
	// ProfilePath overrides the built-in municipality profile.
	ProfilePath string

	CacheDir    string
	CacheMaxAge time.Duration
	CacheClear  bool

	UserAgent    string
	FetchTimeout time.Duration
	RobotsIgnore bool

	Verbose bool
}

// ParsePages parses a page selection like "12,13" or "12-14,20" into a
// sorted, deduplicated list of 1-based page numbers.
func ParsePages(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			a, err := parsePageNum(lo)
			if err != nil {
				return nil, err
			}
			b, err := parsePageNum(hi)
			if err != nil {
				return nil, err
			}
			if b < a {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
			for p := a; p <= b; p++ {
				seen[p] = true
			}
			continue
		}
		p, err := parsePageNum(part)
		if err != nil {
			return nil, err
		}
		seen[p] = true
	}
	pages := make([]int, 0, len(seen))
	for p := range seen {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages, nil
}

func parsePageNum(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid page number %q", s)
	}
	return n, nil
}
