// Package robots fetches and evaluates robots.txt for the publisher
// host before any page or edition is downloaded.
package robots

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/nkaufmann/bauwatch/internal/cache"
)

// Rules holds the parsed directive groups of one robots.txt.
type Rules struct {
	Groups []Group
}

// Group is one User-agent block.
type Group struct {
	Agents     []string
	Allow      []string
	Disallow   []string
	CrawlDelay *time.Duration
}

// Manager fetches robots.txt with conditional requests against the
// shared HTTP cache and keeps a short-lived in-memory copy per URL.
type Manager struct {
	HTTPClient  *http.Client
	Cache       *cache.HTTPCache
	UserAgent   string
	EntryExpiry time.Duration

	mu  sync.Mutex
	mem map[string]memEntry
	now func() time.Time
}

type memEntry struct {
	rules  Rules
	expiry time.Time
}

// Get returns the rules for robotsURL, from memory when fresh.
func (m *Manager) Get(ctx context.Context, robotsURL string) (Rules, error) {
	if m.now == nil {
		m.now = time.Now
	}
	if m.mem == nil {
		m.mem = make(map[string]memEntry)
	}
	u, err := url.Parse(robotsURL)
	if err != nil {
		return Rules{}, fmt.Errorf("parse url: %w", err)
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return Rules{}, fmt.Errorf("unsupported url scheme: %q", robotsURL)
	}

	m.mu.Lock()
	if ent, ok := m.mem[robotsURL]; ok && m.now().Before(ent.expiry) {
		r := ent.rules
		m.mu.Unlock()
		return r, nil
	}
	m.mu.Unlock()

	var etag, lastMod string
	if m.Cache != nil {
		if meta, err := m.Cache.LoadMeta(ctx, robotsURL); err == nil && meta != nil {
			etag = meta.ETag
			lastMod = meta.LastModified
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return Rules{}, fmt.Errorf("new request: %w", err)
	}
	if m.UserAgent != "" {
		req.Header.Set("User-Agent", m.UserAgent)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastMod != "" {
		req.Header.Set("If-Modified-Since", lastMod)
	}
	client := m.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Rules{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && m.Cache != nil {
		body, err := m.Cache.LoadBody(ctx, robotsURL)
		if err != nil {
			return Rules{}, fmt.Errorf("load cached robots: %w", err)
		}
		rules := Parse(string(body))
		m.storeMem(robotsURL, rules)
		return rules, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Rules{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Rules{}, fmt.Errorf("read robots: %w", err)
	}
	if m.Cache != nil {
		_ = m.Cache.Save(ctx, robotsURL, "text/plain", resp.Header.Get("ETag"), resp.Header.Get("Last-Modified"), data)
	}
	rules := Parse(string(data))
	m.storeMem(robotsURL, rules)
	return rules, nil
}

func (m *Manager) storeMem(key string, rules Rules) {
	exp := m.EntryExpiry
	if exp <= 0 {
		exp = 30 * time.Minute
	}
	m.mu.Lock()
	m.mem[key] = memEntry{rules: rules, expiry: m.now().Add(exp)}
	m.mu.Unlock()
}

// Parse reads a robots.txt body into directive groups.
func Parse(text string) Rules {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var groups []Group
	current := Group{}
	flush := func() {
		if len(current.Agents) == 0 && len(current.Allow) == 0 && len(current.Disallow) == 0 && current.CrawlDelay == nil {
			return
		}
		groups = append(groups, current)
		current = Group{}
	}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:colon]))
		val := strings.TrimSpace(line[colon+1:])
		switch key {
		case "user-agent", "useragent":
			if len(current.Agents) > 0 && (len(current.Allow) > 0 || len(current.Disallow) > 0 || current.CrawlDelay != nil) {
				flush()
			}
			current.Agents = append(current.Agents, strings.ToLower(val))
		case "allow":
			current.Allow = append(current.Allow, val)
		case "disallow":
			current.Disallow = append(current.Disallow, val)
		case "crawl-delay", "crawldelay":
			if s := strings.TrimSpace(val); s != "" {
				if d, err := time.ParseDuration(s + "s"); err == nil {
					dd := d
					current.CrawlDelay = &dd
				}
			}
		}
	}
	flush()
	return Rules{Groups: groups}
}

// IsAllowed evaluates whether the path (optionally with query string)
// may be fetched for the given user agent. The most specific matching
// user-agent group is selected (longest agent token, wildcard losing to
// any named match); within it the most specific matching directive
// wins, Allow beating Disallow on ties. No matching directive means
// allow.
func (r Rules) IsAllowed(userAgent string, pathWithOptionalQuery string) bool {
	grpIdx := r.selectGroupIndex(userAgent)
	if grpIdx < 0 || grpIdx >= len(r.Groups) {
		return true
	}
	grp := r.Groups[grpIdx]

	bestScore := -1
	bestAllow := true
	evaluate := func(patterns []string, isAllow bool) {
		for _, p := range patterns {
			if p == "" { // empty pattern restricts nothing
				continue
			}
			if patternMatches(p, pathWithOptionalQuery) {
				score := patternSpecificity(p)
				if score > bestScore || (score == bestScore && isAllow && !bestAllow) {
					bestScore = score
					bestAllow = isAllow
				}
			}
		}
	}
	evaluate(grp.Disallow, false)
	evaluate(grp.Allow, true)

	if bestScore == -1 {
		return true
	}
	return bestAllow
}

// CrawlDelayFor returns the crawl delay of the most specific matching
// user-agent group, or nil.
func (r Rules) CrawlDelayFor(userAgent string) *time.Duration {
	grpIdx := r.selectGroupIndex(userAgent)
	if grpIdx < 0 || grpIdx >= len(r.Groups) {
		return nil
	}
	return r.Groups[grpIdx].CrawlDelay
}

func (r Rules) selectGroupIndex(userAgent string) int {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	bestIdx := -1
	bestScore := -1
	for i, g := range r.Groups {
		for _, a := range g.Agents {
			token := strings.ToLower(strings.TrimSpace(a))
			if token == "" {
				continue
			}
			var score int
			switch {
			case token == "*":
				score = 0
			case strings.Contains(ua, token):
				score = len(token)
			default:
				continue
			}
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
	}
	return bestIdx
}

// patternMatches supports '*' wildcards and a trailing '$' end anchor,
// with matching anchored at the beginning of the path.
func patternMatches(pattern, path string) bool {
	anchorEnd := strings.HasSuffix(pattern, "$")
	p := strings.TrimSuffix(pattern, "$")
	var b strings.Builder
	b.WriteString("^")
	for _, rn := range p {
		if rn == '*' {
			b.WriteString(".*")
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(rn)))
	}
	if anchorEnd {
		b.WriteString("$")
	}
	re := regexp.MustCompile(b.String())
	return re.MatchString(path)
}

// patternSpecificity scores a pattern by its concrete length: '*' and a
// trailing '$' do not count.
func patternSpecificity(pattern string) int {
	p := strings.TrimSuffix(pattern, "$")
	return len(strings.ReplaceAll(p, "*", ""))
}
