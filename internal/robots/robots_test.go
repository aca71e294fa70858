package robots

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nkaufmann/bauwatch/internal/cache"
)

const sampleRobots = `# gazette publisher
User-agent: *
Disallow: /admin/
Allow: /editions/
Crawl-delay: 2

User-agent: bauwatch
Disallow: /editions/private/
`

func TestParse_GroupsAndDirectives(t *testing.T) {
	r := Parse(sampleRobots)
	if len(r.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(r.Groups))
	}
	if r.Groups[0].Agents[0] != "*" || len(r.Groups[0].Disallow) != 1 || len(r.Groups[0].Allow) != 1 {
		t.Fatalf("unexpected first group: %+v", r.Groups[0])
	}
	if r.Groups[0].CrawlDelay == nil || *r.Groups[0].CrawlDelay != 2*time.Second {
		t.Fatalf("expected 2s crawl delay")
	}
}

func TestIsAllowed_SpecificAgentWinsOverWildcard(t *testing.T) {
	r := Parse(sampleRobots)
	if !r.IsAllowed("bauwatch/1.0", "/editions/2026/05/15.pdf") {
		t.Fatalf("named group should allow public editions")
	}
	if r.IsAllowed("bauwatch/1.0", "/editions/private/draft.pdf") {
		t.Fatalf("named group should deny private editions")
	}
	if r.IsAllowed("somebot", "/admin/panel") {
		t.Fatalf("wildcard group should deny /admin/")
	}
	if !r.IsAllowed("somebot", "/e-paper") {
		t.Fatalf("unmatched path should be allowed")
	}
}

func TestIsAllowed_MostSpecificDirectiveWins(t *testing.T) {
	r := Parse("User-agent: *\nDisallow: /e\nAllow: /editions/\n")
	if !r.IsAllowed("any", "/editions/issue.pdf") {
		t.Fatalf("longer Allow should beat shorter Disallow")
	}
	if r.IsAllowed("any", "/embargo") {
		t.Fatalf("Disallow prefix should still apply elsewhere")
	}
}

func TestIsAllowed_WildcardAndAnchor(t *testing.T) {
	r := Parse("User-agent: *\nDisallow: /*.pdf$\n")
	if r.IsAllowed("any", "/editions/issue.pdf") {
		t.Fatalf("anchored wildcard should match pdf paths")
	}
	if !r.IsAllowed("any", "/editions/issue.pdf.html") {
		t.Fatalf("anchor should not match a longer path")
	}
}

func TestManager_Get_CachesAndRevalidates(t *testing.T) {
	etag := `"robots-v1"`
	var calls, notModified int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Header.Get("If-None-Match") == etag {
			notModified++
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /admin/\n"))
	}))
	defer srv.Close()

	m := &Manager{
		Cache:       &cache.HTTPCache{Dir: t.TempDir()},
		UserAgent:   "bauwatch-test",
		EntryExpiry: time.Nanosecond, // force revalidation on the second call
	}
	ctx := context.Background()
	r1, err := m.Get(ctx, srv.URL+"/robots.txt")
	if err != nil {
		t.Fatalf("first Get: %v", err)
	}
	if r1.IsAllowed("bauwatch-test", "/admin/x") {
		t.Fatalf("expected /admin/ denied")
	}
	time.Sleep(time.Millisecond)
	r2, err := m.Get(ctx, srv.URL+"/robots.txt")
	if err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if r2.IsAllowed("bauwatch-test", "/admin/x") {
		t.Fatalf("revalidated rules should match")
	}
	if calls != 2 || notModified != 1 {
		t.Fatalf("expected one revalidation, got calls=%d notModified=%d", calls, notModified)
	}
}

func TestManager_Get_RejectsNonHTTPScheme(t *testing.T) {
	m := &Manager{}
	if _, err := m.Get(context.Background(), "file:///etc/robots.txt"); err == nil {
		t.Fatalf("expected scheme error")
	}
}
