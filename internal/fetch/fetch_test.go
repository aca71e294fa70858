package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nkaufmann/bauwatch/internal/cache"
)

func TestGet_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("<html><body>e-paper</body></html>"))
	}))
	defer srv.Close()

	c := &Client{UserAgent: "bauwatch-test", MaxAttempts: 2, PerRequestTimeout: 2 * time.Second, Accept: AcceptHTML}
	body, ct, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct == "" || len(body) == 0 {
		t.Fatalf("expected content type and body")
	}
}

func TestGet_RetryOn5xx(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(502)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	c := &Client{UserAgent: "bauwatch-test", MaxAttempts: 2, PerRequestTimeout: 2 * time.Second}
	if _, _, err := c.Get(context.Background(), srv.URL); err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestGet_AcceptPolicyRejectsWrongType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>viewer page, not a pdf</html>"))
	}))
	defer srv.Close()

	c := &Client{MaxAttempts: 1, PerRequestTimeout: 2 * time.Second, Accept: AcceptPDF}
	if _, _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected a content-type error for an HTML response under the PDF policy")
	}
}

func TestGet_Conditional304_ServesCachedBody(t *testing.T) {
	etag := `"edition-v1"`
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("ETag", etag)
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	c := &Client{
		MaxAttempts:       1,
		PerRequestTimeout: 2 * time.Second,
		Cache:             &cache.HTTPCache{Dir: t.TempDir()},
		Accept:            AcceptPDF,
	}
	first, _, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, _, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("cached body mismatch: %q vs %q", first, second)
	}
	if calls != 2 {
		t.Fatalf("expected 2 server calls, got %d", calls)
	}
}

func TestGet_RejectsNonHTTPScheme(t *testing.T) {
	c := &Client{MaxAttempts: 1}
	if _, _, err := c.Get(context.Background(), "ftp://example.test/edition.pdf"); err == nil {
		t.Fatalf("expected scheme error")
	}
}

func TestAcceptPolicies(t *testing.T) {
	if !AcceptHTML("text/html; charset=utf-8") || AcceptHTML("application/pdf") {
		t.Fatalf("AcceptHTML policy wrong")
	}
	if !AcceptPDF("application/pdf") || !AcceptPDF("application/octet-stream") || AcceptPDF("text/html") {
		t.Fatalf("AcceptPDF policy wrong")
	}
}
