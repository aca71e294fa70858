package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nkaufmann/bauwatch/internal/cache"
	"github.com/nkaufmann/bauwatch/internal/epaper"
	"github.com/nkaufmann/bauwatch/internal/fetch"
	"github.com/nkaufmann/bauwatch/internal/notice"
	"github.com/nkaufmann/bauwatch/internal/pagetext"
	"github.com/nkaufmann/bauwatch/internal/profile"
	"github.com/nkaufmann/bauwatch/internal/robots"
)

// Outcomes that are not hard failures: the run completed but there is
// nothing to publish. main maps these to their own exit code so cron
// wrappers can tell them from real errors.
var (
	ErrNoEdition = epaper.ErrNoEdition
	ErrNoRecords = errors.New("no building permit announcements found")
)

// App is one configured run of the pipeline.
type App struct {
	cfg       Config
	prof      profile.Profile
	asm       notice.Assembler
	httpCache *cache.HTTPCache
	textCache *cache.TextCache
}

// New loads the profile, prepares the caches and compiles the
// extraction pipeline.
func New(cfg Config) (*App, error) {
	if cfg.CacheClear {
		if err := cache.ClearDir(cfg.CacheDir); err != nil {
			return nil, fmt.Errorf("clear cache: %w", err)
		}
		log.Info().Str("dir", cfg.CacheDir).Msg("cache cleared")
	}
	if cfg.CacheMaxAge > 0 {
		if n, err := cache.PurgeHTTPCacheByAge(cfg.CacheDir, cfg.CacheMaxAge); err == nil && n > 0 {
			log.Info().Int("removed", n).Msg("purged stale http cache entries")
		}
		if n, err := cache.PurgeTextCacheByAge(cfg.CacheDir, cfg.CacheMaxAge); err == nil && n > 0 {
			log.Info().Int("removed", n).Msg("purged stale page text cache entries")
		}
	}

	prof := profile.Default()
	if cfg.ProfilePath != "" {
		p, err := profile.Load(cfg.ProfilePath)
		if err != nil {
			return nil, fmt.Errorf("load profile: %w", err)
		}
		prof = p
	}
	asm, err := prof.Assembler()
	if err != nil {
		return nil, err
	}
	log.Debug().Str("profile", prof.Name).Int("fields", len(prof.Fields)).Msg("profile compiled")

	return &App{
		cfg:       cfg,
		prof:      prof,
		asm:       asm,
		httpCache: &cache.HTTPCache{Dir: filepath.Join(cfg.CacheDir, "http")},
		textCache: &cache.TextCache{Dir: filepath.Join(cfg.CacheDir, "text")},
	}, nil
}

// Run executes the pipeline: obtain page text, assemble records, write
// the artifacts and the manifest. The records JSON also goes to stdout.
func (a *App) Run(ctx context.Context) error {
	if err := os.MkdirAll(a.cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	text, source, pdfSHA, err := a.pageText(ctx)
	if err != nil {
		return err
	}

	rawPath, err := writeRawText(a.cfg.OutDir, a.cfg.Pages, text)
	if err != nil {
		return err
	}
	log.Info().Str("path", rawPath).Int("chars", len(text)).Msg("raw page text written")

	records := a.asm.Assemble(text)
	if len(records) == 0 {
		// The raw-text artifact stays for debugging; nothing else is
		// written.
		log.Warn().Str("source", source).Msg("no announcements matched the profile")
		return ErrNoRecords
	}

	recordsPath, data, err := writeRecords(a.cfg.OutDir, records)
	if err != nil {
		return err
	}
	if _, err := os.Stdout.Write(data); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}

	m := runManifest{
		Tool:        "bauwatch",
		Version:     BuildVersion,
		Source:      source,
		PDFSHA256:   pdfSHA,
		TextSHA256:  computeSHA256Hex([]byte(text)),
		Pages:       a.cfg.Pages,
		Profile:     a.prof.Name,
		RecordCount: len(records),
		GeneratedAt: time.Now().UTC(),
	}
	if err := writeManifest(recordsPath, m); err != nil {
		return err
	}
	log.Info().Str("path", recordsPath).Int("records", len(records)).Msg("records written")
	return nil
}

// Records runs extraction only, without touching the filesystem beyond
// the input. Used by tests and by callers that embed the pipeline.
func (a *App) Records(text string) []notice.Record {
	return a.asm.Assemble(text)
}

// pageText resolves the input mode. It returns the page text, a source
// description for the manifest and the PDF digest when one was read.
func (a *App) pageText(ctx context.Context) (text string, source string, pdfSHA string, err error) {
	switch {
	case a.cfg.TextPath != "":
		b, err := os.ReadFile(a.cfg.TextPath)
		if err != nil {
			return "", "", "", fmt.Errorf("read text input: %w", err)
		}
		return string(b), "text:" + a.cfg.TextPath, "", nil
	case a.cfg.PDFPath != "":
		text, sha, err := a.extractPDF(a.cfg.PDFPath)
		if err != nil {
			return "", "", "", err
		}
		return text, "pdf:" + a.cfg.PDFPath, sha, nil
	default:
		pdfPath, srcURL, err := a.downloadEdition(ctx)
		if err != nil {
			return "", "", "", err
		}
		text, sha, err := a.extractPDF(pdfPath)
		if err != nil {
			return "", "", "", err
		}
		return text, srcURL, sha, nil
	}
}

// extractPDF returns the selected page text of a local PDF, through the
// text cache keyed by content digest and page selection.
func (a *App) extractPDF(pdfPath string) (string, string, error) {
	raw, err := os.ReadFile(pdfPath)
	if err != nil {
		return "", "", fmt.Errorf("read pdf: %w", err)
	}
	sha := computeSHA256Hex(raw)

	if text, err := a.textCache.Load(sha, a.cfg.Pages); err == nil {
		log.Debug().Str("pdf", pdfPath).Msg("page text served from cache")
		return text, sha, nil
	}
	text, err := pagetext.Extract(pdfPath, a.cfg.Pages)
	if err != nil {
		return "", "", err
	}
	if err := a.textCache.Save(sha, a.cfg.Pages, text); err != nil {
		log.Warn().Err(err).Msg("page text cache write failed")
	}
	return text, sha, nil
}

// downloadEdition locates the edition on the e-paper index page,
// honours robots.txt and saves the PDF into the output directory. It
// returns the local path and the source URL.
func (a *App) downloadEdition(ctx context.Context) (string, string, error) {
	htmlClient := &fetch.Client{
		UserAgent:         a.cfg.UserAgent,
		MaxAttempts:       3,
		PerRequestTimeout: a.cfg.FetchTimeout,
		Cache:             a.httpCache,
		Accept:            fetch.AcceptHTML,
	}
	pdfClient := &fetch.Client{
		UserAgent:         a.cfg.UserAgent,
		MaxAttempts:       3,
		PerRequestTimeout: a.cfg.FetchTimeout,
		Cache:             a.httpCache,
		Accept:            fetch.AcceptPDF,
	}
	mgr := &robots.Manager{Cache: a.httpCache, UserAgent: a.cfg.UserAgent}

	if err := a.checkRobots(ctx, mgr, a.cfg.EpaperURL); err != nil {
		return "", "", err
	}

	var ed epaper.Edition
	if a.cfg.EditionDate == "" {
		// No date to match on the index page; the validated config
		// guarantees a fallback URL in this case.
		ed = epaper.Edition{Title: "fallback", URL: a.cfg.EditionFallbackURL}
	} else {
		finder := &epaper.Finder{Client: htmlClient}
		found, err := finder.Find(ctx, a.cfg.EpaperURL, epaper.Want{
			DateText:   a.cfg.EditionDate,
			HostMarker: a.cfg.HostMarker,
		})
		switch {
		case err == nil:
			ed = found
			log.Info().Str("title", ed.Title).Str("url", ed.URL).Msg("edition located")
		case errors.Is(err, epaper.ErrNoEdition) && a.cfg.EditionFallbackURL != "":
			log.Warn().Str("edition", a.cfg.EditionDate).Str("fallback", a.cfg.EditionFallbackURL).
				Msg("edition not on index page, trying fallback URL")
			ed = epaper.Edition{Title: "fallback", URL: a.cfg.EditionFallbackURL}
		default:
			return "", "", err
		}
	}

	if err := a.checkRobots(ctx, mgr, ed.URL); err != nil {
		return "", "", err
	}

	body, _, err := pdfClient.Get(ctx, ed.URL)
	if err != nil {
		return "", "", fmt.Errorf("download edition %s: %w (download the PDF manually and re-run with -pdf)", ed.URL, err)
	}
	dest := filepath.Join(a.cfg.OutDir, editionFileName(ed.URL))
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return "", "", fmt.Errorf("save edition: %w", err)
	}
	log.Info().Str("path", dest).Int("bytes", len(body)).Msg("edition downloaded")
	return dest, ed.URL, nil
}

// checkRobots consults robots.txt for the URL's host. An unreachable or
// malformed robots.txt counts as permission; a parsed Disallow does not.
func (a *App) checkRobots(ctx context.Context, mgr *robots.Manager, rawURL string) error {
	if a.cfg.RobotsIgnore {
		log.Warn().Str("url", rawURL).Msg("robots.txt check skipped by configuration")
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	rules, err := mgr.Get(ctx, robotsURL)
	if err != nil {
		log.Debug().Err(err).Str("url", robotsURL).Msg("robots.txt unavailable, proceeding")
		return nil
	}
	p := u.Path
	if p == "" {
		p = "/"
	}
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	if !rules.IsAllowed(a.cfg.UserAgent, p) {
		return fmt.Errorf("robots.txt of %s disallows %s", u.Host, p)
	}
	if d := rules.CrawlDelayFor(a.cfg.UserAgent); d != nil && *d > 0 {
		delay := *d
		if delay > 5*time.Second {
			delay = 5 * time.Second
		}
		log.Debug().Dur("delay", delay).Msg("honouring crawl delay")
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// editionFileName derives a safe local filename from the edition URL.
func editionFileName(rawURL string) string {
	name := "edition.pdf"
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
			name = base
		}
	}
	name = sanitizeFileName(name)
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

func sanitizeFileName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
