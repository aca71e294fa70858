package app

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestParsePages(t *testing.T) {
	cases := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"12", []int{12}, false},
		{"12,13", []int{12, 13}, false},
		{"13, 12, 12", []int{12, 13}, false},
		{"12-14,20", []int{12, 13, 14, 20}, false},
		{"0", nil, true},
		{"x", nil, true},
		{"5-3", nil, true},
	}
	for _, c := range cases {
		got, err := ParsePages(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParsePages(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePages(%q): %v", c.in, err)
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("ParsePages(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestApplyEnvOverrides_FlagsWin(t *testing.T) {
	t.Setenv("EPAPER_URL", "https://env.test/e-paper")
	t.Setenv("EDITION_DATE", "15. Mai")
	t.Setenv("PAGES", "12,13")
	t.Setenv("FETCH_TIMEOUT", "30s")

	cfg := Config{EpaperURL: "https://flag.test/e-paper"}
	if err := ApplyEnvOverrides(&cfg); err != nil {
		t.Fatalf("ApplyEnvOverrides: %v", err)
	}
	if cfg.EpaperURL != "https://flag.test/e-paper" {
		t.Fatalf("flag value overridden by env: %q", cfg.EpaperURL)
	}
	if cfg.EditionDate != "15. Mai" {
		t.Fatalf("EditionDate = %q", cfg.EditionDate)
	}
	if !reflect.DeepEqual(cfg.Pages, []int{12, 13}) {
		t.Fatalf("Pages = %v", cfg.Pages)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Fatalf("FetchTimeout = %v", cfg.FetchTimeout)
	}
}

func TestApplyEnvOverrides_BadPagesRejected(t *testing.T) {
	t.Setenv("PAGES", "twelve")
	cfg := Config{}
	if err := ApplyEnvOverrides(&cfg); err == nil {
		t.Fatalf("expected error for unparseable PAGES")
	}
}

func TestLoadAndApplyFileConfig(t *testing.T) {
	yamlBody := `
epaper:
  url: https://file.test/e-paper
  edition: "22. Mai"
  hostMarker: viewer.file.test
pages: "12-13"
outDir: out
cache:
  dir: cachedir
  maxAge: 168h
fetch:
  userAgent: bauwatch-file
  timeout: 20s
`
	path := filepath.Join(t.TempDir(), "bauwatch.yaml")
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	cfg := Config{OutDir: "flag-out"}
	if err := ApplyFileConfig(fc, &cfg); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}
	if cfg.OutDir != "flag-out" {
		t.Fatalf("file value overrode flag: %q", cfg.OutDir)
	}
	if cfg.EpaperURL != "https://file.test/e-paper" || cfg.EditionDate != "22. Mai" {
		t.Fatalf("epaper settings not applied: %+v", cfg)
	}
	if cfg.HostMarker != "viewer.file.test" {
		t.Fatalf("HostMarker = %q", cfg.HostMarker)
	}
	if !reflect.DeepEqual(cfg.Pages, []int{12, 13}) {
		t.Fatalf("Pages = %v", cfg.Pages)
	}
	if cfg.CacheMaxAge != 168*time.Hour || cfg.FetchTimeout != 20*time.Second {
		t.Fatalf("durations not applied: %+v", cfg)
	}
	if cfg.UserAgent != "bauwatch-file" || cfg.CacheDir != "cachedir" {
		t.Fatalf("fetch/cache settings not applied: %+v", cfg)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	ApplyDefaults(&cfg)
	if cfg.OutDir != "downloads" || cfg.CacheDir != ".bauwatch-cache" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.FetchTimeout != 15*time.Second || cfg.UserAgent == "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"text input", Config{TextPath: "p.txt"}, false},
		{"pdf input", Config{PDFPath: "e.pdf", Pages: []int{12}}, false},
		{"both inputs", Config{TextPath: "p.txt", PDFPath: "e.pdf"}, true},
		{"remote ok", Config{EpaperURL: "https://x.test", EditionDate: "15. Mai"}, false},
		{"remote fallback only", Config{EpaperURL: "https://x.test", EditionFallbackURL: "https://x.test/e.pdf"}, false},
		{"remote missing url", Config{EditionDate: "15. Mai"}, true},
		{"remote missing edition", Config{EpaperURL: "https://x.test"}, true},
		{"pages with text input", Config{TextPath: "p.txt", Pages: []int{12}}, true},
	}
	for _, c := range cases {
		err := ValidateConfig(&c.cfg)
		if c.wantErr && err == nil {
			t.Errorf("%s: expected error", c.name)
		}
		if !c.wantErr && err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
		}
	}
}

func TestLoadEnvFiles_RealEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	body := "# comment\nEPAPER_URL=https://dotenv.test/e-paper\nEDITION_DATE='15. Mai'\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("EPAPER_URL", "https://real.test/e-paper")
	os.Unsetenv("EDITION_DATE")
	t.Cleanup(func() { os.Unsetenv("EDITION_DATE") })

	if err := LoadEnvFiles(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnvFiles: %v", err)
	}
	if got := os.Getenv("EPAPER_URL"); got != "https://real.test/e-paper" {
		t.Fatalf("dotenv overrode the environment: %q", got)
	}
	if got := os.Getenv("EDITION_DATE"); got != "15. Mai" {
		t.Fatalf("quoted dotenv value not applied: %q", got)
	}
}
