package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultOutDir       = "downloads"
	defaultCacheDir     = ".bauwatch-cache"
	defaultFetchTimeout = 15 * time.Second
	defaultUserAgent    = "bauwatch/1.0 (+https://github.com/nkaufmann/bauwatch)"
)

// FileConfig mirrors the optional YAML/JSON config file. All fields are
// optional; flags and environment variables win over file values.
type FileConfig struct {
	Epaper struct {
		URL        string `yaml:"url" json:"url"`
		Edition    string `yaml:"edition" json:"edition"`
		Fallback   string `yaml:"fallback" json:"fallback"`
		HostMarker string `yaml:"hostMarker" json:"hostMarker"`
	} `yaml:"epaper" json:"epaper"`
	Pages   string `yaml:"pages" json:"pages"`
	OutDir  string `yaml:"outDir" json:"outDir"`
	Profile string `yaml:"profile" json:"profile"`
	Cache   struct {
		Dir    string `yaml:"dir" json:"dir"`
		MaxAge string `yaml:"maxAge" json:"maxAge"`
	} `yaml:"cache" json:"cache"`
	Fetch struct {
		UserAgent string `yaml:"userAgent" json:"userAgent"`
		Timeout   string `yaml:"timeout" json:"timeout"`
	} `yaml:"fetch" json:"fetch"`
}

// LoadConfigFile reads a YAML or JSON config file, selected by
// extension.
func LoadConfigFile(path string) (*FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return &fc, nil
}

// ApplyFileConfig fills unset Config fields from the file.
func ApplyFileConfig(fc *FileConfig, cfg *Config) error {
	if fc == nil {
		return nil
	}
	setStr := func(dst *string, v string) {
		if *dst == "" && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	setStr(&cfg.EpaperURL, fc.Epaper.URL)
	setStr(&cfg.EditionDate, fc.Epaper.Edition)
	setStr(&cfg.EditionFallbackURL, fc.Epaper.Fallback)
	setStr(&cfg.HostMarker, fc.Epaper.HostMarker)
	setStr(&cfg.OutDir, fc.OutDir)
	setStr(&cfg.ProfilePath, fc.Profile)
	setStr(&cfg.CacheDir, fc.Cache.Dir)
	setStr(&cfg.UserAgent, fc.Fetch.UserAgent)

	if len(cfg.Pages) == 0 && strings.TrimSpace(fc.Pages) != "" {
		pages, err := ParsePages(fc.Pages)
		if err != nil {
			return fmt.Errorf("config pages: %w", err)
		}
		cfg.Pages = pages
	}
	if cfg.CacheMaxAge == 0 && strings.TrimSpace(fc.Cache.MaxAge) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(fc.Cache.MaxAge))
		if err != nil {
			return fmt.Errorf("config cache.maxAge: %w", err)
		}
		cfg.CacheMaxAge = d
	}
	if cfg.FetchTimeout == 0 && strings.TrimSpace(fc.Fetch.Timeout) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(fc.Fetch.Timeout))
		if err != nil {
			return fmt.Errorf("config fetch.timeout: %w", err)
		}
		cfg.FetchTimeout = d
	}
	return nil
}

// ApplyDefaults fills the remaining holes with built-in defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.OutDir == "" {
		cfg.OutDir = defaultOutDir
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = defaultCacheDir
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
}

// ValidateConfig rejects impossible input combinations before any work
// starts.
func ValidateConfig(cfg *Config) error {
	if cfg.TextPath != "" && cfg.PDFPath != "" {
		return errors.New("choose one of -text and -pdf, not both")
	}
	local := cfg.TextPath != "" || cfg.PDFPath != ""
	if !local {
		if cfg.EpaperURL == "" {
			return errors.New("remote mode needs -epaper.url (or EPAPER_URL)")
		}
		if cfg.EditionDate == "" && cfg.EditionFallbackURL == "" {
			return errors.New("remote mode needs -edition (or EDITION_DATE) or -edition.fallback")
		}
	}
	if cfg.TextPath != "" && len(cfg.Pages) > 0 {
		return errors.New("-pages has no effect with -text input")
	}
	return nil
}
