package app

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Environment variables recognized by bauwatch. Flags take precedence;
// an environment value only fills a field left empty by the flags.
const (
	envEpaperURL          = "EPAPER_URL"
	envEditionDate        = "EDITION_DATE"
	envEditionFallbackURL = "EDITION_FALLBACK_URL"
	envHostMarker         = "HOST_MARKER"
	envPages              = "PAGES"
	envOutDir             = "OUT_DIR"
	envProfile            = "PROFILE"
	envCacheDir           = "CACHE_DIR"
	envCacheMaxAge        = "CACHE_MAX_AGE"
	envFetchUA            = "FETCH_UA"
	envFetchTimeout       = "FETCH_TIMEOUT"
)

// ApplyEnvOverrides fills unset Config fields from the environment.
func ApplyEnvOverrides(cfg *Config) error {
	setStr := func(dst *string, key string) {
		if *dst == "" {
			if v := strings.TrimSpace(os.Getenv(key)); v != "" {
				*dst = v
			}
		}
	}
	setStr(&cfg.EpaperURL, envEpaperURL)
	setStr(&cfg.EditionDate, envEditionDate)
	setStr(&cfg.EditionFallbackURL, envEditionFallbackURL)
	setStr(&cfg.HostMarker, envHostMarker)
	setStr(&cfg.OutDir, envOutDir)
	setStr(&cfg.ProfilePath, envProfile)
	setStr(&cfg.CacheDir, envCacheDir)
	setStr(&cfg.UserAgent, envFetchUA)

	if len(cfg.Pages) == 0 {
		if v := strings.TrimSpace(os.Getenv(envPages)); v != "" {
			pages, err := ParsePages(v)
			if err != nil {
				return fmt.Errorf("%s: %w", envPages, err)
			}
			cfg.Pages = pages
		}
	}
	if cfg.CacheMaxAge == 0 {
		if v := strings.TrimSpace(os.Getenv(envCacheMaxAge)); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", envCacheMaxAge, err)
			}
			cfg.CacheMaxAge = d
		}
	}
	if cfg.FetchTimeout == 0 {
		if v := strings.TrimSpace(os.Getenv(envFetchTimeout)); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", envFetchTimeout, err)
			}
			cfg.FetchTimeout = d
		}
	}
	return nil
}
