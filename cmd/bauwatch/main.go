package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nkaufmann/bauwatch/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		textPath        string
		pdfPath         string
		epaperURL       string
		edition         string
		editionFallback string
		hostMarker      string
		pagesSpec       string
		outDir          string
		profilePath     string
		configPath      string
		cacheDir        string
		cacheMaxAge     time.Duration
		cacheClear      bool
		fetchUA         string
		fetchTimeout    time.Duration
		robotsIgnore    bool
		verbose         bool
		showVersion     bool
	)

	flag.StringVar(&textPath, "text", "", "Read page text from a local file instead of a PDF")
	flag.StringVar(&pdfPath, "pdf", "", "Read a local edition PDF instead of downloading one")
	flag.StringVar(&epaperURL, "epaper.url", "", "Publisher e-paper index page URL (env EPAPER_URL)")
	flag.StringVar(&edition, "edition", "", "Edition date text to match on the index page, e.g. '15. Mai' (env EDITION_DATE)")
	flag.StringVar(&editionFallback, "edition.fallback", "", "Direct edition URL used when no index anchor matches (env EDITION_FALLBACK_URL)")
	flag.StringVar(&hostMarker, "host.marker", "", "Substring the resolved edition URL must contain (env HOST_MARKER)")
	flag.StringVar(&pagesSpec, "pages", "", "Pages to extract, e.g. '12,13' or '12-14' (env PAGES); empty means all")
	flag.StringVar(&outDir, "outdir", "", "Output directory for the PDF, raw text and records (default downloads)")
	flag.StringVar(&profilePath, "profile", "", "Municipality profile file (YAML or JSON); built-in default when empty")
	flag.StringVar(&configPath, "config", "", "Optional config file (YAML or JSON)")
	flag.StringVar(&cacheDir, "cache.dir", "", "Cache directory path (default .bauwatch-cache)")
	flag.DurationVar(&cacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 168h); 0 disables")
	flag.BoolVar(&cacheClear, "cache.clear", false, "Clear cache directory before run")
	flag.StringVar(&fetchUA, "fetch.ua", "", "Custom User-Agent for publisher requests")
	flag.DurationVar(&fetchTimeout, "fetch.timeout", 0, "Per-request timeout (default 15s)")
	flag.BoolVar(&robotsIgnore, "robots.ignore", false, "Skip robots.txt checks (local stubs and mirrors only)")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("bauwatch %s (%s, %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return
	}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := app.LoadEnvFiles(".env"); err != nil {
		log.Error().Err(err).Msg("load .env failed")
		os.Exit(1)
	}

	pages, err := app.ParsePages(pagesSpec)
	if err != nil {
		log.Error().Err(err).Msg("invalid -pages")
		os.Exit(1)
	}

	cfg := app.Config{
		TextPath:           textPath,
		PDFPath:            pdfPath,
		EpaperURL:          epaperURL,
		EditionDate:        edition,
		EditionFallbackURL: editionFallback,
		HostMarker:         hostMarker,
		Pages:              pages,
		OutDir:             outDir,
		ProfilePath:        profilePath,
		CacheDir:           cacheDir,
		CacheMaxAge:        cacheMaxAge,
		CacheClear:         cacheClear,
		UserAgent:          fetchUA,
		FetchTimeout:       fetchTimeout,
		RobotsIgnore:       robotsIgnore,
		Verbose:            verbose,
	}

	// Resolution order: flags, then environment, then config file, then
	// built-in defaults.
	if err := app.ApplyEnvOverrides(&cfg); err != nil {
		log.Error().Err(err).Msg("invalid environment")
		os.Exit(1)
	}
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Msg("load config file failed")
			os.Exit(1)
		}
		if err := app.ApplyFileConfig(fc, &cfg); err != nil {
			log.Error().Err(err).Msg("invalid config file")
			os.Exit(1)
		}
	}
	app.ApplyDefaults(&cfg)

	if err := app.ValidateConfig(&cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: 2 when the run worked but found nothing to
		// publish, 1 for hard failures.
		if errors.Is(err, app.ErrNoEdition) || errors.Is(err, app.ErrNoRecords) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(context.Background())
}
