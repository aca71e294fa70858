// pagedump prints the extracted text of a local edition PDF. It exists
// to inspect what the extractor actually sees when a profile misses an
// announcement.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nkaufmann/bauwatch/internal/app"
	"github.com/nkaufmann/bauwatch/internal/notice"
	"github.com/nkaufmann/bauwatch/internal/pagetext"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	var (
		pdfPath   string
		pagesSpec string
		normalize bool
		countOnly bool
	)
	flag.StringVar(&pdfPath, "pdf", "", "Path to the edition PDF (required)")
	flag.StringVar(&pagesSpec, "pages", "", "Pages to extract, e.g. '12,13'; empty means all")
	flag.BoolVar(&normalize, "normalize", false, "Repair mojibake before printing")
	flag.BoolVar(&countOnly, "count", false, "Print only the page count")
	flag.Parse()

	if pdfPath == "" {
		fmt.Fprintln(os.Stderr, "usage: pagedump -pdf edition.pdf [-pages 12,13] [-normalize]")
		os.Exit(1)
	}

	if countOnly {
		n, err := pagetext.Pages(pdfPath)
		if err != nil {
			log.Error().Err(err).Msg("count pages failed")
			os.Exit(1)
		}
		fmt.Println(n)
		return
	}

	pages, err := app.ParsePages(pagesSpec)
	if err != nil {
		log.Error().Err(err).Msg("invalid -pages")
		os.Exit(1)
	}
	text, err := pagetext.Extract(pdfPath, pages)
	if err != nil {
		log.Error().Err(err).Msg("extract failed")
		os.Exit(1)
	}
	if normalize {
		text = notice.Normalize(text)
	}
	fmt.Println(text)
}
