// Package pagetext extracts plain text from the downloaded edition PDF.
// It selects 1-based pages and joins them with a page-break marker that
// can never collide with an announcement header or footer token.
package pagetext

import (
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// PageBreak separates the text of consecutive extracted pages.
const PageBreak = "\n\n--- PAGE BREAK ---\n\n"

// Pages returns the number of pages in the PDF at path.
func Pages(path string) (int, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	return reader.NumPage(), nil
}

// Extract returns the plain text of the requested 1-based pages joined
// with PageBreak. An empty selection means all pages. A page number
// beyond the document is skipped with a warning, not an error; an
// unparseable PDF or page is an error for the caller.
func Extract(path string, pages []int) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	if len(pages) == 0 {
		pages = make([]int, 0, total)
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}
	}

	parts := make([]string, 0, len(pages))
	for _, n := range pages {
		if n < 1 || n > total {
			log.Warn().Int("page", n).Int("total", total).Msg("page outside document, skipping")
			continue
		}
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", n, err)
		}
		parts = append(parts, text)
		log.Debug().Int("page", n).Int("chars", len(text)).Msg("extracted page text")
	}
	return strings.Join(parts, PageBreak), nil
}
