package notice

import "regexp"

// Section is one announcement slice of the page text. Start and End are
// the byte offsets of the untruncated slice within the input, so
// consecutive sections partition the text without overlap. Text carries
// the footer-truncated content that field extraction sees.
type Section struct {
	Start int
	End   int
	Text  string
}

// Segmenter splits page text into candidate announcement sections and
// filters them to the municipality of interest.
type Segmenter struct {
	// Header marks the start of one announcement. Matched ASCII
	// case-insensitively.
	Header string
	// Locality keeps only sections that mention the target municipality,
	// in any of its spelling or encoding variants.
	Locality *regexp.Regexp
	// Footer marks the authoring-department boilerplate. Everything from
	// its first occurrence is replaced with CanonicalFooter.
	Footer          string
	CanonicalFooter string
}

// Segment returns the matching sections of text in document order. Each
// section starts at a Header occurrence and runs to the next occurrence
// or end of text. Sections without a Locality match are dropped; that is
// a relevance filter, not an error. No Header occurrence yields nil.
func (sg Segmenter) Segment(text string) []Section {
	starts := findAllFold(text, sg.Header)
	var out []Section
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		piece := text[start:end]
		if sg.Locality != nil && !sg.Locality.MatchString(piece) {
			continue
		}
		if sg.Footer != "" {
			if cut := indexFold(piece, sg.Footer, 0); cut >= 0 {
				piece = piece[:cut] + sg.CanonicalFooter
			}
		}
		out = append(out, Section{Start: start, End: end, Text: piece})
	}
	return out
}
