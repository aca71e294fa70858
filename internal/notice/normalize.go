package notice

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// repairedRunes lists the characters whose double-encoded forms Normalize
// repairs. The broken form of each is its UTF-8 byte sequence re-read as
// Windows-1252, which is how the upstream text extraction mangles umlauts
// and accents on the scanned pages.
var repairedRunes = []rune{'Ü', 'ü', 'ä', 'ö', 'Ö', 'Ä', 'é', 'è', 'à'}

var mojibake = buildReplacer(repairedRunes)

func buildReplacer(runes []rune) *strings.Replacer {
	pairs := make([]string, 0, len(runes)*4)
	for _, r := range runes {
		var enc [utf8.UTFMax]byte
		n := utf8.EncodeRune(enc[:], r)
		var broken strings.Builder
		for _, b := range enc[:n] {
			broken.WriteRune(charmap.Windows1252.DecodeByte(b))
		}
		pairs = append(pairs, broken.String(), string(r))
		// Extractors often flatten the NBSP half of an artifact (seen with
		// the 'à' sequence) into a plain space. Repair that spelling too,
		// keeping the space so the following word stays separated.
		if alt := strings.ReplaceAll(broken.String(), "\u00a0", " "); alt != broken.String() {
			pairs = append(pairs, alt, string(r)+" ")
		}
	}
	return strings.NewReplacer(pairs...)
}

// Normalize repairs the fixed set of UTF-8/Windows-1252 mis-decoding
// artifacts in s. Substitutions apply in a single pass and are never
// rescanned, so Normalize is idempotent. Unmatched sequences pass
// through unchanged.
func Normalize(s string) string {
	return mojibake.Replace(s)
}
