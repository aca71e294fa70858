// Package notice turns the raw text of a scanned gazette page into
// structured building-permit announcement records. The pipeline is
// normalize, segment, extract: mojibake repair first, then splitting on
// the recurring announcement header, then ordered field extraction per
// section. Everything here is a pure transformation over immutable
// strings; absence of a token is data, never an error.
package notice

// Assembler drives the full page pipeline and drops empty records. It
// holds no mutable state, so concurrent Assemble calls are safe.
type Assembler struct {
	Segmenter Segmenter
	Table     Table
}

// Assemble returns the records of one page text in section order.
func (a Assembler) Assemble(page string) []Record {
	var out []Record
	for _, sec := range a.Segmenter.Segment(Normalize(page)) {
		rec := a.Table.Extract(sec.Text)
		if rec.Empty() {
			continue
		}
		out = append(out, rec)
	}
	return out
}
