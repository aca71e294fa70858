package notice

import (
	"fmt"
	"strings"
)

// JoinPolicy selects how accepted continuation lines are concatenated.
type JoinPolicy string

const (
	JoinComma JoinPolicy = "comma"
	JoinSpace JoinPolicy = "space"
)

// FieldKind selects the capture rule for a field.
type FieldKind string

const (
	// KindLines captures line by line until a terminator token or a line
	// that itself starts with another field's header token.
	KindLines FieldKind = "lines"
	// KindNumber captures only the contiguous run of decimal digits
	// immediately following the header token, verbatim.
	KindNumber FieldKind = "number"
	// KindRemainder captures the header token and everything after it up
	// to the first terminator, whitespace-collapsed and length-capped.
	KindRemainder FieldKind = "remainder"
)

// Field is one entry of the ordered extraction table.
type Field struct {
	Name  string
	Token string
	// Stop holds the terminator tokens bounding this field's capture:
	// the header tokens of every field that may follow it, plus the
	// section footer token. Left empty, NewTable derives it from the
	// fields that come after this one.
	Stop []string
	Join JoinPolicy
	Kind FieldKind
	// MaxLines caps accepted continuation lines. Zero means no cap.
	MaxLines int
	// MaxChars caps a remainder value in runes; longer values are cut
	// and get a "..." suffix.
	MaxChars int
}

// Table is a compiled, ordered field table. Beyond the per-field
// terminator sets it knows every header token in the table, which drives
// the continuation-line guard: a continuation line that starts with any
// known header token ends the current field even when terminator
// detection missed it.
type Table struct {
	fields []Field
	tokens []string
}

// NewTable validates and compiles an ordered field list.
func NewTable(fields []Field) (Table, error) {
	if len(fields) == 0 {
		return Table{}, fmt.Errorf("field table: no fields")
	}
	seen := make(map[string]bool, len(fields))
	tokens := make([]string, 0, len(fields))
	for i, f := range fields {
		if strings.TrimSpace(f.Name) == "" {
			return Table{}, fmt.Errorf("field table: entry %d has no name", i)
		}
		if strings.TrimSpace(f.Token) == "" {
			return Table{}, fmt.Errorf("field table: field %q has no header token", f.Name)
		}
		if seen[f.Name] {
			return Table{}, fmt.Errorf("field table: duplicate field %q", f.Name)
		}
		seen[f.Name] = true
		tokens = append(tokens, f.Token)
	}
	compiled := make([]Field, len(fields))
	copy(compiled, fields)
	for i := range compiled {
		if len(compiled[i].Stop) > 0 {
			continue
		}
		// A field never consumes text belonging to a later one: its
		// derived terminator set covers every following header token.
		for j := i + 1; j < len(fields); j++ {
			compiled[i].Stop = append(compiled[i].Stop, fields[j].Token)
		}
	}
	return Table{fields: compiled, tokens: tokens}, nil
}

// Fields returns the canonical field order.
func (t Table) Fields() []Field {
	out := make([]Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// Extract decomposes one section into a Record by applying the table in
// order. A field whose header token is absent is skipped silently; the
// returned Record simply has no key for it.
func (t Table) Extract(section string) Record {
	rec := newRecord(t)
	for _, f := range t.fields {
		at := indexFold(section, f.Token, 0)
		if at < 0 {
			continue
		}
		var value string
		switch f.Kind {
		case KindNumber:
			value = captureDigits(section, at+len(f.Token))
		case KindRemainder:
			value = captureRemainder(section, f, at)
		default:
			value = t.captureLines(section, f, at+len(f.Token))
		}
		if value == "" {
			continue
		}
		rec.set(f.Name, value)
	}
	return rec
}

// captureLines implements the default field rule: bound the capture by
// the nearest terminator, then walk the captured lines from the first.
// A line is accepted when it is non-empty and does not begin with any
// known header token; the walk stops at the first rejected line and
// nothing after the stop point is collected.
func (t Table) captureLines(section string, f Field, from int) string {
	start := skipTokenPunct(section, from)
	end := stopIndex(section, f.Stop, start)
	var lines []string
	for _, line := range strings.Split(section[start:end], "\n") {
		line = strings.TrimSpace(line)
		if line == "" || t.startsWithToken(line) {
			break
		}
		lines = append(lines, line)
		if f.MaxLines > 0 && len(lines) == f.MaxLines {
			break
		}
	}
	sep := " "
	if f.Join == JoinComma {
		sep = ","
	}
	return collapseSpaces(strings.Join(lines, sep))
}

// captureRemainder keeps the header token itself and the whole tail up
// to the nearest terminator, as one whitespace-collapsed string.
func captureRemainder(section string, f Field, at int) string {
	end := stopIndex(section, f.Stop, at+len(f.Token))
	value := collapseSpaces(strings.TrimSpace(section[at:end]))
	if f.MaxChars > 0 {
		if r := []rune(value); len(r) > f.MaxChars {
			value = string(r[:f.MaxChars]) + "..."
		}
	}
	return value
}

func captureDigits(s string, from int) string {
	i := skipTokenPunct(s, from)
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	return s[i:j]
}

func (t Table) startsWithToken(line string) bool {
	for _, tok := range t.tokens {
		if hasPrefixFold(line, tok) {
			return true
		}
	}
	return false
}

// stopIndex returns the position of the earliest terminator occurrence
// at or after from, or len(section) when none occurs.
func stopIndex(section string, stop []string, from int) int {
	end := len(section)
	for _, tok := range stop {
		if i := indexFold(section, tok, from); i >= 0 && i < end {
			end = i
		}
	}
	return end
}

// skipTokenPunct advances past the optional "." and ":" directly after
// a header token and any whitespace before the value, so a value that
// starts on the following line is still found.
func skipTokenPunct(s string, i int) int {
	if i < len(s) && s[i] == '.' {
		i++
	}
	if i < len(s) && s[i] == ':' {
		i++
	}
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func collapseSpaces(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}
