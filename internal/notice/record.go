package notice

import (
	"bytes"
	"fmt"
)

// Record maps field names to extracted values for one section. Keys
// always serialize in canonical table order, independent of where the
// header tokens physically appeared in the section.
type Record struct {
	order  []string
	values map[string]string
}

func newRecord(t Table) Record {
	order := make([]string, len(t.fields))
	for i, f := range t.fields {
		order[i] = f.Name
	}
	return Record{order: order, values: make(map[string]string, len(order))}
}

func (r Record) set(name, value string) {
	r.values[name] = value
}

// Get returns the value for name and whether the field was populated.
func (r Record) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Names returns the populated field names in canonical order.
func (r Record) Names() []string {
	out := make([]string, 0, len(r.values))
	for _, name := range r.order {
		if _, ok := r.values[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Empty reports whether no field holds a non-empty value. Empty records
// are dropped by the assembler.
func (r Record) Empty() bool {
	for _, v := range r.values {
		if v != "" {
			return false
		}
	}
	return true
}

// MarshalJSON emits a flat object with keys in canonical table order.
// Non-ASCII characters are written raw; only quotes, backslashes and
// control characters are escaped.
func (r Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	first := true
	for _, name := range r.order {
		v, ok := r.values[name]
		if !ok {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		writeJSONString(&b, name)
		b.WriteByte(':')
		writeJSONString(&b, v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func writeJSONString(b *bytes.Buffer, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}
