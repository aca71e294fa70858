// Package profile holds the declarative inputs of the extraction core:
// the segmentation tokens and the ordered field table for one
// announcement template. Profiles load from YAML or JSON files, so a
// new template needs no code changes; a built-in default covers the
// observed Würenlos format.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/nkaufmann/bauwatch/internal/notice"
)

// Profile bundles segmentation rules and the field table.
type Profile struct {
	Name            string      `yaml:"name" json:"name"`
	Header          string      `yaml:"header" json:"header"`
	Locality        string      `yaml:"locality" json:"locality"`
	Footer          string      `yaml:"footer" json:"footer"`
	CanonicalFooter string      `yaml:"canonicalFooter" json:"canonicalFooter"`
	Fields          []FieldSpec `yaml:"fields" json:"fields"`
}

// FieldSpec is one row of a profile's field table.
type FieldSpec struct {
	Name  string `yaml:"name" json:"name"`
	Token string `yaml:"token" json:"token"`
	// Kind is one of "lines" (default), "number", "remainder".
	Kind string `yaml:"kind" json:"kind"`
	// Join is one of "space" (default), "comma".
	Join     string `yaml:"join" json:"join"`
	MaxLines int    `yaml:"maxLines" json:"maxLines"`
	MaxChars int    `yaml:"maxChars" json:"maxChars"`
}

// Default returns the built-in profile for the Würenlos building-permit
// template as published in the Limmatwelle.
func Default() Profile {
	return Profile{
		Name:            "wuerenlos",
		Header:          "Baugesuchspublikation",
		Locality:        `(?i)W[üÜu]renlos`,
		Footer:          "BAUVERWALTUNG",
		CanonicalFooter: "BAUVERWALTUNGWÜRENLOS",
		Fields: []FieldSpec{
			{Name: "Baugesuch_Nr", Token: "BaugesuchNr", Kind: "number"},
			{Name: "Bauherrschaft", Token: "Bauherrschaft", Join: "comma"},
			{Name: "Bauvorhaben", Token: "Bauvorhaben", Join: "space"},
			{Name: "Lage", Token: "Lage", Join: "comma"},
			{Name: "Zone", Token: "Zone", Join: "space", MaxLines: 1},
			{Name: "Zusatzgesuch", Token: "Zusatzgesuch", Join: "comma"},
			{Name: "others", Token: "Gesuchsauflage", Kind: "remainder", MaxChars: 500},
		},
	}
}

// Load reads a profile from a YAML or JSON file.
func Load(path string) (Profile, error) {
	var p Profile
	b, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(b, &p); err != nil {
			return p, fmt.Errorf("parse profile json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &p); err != nil {
			return p, fmt.Errorf("parse profile yaml: %w", err)
		}
	}
	return p, nil
}

// Build compiles the profile into the segmenter and field table the
// extraction core consumes. Terminator sets are derived here: a field
// stops at the header token of every field defined after it and at the
// footer token. An invalid profile fails at build time, not mid-run.
func (p Profile) Build() (notice.Segmenter, notice.Table, error) {
	fail := func(err error) (notice.Segmenter, notice.Table, error) {
		return notice.Segmenter{}, notice.Table{}, err
	}
	if strings.TrimSpace(p.Header) == "" {
		return fail(fmt.Errorf("profile %q: header token is required", p.Name))
	}
	if strings.TrimSpace(p.Locality) == "" {
		return fail(fmt.Errorf("profile %q: locality pattern is required", p.Name))
	}
	locality, err := regexp.Compile(p.Locality)
	if err != nil {
		return fail(fmt.Errorf("profile %q: locality pattern: %w", p.Name, err))
	}

	fields := make([]notice.Field, 0, len(p.Fields))
	for _, fs := range p.Fields {
		f := notice.Field{
			Name:     fs.Name,
			Token:    fs.Token,
			Kind:     notice.KindLines,
			Join:     notice.JoinSpace,
			MaxLines: fs.MaxLines,
			MaxChars: fs.MaxChars,
		}
		switch fs.Kind {
		case "", "lines":
		case "number":
			f.Kind = notice.KindNumber
		case "remainder":
			f.Kind = notice.KindRemainder
		default:
			return fail(fmt.Errorf("profile %q: field %q: unknown kind %q", p.Name, fs.Name, fs.Kind))
		}
		switch fs.Join {
		case "", "space":
		case "comma":
			f.Join = notice.JoinComma
		default:
			return fail(fmt.Errorf("profile %q: field %q: unknown join %q", p.Name, fs.Name, fs.Join))
		}
		fields = append(fields, f)
	}
	for i := range fields {
		for j := i + 1; j < len(fields); j++ {
			fields[i].Stop = append(fields[i].Stop, fields[j].Token)
		}
		if p.Footer != "" {
			fields[i].Stop = append(fields[i].Stop, p.Footer)
		}
	}

	table, err := notice.NewTable(fields)
	if err != nil {
		return fail(fmt.Errorf("profile %q: %w", p.Name, err))
	}
	seg := notice.Segmenter{
		Header:          p.Header,
		Locality:        locality,
		Footer:          p.Footer,
		CanonicalFooter: p.CanonicalFooter,
	}
	return seg, table, nil
}

// Assembler builds the complete extraction pipeline for p.
func (p Profile) Assembler() (notice.Assembler, error) {
	seg, table, err := p.Build()
	if err != nil {
		return notice.Assembler{}, err
	}
	return notice.Assembler{Segmenter: seg, Table: table}, nil
}
