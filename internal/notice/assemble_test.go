package notice

import (
	"strings"
	"testing"
)

func testAssembler(t *testing.T) Assembler {
	t.Helper()
	return Assembler{Segmenter: testSegmenter(), Table: testTable(t)}
}

func TestAssemble_SingleAnnouncement(t *testing.T) {
	page := "Baugesuchspublikation\n" +
		"BaugesuchNr.: 123\n" +
		"Bauherrschaft: A. Muster\n" +
		"Bauvorhaben: Neubau\n" +
		"Lage: Musterstrasse 1, Würenlos\n" +
		"Zone: W2\n" +
		"Gesuchsauflage bis 30 Tage\n" +
		"BAUVERWALTUNGWÜRENLOS"

	records := testAssembler(t).Assemble(page)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	want := map[string]string{
		"Baugesuch_Nr":  "123",
		"Bauherrschaft": "A. Muster",
		"Bauvorhaben":   "Neubau",
		"Lage":          "Musterstrasse 1, Würenlos",
		"Zone":          "W2",
		"others":        "Gesuchsauflage bis 30 Tage",
	}
	for name, w := range want {
		got, ok := rec.Get(name)
		if !ok || got != w {
			t.Fatalf("field %s: got %q (present=%t), want %q", name, got, ok, w)
		}
	}
}

func TestAssemble_ForeignMunicipalityYieldsNothing(t *testing.T) {
	page := "Baugesuchspublikation\n" +
		"BaugesuchNr.: 123\n" +
		"Bauherrschaft: A. Muster\n" +
		"Lage: Musterstrasse 1, Spreitenbach\n" +
		"Zone: W2\n"

	if records := testAssembler(t).Assemble(page); len(records) != 0 {
		t.Fatalf("expected 0 records for a foreign municipality, got %d", len(records))
	}
}

func TestAssemble_MojibakeRepairedBeforeMatching(t *testing.T) {
	// The broken locality spelling must still match and come out clean.
	page := "Baugesuchspublikation\n" +
		"BaugesuchNr.: 9\n" +
		"Lage: Bachstrasse 2, WÃ¼renlos\n" +
		"BAUVERWALTUNGWÃœRENLOS"

	records := testAssembler(t).Assemble(page)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	lage, _ := records[0].Get("Lage")
	if !strings.Contains(lage, "Würenlos") {
		t.Fatalf("expected repaired umlaut in Lage, got %q", lage)
	}
	if strings.Contains(lage, "Ã") {
		t.Fatalf("mojibake survived normalization: %q", lage)
	}
}

func TestAssemble_DropsEmptyRecords(t *testing.T) {
	// The section matches the locality filter but holds no field tokens.
	page := "Baugesuchspublikation\nallgemeine Mitteilung der Gemeinde Würenlos\n"
	if records := testAssembler(t).Assemble(page); len(records) != 0 {
		t.Fatalf("expected the null record to be dropped, got %d", len(records))
	}
}

func TestAssemble_MultipleSectionsInOrder(t *testing.T) {
	page := "Baugesuchspublikation\nBaugesuchNr.: 1\nLage: Würenlos\n" +
		"Baugesuchspublikation\nBaugesuchNr.: 2\nLage: Würenlos\n" +
		"Baugesuchspublikation\nBaugesuchNr.: 3\nLage: Würenlos\n"
	records := testAssembler(t).Assemble(page)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, want := range []string{"1", "2", "3"} {
		if got, _ := records[i].Get("Baugesuch_Nr"); got != want {
			t.Fatalf("record %d: got Nr %q, want %q", i, got, want)
		}
	}
}
