// epaper-stub is a small local publisher used for end-to-end runs
// without touching the real e-paper site. It serves an index page with
// edition anchors, a generated gazette PDF and a permissive robots.txt.
package main

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const gazetteBody = `Amtliche Publikationen

Baugesuchspublikation

BaugesuchNr: 202605
Bauherrschaft: Muster AG
Buechzelglistrasse 2
5436 Wurenlos
Bauvorhaben: Neubau Einfamilienhaus
mit Garage
Lage: Parzelle 1234
Zone: Wohnzone W2
Zusatzgesuch: Keines
Gesuchsauflage vom 15. Mai bis 14. Juni 2026
BAUVERWALTUNG WURENLOS`

const indexPage = `<!DOCTYPE html>
<html><head><title>E-Paper</title></head><body>
<h1>Ausgaben</h1>
<ul>
<li><a href="/editions/2026-05-15.pdf">Ausgabe 15. Mai 2026</a></li>
<li><a href="/editions/2026-05-22.pdf">Ausgabe 22. Mai 2026</a></li>
</ul>
</body></html>`

func buildGazette() ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()
	pdf.MultiCell(0, 5, "Limmatwelle Titelseite", "", "L", false)
	pdf.AddPage()
	pdf.MultiCell(0, 5, gazetteBody, "", "L", false)
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func main() {
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8082"
	}

	gazette, err := buildGazette()
	if err != nil {
		log.Fatalf("build gazette: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "User-agent: *\nDisallow:\n")
	})
	mux.HandleFunc("/e-paper", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, indexPage)
	})
	mux.HandleFunc("/editions/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ".pdf") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(gazette)
	})

	log.Printf("epaper-stub listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
