package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// runManifest is the sidecar written next to the records file. It ties
// the output to the exact input bytes and the run settings so a record
// set can always be traced back to its edition.
type runManifest struct {
	Tool        string    `json:"tool"`
	Version     string    `json:"version"`
	Source      string    `json:"source"`
	PDFSHA256   string    `json:"pdf_sha256,omitempty"`
	TextSHA256  string    `json:"text_sha256"`
	Pages       []int     `json:"pages,omitempty"`
	Profile     string    `json:"profile"`
	RecordCount int       `json:"record_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

func computeSHA256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func manifestSidecarPath(recordsPath string) string {
	return recordsPath + ".manifest.json"
}

func writeManifest(recordsPath string, m runManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(manifestSidecarPath(recordsPath), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
