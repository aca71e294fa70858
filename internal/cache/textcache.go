package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// TextCache stores page text derived from a PDF, keyed by the PDF
// content digest plus the extracted page selection. A re-run over an
// unchanged edition skips PDF parsing entirely.
type TextCache struct {
	Dir string
}

func (c *TextCache) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	return os.MkdirAll(c.Dir, 0o755)
}

func (c *TextCache) path(pdfSHA256 string, pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	h := sha256.Sum256([]byte(pdfSHA256 + "|" + strings.Join(parts, ",")))
	return filepath.Join(c.Dir, hex.EncodeToString(h[:])+".txt")
}

// Load returns the cached page text for the given PDF digest and page
// selection, or an error when absent.
func (c *TextCache) Load(pdfSHA256 string, pages []int) (string, error) {
	if err := c.ensureDir(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(c.path(pdfSHA256, pages))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Save stores the extracted page text.
func (c *TextCache) Save(pdfSHA256 string, pages []int, text string) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	return os.WriteFile(c.path(pdfSHA256, pages), []byte(text), 0o644)
}
