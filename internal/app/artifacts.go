package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nkaufmann/bauwatch/internal/notice"
)

const recordsFileName = "baugesuche.json"

// rawTextFileName names the page-text dump after the page selection,
// e.g. page_12_13_raw.txt, or page_all_raw.txt when every page was
// extracted.
func rawTextFileName(pages []int) string {
	if len(pages) == 0 {
		return "page_all_raw.txt"
	}
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	return "page_" + strings.Join(parts, "_") + "_raw.txt"
}

// encodeRecords renders the records as a two-space indented JSON array
// with non-ASCII characters kept literal.
func encodeRecords(records []notice.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if records == nil {
		records = []notice.Record{}
	}
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRecords(outDir string, records []notice.Record) (string, []byte, error) {
	data, err := encodeRecords(records)
	if err != nil {
		return "", nil, fmt.Errorf("encode records: %w", err)
	}
	path := filepath.Join(outDir, recordsFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", nil, fmt.Errorf("write records: %w", err)
	}
	return path, data, nil
}

func writeRawText(outDir string, pages []int, text string) (string, error) {
	path := filepath.Join(outDir, rawTextFileName(pages))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write raw text: %w", err)
	}
	return path, nil
}
