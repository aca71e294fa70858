// Package cache persists fetched publisher responses and derived page
// text on disk. Entries are content-addressed and never evicted on
// their own; the run controls clearing and age-based purging.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// HTTPEntry is the revalidation metadata of one cached response. ETag
// and LastModified feed conditional requests; SavedAt drives age
// purging.
type HTTPEntry struct {
	URL          string    `json:"url"`
	ContentType  string    `json:"content_type"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"last_modified"`
	SavedAt      time.Time `json:"saved_at"`
}

// HTTPCache keeps one <key>.meta.json and <key>.body pair per URL under
// Dir, key being the hex sha256 of the URL. The same store backs the
// index page, the edition PDF and robots.txt, so a rerun against an
// unchanged publisher touches the network only for 304 checks.
type HTTPCache struct {
	Dir string
}

func (c *HTTPCache) key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// paths returns the meta and body file locations for url, creating Dir
// on first use.
func (c *HTTPCache) paths(url string) (metaPath string, bodyPath string, err error) {
	if c == nil || c.Dir == "" {
		return "", "", errors.New("cache dir not configured")
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return "", "", err
	}
	key := c.key(url)
	return filepath.Join(c.Dir, key+".meta.json"), filepath.Join(c.Dir, key+".body"), nil
}

// LoadMeta returns the stored revalidation metadata for url, or an
// error on a miss.
func (c *HTTPCache) LoadMeta(_ context.Context, url string) (*HTTPEntry, error) {
	metaPath, _, err := c.paths(url)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}
	var e HTTPEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode cache meta: %w", err)
	}
	return &e, nil
}

// LoadBody returns the stored response body for url, or an error on a
// miss.
func (c *HTTPCache) LoadBody(_ context.Context, url string) ([]byte, error) {
	_, bodyPath, err := c.paths(url)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(bodyPath)
}

// Save stores the response body and its metadata. The body lands before
// the meta, and the meta goes through a rename, so an interrupted Save
// never leaves metadata pointing at missing or partial content.
func (c *HTTPCache) Save(_ context.Context, url string, contentType string, etag string, lastModified string, body []byte) error {
	metaPath, bodyPath, err := c.paths(url)
	if err != nil {
		return err
	}
	if err := os.WriteFile(bodyPath, body, 0o644); err != nil {
		return fmt.Errorf("write cache body: %w", err)
	}
	meta, err := json.Marshal(HTTPEntry{
		URL:          url,
		ContentType:  contentType,
		ETag:         etag,
		LastModified: lastModified,
		SavedAt:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode cache meta: %w", err)
	}
	tmp := metaPath + ".tmp"
	if err := os.WriteFile(tmp, meta, 0o644); err != nil {
		return fmt.Errorf("write cache meta: %w", err)
	}
	return os.Rename(tmp, metaPath)
}
