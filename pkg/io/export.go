package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/fiducial/pkg/cache"
	"github.com/matzehuels/fiducial/pkg/pipeline"
)

// ManifestName is the manifest file written next to the markers.
const ManifestName = "manifest.json"

// timestampLayout formats the optional filename suffix.
const timestampLayout = "20060102_150405"

// Filename returns "<key>_<symbol>[_<timestamp>].<ext>" with the key padded
// to three digits. A zero ts omits the timestamp; an empty symbol is
// dropped.
func Filename(key int, symbol string, ts time.Time, ext string) string {
	parts := []string{fmt.Sprintf("%03d", key)}
	if s := sanitize(symbol); s != "" {
		parts = append(parts, s)
	}
	if !ts.IsZero() {
		parts = append(parts, ts.Format(timestampLayout))
	}
	if ext == "" {
		ext = pipeline.FormatPNG
	}
	return strings.Join(parts, "_") + "." + strings.TrimPrefix(ext, ".")
}

// sanitize keeps letters and digits only.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// Manifest records one export run.
type Manifest struct {
	RunID     string          `json:"run_id"`
	Generated time.Time       `json:"generated"`
	Mode      string          `json:"mode"`
	Shape     string          `json:"shape"`
	Format    string          `json:"format"`
	Entries   []ManifestEntry `json:"entries"`
}

// ManifestEntry describes one written marker.
type ManifestEntry struct {
	Key         int    `json:"key"`
	Symbol      string `json:"symbol,omitempty"`
	File        string `json:"file"`
	Hash        string `json:"hash"`
	Fingerprint string `json:"fingerprint"`
	SHA256      string `json:"sha256"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// ExportOptions configures WriteMarkers.
type ExportOptions struct {
	Mode   string
	Shape  string
	Format string
	// Timestamp appends the run time to every filename.
	Timestamp bool
	// Now overrides the clock; zero uses time.Now.
	Now time.Time
}

// WriteMarkers writes every result into dir, which is created if needed,
// followed by the manifest.
func WriteMarkers(dir string, results []*pipeline.Result, opts ExportOptions) (Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("create %s: %w", dir, err)
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	var ts time.Time
	if opts.Timestamp {
		ts = now
	}

	m := Manifest{
		RunID:     uuid.NewString(),
		Generated: now.UTC().Truncate(time.Second),
		Mode:      opts.Mode,
		Shape:     opts.Shape,
		Format:    opts.Format,
		Entries:   make([]ManifestEntry, 0, len(results)),
	}
	for _, res := range results {
		name := Filename(res.Key, res.Symbol, ts, res.Format)
		if err := os.WriteFile(filepath.Join(dir, name), res.Data, 0o644); err != nil {
			return Manifest{}, fmt.Errorf("write %s: %w", name, err)
		}
		m.Entries = append(m.Entries, ManifestEntry{
			Key:         res.Key,
			Symbol:      res.Symbol,
			File:        name,
			Hash:        res.Hash.String(),
			Fingerprint: res.Fingerprint,
			SHA256:      cache.Hash(res.Data),
			Width:       res.Width,
			Height:      res.Height,
		})
	}

	if err := SaveManifest(dir, m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// SaveManifest writes m to dir/manifest.json.
func SaveManifest(dir string, m Manifest) error {
	f, err := os.Create(filepath.Join(dir, ManifestName))
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	return writeAndClose(f, m)
}

// writeAndClose encodes m to w and closes it. A failed close is reported:
// for files it is where a failed flush surfaces.
func writeAndClose(w io.WriteCloser, m Manifest) error {
	if err := WriteManifest(m, w); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close manifest: %w", err)
	}
	return nil
}

// WriteManifest encodes m as indented JSON.
func WriteManifest(m Manifest, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return nil
}
