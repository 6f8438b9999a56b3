package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/fiducial/pkg/cache"
	"github.com/matzehuels/fiducial/pkg/marker"
)

// ReadManifest decodes a manifest and checks its required fields.
func ReadManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	seen := make(map[string]bool, len(m.Entries))
	for i, e := range m.Entries {
		if e.File == "" {
			return Manifest{}, fmt.Errorf("entry %d: missing file", i)
		}
		if !filepath.IsLocal(e.File) {
			return Manifest{}, fmt.Errorf("entry %d: file %q is not inside the manifest directory", i, e.File)
		}
		if seen[e.File] {
			return Manifest{}, fmt.Errorf("entry %d: duplicate file %s", i, e.File)
		}
		seen[e.File] = true
	}
	return m, nil
}

// ImportManifest reads dir/manifest.json.
func ImportManifest(dir string) (Manifest, error) {
	f, err := os.Open(filepath.Join(dir, ManifestName))
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()
	return ReadManifest(f)
}

// Mismatch is one file that failed verification.
type Mismatch struct {
	File   string
	Reason string
}

// Verify re-hashes every file listed in the manifest in dir and regenerates
// each grid. It returns the files that are missing, whose bytes changed, or
// whose recorded fingerprint no longer matches what the generator produces.
func Verify(dir string) (Manifest, []Mismatch, error) {
	m, err := ImportManifest(dir)
	if err != nil {
		return Manifest{}, nil, err
	}
	mode, err := marker.ParseMode(m.Mode)
	if err != nil {
		return m, nil, fmt.Errorf("manifest: %w", err)
	}
	shape, err := marker.ParseShape(m.Shape)
	if err != nil {
		return m, nil, fmt.Errorf("manifest: %w", err)
	}

	var bad []Mismatch
	for _, e := range m.Entries {
		data, err := os.ReadFile(filepath.Join(dir, e.File))
		if err != nil {
			bad = append(bad, Mismatch{File: e.File, Reason: "missing"})
			continue
		}
		if sum := cache.Hash(data); sum != e.SHA256 {
			bad = append(bad, Mismatch{File: e.File, Reason: "checksum changed"})
			continue
		}
		if e.Fingerprint == "" {
			continue
		}
		// MaxKey is the entry's own key: the manifest does not record the
		// range the batch was run with.
		g, err := marker.Generate(e.Key, marker.Options{Mode: mode, Shape: shape, MaxKey: e.Key})
		if err != nil {
			bad = append(bad, Mismatch{File: e.File, Reason: err.Error()})
			continue
		}
		if g.Fingerprint() != e.Fingerprint {
			bad = append(bad, Mismatch{File: e.File, Reason: "pattern changed"})
		}
	}
	return m, bad, nil
}
