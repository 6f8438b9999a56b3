package io

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/fiducial/pkg/pipeline"
)

func TestFilename(t *testing.T) {
	ts := time.Date(2026, 1, 19, 14, 32, 5, 0, time.UTC)
	tests := []struct {
		key    int
		symbol string
		ts     time.Time
		ext    string
		want   string
	}{
		{26, "Fe", time.Time{}, "png", "026_Fe.png"},
		{1, "H", ts, "png", "001_H_20260119_143205.png"},
		{118, "Og", time.Time{}, ".svg", "118_Og.svg"},
		{150, "", time.Time{}, "", "150.png"},
		{7, "N/../x", time.Time{}, "png", "007_Nx.png"},
	}
	for _, tt := range tests {
		if got := Filename(tt.key, tt.symbol, tt.ts, tt.ext); got != tt.want {
			t.Errorf("Filename(%d, %q) = %q, want %q", tt.key, tt.symbol, got, tt.want)
		}
	}
}

func generate(t *testing.T, keys ...int) []*pipeline.Result {
	t.Helper()
	r := pipeline.NewRunner(nil, nil, nil)
	res, err := r.Batch(context.Background(), keys, pipeline.Options{ShowNumber: true}, 2)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestWriteMarkersAndVerify(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	results := generate(t, 1, 2, 26)

	m, err := WriteMarkers(dir, results, ExportOptions{Mode: "simple", Shape: "squares", Format: "png"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(m.RunID); err != nil {
		t.Errorf("run id %q: %v", m.RunID, err)
	}
	if len(m.Entries) != 3 || m.Entries[2].File != "026_Fe.png" {
		t.Fatalf("entries = %+v", m.Entries)
	}
	for _, e := range m.Entries {
		if _, err := os.Stat(filepath.Join(dir, e.File)); err != nil {
			t.Error(err)
		}
	}

	read, bad, err := Verify(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(bad) != 0 || read.RunID != m.RunID {
		t.Errorf("verify: %v, run %s", bad, read.RunID)
	}

	if err := os.WriteFile(filepath.Join(dir, "001_H.png"), []byte("tampered"), 0o644); err != nil {
		t.Fatal(err)
	}
	os.Remove(filepath.Join(dir, "002_He.png"))
	_, bad, _ = Verify(dir)
	if len(bad) != 2 {
		t.Fatalf("mismatches = %+v", bad)
	}
	if bad[0].Reason != "checksum changed" || bad[1].Reason != "missing" {
		t.Errorf("mismatches = %+v", bad)
	}
}

func TestVerifyDetectsPatternDrift(t *testing.T) {
	dir := t.TempDir()
	m, err := WriteMarkers(dir, generate(t, 3, 4), ExportOptions{Mode: "simple", Shape: "squares", Format: "png"})
	if err != nil {
		t.Fatal(err)
	}

	// Pretend key 4 was produced by a different generator.
	m.Entries[1].Fingerprint = m.Entries[0].Fingerprint
	if err := SaveManifest(dir, m); err != nil {
		t.Fatal(err)
	}

	_, bad, err := Verify(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(bad) != 1 || bad[0].File != "004_Be.png" || bad[0].Reason != "pattern changed" {
		t.Errorf("mismatches = %+v", bad)
	}
}

type failingCloser struct {
	bytes.Buffer
	closed bool
}

func (f *failingCloser) Close() error {
	f.closed = true
	return errors.New("disk full")
}

func TestWriteAndCloseReportsCloseError(t *testing.T) {
	w := &failingCloser{}
	err := writeAndClose(w, Manifest{RunID: "r"})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("err = %v, want the close error", err)
	}
	if !w.closed {
		t.Error("writer not closed")
	}
	if !strings.Contains(w.String(), `"run_id": "r"`) {
		t.Errorf("manifest not written: %s", w.String())
	}
}

func TestReadManifestRejectsEscapingPaths(t *testing.T) {
	for _, file := range []string{"../secret.png", "/etc/passwd", "sub/../../x.png", ""} {
		in := `{"run_id":"x","entries":[{"key":1,"file":` + strconv.Quote(file) + `}]}`
		if _, err := ReadManifest(strings.NewReader(in)); err == nil {
			t.Errorf("file %q accepted", file)
		}
	}
	in := `{"run_id":"x","entries":[{"key":1,"file":"001_H.png"}]}`
	if _, err := ReadManifest(strings.NewReader(in)); err != nil {
		t.Errorf("plain file rejected: %v", err)
	}
}

func TestVerifyRefusesEscapingManifest(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "out")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(parent, "outside.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := Manifest{Mode: "simple", Entries: []ManifestEntry{{Key: 1, File: "../outside.png"}}}
	if err := SaveManifest(dir, m); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Verify(dir); err == nil {
		t.Error("verify read a file outside its directory")
	}
}

func TestWriteMarkersTimestamp(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m, err := WriteMarkers(dir, generate(t, 8), ExportOptions{Timestamp: true, Now: now})
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Entries[0].File; got != "008_O_20260301_090000.png" {
		t.Errorf("file = %s", got)
	}
	if !m.Generated.Equal(now) {
		t.Errorf("generated = %v", m.Generated)
	}
}

func TestReadManifestRejectsDuplicates(t *testing.T) {
	in := `{"run_id":"x","entries":[{"key":1,"file":"a.png"},{"key":2,"file":"a.png"}]}`
	if _, err := ReadManifest(strings.NewReader(in)); err == nil {
		t.Error("expected duplicate error")
	}
	if _, err := ReadManifest(strings.NewReader(`{"entries":[{"key":1}]}`)); err == nil {
		t.Error("expected missing file error")
	}
	if _, err := ReadManifest(strings.NewReader(`not json`)); err == nil {
		t.Error("expected decode error")
	}
}
