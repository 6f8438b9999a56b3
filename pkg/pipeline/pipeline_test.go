package pipeline

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fiducial/pkg/cache"
	"github.com/matzehuels/fiducial/pkg/errors"
	"github.com/matzehuels/fiducial/pkg/observability"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newTestRunner(t *testing.T) (*Runner, *cache.MemoryCache) {
	t.Helper()
	c, err := cache.NewMemoryCache(64)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, quietLogger())
	t.Cleanup(func() { r.Close() })
	return r, c
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"svg", false},
		{"pdf", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	o := Options{Key: 26}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Mode != "simple" || o.Shape != "squares" || o.Format != "png" {
		t.Errorf("defaults = %s/%s/%s", o.Mode, o.Shape, o.Format)
	}
	if o.Logger == nil {
		t.Error("logger not defaulted")
	}

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"key zero", Options{Key: 0}, errors.ErrCodeInvalidKey},
		{"key too large", Options{Key: 119}, errors.ErrCodeInvalidKey},
		{"bad mode", Options{Key: 1, Mode: "huge"}, errors.ErrCodeInvalidMode},
		{"bad shape", Options{Key: 1, Shape: "stars"}, errors.ErrCodeInvalidShape},
		{"bad format", Options{Key: 1, Format: "gif"}, errors.ErrCodeInvalidOption},
		{"bad size", Options{Key: 1, Size: MaxSize + 1}, errors.ErrCodeInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCodeLabel(t *testing.T) {
	tests := []struct {
		opts Options
		want string
	}{
		{Options{Key: 26}, "Fe"},
		{Options{Key: 26, CodeText: "IRON"}, "IRON"},
		{Options{Key: 150, MaxKey: 200}, "150"},
	}
	for _, tt := range tests {
		if got := tt.opts.CodeLabel(); got != tt.want {
			t.Errorf("CodeLabel(%d) = %q, want %q", tt.opts.Key, got, tt.want)
		}
	}
}

func TestGeneratePNG(t *testing.T) {
	r, _ := newTestRunner(t)
	res, err := r.Generate(context.Background(), Options{Key: 79, ShowCode: true, ShowNumber: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Symbol != "Au" || res.Cached || res.Grid == nil || res.Image == nil {
		t.Errorf("result = %+v", res)
	}
	if res.Width != 480 || res.Height != 480 {
		t.Errorf("size = %dx%d", res.Width, res.Height)
	}
	img, err := png.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 480 {
		t.Errorf("decoded width %d", img.Bounds().Dx())
	}
}

func TestGenerateCaches(t *testing.T) {
	r, c := newTestRunner(t)
	ctx := context.Background()
	opts := Options{Key: 10, Mode: "dense", ShowNumber: true}

	first, err := r.Generate(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 {
		t.Fatalf("cache has %d entries", c.Len())
	}

	second, err := r.Generate(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached || second.Image != nil {
		t.Error("second call should hit the cache")
	}
	if !bytes.Equal(first.Data, second.Data) || first.Fingerprint != second.Fingerprint {
		t.Error("cached result differs")
	}
	if second.Width != first.Width {
		t.Errorf("cached width %d, rendered %d", second.Width, first.Width)
	}

	opts.Refresh = true
	third, _ := r.Generate(ctx, opts)
	if third.Cached {
		t.Error("refresh should bypass the cache")
	}
}

// sharedCache stands in for a Redis or Mongo backend shared with other
// services: it only owns keys under its prefix.
type sharedCache struct {
	cache.NullCache
	prefix string
	keys   []string
}

func (c *sharedCache) Prefix() string { return c.prefix }

func (c *sharedCache) Set(_ context.Context, key string, _ []byte, _ time.Duration) error {
	c.keys = append(c.keys, key)
	return nil
}

func TestGenerateScopesKeysToSharedBackend(t *testing.T) {
	c := &sharedCache{prefix: "team-a:"}
	r := NewRunner(c, nil, quietLogger())
	if _, err := r.Generate(context.Background(), Options{Key: 3}); err != nil {
		t.Fatal(err)
	}
	if len(c.keys) != 1 || !strings.HasPrefix(c.keys[0], "team-a:artifact:v") {
		t.Errorf("keys written = %q, want one under team-a:", c.keys)
	}
}

func TestGenerateDeterministicAcrossRunners(t *testing.T) {
	opts := Options{Key: 42, Mode: "dense", Shape: "mixed", ShowCode: true, ShowNumber: true, Binary: true, Size: 300}
	a, err := NewRunner(nil, nil, quietLogger()).Generate(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := NewRunner(nil, nil, quietLogger()).Generate(context.Background(), opts)
	if !bytes.Equal(a.Data, b.Data) {
		t.Error("identical options produced different PNGs")
	}
	if a.Width != 300 {
		t.Errorf("width = %d, want 300", a.Width)
	}
	for _, v := range a.Image.Pix {
		if v != 0 && v != 0xff {
			t.Fatalf("binary output has gray level %d", v)
		}
	}
}

func TestGenerateSVG(t *testing.T) {
	r, _ := newTestRunner(t)
	res, err := r.Generate(context.Background(), Options{Key: 2, Format: "svg", ShowCode: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(res.Data), "<svg") || !strings.Contains(string(res.Data), ">He</text>") {
		t.Error("svg output missing symbol label")
	}
	if res.Image != nil {
		t.Error("svg result should carry no raster")
	}
}

func TestGenerateFontFallback(t *testing.T) {
	r, _ := newTestRunner(t)
	res, err := r.Generate(context.Background(), Options{Key: 3, ShowNumber: true, Font: "NoSuchFontAnywhere"})
	if err != nil {
		t.Fatalf("missing font must not fail generation: %v", err)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a font warning")
	}
}

func TestGenerateInvalidKeyEmitsNoRender(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)
	h := &countingHooks{}
	observability.SetGenerationHooks(h)

	r, c := newTestRunner(t)
	if _, err := r.Generate(context.Background(), Options{Key: -1}); !errors.Is(err, errors.ErrCodeInvalidKey) {
		t.Fatalf("error = %v", err)
	}
	if c.Len() != 0 || h.started.Load() != 0 {
		t.Error("invalid key reached generation")
	}
}

func TestBatch(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)
	h := &countingHooks{}
	observability.SetGenerationHooks(h)

	r, _ := newTestRunner(t)
	keys := []int{5, 1, 118, 26}
	var done atomic.Int32
	results, err := r.BatchFunc(context.Background(), keys, Options{Mode: "dense"}, 3, func(*Result) { done.Add(1) })
	if err != nil {
		t.Fatal(err)
	}
	for i, res := range results {
		if res.Key != keys[i] {
			t.Errorf("result %d has key %d, want %d", i, res.Key, keys[i])
		}
	}
	if done.Load() != 4 || h.completed.Load() != 4 {
		t.Errorf("callbacks %d, hooks %d", done.Load(), h.completed.Load())
	}
}

func TestBatchStopsOnError(t *testing.T) {
	r, _ := newTestRunner(t)
	_, err := r.Batch(context.Background(), []int{1, 2, 500}, Options{}, 2)
	if !errors.Is(err, errors.ErrCodeInvalidKey) {
		t.Errorf("error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Batch(ctx, []int{1, 2}, Options{}, 1); err == nil {
		t.Error("cancelled batch should fail")
	}
}

func TestParseKeys(t *testing.T) {
	tests := []struct {
		spec string
		want []int
	}{
		{"1-3", []int{1, 2, 3}},
		{"26, Fe, 2", []int{26, 2}},
		{"noble-gas", []int{2, 10, 18, 36, 54, 86, 118}},
		{"3-1x,", nil},
	}
	for _, tt := range tests {
		got, err := ParseKeys(tt.spec, 0)
		if tt.want == nil {
			if err == nil {
				t.Errorf("ParseKeys(%q) = %v, want error", tt.spec, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKeys(%q): %v", tt.spec, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseKeys(%q) = %v, want %v", tt.spec, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseKeys(%q) = %v, want %v", tt.spec, got, tt.want)
				break
			}
		}
	}

	all, err := ParseKeys("all", 0)
	if err != nil || len(all) != 118 {
		t.Errorf("all = %d keys, %v", len(all), err)
	}
	if _, err := ParseKeys("5-2", 0); !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("reversed range error = %v", err)
	}
	if _, err := ParseKeys("100-130", 0); !errors.Is(err, errors.ErrCodeInvalidKey) {
		t.Errorf("out of range error = %v", err)
	}
	if _, err := ParseKeys(" , ", 0); err == nil {
		t.Error("empty spec should fail")
	}
}

type countingHooks struct {
	observability.NoopGenerationHooks
	started   atomic.Int32
	completed atomic.Int32
}

func (h *countingHooks) OnGenerateStart(context.Context, int, string) { h.started.Add(1) }

func (h *countingHooks) OnGenerateComplete(context.Context, int, string, bool, time.Duration, error) {
	h.completed.Add(1)
}
