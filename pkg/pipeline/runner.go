package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fiducial/pkg/cache"
	"github.com/matzehuels/fiducial/pkg/elements"
	"github.com/matzehuels/fiducial/pkg/fonts"
	"github.com/matzehuels/fiducial/pkg/marker"
	"github.com/matzehuels/fiducial/pkg/observability"
	"github.com/matzehuels/fiducial/pkg/render"
)

// Runner executes generation with caching. The CLI and the server share it.
//
// A Runner keeps no per-request state. Resolved font sources are memoised
// by name, and those are read-only once built, so one Runner may serve many
// goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is the lifetime of stored artifacts. Zero uses cache.TTLArtifact.
	TTL time.Duration

	mu        sync.Mutex
	renderers map[string]*fontRenderer
}

// fontRenderer pairs a renderer with the warnings produced while resolving
// its font.
type fontRenderer struct {
	*render.Renderer
	warnings []string
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer uses
// cache.KeyerFor(c) and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.KeyerFor(c)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Generate produces one marker.
//
// Invalid options fail before any work. Cache failures are logged and
// treated as misses; they never fail the request.
func (r *Runner) Generate(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	hooks := observability.Generation()
	hooks.OnGenerateStart(ctx, opts.Key, opts.Mode)

	res, err := r.generate(ctx, &opts)
	elapsed := time.Since(start)
	cached := res != nil && res.Cached
	hooks.OnGenerateComplete(ctx, opts.Key, opts.Mode, cached, elapsed, err)
	if err != nil {
		return nil, err
	}
	res.Duration = elapsed

	r.Logger.Debug("generated marker",
		"key", res.Key,
		"hash", res.Hash,
		"mode", opts.Mode,
		"format", res.Format,
		"cached", res.Cached,
		"duration", elapsed)
	return res, nil
}

func (r *Runner) generate(ctx context.Context, opts *Options) (*Result, error) {
	grid, err := marker.Generate(opts.Key, opts.MarkerOptions())
	if err != nil {
		return nil, err
	}
	fr := r.renderer(ctx, opts.Font)

	res := &Result{
		Key:         opts.Key,
		Symbol:      elements.Symbol(opts.Key),
		Hash:        grid.Hash,
		Fingerprint: grid.Fingerprint(),
		Format:      opts.Format,
		Grid:        grid,
		Warnings:    fr.warnings,
	}

	key := r.Keyer.ArtifactKey(opts.Key, opts.ArtifactKeyOpts())
	if !opts.Refresh {
		if data, ok := r.cacheGet(ctx, key); ok {
			res.Data = data
			res.Cached = true
			res.Width, res.Height = r.dimensions(opts)
			return res, nil
		}
	}

	switch opts.Format {
	case FormatSVG:
		data, err := fr.SVG(grid, opts.RenderOptions())
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		res.Data = data
		res.Width, res.Height = r.dimensions(opts)
	default:
		out, err := fr.Render(grid, opts.RenderOptions())
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		for _, l := range out.Labels {
			if l.Overflow {
				opts.Logger.Warn("label clipped", "key", opts.Key, "label", l.Text, "points", l.Points)
			}
		}
		img := out.Image
		if opts.Binary {
			img = render.Binarize(img, render.DefaultThreshold)
		}
		if opts.Size > 0 {
			if img, err = render.Scale(img, opts.Size); err != nil {
				return nil, err
			}
		}
		var buf bytes.Buffer
		if err := render.EncodePNG(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		res.Image = img
		res.Data = buf.Bytes()
		res.Width, res.Height = img.Bounds().Dx(), img.Bounds().Dy()
	}

	r.cacheSet(ctx, key, res.Data)
	return res, nil
}

// dimensions returns the pixel size implied by opts without rendering.
func (r *Runner) dimensions(opts *Options) (int, int) {
	if opts.Format == FormatPNG && opts.Size > 0 {
		return opts.Size, opts.Size
	}
	n := opts.Render.CanvasSize()
	return n, n
}

func (r *Runner) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	backend := cache.BackendName(r.Cache)
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		observability.Cache().OnCacheError(ctx, backend, "get", err)
		r.Logger.Warn("cache read failed", "backend", backend, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, backend)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, backend)
	return data, true
}

func (r *Runner) cacheSet(ctx context.Context, key string, data []byte) {
	backend := cache.BackendName(r.Cache)
	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.TTLArtifact
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		observability.Cache().OnCacheError(ctx, backend, "set", err)
		r.Logger.Warn("cache write failed", "backend", backend, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, backend, len(data))
}

// renderer returns the memoised renderer for a font request, resolving it
// on first use.
func (r *Runner) renderer(ctx context.Context, font string) *fontRenderer {
	font = strings.TrimSpace(font)
	r.mu.Lock()
	defer r.mu.Unlock()
	if fr, ok := r.renderers[font]; ok {
		return fr
	}

	src, errs := fonts.Resolve(fonts.DefaultChain(font)...)
	fr := &fontRenderer{Renderer: render.New(src)}
	for _, err := range errs {
		observability.Generation().OnFontFallback(ctx, font, err)
		r.Logger.Warn("font unavailable, falling back", "requested", font, "using", src.Name(), "err", err)
		fr.warnings = append(fr.warnings, err.Error())
	}
	if r.renderers == nil {
		r.renderers = make(map[string]*fontRenderer)
	}
	r.renderers[font] = fr
	return fr
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
