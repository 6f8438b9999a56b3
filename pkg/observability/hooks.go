// Package observability provides hooks for metrics and tracing.
//
// Libraries in this module report events through small hook interfaces and
// never import a metrics backend themselves. The binary registers concrete
// implementations at startup; until then every hook is a no-op.
//
// # Usage
//
// Register hooks once, before serving or generating:
//
//	func main() {
//	    m := metrics.New()
//	    observability.SetGenerationHooks(m)
//	    observability.SetCacheHooks(m)
//	    observability.SetHTTPHooks(m)
//	    // ... run application
//	}
//
// Libraries emit events through the accessors:
//
//	observability.Generation().OnGenerateStart(ctx, key, mode)
//	// ... generate and render ...
//	observability.Generation().OnGenerateComplete(ctx, key, mode, cached, elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Generation Hooks
// =============================================================================

// GenerationHooks receives events from marker generation.
type GenerationHooks interface {
	OnGenerateStart(ctx context.Context, key int, mode string)
	// OnGenerateComplete fires once per request, cached or not.
	OnGenerateComplete(ctx context.Context, key int, mode string, cached bool, duration time.Duration, err error)
	// OnFontFallback fires when a requested label font could not be used.
	OnFontFallback(ctx context.Context, requested string, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from artifact cache operations. backend is the
// cache implementation name ("memory", "file", "redis", "mongo").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, backend string)
	OnCacheMiss(ctx context.Context, backend string)
	OnCacheSet(ctx context.Context, backend string, size int)
	// OnCacheError records a failed backend call. Cache errors never fail a
	// generation; they only degrade to a miss.
	OnCacheError(ctx context.Context, backend, op string, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest fires before routing, so path is the raw request path.
	// Implementations must not use it as a metric label.
	OnRequest(ctx context.Context, method, path string)
	// OnResponse fires after the handler. route is the matched pattern,
	// not the raw path, to keep cardinality bounded.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGenerationHooks is a no-op implementation of GenerationHooks.
type NoopGenerationHooks struct{}

func (NoopGenerationHooks) OnGenerateStart(context.Context, int, string) {}
func (NoopGenerationHooks) OnGenerateComplete(context.Context, int, string, bool, time.Duration, error) {
}
func (NoopGenerationHooks) OnFontFallback(context.Context, string, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)                   {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)                  {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int)              {}
func (NoopCacheHooks) OnCacheError(context.Context, string, string, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	generationHooks GenerationHooks = NoopGenerationHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	httpHooks       HTTPHooks       = NoopHTTPHooks{}
	hooksMu         sync.RWMutex
)

// SetGenerationHooks registers custom generation hooks. Nil is ignored.
func SetGenerationHooks(h GenerationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		generationHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Generation returns the registered generation hooks.
func Generation() GenerationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return generationHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults. Used by tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	generationHooks = NoopGenerationHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
