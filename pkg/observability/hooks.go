// Package observability lets a host watch the layout pipeline, the caches
// and the HTTP server without those packages importing a metrics backend.
//
// Three hook interfaces cover the three event sources. Each has a no-op
// implementation that is installed until a host calls Register:
//
//	stats := observability.NewCounters()
//	observability.Register(observability.Hooks{Pipeline: stats, Cache: stats})
//
// Emitters fetch the current set once per operation:
//
//	hooks := observability.Pipeline()
//	hooks.OnLayoutStart(ctx, len(elems))
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Event interfaces
// =============================================================================

// LayoutStats summarises a finished layout pass.
type LayoutStats struct {
	Placements int
	Callouts   int
	Overlaps   int
	Cached     bool
}

// PipelineHooks receives layout and render events.
type PipelineHooks interface {
	OnLayoutStart(ctx context.Context, elements int)
	OnLayoutComplete(ctx context.Context, stats LayoutStats, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)

	// OnOverlapWarning fires for a pass whose overlap set is not dismissed.
	OnOverlapWarning(ctx context.Context, fingerprint string, ids []string)
}

// Cache key types passed to CacheHooks.
const (
	KeyScene    = "scene"
	KeyArtifact = "artifact"
	KeySession  = "session"
)

// CacheHooks receives cache lookups and writes, tagged with a key type.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives server traffic. route is the matched chi pattern.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                                  {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, LayoutStats, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)    {}
func (NoopPipelineHooks) OnOverlapWarning(context.Context, string, []string)                  {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

// Hooks is one complete set of receivers. Nil fields leave the installed
// receiver for that source unchanged.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

func noop() *Hooks {
	return &Hooks{Pipeline: NoopPipelineHooks{}, Cache: NoopCacheHooks{}, HTTP: NoopHTTPHooks{}}
}

// current is replaced wholesale so readers never see a half-updated set.
var current atomic.Pointer[Hooks]

func init() { current.Store(noop()) }

// Register merges h into the installed set.
func Register(h Hooks) {
	for {
		old := current.Load()
		next := *old
		if h.Pipeline != nil {
			next.Pipeline = h.Pipeline
		}
		if h.Cache != nil {
			next.Cache = h.Cache
		}
		if h.HTTP != nil {
			next.HTTP = h.HTTP
		}
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks installs pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) { Register(Hooks{Pipeline: h}) }

// SetCacheHooks installs cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) { Register(Hooks{Cache: h}) }

// SetHTTPHooks installs HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) { Register(Hooks{HTTP: h}) }

// Installed returns a copy of the installed set.
func Installed() Hooks { return *current.Load() }

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().Pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().Cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current.Load().HTTP }

// Reset reinstalls the no-op set.
func Reset() { current.Store(noop()) }
