package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Counters is an in-process hook receiver that tallies events. It
// implements all three hook interfaces and is what `drivetrain serve`
// exposes on /v1/stats.
type Counters struct {
	started time.Time

	layouts       atomic.Int64
	layoutErrors  atomic.Int64
	layoutsCached atomic.Int64
	layoutNanos   atomic.Int64
	renders       atomic.Int64
	renderErrors  atomic.Int64
	warnings      atomic.Int64

	requests  atomic.Int64
	errors5xx atomic.Int64

	mu    sync.Mutex
	cache map[string]*CacheCounts
	last  string
}

// CacheCounts tallies one cache key type.
type CacheCounts struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
	Bytes  int64 `json:"bytes"`
}

// HitRate returns hits over lookups, or 0 before the first lookup.
func (c CacheCounts) HitRate() float64 {
	if n := c.Hits + c.Misses; n > 0 {
		return float64(c.Hits) / float64(n)
	}
	return 0
}

// Snapshot is a point-in-time copy of a Counters.
type Snapshot struct {
	Uptime        string                 `json:"uptime"`
	Layouts       int64                  `json:"layouts"`
	LayoutErrors  int64                  `json:"layout_errors"`
	LayoutsCached int64                  `json:"layouts_cached"`
	MeanLayout    string                 `json:"mean_layout"`
	Renders       int64                  `json:"renders"`
	RenderErrors  int64                  `json:"render_errors"`
	Warnings      int64                  `json:"overlap_warnings"`
	LastWarning   string                 `json:"last_warning,omitempty"`
	Requests      int64                  `json:"requests"`
	ServerErrors  int64                  `json:"server_errors"`
	Cache         map[string]CacheCounts `json:"cache"`
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters {
	return &Counters{started: time.Now(), cache: make(map[string]*CacheCounts)}
}

func (c *Counters) OnLayoutStart(context.Context, int) {}

func (c *Counters) OnLayoutComplete(_ context.Context, stats LayoutStats, d time.Duration, err error) {
	c.layouts.Add(1)
	if err != nil {
		c.layoutErrors.Add(1)
		return
	}
	if stats.Cached {
		c.layoutsCached.Add(1)
	}
	c.layoutNanos.Add(int64(d))
}

func (c *Counters) OnRenderStart(context.Context, []string) {}

func (c *Counters) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	c.renders.Add(1)
	if err != nil {
		c.renderErrors.Add(1)
	}
}

func (c *Counters) OnOverlapWarning(_ context.Context, fingerprint string, _ []string) {
	c.warnings.Add(1)
	c.mu.Lock()
	c.last = fingerprint
	c.mu.Unlock()
}

func (c *Counters) OnCacheHit(_ context.Context, keyType string) {
	c.tally(keyType, func(cc *CacheCounts) { cc.Hits++ })
}

func (c *Counters) OnCacheMiss(_ context.Context, keyType string) {
	c.tally(keyType, func(cc *CacheCounts) { cc.Misses++ })
}

func (c *Counters) OnCacheSet(_ context.Context, keyType string, size int) {
	c.tally(keyType, func(cc *CacheCounts) {
		cc.Sets++
		cc.Bytes += int64(size)
	})
}

func (c *Counters) tally(keyType string, fn func(*CacheCounts)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cc, ok := c.cache[keyType]
	if !ok {
		cc = &CacheCounts{}
		c.cache[keyType] = cc
	}
	fn(cc)
}

func (c *Counters) OnRequest(context.Context, string, string) { c.requests.Add(1) }

func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	if status >= 500 {
		c.errors5xx.Add(1)
	}
}

// Snapshot copies the current tallies.
func (c *Counters) Snapshot() Snapshot {
	s := Snapshot{
		Uptime:        time.Since(c.started).Round(time.Second).String(),
		Layouts:       c.layouts.Load(),
		LayoutErrors:  c.layoutErrors.Load(),
		LayoutsCached: c.layoutsCached.Load(),
		Renders:       c.renders.Load(),
		RenderErrors:  c.renderErrors.Load(),
		Warnings:      c.warnings.Load(),
		Requests:      c.requests.Load(),
		ServerErrors:  c.errors5xx.Load(),
		Cache:         make(map[string]CacheCounts),
	}
	var mean time.Duration
	if ok := s.Layouts - s.LayoutErrors; ok > 0 {
		mean = time.Duration(c.layoutNanos.Load() / ok)
	}
	s.MeanLayout = mean.String()

	c.mu.Lock()
	defer c.mu.Unlock()
	s.LastWarning = c.last
	for k, v := range c.cache {
		s.Cache[k] = *v
	}
	return s
}

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
	_ HTTPHooks     = (*Counters)(nil)
)
