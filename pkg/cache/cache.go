// Package cache stores computed scenes, rendered artifacts and warning
// sessions under content-addressed keys.
//
// Four backends implement [Cache]: [FileCache] for the CLI, [MemoryCache]
// for tests and single-process servers, [RedisCache] for shared servers and
// [NullCache] when caching is disabled. Keys come from a [Keyer] so that the
// same pipeline can run with per-tenant prefixes via [ScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// SceneKey addresses the scene computed from a definition.
	SceneKey(definitionHash string, opts SceneKeyOpts) string
	// ArtifactKey addresses a rendered output of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
	// SessionKey addresses a warning session.
	SessionKey(id string) string
}

// SceneKeyOpts are the pass inputs besides the definition that affect a scene.
type SceneKeyOpts struct {
	OptionsHash string `json:"options"`
	Selected    string `json:"selected,omitempty"`
	Dismissed   string `json:"dismissed,omitempty"`
}

// ArtifactKeyOpts are the render inputs that affect an artifact.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	Style       string `json:"style,omitempty"`
	Highlight   bool   `json:"highlight,omitempty"`
	Interactive bool   `json:"interactive,omitempty"`
	Grid        bool   `json:"grid,omitempty"`
	Boxes       bool   `json:"boxes,omitempty"`
	Detailed    bool   `json:"detailed,omitempty"`
	Vertical    bool   `json:"vertical,omitempty"`
	Indent      bool   `json:"indent,omitempty"`
}

// Default lifetimes. Scenes and artifacts are content addressed, so they
// only expire to bound disk and memory use.
const (
	TTLScene    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) SceneKey(definitionHash string, opts SceneKeyOpts) string {
	return hashKey("scene", definitionHash, opts)
}

func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

func (DefaultKeyer) SessionKey(id string) string { return "session:" + id }

var _ Keyer = DefaultKeyer{}
