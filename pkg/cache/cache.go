// Package cache provides content-addressed caching for pipeline stages.
//
// Every stage output is cached under a key derived from its inputs: the
// parsed model under a hash of the source text, the computed layout under
// the model hash plus the layout parameters, and rendered artifacts under
// the layout hash plus the output format. Changing any input changes the
// key, so stale entries are never served and invalidation is implicit.
package cache

import (
	"context"
	"time"
)

// Default TTLs per stage. Models are cheap to recompute, artifacts are
// not, so the lifetimes grow along the pipeline.
const (
	TTLModel    = 1 * time.Hour
	TTLLayout   = 6 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache stores raw bytes under string keys with an optional TTL.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases cache resources.
	Close() error
}

// LayoutKeyOpts are the layout parameters that feed into a layout cache
// key. Two layouts of the same model with different parameters must not
// share an entry.
type LayoutKeyOpts struct {
	Padding         float64 `json:"padding"`
	HGap            float64 `json:"h_gap"`
	VGap            float64 `json:"v_gap"`
	BoundaryPadding float64 `json:"boundary_padding"`
	ResourceOffsetX float64 `json:"resource_offset_x"`
}

// ArtifactKeyOpts are the rendering parameters that feed into an artifact
// cache key.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale"`
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// ModelKey generates a key for a parsed model from the source hash.
	ModelKey(sourceHash string) string

	// LayoutKey generates a key for a computed layout.
	LayoutKey(modelHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates unscoped keys. Keys are hashes of their inputs,
// so equal inputs map to equal keys across processes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ModelKey generates a key for a parsed model.
func (k *DefaultKeyer) ModelKey(sourceHash string) string {
	return hashKey("model", sourceHash)
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(modelHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", modelHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
