// Package loader fetches the globe's texture manifest in tiers.
//
// A tier is the whole manifest resolved under one path prefix. Every asset is
// fetched concurrently and independently: a missing or undecodable file is
// logged, counted, and left out of the resulting TextureSet, and the batch
// still completes.
package loader

import (
	"context"
	"path"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"terra/gfx"
	"terra/internal/metrics"
)

// Tier names.
const (
	TierLow  = "lq"
	TierHigh = "hq"
)

// TextureSet maps logical texture names to decoded textures.
type TextureSet struct {
	mu   sync.RWMutex
	Tier string
	tex  map[string]*gfx.Texture
}

// NewTextureSet returns an empty set for tier.
func NewTextureSet(tier string) *TextureSet {
	return &TextureSet{Tier: tier, tex: make(map[string]*gfx.Texture)}
}

// Get returns the texture for name, or nil when it failed to load.
func (s *TextureSet) Get(name string) *gfx.Texture {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tex[name]
}

func (s *TextureSet) Set(name string, t *gfx.Texture) {
	s.mu.Lock()
	s.tex[name] = t
	s.mu.Unlock()
}

// Len returns the number of loaded textures.
func (s *TextureSet) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tex)
}

// Names returns the loaded names, sorted.
func (s *TextureSet) Names() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	names := make([]string, 0, len(s.tex))
	for n := range s.tex {
		names = append(names, n)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Loader resolves a Manifest against a Source.
type Loader struct {
	Source      Source
	Manifest    Manifest
	Log         zerolog.Logger
	Metrics     *metrics.Collector
	Concurrency int
}

// New returns a loader for the default manifest.
func New(src Source, log zerolog.Logger, m *metrics.Collector) *Loader {
	return &Loader{
		Source:      src,
		Manifest:    DefaultManifest(),
		Log:         log,
		Metrics:     m,
		Concurrency: 4,
	}
}

// Load fetches every asset of the manifest under prefix in the background
// and calls done exactly once with whatever loaded.
func (l *Loader) Load(ctx context.Context, tier, prefix string, done func(*TextureSet)) {
	go func() {
		done(l.LoadSync(ctx, tier, prefix))
	}()
}

// LoadSync is Load without the goroutine. It never fails as a whole.
func (l *Loader) LoadSync(ctx context.Context, tier, prefix string) *TextureSet {
	set := NewTextureSet(tier)
	var g errgroup.Group
	if l.Concurrency > 0 {
		g.SetLimit(l.Concurrency)
	}
	for _, a := range l.Manifest {
		g.Go(func() error {
			p := path.Join(prefix, a.Path)
			img, err := OpenImage(ctx, l.Source, p)
			l.Metrics.RecordTextureLoad(tier, err)
			if err != nil {
				l.Log.Warn().Err(err).
					Str("tier", tier).
					Str("asset", a.Name).
					Str("path", p).
					Msg("texture load failed")
				return nil
			}
			tex := gfx.NewTexture(img)
			tex.Name = a.Name
			set.Set(a.Name, tex)
			return nil
		})
	}
	_ = g.Wait()
	l.Log.Info().
		Str("tier", tier).
		Int("loaded", set.Len()).
		Int("total", len(l.Manifest)).
		Msg("texture tier settled")
	return set
}
