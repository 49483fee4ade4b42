// Package predict scores text against a trained artifact.
package predict

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ppiankov/verity/internal/artifact"
	"github.com/ppiankov/verity/internal/cache"
	"github.com/ppiankov/verity/internal/model"
	"github.com/ppiankov/verity/internal/normalize"
)

// Predictor resolves, loads and caches artifacts, then scores text against them.
// Artifacts are cached per resolved path for the life of the Predictor.
type Predictor struct {
	cache       *cache.MemoryCache
	searchPaths []string
	logger      *slog.Logger
}

// Option configures a Predictor
type Option func(*Predictor)

// WithSearchPaths replaces the candidate locations tried when no path is given
func WithSearchPaths(paths ...string) Option {
	return func(p *Predictor) {
		p.searchPaths = append([]string(nil), paths...)
	}
}

// WithCache shares an artifact cache between predictors
func WithCache(c *cache.MemoryCache) Option {
	return func(p *Predictor) { p.cache = c }
}

// WithLogger sets the logger used for load events
func WithLogger(l *slog.Logger) Option {
	return func(p *Predictor) { p.logger = l }
}

// New creates a Predictor using DefaultSearchPaths
func New(opts ...Option) *Predictor {
	p := &Predictor{
		cache:       cache.NewMemoryCache(),
		searchPaths: DefaultSearchPaths(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DefaultSearchPaths returns the artifact location next to the running binary,
// then the same relative location under the working directory.
func DefaultSearchPaths() []string {
	var paths []string
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), model.DefaultArtifactPath))
	}
	return append(paths, model.DefaultArtifactPath)
}

// SearchPaths returns the candidate locations in resolution order
func (p *Predictor) SearchPaths() []string {
	return append([]string(nil), p.searchPaths...)
}

// Resolve picks the artifact path to use. An explicit path is returned as is.
// Otherwise the first search path that is cached or present on disk wins.
func (p *Predictor) Resolve(path string) (string, error) {
	if path != "" {
		return path, nil
	}

	for _, candidate := range p.searchPaths {
		if _, ok := p.cache.Get(cache.Key(candidate)); ok {
			return candidate, nil
		}
		if artifact.Exists(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w (searched: %s)", model.ErrArtifactNotFound, strings.Join(p.searchPaths, ", "))
}

// Load returns the artifact for path, reading it from disk on first use only.
// It also returns the resolved path.
func (p *Predictor) Load(path string) (artifact.Artifact, string, error) {
	resolved, err := p.Resolve(path)
	if err != nil {
		return nil, "", err
	}

	a, err := p.cache.GetOrLoad(cache.Key(resolved), func() (artifact.Artifact, error) {
		a, err := artifact.Load(resolved)
		if err != nil {
			return nil, err
		}
		p.logger.Debug("artifact loaded", "path", resolved, "kind", a.Kind())
		return a, nil
	})
	if err != nil {
		return nil, "", err
	}

	return a, resolved, nil
}

// Predict normalizes text and scores it against the artifact at path
// (resolved via the search paths when empty).
func (p *Predictor) Predict(text string, path string) (model.Prediction, error) {
	out, err := p.PredictBatch([]string{text}, path)
	if err != nil {
		return model.Prediction{}, err
	}
	return out[0], nil
}

// PredictBatch scores several texts against one artifact
func (p *Predictor) PredictBatch(texts []string, path string) ([]model.Prediction, error) {
	a, _, err := p.Load(path)
	if err != nil {
		return nil, err
	}

	docs := make([]string, len(texts))
	for i, t := range texts {
		docs[i] = normalize.Text(t)
	}

	return Score(a, docs)
}

// Invalidate drops the cached artifact for path so the next call re-reads it
func (p *Predictor) Invalidate(path string) {
	p.cache.Delete(cache.Key(path))
}

// Reset drops every cached artifact
func (p *Predictor) Reset() {
	p.cache.Clear()
}

var (
	defaultOnce      sync.Once
	defaultPredictor *Predictor
)

// Default returns the process-wide Predictor, creating it on first use
func Default() *Predictor {
	defaultOnce.Do(func() {
		defaultPredictor = New()
	})
	return defaultPredictor
}

// Predict scores text with the process-wide Predictor
func Predict(text string, path string) (model.Prediction, error) {
	return Default().Predict(text, path)
}

// Reset clears the process-wide Predictor's cache
func Reset() {
	Default().Reset()
}
