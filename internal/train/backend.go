package train

import (
	"fmt"

	"github.com/ppiankov/verity/internal/classifier"
)

// Backend is a statistical fitting strategy. Available is the capability check
// consulted before fitting; Fit reports documented degenerate inputs by wrapping
// classifier.ErrUnfittable.
type Backend interface {
	Name() string
	Available() bool
	Fit(texts, labels []string) (classifier.Classifier, error)
}

// StatisticalBackend fits the TF-IDF + logistic regression pipeline
type StatisticalBackend struct {
	opts    classifier.Options
	enabled bool
}

// NewStatisticalBackend creates an enabled backend
func NewStatisticalBackend(opts classifier.Options) *StatisticalBackend {
	return &StatisticalBackend{opts: opts, enabled: true}
}

// Name identifies the backend in logs
func (b *StatisticalBackend) Name() string {
	return "tfidf-logreg"
}

// Available reports whether the backend may be used
func (b *StatisticalBackend) Available() bool {
	return b != nil && b.enabled
}

// Fit trains the pipeline
func (b *StatisticalBackend) Fit(texts, labels []string) (classifier.Classifier, error) {
	return classifier.Fit(texts, labels, b.opts)
}

// BackendFor maps the train.backend config value to a backend.
// "rules" disables statistical fitting; "auto" and "statistical" enable it.
func BackendFor(name string, opts classifier.Options) (Backend, error) {
	switch name {
	case "", "auto", "statistical":
		return NewStatisticalBackend(opts), nil
	case "rules", "rule", "rule_based":
		return &StatisticalBackend{opts: opts, enabled: false}, nil
	default:
		return nil, fmt.Errorf("unknown train backend %q (want auto, statistical or rules)", name)
	}
}
