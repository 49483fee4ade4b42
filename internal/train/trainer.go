// Package train builds a fresh artifact from the built-in sample set and writes it to disk.
package train

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ppiankov/verity/internal/artifact"
	"github.com/ppiankov/verity/internal/classifier"
	"github.com/ppiankov/verity/internal/model"
	"github.com/ppiankov/verity/internal/normalize"
)

var (
	fallbackFakeKeywords = []string{"miracle", "click", "shocking", "cure", "weird", "video", "aliens"}
	fallbackRealKeywords = []string{"report", "said", "confirmed", "approves", "signed", "president", "scientist"}
)

// Samples returns a copy of the built-in labeled sample set
func Samples() []model.Sample {
	return []model.Sample{
		{Text: "President signs new law to improve healthcare", Label: model.LabelReal},
		{Text: "Scientists confirm vaccine is safe and effective", Label: model.LabelReal},
		{Text: "Shocking! Celebrity endorses miracle cure - click to find out", Label: model.LabelFake},
		{Text: "This one weird trick doctors hate — cure for diabetes!", Label: model.LabelFake},
		{Text: "Report: local council approves new park", Label: model.LabelReal},
		{Text: "BREAKING: Aliens landed in my backyard, video inside", Label: model.LabelFake},
	}
}

// FallbackArtifact returns the keyword-rule artifact used when no statistical backend can fit
func FallbackArtifact() *artifact.RuleBased {
	return artifact.NewRuleBased(fallbackFakeKeywords, fallbackRealKeywords)
}

// Trainer produces artifacts
type Trainer struct {
	backend Backend
	logger  *slog.Logger
}

// Option configures a Trainer
type Option func(*Trainer)

// WithBackend overrides the statistical backend. A nil backend forces the rule fallback.
func WithBackend(b Backend) Option {
	return func(t *Trainer) { t.backend = b }
}

// WithLogger sets the logger used to report which variant was produced
func WithLogger(l *slog.Logger) Option {
	return func(t *Trainer) { t.logger = l }
}

// NewTrainer creates a trainer with the gonum backend and default options
func NewTrainer(opts ...Option) *Trainer {
	t := &Trainer{
		backend: NewStatisticalBackend(classifier.DefaultOptions()),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Train builds an artifact from the built-in samples. It prefers the statistical
// backend and falls back to keyword rules only when the backend is unavailable or
// reports classifier.ErrUnfittable. Other fit errors are returned.
func (t *Trainer) Train() (artifact.Artifact, error) {
	samples := Samples()
	texts := make([]string, len(samples))
	labels := make([]string, len(samples))
	for i, s := range samples {
		texts[i] = normalize.Text(s.Text)
		labels[i] = string(s.Label)
	}

	if t.backend == nil || !t.backend.Available() {
		t.logger.Info("statistical backend unavailable, using keyword rules")
		return FallbackArtifact(), nil
	}

	clf, err := t.backend.Fit(texts, labels)
	if err != nil {
		if errors.Is(err, classifier.ErrUnfittable) {
			t.logger.Info("statistical fit not possible, using keyword rules",
				"backend", t.backend.Name(), "reason", err)
			return FallbackArtifact(), nil
		}
		return nil, fmt.Errorf("fit %s: %w", t.backend.Name(), err)
	}

	t.logger.Info("trained statistical classifier",
		"backend", t.backend.Name(), "samples", len(samples), "classes", clf.Classes())
	return artifact.NewStatistical(clf), nil
}

// TrainAndSave trains and writes the artifact to path (model.DefaultArtifactPath
// when empty), overwriting any previous artifact. It returns the path written.
func (t *Trainer) TrainAndSave(path string) (string, error) {
	if path == "" {
		path = model.DefaultArtifactPath
	}

	a, err := t.Train()
	if err != nil {
		return "", err
	}

	if err := artifact.Save(path, a); err != nil {
		return "", fmt.Errorf("save artifact: %w", err)
	}

	t.logger.Debug("artifact written", "path", path, "kind", a.Kind())
	return path, nil
}
