// Package classifier implements the statistical text classifier stored in
// statistical artifacts: a TF-IDF vectorizer feeding a binary logistic regression.
package classifier

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnfittable marks documented conditions under which a model cannot be fit
// from the given data. Callers may fall back to another strategy on it.
var ErrUnfittable = errors.New("classifier cannot be fit")

// Classifier assigns one of its classes to each document
type Classifier interface {
	// Classes returns the ordered class labels
	Classes() []string

	// Predict returns the hard class decision for each document
	Predict(docs []string) ([]string, error)
}

// ProbabilityEstimator is the optional capability of producing calibrated
// per-class probabilities. Row i, column j is P(Classes()[j] | docs[i]).
type ProbabilityEstimator interface {
	PredictProba(docs []string) ([][]float64, error)
}

// Options tune Fit
type Options struct {
	MaxIterations  int
	Regularization float64 // Inverse L2 strength; larger means weaker regularization
}

// DefaultOptions mirrors a stock liblinear-style setup
func DefaultOptions() Options {
	return Options{MaxIterations: 1000, Regularization: 1.0}
}

// Pipeline chains the vectorizer and the regression. It is the only
// classifier that statistical artifacts know how to persist.
type Pipeline struct {
	Vectorizer *TfidfVectorizer    `json:"vectorizer"`
	Model      *LogisticRegression `json:"model"`
	Labels     []string            `json:"classes"`
}

var (
	_ Classifier           = (*Pipeline)(nil)
	_ ProbabilityEstimator = (*Pipeline)(nil)
)

// Fit trains a pipeline on normalized documents and their labels.
// Exactly two distinct labels are required.
func Fit(docs []string, labels []string, opts Options) (*Pipeline, error) {
	if len(docs) != len(labels) {
		return nil, fmt.Errorf("fit: %d documents but %d labels", len(docs), len(labels))
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}
	if opts.Regularization <= 0 {
		opts.Regularization = DefaultOptions().Regularization
	}

	classes := uniqueSorted(labels)
	if len(classes) != 2 {
		return nil, fmt.Errorf("%w: need exactly 2 classes, got %d", ErrUnfittable, len(classes))
	}

	vec, err := FitTfidf(docs)
	if err != nil {
		return nil, err
	}

	x := vec.Transform(docs)
	y := make([]float64, len(labels))
	for i, l := range labels {
		if l == classes[1] {
			y[i] = 1
		}
	}

	lr, err := FitLogistic(x, y, opts)
	if err != nil {
		return nil, err
	}

	return &Pipeline{Vectorizer: vec, Model: lr, Labels: classes}, nil
}

// Classes returns the class labels; index 1 is the positive class of the regression
func (p *Pipeline) Classes() []string {
	out := make([]string, len(p.Labels))
	copy(out, p.Labels)
	return out
}

// PredictProba returns [P(classes[0]), P(classes[1])] per document
func (p *Pipeline) PredictProba(docs []string) ([][]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return [][]float64{}, nil
	}

	x := p.Vectorizer.Transform(docs)
	pos, err := p.Model.Probabilities(x)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, len(pos))
	for i, pr := range pos {
		out[i] = []float64{1 - pr, pr}
	}
	return out, nil
}

// Predict returns the most probable class per document
func (p *Pipeline) Predict(docs []string) ([]string, error) {
	probs, err := p.PredictProba(docs)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(probs))
	for i, row := range probs {
		if row[1] > row[0] {
			out[i] = p.Labels[1]
		} else {
			out[i] = p.Labels[0]
		}
	}
	return out, nil
}

// Validate checks that the vectorizer and model agree, so a decoded pipeline
// cannot fail at scoring time
func (p *Pipeline) Validate() error {
	switch {
	case p.Vectorizer == nil:
		return errors.New("pipeline has no vectorizer")
	case p.Model == nil:
		return errors.New("pipeline has no model")
	case len(p.Labels) != 2:
		return fmt.Errorf("pipeline has %d classes, want 2", len(p.Labels))
	case len(p.Vectorizer.IDF) == 0:
		return errors.New("pipeline has an empty vocabulary")
	case len(p.Vectorizer.Vocabulary) != len(p.Vectorizer.IDF):
		return fmt.Errorf("vocabulary has %d terms for %d idf weights", len(p.Vectorizer.Vocabulary), len(p.Vectorizer.IDF))
	case len(p.Model.Weights) != len(p.Vectorizer.IDF):
		return fmt.Errorf("model has %d weights for %d features", len(p.Model.Weights), len(p.Vectorizer.IDF))
	}

	for term, idx := range p.Vectorizer.Vocabulary {
		if idx < 0 || idx >= len(p.Vectorizer.IDF) {
			return fmt.Errorf("term %q has feature index %d outside [0, %d)", term, idx, len(p.Vectorizer.IDF))
		}
	}
	return nil
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
