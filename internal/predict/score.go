package predict

import (
	"errors"
	"fmt"
	"math"

	"github.com/ppiankov/verity/internal/artifact"
	"github.com/ppiankov/verity/internal/classifier"
	"github.com/ppiankov/verity/internal/model"
	"github.com/ppiankov/verity/internal/normalize"
)

const (
	// uncalibratedScore is reported when a classifier can only give a hard decision
	uncalibratedScore = 0.5

	tieScore    = 0.5
	marginStep  = 0.25
	maxRuleConf = 0.99
)

// Score dispatches on the artifact variant. docs must already be normalized.
func Score(a artifact.Artifact, docs []string) ([]model.Prediction, error) {
	switch v := a.(type) {
	case *artifact.Statistical:
		return scoreStatistical(v, docs)
	case *artifact.RuleBased:
		out := make([]model.Prediction, len(docs))
		for i, doc := range docs {
			out[i] = ScoreRules(v, doc)
		}
		return out, nil
	case nil:
		return nil, errors.New("no artifact loaded")
	default:
		return nil, fmt.Errorf("unknown artifact type %T", a)
	}
}

// ScoreRules counts keyword tokens on each side. Every occurrence counts.
// Ties, including no hits at all, go to REAL with 0.5; otherwise confidence
// grows by 0.25 per hit of margin, capped at 0.99.
func ScoreRules(rb *artifact.RuleBased, doc string) model.Prediction {
	fakeHits, realHits := 0, 0
	for _, tok := range normalize.Tokens(doc) {
		if rb.IsFake(tok) {
			fakeHits++
		}
		if rb.IsReal(tok) {
			realHits++
		}
	}

	if fakeHits == realHits {
		return model.Prediction{Label: model.LabelReal, Score: tieScore}
	}

	label := model.LabelReal
	if fakeHits > realHits {
		label = model.LabelFake
	}
	margin := math.Abs(float64(fakeHits - realHits))
	return model.Prediction{
		Label: label,
		Score: math.Min(maxRuleConf, tieScore+margin*marginStep),
	}
}

func scoreStatistical(s *artifact.Statistical, docs []string) ([]model.Prediction, error) {
	clf := s.Classifier()
	if clf == nil {
		return nil, fmt.Errorf("%w: statistical artifact has no classifier", model.ErrScoringFailure)
	}
	if len(docs) == 0 {
		return []model.Prediction{}, nil
	}

	classes := clf.Classes()

	est, ok := clf.(classifier.ProbabilityEstimator)
	if !ok {
		return hardPredictions(clf, docs)
	}

	probs, err := est.PredictProba(docs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrScoringFailure, err)
	}
	if len(probs) != len(docs) {
		return nil, fmt.Errorf("%w: %d probability rows for %d texts", model.ErrScoringFailure, len(probs), len(docs))
	}

	out := make([]model.Prediction, len(docs))
	for i, row := range probs {
		if len(row) != len(classes) || len(row) == 0 {
			return nil, fmt.Errorf("%w: %d probabilities for %d classes", model.ErrScoringFailure, len(row), len(classes))
		}

		best := 0
		for j := 1; j < len(row); j++ {
			if row[j] > row[best] {
				best = j
			}
		}

		p := row[best]
		if math.IsNaN(p) {
			return nil, fmt.Errorf("%w: probability is NaN", model.ErrScoringFailure)
		}

		label, err := toLabel(classes[best])
		if err != nil {
			return nil, err
		}
		out[i] = model.Prediction{Label: label, Score: math.Max(0, math.Min(1, p))}
	}

	return out, nil
}

func hardPredictions(clf classifier.Classifier, docs []string) ([]model.Prediction, error) {
	labels, err := clf.Predict(docs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrScoringFailure, err)
	}
	if len(labels) != len(docs) {
		return nil, fmt.Errorf("%w: %d labels for %d texts", model.ErrScoringFailure, len(labels), len(docs))
	}

	out := make([]model.Prediction, len(labels))
	for i, l := range labels {
		label, err := toLabel(l)
		if err != nil {
			return nil, err
		}
		out[i] = model.Prediction{Label: label, Score: uncalibratedScore}
	}
	return out, nil
}

func toLabel(class string) (model.Label, error) {
	l := model.Label(class)
	if !l.Valid() {
		return "", fmt.Errorf("%w: classifier produced unknown class %q", model.ErrScoringFailure, class)
	}
	return l, nil
}
