package classifier

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	trainDocs = []string{
		"president signs new law to improve healthcare",
		"scientists confirm vaccine is safe and effective",
		"shocking celebrity endorses miracle cure click to find out",
		"this one weird trick doctors hate cure for diabetes",
		"report local council approves new park",
		"breaking aliens landed in my backyard video inside",
	}
	trainLabels = []string{"REAL", "REAL", "FAKE", "FAKE", "REAL", "FAKE"}
)

func TestFitTfidf_Vocabulary(t *testing.T) {
	vec, err := FitTfidf([]string{"a cure cure", "cure report"})
	require.NoError(t, err)

	// single-rune tokens are dropped
	assert.Equal(t, 2, vec.Features())
	assert.Equal(t, 0, vec.Vocabulary["cure"])
	assert.Equal(t, 1, vec.Vocabulary["report"])

	// cure appears in both docs: ln(3/3)+1; report in one: ln(3/2)+1
	assert.InDelta(t, 1.0, vec.IDF[0], 1e-12)
	assert.InDelta(t, math.Log(1.5)+1, vec.IDF[1], 1e-12)
}

func TestFitTfidf_EmptyVocabulary(t *testing.T) {
	_, err := FitTfidf([]string{"", "a b c"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnfittable))
}

func TestTfidfTransform_RowsAreUnitOrZero(t *testing.T) {
	vec, err := FitTfidf(trainDocs)
	require.NoError(t, err)

	x := vec.Transform([]string{"miracle cure", "zzz unknown words"})
	r0 := x.RawRowView(0)
	r1 := x.RawRowView(1)

	norm := 0.0
	for _, v := range r0 {
		norm += v * v
	}
	assert.InDelta(t, 1.0, norm, 1e-9)

	for _, v := range r1 {
		assert.Zero(t, v)
	}
}

func TestFit_SeparatesTrainingData(t *testing.T) {
	p, err := Fit(trainDocs, trainLabels, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"FAKE", "REAL"}, p.Classes())

	got, err := p.Predict(trainDocs)
	require.NoError(t, err)
	assert.Equal(t, trainLabels, got)
}

func TestPredictProba_RowsSumToOne(t *testing.T) {
	p, err := Fit(trainDocs, trainLabels, DefaultOptions())
	require.NoError(t, err)

	probs, err := p.PredictProba([]string{"this miracle cure will change your life", "", "report said president signed"})
	require.NoError(t, err)
	require.Len(t, probs, 3)

	for _, row := range probs {
		require.Len(t, row, 2)
		assert.GreaterOrEqual(t, row[0], 0.0)
		assert.GreaterOrEqual(t, row[1], 0.0)
		assert.InDelta(t, 1.0, row[0]+row[1], 1e-9)
	}

	// vocabulary taken from the FAKE samples should lean FAKE
	assert.Greater(t, probs[0][0], probs[0][1])
}

func TestPredictProba_Empty(t *testing.T) {
	p, err := Fit(trainDocs, trainLabels, DefaultOptions())
	require.NoError(t, err)

	probs, err := p.PredictProba(nil)
	require.NoError(t, err)
	assert.Empty(t, probs)
}

func TestFit_SingleClassIsUnfittable(t *testing.T) {
	_, err := Fit([]string{"a cure", "more cure"}, []string{"FAKE", "FAKE"}, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnfittable)
}

func TestFit_LengthMismatchIsNotUnfittable(t *testing.T) {
	_, err := Fit([]string{"a cure"}, []string{"FAKE", "REAL"}, DefaultOptions())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnfittable)
}

func TestPipeline_ValidateRejectsMismatchedModel(t *testing.T) {
	p, err := Fit(trainDocs, trainLabels, DefaultOptions())
	require.NoError(t, err)

	p.Model = &LogisticRegression{Weights: []float64{1}}
	_, err = p.PredictProba([]string{"cure"})
	assert.Error(t, err)
}

func TestPipeline_ValidateRejectsBrokenVectorizer(t *testing.T) {
	lr := &LogisticRegression{Weights: []float64{1, 1}}
	labels := []string{"FAKE", "REAL"}

	tests := []struct {
		name string
		vec  *TfidfVectorizer
	}{
		{"empty", &TfidfVectorizer{Vocabulary: map[string]int{}, IDF: []float64{}}},
		{"size mismatch", &TfidfVectorizer{Vocabulary: map[string]int{"cure": 0}, IDF: []float64{1, 1}}},
		{"index too large", &TfidfVectorizer{Vocabulary: map[string]int{"cure": 0, "report": 2}, IDF: []float64{1, 1}}},
		{"negative index", &TfidfVectorizer{Vocabulary: map[string]int{"cure": -1, "report": 1}, IDF: []float64{1, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Pipeline{Vectorizer: tt.vec, Model: lr, Labels: labels}
			assert.Error(t, p.Validate())

			_, err := p.PredictProba([]string{"cure report"})
			assert.Error(t, err)
		})
	}
}

func TestSigmoidAndLogOnePlusExpAreStable(t *testing.T) {
	assert.InDelta(t, 1.0, sigmoid(800), 1e-12)
	assert.InDelta(t, 0.0, sigmoid(-800), 1e-12)
	assert.InDelta(t, 800.0, logOnePlusExp(800), 1e-9)
	assert.InDelta(t, 0.0, logOnePlusExp(-800), 1e-12)
	assert.InDelta(t, math.Log(2), logOnePlusExp(0), 1e-12)
}
