package train

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/verity/internal/artifact"
	"github.com/ppiankov/verity/internal/classifier"
	"github.com/ppiankov/verity/internal/model"
	"github.com/ppiankov/verity/internal/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records what it was asked to fit
type fakeBackend struct {
	available bool
	err       error
	texts     []string
	labels    []string
}

func (f *fakeBackend) Name() string { return "fake" }
func (f *fakeBackend) Available() bool { return f.available }

func (f *fakeBackend) Fit(texts, labels []string) (classifier.Classifier, error) {
	f.texts, f.labels = texts, labels
	if f.err != nil {
		return nil, f.err
	}
	return classifier.Fit(texts, labels, classifier.DefaultOptions())
}

func TestSamples_Balanced(t *testing.T) {
	samples := Samples()
	require.Len(t, samples, 6)

	counts := map[model.Label]int{}
	for _, s := range samples {
		counts[s.Label]++
	}
	assert.Equal(t, 3, counts[model.LabelFake])
	assert.Equal(t, 3, counts[model.LabelReal])

	// callers get a copy
	samples[0].Text = "mutated"
	assert.NotEqual(t, "mutated", Samples()[0].Text)
}

func TestTrain_DefaultIsStatistical(t *testing.T) {
	a, err := NewTrainer().Train()
	require.NoError(t, err)

	st, ok := a.(*artifact.Statistical)
	require.True(t, ok, "expected statistical artifact, got %T", a)
	assert.Equal(t, []string{"FAKE", "REAL"}, st.Classifier().Classes())
}

func TestTrain_NormalizesBeforeFitting(t *testing.T) {
	b := &fakeBackend{available: true}
	_, err := NewTrainer(WithBackend(b)).Train()
	require.NoError(t, err)

	require.Len(t, b.texts, 6)
	for _, text := range b.texts {
		assert.Equal(t, normalize.Text(text), text)
	}
	assert.Contains(t, b.texts, "breaking aliens landed in my backyard video inside")
}

func TestTrain_FallsBackWhenUnavailable(t *testing.T) {
	for name, b := range map[string]Backend{
		"nil":      nil,
		"disabled": &fakeBackend{available: false},
	} {
		t.Run(name, func(t *testing.T) {
			a, err := NewTrainer(WithBackend(b)).Train()
			require.NoError(t, err)

			rb, ok := a.(*artifact.RuleBased)
			require.True(t, ok)
			assert.ElementsMatch(t, []string{"miracle", "click", "shocking", "cure", "weird", "video", "aliens"}, rb.FakeKeywords())
			assert.ElementsMatch(t, []string{"report", "said", "confirmed", "approves", "signed", "president", "scientist"}, rb.RealKeywords())
		})
	}
}

func TestTrain_FallsBackOnUnfittable(t *testing.T) {
	b := &fakeBackend{available: true, err: errors.Join(classifier.ErrUnfittable, errors.New("too few classes"))}
	a, err := NewTrainer(WithBackend(b)).Train()
	require.NoError(t, err)
	assert.Equal(t, artifact.KindRuleBased, a.Kind())
}

func TestTrain_PropagatesOtherFitErrors(t *testing.T) {
	bug := errors.New("index out of range")
	b := &fakeBackend{available: true, err: bug}

	_, err := NewTrainer(WithBackend(b)).Train()
	require.Error(t, err)
	assert.ErrorIs(t, err, bug)

	_, err = NewTrainer(WithBackend(b)).TrainAndSave(filepath.Join(t.TempDir(), "model.json"))
	assert.ErrorIs(t, err, bug)
}

func TestTrainAndSave_WritesReadableArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "artifacts", "model.json")

	written, err := NewTrainer().TrainAndSave(path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	a, err := artifact.Load(written)
	require.NoError(t, err)
	assert.Equal(t, artifact.KindStatistical, a.Kind())

	// second run overwrites in place
	written, err = NewTrainer(WithBackend(nil)).TrainAndSave(path)
	require.NoError(t, err)
	a, err = artifact.Load(written)
	require.NoError(t, err)
	assert.Equal(t, artifact.KindRuleBased, a.Kind())
}

func TestTrainAndSave_DefaultPath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	written, err := NewTrainer().TrainAndSave("")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultArtifactPath, written)
	assert.True(t, artifact.Exists(written))
}

func TestBackendFor(t *testing.T) {
	for _, name := range []string{"", "auto", "statistical"} {
		b, err := BackendFor(name, classifier.DefaultOptions())
		require.NoError(t, err)
		assert.True(t, b.Available(), name)
	}

	b, err := BackendFor("rules", classifier.DefaultOptions())
	require.NoError(t, err)
	assert.False(t, b.Available())

	_, err = BackendFor("neural", classifier.DefaultOptions())
	assert.Error(t, err)
}
