package model

// Label is the binary verdict assigned to a text
type Label string

const (
	LabelFake Label = "FAKE"
	LabelReal Label = "REAL"
)

// Valid reports whether l is one of the two known labels
func (l Label) Valid() bool {
	return l == LabelFake || l == LabelReal
}

// Prediction is the outcome of scoring one text.
// Score is the confidence in Label, never the probability of the other class.
type Prediction struct {
	Label Label   `json:"label"`
	Score float64 `json:"score"`
}

// Sample is a labeled training example
type Sample struct {
	Text  string `json:"text"`
	Label Label  `json:"label"`
}
