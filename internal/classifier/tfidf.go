package classifier

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// minTokenRunes drops single-character tokens, matching the common \w\w+ token pattern
const minTokenRunes = 2

// TfidfVectorizer maps documents to L2-normalized TF-IDF rows.
// IDF uses the smoothed form ln((1+n)/(1+df)) + 1.
type TfidfVectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// FitTfidf learns the vocabulary and inverse document frequencies
func FitTfidf(docs []string) (*TfidfVectorizer, error) {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, tok := range tokenize(doc) {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	if len(df) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", ErrUnfittable)
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		vocab[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	return &TfidfVectorizer{Vocabulary: vocab, IDF: idf}, nil
}

// Features returns the vocabulary size
func (v *TfidfVectorizer) Features() int {
	return len(v.IDF)
}

// Transform builds a len(docs) x Features() matrix. Unknown terms are ignored;
// documents with no known terms produce all-zero rows.
func (v *TfidfVectorizer) Transform(docs []string) *mat.Dense {
	d := v.Features()
	x := mat.NewDense(len(docs), d, nil)

	row := make([]float64, d)
	for i, doc := range docs {
		for j := range row {
			row[j] = 0
		}
		for _, tok := range tokenize(doc) {
			if idx, ok := v.Vocabulary[tok]; ok {
				row[idx]++
			}
		}
		floats.Mul(row, v.IDF)
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
		x.SetRow(i, row)
	}

	return x
}

func tokenize(doc string) []string {
	fields := strings.Fields(doc)
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenRunes {
			out = append(out, f)
		}
	}
	return out
}
