// Package artifact defines the persisted model: either a statistical classifier
// or a pair of keyword sets. An Artifact never changes after construction.
package artifact

import (
	"sort"

	"github.com/ppiankov/verity/internal/classifier"
	"github.com/ppiankov/verity/internal/normalize"
)

// Kind names an artifact variant on disk
type Kind string

const (
	KindStatistical Kind = "statistical"
	KindRuleBased   Kind = "rule_based"
)

// Artifact is a closed sum type: *Statistical or *RuleBased.
// Consumers dispatch with a type switch.
type Artifact interface {
	Kind() Kind
	sealed()
}

// Statistical wraps a trained classifier
type Statistical struct {
	clf classifier.Classifier
}

// NewStatistical wraps clf
func NewStatistical(clf classifier.Classifier) *Statistical {
	return &Statistical{clf: clf}
}

func (*Statistical) Kind() Kind { return KindStatistical }
func (*Statistical) sealed() {}

// Classifier returns the wrapped classifier
func (s *Statistical) Classifier() classifier.Classifier {
	return s.clf
}

// RuleBased holds the keyword sets used by the fallback scorer
type RuleBased struct {
	fake map[string]struct{}
	real map[string]struct{}
}

// NewRuleBased builds keyword sets. Keywords are normalized; empty ones are dropped.
func NewRuleBased(fake, real []string) *RuleBased {
	return &RuleBased{fake: toSet(fake), real: toSet(real)}
}

func (*RuleBased) Kind() Kind { return KindRuleBased }
func (*RuleBased) sealed() {}

// IsFake reports whether token is a fake keyword
func (r *RuleBased) IsFake(token string) bool {
	_, ok := r.fake[token]
	return ok
}

// IsReal reports whether token is a real keyword
func (r *RuleBased) IsReal(token string) bool {
	_, ok := r.real[token]
	return ok
}

// FakeKeywords returns the fake keywords sorted
func (r *RuleBased) FakeKeywords() []string {
	return sortedKeys(r.fake)
}

// RealKeywords returns the real keywords sorted
func (r *RuleBased) RealKeywords() []string {
	return sortedKeys(r.real)
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w = normalize.Text(w); w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
