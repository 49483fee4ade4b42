package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/verity/internal/classifier"
)

// FormatVersion is bumped whenever the on-disk layout changes incompatibly
const FormatVersion = 1

// pipelineType identifies classifier.Pipeline inside statistical payloads
const pipelineType = "tfidf-logreg"

type envelope struct {
	Version     int                 `json:"version"`
	Kind        Kind                `json:"kind"`
	CreatedAt   time.Time           `json:"created_at"`
	Statistical *statisticalPayload `json:"statistical,omitempty"`
	RuleBased   *ruleBasedPayload   `json:"rule_based,omitempty"`
}

type statisticalPayload struct {
	Type     string               `json:"type"`
	Pipeline *classifier.Pipeline `json:"pipeline"`
}

type ruleBasedPayload struct {
	FakeKeywords []string `json:"fake_keywords"`
	RealKeywords []string `json:"real_keywords"`
}

// Encode serializes an artifact
func Encode(a Artifact) ([]byte, error) {
	env := envelope{
		Version:   FormatVersion,
		CreatedAt: time.Now().UTC(),
	}

	switch v := a.(type) {
	case *Statistical:
		p, ok := v.clf.(*classifier.Pipeline)
		if !ok {
			return nil, fmt.Errorf("encode: unsupported classifier type %T", v.clf)
		}
		env.Kind = KindStatistical
		env.Statistical = &statisticalPayload{Type: pipelineType, Pipeline: p}
	case *RuleBased:
		env.Kind = KindRuleBased
		env.RuleBased = &ruleBasedPayload{
			FakeKeywords: v.FakeKeywords(),
			RealKeywords: v.RealKeywords(),
		}
	case nil:
		return nil, errors.New("encode: nil artifact")
	default:
		return nil, fmt.Errorf("encode: unknown artifact %T", a)
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal artifact: %w", err)
	}
	return data, nil
}

// Decode parses an artifact produced by Encode
func Decode(data []byte) (Artifact, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal artifact: %w", err)
	}

	if env.Version != FormatVersion {
		return nil, fmt.Errorf("decode: unsupported artifact version %d", env.Version)
	}
	if env.Statistical != nil && env.RuleBased != nil {
		return nil, errors.New("decode: artifact carries both statistical and rule_based payloads")
	}

	switch env.Kind {
	case KindStatistical:
		if env.Statistical == nil || env.Statistical.Pipeline == nil {
			return nil, errors.New("decode: statistical artifact without pipeline")
		}
		if env.Statistical.Type != pipelineType {
			return nil, fmt.Errorf("decode: unsupported classifier type %q", env.Statistical.Type)
		}
		if err := env.Statistical.Pipeline.Validate(); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return NewStatistical(env.Statistical.Pipeline), nil
	case KindRuleBased:
		if env.RuleBased == nil {
			return nil, errors.New("decode: rule_based artifact without keywords")
		}
		return NewRuleBased(env.RuleBased.FakeKeywords, env.RuleBased.RealKeywords), nil
	default:
		return nil, fmt.Errorf("decode: unknown artifact kind %q", env.Kind)
	}
}
