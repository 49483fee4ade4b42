package model

import "errors"

var (
	// ErrInvalidInput is returned by transports when the caller supplied no usable text.
	// The pipeline is never invoked for such requests.
	ErrInvalidInput = errors.New("missing required field 'text'")

	// ErrArtifactNotFound means no artifact exists at the resolved path. Run training first.
	ErrArtifactNotFound = errors.New("model artifact not found")

	// ErrScoringFailure wraps unexpected failures inside the statistical scoring path.
	ErrScoringFailure = errors.New("scoring failed")
)
