package cache

import (
	"path/filepath"

	"github.com/ppiankov/verity/internal/artifact"
)

// Cache holds decoded artifacts keyed by their resolved path
type Cache interface {
	Get(key string) (artifact.Artifact, bool)
	Set(key string, a artifact.Artifact)
	Delete(key string)
	Clear()
}

// Key turns an artifact path into a cache key. Relative and absolute
// spellings of the same file map to the same key.
func Key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return "verity:v1:" + abs
	}
	return "verity:v1:" + filepath.Clean(path)
}
