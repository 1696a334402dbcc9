package diff

import (
	"bytes"
	"fmt"

	"github.com/gabstv/go-bsdiff/pkg/bsdiff"
)

// Engine produces a binary patch transforming old into new.
//
// Per spec §4.2, Diff must produce a non-empty opaque blob whenever
// old != new; callers are responsible for skipping the call entirely when
// the two buffers are already byte-equal (spec §4.3 step 4, the KEEP
// case).
type Engine interface {
	Diff(old, new []byte) ([]byte, error)
}

// BsdiffEngine wraps github.com/gabstv/go-bsdiff, a pure-Go bsdiff/bspatch
// implementation, as the default Engine.
type BsdiffEngine struct{}

var _ Engine = BsdiffEngine{}

// NewBsdiffEngine creates a new bsdiff-backed Engine.
func NewBsdiffEngine() BsdiffEngine {
	return BsdiffEngine{}
}

// Diff computes a bsdiff patch from old to new.
func (BsdiffEngine) Diff(old, new []byte) ([]byte, error) {
	if bytes.Equal(old, new) {
		return nil, fmt.Errorf("diff: old and new are identical, nothing to patch")
	}

	patch, err := bsdiff.Bytes(old, new)
	if err != nil {
		return nil, fmt.Errorf("diff: bsdiff failed: %w", err)
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("diff: bsdiff produced an empty patch for non-identical inputs")
	}

	return patch, nil
}
