//go:build !cgo

package complexity

import (
	"context"
	"errors"
)

// parsePythonStructure requires the tree-sitter bindings, which need CGO.
// Without it the text-derived Python metrics (LOC, pattern counts, field
// extraction) still work; only the AST metrics are unavailable.
func parsePythonStructure(ctx context.Context, source []byte) (pythonStructure, error) {
	return pythonStructure{}, errors.New("python structural analysis requires cgo (tree-sitter)")
}

// IsAvailable returns whether Python structural analysis is available.
// Returns false when built without CGO.
func IsAvailable() bool {
	return false
}
