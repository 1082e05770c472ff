// Package builder scratchpad types, keys, and sentinel errors.
package builder

import (
	"errors"
	"fmt"
)

// Sentinel errors for mesh construction.
var (
	// ErrUnknownKey indicates a key that names no scratchpad cell, or a
	// corner (face, vertex) pair that does not occur in the mesh.
	ErrUnknownKey = errors.New("builder: unknown key")

	// ErrIncompleteMesh indicates a scratchpad that is not yet a surface:
	// a point sphere remains, or a face has fewer than three vertices.
	ErrIncompleteMesh = errors.New("builder: incomplete mesh")

	// ErrNonManifold indicates a face set that does not describe an
	// orientable 2-manifold: a directed edge occurs twice, an edge carries
	// more than two faces, corner matching cannot resolve, or the derived
	// Euler ledger is inconsistent.
	ErrNonManifold = errors.New("builder: non-manifold face set")
)

// VertexKey names a scratchpad vertex ("v1", "v2", …).
type VertexKey string

// FaceKey names a scratchpad face ("f1", "f2", …).
type FaceKey string

// HalfEdge is one directed leg of a face boundary: the (From, To) vertex pair
// and the face it borders. Two faces sharing an edge carry the two opposite
// half-edges.
type HalfEdge struct {
	From, To VertexKey
	Face     FaceKey
}

// String renders a half-edge as "f3:v1→v2".
func (h HalfEdge) String() string {
	return fmt.Sprintf("%s:%s→%s", h.Face, h.From, h.To)
}
