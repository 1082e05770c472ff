// Package euler operator errors and options.
//
// This file declares the ErrTopology family and the Option set shared by the
// operators.
package euler

import (
	"errors"
	"fmt"
)

// ErrTopology is the base class of every operator precondition failure.
// errors.Is(err, ErrTopology) matches all of the subtypes below.
var ErrTopology = errors.New("euler: topology precondition failed")

// Subtypes of ErrTopology. Each wraps the base, so callers may match either
// the family or the specific failure.
var (
	// ErrInvalidSplit indicates split endpoints that are equal, not on the
	// target face, or already adjacent along its boundary.
	ErrInvalidSplit = fmt.Errorf("invalid split: %w", ErrTopology)

	// ErrNotAdjacent indicates merge operands that do not share exactly one
	// edge.
	ErrNotAdjacent = fmt.Errorf("cells not adjacent: %w", ErrTopology)

	// ErrIncompatibleBoundary indicates boundary cycles that cannot be glued:
	// handle faces of different length, or a hole closure that is not one
	// coherent oriented cycle.
	ErrIncompatibleBoundary = fmt.Errorf("incompatible boundary: %w", ErrTopology)

	// ErrDegenerateTopology indicates an edit that would produce an invalid
	// configuration: a face with fewer than 3 edges, a self-loop edge, a
	// pinched vertex, or a boundary loop on a complex that forbids them.
	ErrDegenerateTopology = fmt.Errorf("degenerate topology: %w", ErrTopology)

	// ErrCellInUse indicates a removal that would orphan a higher-dimensional
	// cell with no alternative boundary path.
	ErrCellInUse = fmt.Errorf("cell in use: %w", ErrTopology)
)

// Option configures a single operator invocation.
type Option func(*config)

type config struct {
	payload any
}

// WithPayload attaches an opaque payload to the primary cell the operator
// creates (the midpoint vertex of SplitEdge, the chord edge of SplitFace, the
// merged face of MergeFaces, the closing face of CloseHole). The kernel never
// inspects payload contents.
func WithPayload(p any) Option {
	return func(cfg *config) { cfg.payload = p }
}

func newConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
