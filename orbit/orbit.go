// File: orbit.go
// Role: traversal queries — face boundary cycles, vertex rotations, edge
// rings, and generalized star/link orbits.
package orbit

import (
	"errors"
	"fmt"
	"iter"
	"sort"

	"github.com/topmod-org/topocore/core"
)

// ErrNilComplex indicates a nil *core.Complex was passed to a query.
var ErrNilComplex = errors.New("orbit: complex is nil")

// FaceBoundary returns the cyclic sequence of (vertex, edge) pairs bounding
// face f: each vertex is the corner the walk enters before traversing the
// paired edge. The cycle is rotated so the minimal-identifier vertex comes
// first, making the output canonical for a given topology.
//
// Complexity: O(n) for an n-gon (one pass to assemble, lazily yielded).
func FaceBoundary(c *core.Complex, f core.ID) (iter.Seq2[core.ID, core.ID], error) {
	if c == nil {
		return nil, ErrNilComplex
	}
	if f.Dim() != core.DimFace {
		return nil, fmt.Errorf("orbit: face boundary of %v: %w", f, core.ErrDimension)
	}

	refs, err := c.BoundaryOf(f)
	if err != nil {
		return nil, fmt.Errorf("orbit: face boundary of %v: %w", f, err)
	}

	// 1. Resolve each oriented edge to the corner vertex it leaves from.
	vertices := make([]core.ID, len(refs))
	edges := make([]core.ID, len(refs))
	for i, ref := range refs {
		from, _, err := orientedEndpoints(c, ref)
		if err != nil {
			return nil, fmt.Errorf("orbit: face boundary of %v: %w", f, err)
		}
		vertices[i] = from
		edges[i] = ref.Cell
	}

	// 2. Rotate to the canonical minimal-identifier vertex.
	start := 0
	for i := 1; i < len(vertices); i++ {
		if vertices[i].Less(vertices[start]) {
			start = i
		}
	}

	n := len(vertices)

	return func(yield func(core.ID, core.ID) bool) {
		for i := 0; i < n; i++ {
			j := (start + i) % n
			if !yield(vertices[j], edges[j]) {
				return
			}
		}
	}, nil
}

// EdgeRing returns the faces sharing edge e — two on a closed manifold, one
// on a boundary loop — in identifier order.
//
// Complexity: O(1) (an edge has at most two incident faces).
func EdgeRing(c *core.Complex, e core.ID) (iter.Seq[core.ID], error) {
	if c == nil {
		return nil, ErrNilComplex
	}
	if e.Dim() != core.DimEdge {
		return nil, fmt.Errorf("orbit: edge ring of %v: %w", e, core.ErrDimension)
	}

	cob, err := c.CoboundaryOf(e)
	if err != nil {
		return nil, fmt.Errorf("orbit: edge ring of %v: %w", e, err)
	}

	return func(yield func(core.ID) bool) {
		for _, ref := range cob {
			if !yield(ref.Cell) {
				return
			}
		}
	}, nil
}

// VertexStar returns the faces incident to vertex v in radial cyclic order,
// walking from face to face through the shared edge at v. The walk seeds at
// the minimal incident edge (and its minimal face) for determinism; when a
// boundary loop passes through v the two fan arms are emitted in sequence.
//
// Complexity: O(deg(v) · avg face size) over a full consumption; lazy per step.
func VertexStar(c *core.Complex, v core.ID) (iter.Seq[core.ID], error) {
	if c == nil {
		return nil, ErrNilComplex
	}
	if v.Dim() != core.DimVertex {
		return nil, fmt.Errorf("orbit: vertex star of %v: %w", v, core.ErrDimension)
	}
	cob, err := c.CoboundaryOf(v)
	if err != nil {
		return nil, fmt.Errorf("orbit: vertex star of %v: %w", v, err)
	}
	if len(cob) == 0 {
		return func(func(core.ID) bool) {}, nil
	}
	startEdge := cob[0].Cell // CoboundaryOf sorts; minimal incident edge

	return func(yield func(core.ID) bool) {
		seen := make(map[core.ID]struct{}, len(cob))
		// Two passes from the seed edge cover both fan arms when a boundary
		// interrupts the rotation; on a closed umbrella the second pass
		// terminates immediately.
		for pass := 0; pass < 2; pass++ {
			e := startEdge
			for {
				f, ok := nextFaceAt(c, e, seen)
				if !ok {
					break
				}
				seen[f] = struct{}{}
				if !yield(f) {
					return
				}
				next, ok := otherEdgeAt(c, f, v, e)
				if !ok {
					break
				}
				e = next
			}
		}
	}, nil
}

// Star returns the generalized star orbit of a cell: the cell itself followed
// by every higher-dimensional cell whose boundary closure contains it, in
// identifier order per dimension.
//
// Complexity: proportional to the size of the star.
func Star(c *core.Complex, x core.ID) (iter.Seq[core.ID], error) {
	if c == nil {
		return nil, ErrNilComplex
	}
	if _, err := c.Get(x); err != nil {
		return nil, fmt.Errorf("orbit: star of %v: %w", x, err)
	}

	members := starSet(c, x)
	ordered := sortedByDim(members)

	return func(yield func(core.ID) bool) {
		for _, id := range ordered {
			if !yield(id) {
				return
			}
		}
	}, nil
}

// Link returns the link orbit of a cell: the closure of its star minus the
// star of its closure. For a vertex on a closed surface this is the ring of
// opposite vertices and edges — the combinatorial circle around it.
//
// Complexity: proportional to the size of the star's closure.
func Link(c *core.Complex, x core.ID) (iter.Seq[core.ID], error) {
	if c == nil {
		return nil, ErrNilComplex
	}
	if _, err := c.Get(x); err != nil {
		return nil, fmt.Errorf("orbit: link of %v: %w", x, err)
	}

	// 1. cl(st(x)): the star plus every boundary cell of its members.
	star := starSet(c, x)
	closureStar := closureSet(c, star)

	// 2. st(cl(x)): the star of every cell in x's closure.
	closureX := closureSet(c, map[core.ID]struct{}{x: {}})
	starClosure := make(map[core.ID]struct{})
	for member := range closureX {
		for id := range starSet(c, member) {
			starClosure[id] = struct{}{}
		}
	}

	// 3. Difference, ordered.
	for id := range starClosure {
		delete(closureStar, id)
	}
	ordered := sortedByDim(closureStar)

	return func(yield func(core.ID) bool) {
		for _, id := range ordered {
			if !yield(id) {
				return
			}
		}
	}, nil
}

// --- helpers -----------------------------------------------------------------

// orientedEndpoints resolves a face-boundary reference to the (from, to)
// vertices it traverses under its orientation flag.
func orientedEndpoints(c *core.Complex, ref core.IncidenceRef) (from, to core.ID, err error) {
	b, err := c.BoundaryOf(ref.Cell)
	if err != nil {
		return core.NilID, core.NilID, err
	}
	if len(b) != 2 {
		return core.NilID, core.NilID, fmt.Errorf("edge %v: malformed boundary: %w", ref.Cell, core.ErrInvariantViolation)
	}
	tail, head := b[0].Cell, b[1].Cell
	if ref.Orient == core.Plus {
		return tail, head, nil
	}

	return head, tail, nil
}

// nextFaceAt picks the unvisited face of edge e with the smallest identifier.
func nextFaceAt(c *core.Complex, e core.ID, seen map[core.ID]struct{}) (core.ID, bool) {
	cob, err := c.CoboundaryOf(e)
	if err != nil {
		return core.NilID, false
	}
	for _, ref := range cob {
		if _, ok := seen[ref.Cell]; !ok {
			return ref.Cell, true
		}
	}

	return core.NilID, false
}

// otherEdgeAt returns the second edge of face f incident to v (the rotation
// successor of e around v within f).
func otherEdgeAt(c *core.Complex, f, v, e core.ID) (core.ID, bool) {
	refs, err := c.BoundaryOf(f)
	if err != nil {
		return core.NilID, false
	}
	for _, ref := range refs {
		if ref.Cell == e {
			continue
		}
		b, err := c.BoundaryOf(ref.Cell)
		if err != nil || len(b) != 2 {
			return core.NilID, false
		}
		if b[0].Cell == v || b[1].Cell == v {
			return ref.Cell, true
		}
	}

	return core.NilID, false
}

// starSet collects x and every cell reachable from x by repeated coboundary
// steps (the cofaces of x).
func starSet(c *core.Complex, x core.ID) map[core.ID]struct{} {
	out := map[core.ID]struct{}{x: {}}
	frontier := []core.ID{x}
	for len(frontier) > 0 {
		id := frontier[0]
		frontier = frontier[1:]
		cob, err := c.CoboundaryOf(id)
		if err != nil {
			continue
		}
		for _, ref := range cob {
			if _, ok := out[ref.Cell]; !ok {
				out[ref.Cell] = struct{}{}
				frontier = append(frontier, ref.Cell)
			}
		}
	}

	return out
}

// closureSet extends a cell set with every cell in its members' boundary
// closures.
func closureSet(c *core.Complex, set map[core.ID]struct{}) map[core.ID]struct{} {
	out := make(map[core.ID]struct{}, len(set))
	var frontier []core.ID
	for id := range set {
		out[id] = struct{}{}
		frontier = append(frontier, id)
	}
	for len(frontier) > 0 {
		id := frontier[0]
		frontier = frontier[1:]
		refs, err := c.BoundaryOf(id)
		if err != nil {
			continue
		}
		for _, ref := range refs {
			if _, ok := out[ref.Cell]; !ok {
				out[ref.Cell] = struct{}{}
				frontier = append(frontier, ref.Cell)
			}
		}
	}

	return out
}

// sortedByDim orders a cell set by (dimension, identifier).
func sortedByDim(set map[core.ID]struct{}) []core.ID {
	out := make([]core.ID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })

	return out
}
