// File: split.go
// Role: the two refinement operators — SplitEdge and SplitFace. Both preserve
// the Euler characteristic (+1 cell at two dimensions, or +1/+1/−1+2), the
// component count, and every orientation pairing.
package euler

import (
	"fmt"

	"github.com/topmod-org/topocore/core"
)

// SplitEdge subdivides edge e at a fresh midpoint vertex. The old edge keeps
// its identifier and becomes (tail, mid); a new edge (mid, head) is created;
// each incident face's cycle is rewritten so the two halves replace the
// original in traversal order. Returns the midpoint vertex and the new edge.
//
// χ is unchanged (+1 vertex, +1 edge). Incidence updates are O(1) per
// incident face.
func SplitEdge(c *core.Complex, e core.ID, opts ...Option) (mid, half core.ID, err error) {
	if c == nil {
		return core.NilID, core.NilID, core.ErrNilComplex
	}
	cfg := newConfig(opts)

	err = c.Edit(func(tx *core.Tx) error {
		if e.Dim() != core.DimEdge {
			return fmt.Errorf("euler: split edge %v: %w", e, core.ErrDimension)
		}
		b, err := tx.Boundary(e)
		if err != nil {
			return fmt.Errorf("euler: split edge %v: %w", e, err)
		}
		if len(b) != 2 {
			return fmt.Errorf("euler: split edge %v: malformed boundary: %w", e, core.ErrInvariantViolation)
		}
		tail, head := b[0].Cell, b[1].Cell
		faces, err := tx.Coboundary(e)
		if err != nil {
			return fmt.Errorf("euler: split edge %v: %w", e, err)
		}

		// 1. Allocate the midpoint and the second half.
		if mid, err = tx.NewCell(core.DimVertex, cfg.payload); err != nil {
			return err
		}
		if half, err = tx.NewCell(core.DimEdge, nil); err != nil {
			return err
		}

		// 2. Rewire: e = (tail, mid), half = (mid, head).
		if err := tx.ReplaceBoundary(e, []core.IncidenceRef{
			{Cell: tail, Orient: core.Minus},
			{Cell: mid, Orient: core.Plus},
		}); err != nil {
			return err
		}
		if err := tx.ReplaceBoundary(half, []core.IncidenceRef{
			{Cell: mid, Orient: core.Minus},
			{Cell: head, Orient: core.Plus},
		}); err != nil {
			return err
		}

		// 3. Substitute the pair for e in every incident face, preserving the
		//    traversal direction the face already used.
		for _, fref := range faces {
			refs, err := tx.Boundary(fref.Cell)
			if err != nil {
				return err
			}
			out := make([]core.IncidenceRef, 0, len(refs)+1)
			for _, ref := range refs {
				if ref.Cell != e {
					out = append(out, ref)
					continue
				}
				if ref.Orient == core.Plus { // tail→mid→head
					out = append(out,
						core.IncidenceRef{Cell: e, Orient: core.Plus},
						core.IncidenceRef{Cell: half, Orient: core.Plus})
				} else { // head→mid→tail
					out = append(out,
						core.IncidenceRef{Cell: half, Orient: core.Minus},
						core.IncidenceRef{Cell: e, Orient: core.Minus})
				}
			}
			if err := tx.ReplaceBoundary(fref.Cell, out); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return core.NilID, core.NilID, err
	}

	return mid, half, nil
}

// SplitFace inserts a chord edge between two non-adjacent corner vertices of
// face f, splitting it into two faces. The original face is destroyed; the
// two replacement cycles share only the chord, which the first traverses
// head→tail and the second tail→head. Returns the chord and the two faces
// (first: the arc leaving v1; second: the arc leaving v2).
//
// χ is unchanged (+1 edge, −1+2 faces). O(n) in the face's boundary length.
func SplitFace(c *core.Complex, f, v1, v2 core.ID, opts ...Option) (chord, fa, fb core.ID, err error) {
	if c == nil {
		return core.NilID, core.NilID, core.NilID, core.ErrNilComplex
	}
	cfg := newConfig(opts)

	err = c.Edit(func(tx *core.Tx) error {
		if f.Dim() != core.DimFace {
			return fmt.Errorf("euler: split face %v: %w", f, core.ErrDimension)
		}
		if v1.Dim() != core.DimVertex || v2.Dim() != core.DimVertex {
			return fmt.Errorf("euler: split face %v at (%v, %v): %w", f, v1, v2, core.ErrDimension)
		}
		cycle, err := faceCycle(tx, f)
		if err != nil {
			return fmt.Errorf("euler: split face %v: %w", f, err)
		}
		n := len(cycle)

		// 1. Locate and vet the split corners.
		if v1 == v2 {
			return fmt.Errorf("euler: split face %v: corners coincide at %v: %w", f, v1, ErrInvalidSplit)
		}
		i1, i2 := indexOfCorner(cycle, v1), indexOfCorner(cycle, v2)
		if i1 < 0 || i2 < 0 {
			return fmt.Errorf("euler: split face %v: (%v, %v) not both on its boundary: %w", f, v1, v2, ErrInvalidSplit)
		}
		if (i1+1)%n == i2 || (i2+1)%n == i1 {
			return fmt.Errorf("euler: split face %v: %v and %v already adjacent: %w", f, v1, v2, ErrInvalidSplit)
		}

		// 2. Chord runs v1→v2.
		if chord, err = tx.NewCell(core.DimEdge, cfg.payload); err != nil {
			return err
		}
		if fa, err = tx.NewCell(core.DimFace, nil); err != nil {
			return err
		}
		if fb, err = tx.NewCell(core.DimFace, nil); err != nil {
			return err
		}
		if err := tx.ReplaceBoundary(chord, []core.IncidenceRef{
			{Cell: v1, Orient: core.Minus},
			{Cell: v2, Orient: core.Plus},
		}); err != nil {
			return err
		}

		// 3. Detach the old face first so its edges' flag slots free up, then
		//    close each arc with the chord (fa returns v2→v1, fb v1→v2).
		if err := tx.ClearBoundary(f); err != nil {
			return err
		}
		refsA := append(arc(cycle, i1, i2), core.IncidenceRef{Cell: chord, Orient: core.Minus})
		refsB := append(arc(cycle, i2, i1), core.IncidenceRef{Cell: chord, Orient: core.Plus})
		if err := tx.ReplaceBoundary(fa, refsA); err != nil {
			return err
		}
		if err := tx.ReplaceBoundary(fb, refsB); err != nil {
			return err
		}

		// 4. Volumes above f (if any) now bound the two halves instead.
		if err := spliceParentBoundary(tx, f, fa, fb); err != nil {
			return err
		}

		return tx.ReleaseCell(f)
	})
	if err != nil {
		return core.NilID, core.NilID, core.NilID, err
	}

	return chord, fa, fb, nil
}
