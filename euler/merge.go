// File: merge.go
// Role: the coarsening operators — MergeFaces, DeleteEdge, DeleteVertex.
// Each is the exact inverse of a refinement step and preserves χ, the
// component count, and every orientation pairing.
package euler

import (
	"fmt"

	"github.com/topmod-org/topocore/core"
)

// MergeFaces dissolves the single edge shared by f1 and f2 and fuses their
// boundary cycles into one face. The operands must share exactly one edge
// (ErrNotAdjacent otherwise) and meet only along it — a shared vertex away
// from that edge would pinch the merged face (ErrDegenerateTopology).
//
// χ is unchanged (−1 edge, −2+1 faces). O(n1+n2).
func MergeFaces(c *core.Complex, f1, f2 core.ID, opts ...Option) (merged core.ID, err error) {
	if c == nil {
		return core.NilID, core.ErrNilComplex
	}
	cfg := newConfig(opts)

	err = c.Edit(func(tx *core.Tx) error {
		shared, err := sharedEdges(tx, f1, f2)
		if err != nil {
			return err
		}
		if len(shared) != 1 {
			return fmt.Errorf("euler: merge %v and %v: share %d edges, need exactly 1: %w",
				f1, f2, len(shared), ErrNotAdjacent)
		}

		merged, err = mergeAcross(tx, f1, f2, shared[0], cfg.payload)

		return err
	})
	if err != nil {
		return core.NilID, err
	}

	return merged, nil
}

// DeleteEdge removes edge e by merging its two incident faces — the inverse
// of the SplitFace that could have created it. Fails with ErrCellInUse when
// e lies on a boundary loop (one face) or when its faces share further edges,
// since either way no single merged face can absorb the removal.
func DeleteEdge(c *core.Complex, e core.ID, opts ...Option) (merged core.ID, err error) {
	if c == nil {
		return core.NilID, core.ErrNilComplex
	}
	cfg := newConfig(opts)

	err = c.Edit(func(tx *core.Tx) error {
		if e.Dim() != core.DimEdge {
			return fmt.Errorf("euler: delete edge %v: %w", e, core.ErrDimension)
		}
		faces, err := tx.Coboundary(e)
		if err != nil {
			return fmt.Errorf("euler: delete edge %v: %w", e, err)
		}
		if len(faces) != 2 {
			return fmt.Errorf("euler: delete edge %v: %d incident faces, need 2: %w",
				e, len(faces), ErrCellInUse)
		}
		f1, f2 := faces[0].Cell, faces[1].Cell

		shared, err := sharedEdges(tx, f1, f2)
		if err != nil {
			return err
		}
		if len(shared) != 1 {
			return fmt.Errorf("euler: delete edge %v: faces %v and %v share %d edges: %w",
				e, f1, f2, len(shared), ErrCellInUse)
		}

		merged, err = mergeAcross(tx, f1, f2, e, cfg.payload)

		return err
	})
	if err != nil {
		return core.NilID, err
	}

	return merged, nil
}

// DeleteVertex removes a valence-2 vertex by fusing its two incident edges —
// the inverse of SplitEdge. The lower-identifier edge survives, rewired to
// span the two outer endpoints; every face through v has its cycle shortened
// by one step. Fails with ErrCellInUse for any other valence, and with
// ErrDegenerateTopology when fusing would close a self-loop or shrink a face
// below 3 edges.
func DeleteVertex(c *core.Complex, v core.ID) (fused core.ID, err error) {
	if c == nil {
		return core.NilID, core.ErrNilComplex
	}

	err = c.Edit(func(tx *core.Tx) error {
		if v.Dim() != core.DimVertex {
			return fmt.Errorf("euler: delete vertex %v: %w", v, core.ErrDimension)
		}
		cob, err := tx.Coboundary(v)
		if err != nil {
			return fmt.Errorf("euler: delete vertex %v: %w", v, err)
		}
		if len(cob) != 2 {
			return fmt.Errorf("euler: delete vertex %v: valence %d, need 2: %w", v, len(cob), ErrCellInUse)
		}
		keep, drop := cob[0].Cell, cob[1].Cell

		x, err := otherEndpoint(tx, keep, v)
		if err != nil {
			return err
		}
		y, err := otherEndpoint(tx, drop, v)
		if err != nil {
			return err
		}
		if x == y {
			return fmt.Errorf("euler: delete vertex %v: fusing %v and %v would close a self-loop: %w",
				v, keep, drop, ErrDegenerateTopology)
		}

		// 1. Every face through v must use both edges consecutively; shrink
		//    each cycle by one step, recording the rewrites before detaching.
		keepFaces, err := tx.Coboundary(keep)
		if err != nil {
			return err
		}
		dropFaces, err := tx.Coboundary(drop)
		if err != nil {
			return err
		}
		if !sameCells(keepFaces, dropFaces) {
			return fmt.Errorf("euler: delete vertex %v: incident edges disagree on faces: %w",
				v, core.ErrInvariantViolation)
		}

		rewrites := make(map[core.ID][]core.IncidenceRef, len(keepFaces))
		for _, fref := range keepFaces {
			refs, err := shrinkCycle(tx, fref.Cell, keep, drop, x)
			if err != nil {
				return err
			}
			rewrites[fref.Cell] = refs
		}

		// 2. Detach the faces, rewire the surviving edge to (x, y), drop the
		//    fused-out edge and the vertex, then reattach the shortened cycles.
		for _, fref := range keepFaces {
			if err := tx.ClearBoundary(fref.Cell); err != nil {
				return err
			}
		}
		if err := tx.ReplaceBoundary(keep, []core.IncidenceRef{
			{Cell: x, Orient: core.Minus},
			{Cell: y, Orient: core.Plus},
		}); err != nil {
			return err
		}
		if err := tx.ClearBoundary(drop); err != nil {
			return err
		}
		if err := tx.ReleaseCell(drop); err != nil {
			return err
		}
		if err := tx.ReleaseCell(v); err != nil {
			return err
		}
		for _, fref := range keepFaces {
			if err := tx.ReplaceBoundary(fref.Cell, rewrites[fref.Cell]); err != nil {
				return err
			}
		}

		fused = keep

		return nil
	})
	if err != nil {
		return core.NilID, err
	}

	return fused, nil
}

// --- internals ---------------------------------------------------------------

// sharedEdges lists the edges incident to both faces, in f1's cycle order.
func sharedEdges(tx *core.Tx, f1, f2 core.ID) ([]core.ID, error) {
	if f1.Dim() != core.DimFace || f2.Dim() != core.DimFace {
		return nil, fmt.Errorf("euler: merge %v and %v: %w", f1, f2, core.ErrDimension)
	}
	if f1 == f2 {
		return nil, fmt.Errorf("euler: merge %v with itself: %w", f1, ErrNotAdjacent)
	}
	refs, err := tx.Boundary(f1)
	if err != nil {
		return nil, fmt.Errorf("euler: merge %v and %v: %w", f1, f2, err)
	}
	if _, err := tx.View(f2); err != nil {
		return nil, fmt.Errorf("euler: merge %v and %v: %w", f1, f2, err)
	}

	var shared []core.ID
	for _, ref := range refs {
		cob, err := tx.Coboundary(ref.Cell)
		if err != nil {
			return nil, err
		}
		for _, p := range cob {
			if p.Cell == f2 {
				shared = append(shared, ref.Cell)
				break
			}
		}
	}

	return shared, nil
}

// mergeAcross fuses f1 and f2 across their single shared edge e. Callers have
// verified that e is the only shared edge.
func mergeAcross(tx *core.Tx, f1, f2, e core.ID, payload any) (core.ID, error) {
	cycle1, err := faceCycle(tx, f1)
	if err != nil {
		return core.NilID, err
	}
	cycle2, err := faceCycle(tx, f2)
	if err != nil {
		return core.NilID, err
	}
	j1, j2 := indexOfEdge(cycle1, e), indexOfEdge(cycle2, e)
	if j1 < 0 || j2 < 0 {
		return core.NilID, fmt.Errorf("euler: merge across %v: not on both faces: %w", e, core.ErrInvariantViolation)
	}
	a, b := cycle1[j1].from, cycle1[j1].to

	// A vertex shared away from e would pinch the merged cycle.
	set1 := vertexSet(cycle1)
	for _, s := range cycle2 {
		if s.from == a || s.from == b {
			continue
		}
		if _, hit := set1[s.from]; hit {
			return core.NilID, fmt.Errorf("euler: merge %v and %v: pinched at shared vertex %v: %w",
				f1, f2, s.from, ErrDegenerateTopology)
		}
	}
	// The junction vertices must keep valence ≥ 2 after e dissolves.
	for _, vtx := range []core.ID{a, b} {
		cob, err := tx.Coboundary(vtx)
		if err != nil {
			return core.NilID, err
		}
		if len(cob) < 3 {
			return core.NilID, fmt.Errorf("euler: merge %v and %v: vertex %v would drop below valence 2: %w",
				f1, f2, vtx, ErrDegenerateTopology)
		}
	}

	// Glue the two open arcs: f1's walk b→…→a, then f2's walk a→…→b.
	n1, n2 := len(cycle1), len(cycle2)
	refs := append(arc(cycle1, (j1+1)%n1, j1), arc(cycle2, (j2+1)%n2, j2)...)

	if err := tx.ClearBoundary(f1); err != nil {
		return core.NilID, err
	}
	if err := tx.ClearBoundary(f2); err != nil {
		return core.NilID, err
	}
	g, err := tx.NewCell(core.DimFace, payload)
	if err != nil {
		return core.NilID, err
	}
	if err := tx.ReplaceBoundary(g, refs); err != nil {
		return core.NilID, err
	}

	// Volumes above either operand now bound the merged face once.
	if err := spliceParentBoundary(tx, f1, g); err != nil {
		return core.NilID, err
	}
	if err := mergeParentEntry(tx, f2, g); err != nil {
		return core.NilID, err
	}

	if err := tx.ClearBoundary(e); err != nil {
		return core.NilID, err
	}
	if err := tx.ReleaseCell(e); err != nil {
		return core.NilID, err
	}
	if err := tx.ReleaseCell(f1); err != nil {
		return core.NilID, err
	}

	return g, tx.ReleaseCell(f2)
}

// mergeParentEntry rewires volumes above old to reference g, dropping the
// entry instead when the volume already bounds g (both merge operands under
// one volume).
func mergeParentEntry(tx *core.Tx, old, g core.ID) error {
	parents, err := tx.Coboundary(old)
	if err != nil {
		return err
	}
	for _, p := range parents {
		refs, err := tx.Boundary(p.Cell)
		if err != nil {
			return err
		}
		hasG := false
		for _, ref := range refs {
			if ref.Cell == g {
				hasG = true
				break
			}
		}
		out := make([]core.IncidenceRef, 0, len(refs))
		for _, ref := range refs {
			switch {
			case ref.Cell != old:
				out = append(out, ref)
			case !hasG:
				out = append(out, core.IncidenceRef{Cell: g, Orient: ref.Orient})
			}
		}
		if err := tx.ReplaceBoundary(p.Cell, out); err != nil {
			return err
		}
	}

	return nil
}

// otherEndpoint returns the endpoint of e that is not v.
func otherEndpoint(tx *core.Tx, e, v core.ID) (core.ID, error) {
	b, err := tx.Boundary(e)
	if err != nil {
		return core.NilID, err
	}
	if len(b) != 2 {
		return core.NilID, fmt.Errorf("edge %v: malformed boundary: %w", e, core.ErrInvariantViolation)
	}
	if b[0].Cell == v {
		return b[1].Cell, nil
	}

	return b[0].Cell, nil
}

// sameCells reports whether two sorted coboundary lists name the same cells.
func sameCells(a, b []core.IncidenceRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Cell != b[i].Cell {
			return false
		}
	}

	return true
}

// shrinkCycle computes face f's boundary with the consecutive (keep, drop)
// pair collapsed to a single reference to keep, oriented x→y when the pair
// entered through x. The pair direction is read before any rewiring.
func shrinkCycle(tx *core.Tx, f, keep, drop, x core.ID) ([]core.IncidenceRef, error) {
	cycle, err := faceCycle(tx, f)
	if err != nil {
		return nil, err
	}
	n := len(cycle)
	if n < 4 {
		return nil, fmt.Errorf("euler: face %v would drop below 3 edges: %w", f, ErrDegenerateTopology)
	}

	pair := map[core.ID]struct{}{keep: {}, drop: {}}
	at := -1
	for k, s := range cycle {
		_, first := pair[s.ref.Cell]
		_, second := pair[cycle[(k+1)%n].ref.Cell]
		if first && second && s.ref.Cell != cycle[(k+1)%n].ref.Cell {
			at = k
			break
		}
	}
	if at < 0 {
		return nil, fmt.Errorf("euler: face %v does not traverse the fused pair consecutively: %w",
			f, core.ErrInvariantViolation)
	}

	flag := core.Plus // pair entered at x: traversal x→y matches keep = (x, y)
	if cycle[at].from != x {
		flag = core.Minus
	}

	out := make([]core.IncidenceRef, 0, n-1)
	for k := 0; k < n; k++ {
		idx := (at + 2 + k) % n // start just past the pair
		if idx == at {
			out = append(out, core.IncidenceRef{Cell: keep, Orient: flag})
			break
		}
		out = append(out, cycle[idx].ref)
	}

	return out, nil
}
