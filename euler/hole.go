// File: hole.go
// Role: boundary-loop operators — CreateHole, CloseHole, DeleteFace. Only
// meaningful on complexes built with core.WithBoundaryLoops; a closed-manifold
// complex rejects all three.
package euler

import (
	"fmt"

	"github.com/topmod-org/topocore/core"
)

// CreateHole removes face f, leaving its edge cycle behind as a persistent
// boundary loop. Every edge of f must have a second face to survive on
// (ErrCellInUse otherwise — removing f would orphan it), and the complex must
// permit boundary loops (ErrDegenerateTopology). Returns the loop's edges in
// cycle order, rotated to the minimal-identifier corner.
//
// Ledger: loops +1, χ −1.
func CreateHole(c *core.Complex, f core.ID) (loop []core.ID, err error) {
	if c == nil {
		return nil, core.ErrNilComplex
	}

	err = c.Edit(func(tx *core.Tx) error {
		loop, err = punchOut(tx, f)

		return err
	})
	if err != nil {
		return nil, err
	}

	return loop, nil
}

// DeleteFace removes face f — the inverse of the CloseHole that could have
// created it. Identical surgery to CreateHole; only the returned shape
// differs.
func DeleteFace(c *core.Complex, f core.ID) error {
	if c == nil {
		return core.ErrNilComplex
	}

	return c.Edit(func(tx *core.Tx) error {
		_, err := punchOut(tx, f)

		return err
	})
}

// CloseHole caps a boundary loop with a new face. The edges must each carry
// exactly one face, chain into a single cycle, and agree on orientation: the
// cap traverses every edge opposite to its surviving face, so the usual
// pairing holds afterwards. Any other configuration fails with
// ErrIncompatibleBoundary and the complex is untouched.
//
// Ledger: loops −1, χ +1.
func CloseHole(c *core.Complex, edges []core.ID, opts ...Option) (capFace core.ID, err error) {
	if c == nil {
		return core.NilID, core.ErrNilComplex
	}
	cfg := newConfig(opts)

	err = c.Edit(func(tx *core.Tx) error {
		if len(edges) < 3 {
			return fmt.Errorf("euler: close hole: %d edges, need at least 3: %w", len(edges), ErrIncompatibleBoundary)
		}

		// 1. Vet the loop: every edge exactly one face, no repeats.
		inLoop := make(map[core.ID]core.Orientation, len(edges)) // edge → surviving face's flag
		for _, e := range edges {
			if e.Dim() != core.DimEdge {
				return fmt.Errorf("euler: close hole: %v: %w", e, core.ErrDimension)
			}
			if _, dup := inLoop[e]; dup {
				return fmt.Errorf("euler: close hole: edge %v repeated: %w", e, ErrIncompatibleBoundary)
			}
			cob, err := tx.Coboundary(e)
			if err != nil {
				return fmt.Errorf("euler: close hole: %v: %w", e, err)
			}
			if len(cob) != 1 {
				return fmt.Errorf("euler: close hole: edge %v has %d faces, need 1: %w",
					e, len(cob), ErrIncompatibleBoundary)
			}
			inLoop[e] = cob[0].Orient
		}

		// 2. Chain the loop from the first edge, each cap flag opposite the
		//    surviving face's.
		refs := make([]core.IncidenceRef, 0, len(edges))
		used := make(map[core.ID]struct{}, len(edges))
		e := edges[0]
		flag := inLoop[e].Reverse()
		first, at, err := edgeEnds(tx, core.IncidenceRef{Cell: e, Orient: flag})
		if err != nil {
			return fmt.Errorf("euler: close hole: %w", err)
		}
		for {
			refs = append(refs, core.IncidenceRef{Cell: e, Orient: flag})
			used[e] = struct{}{}
			if at == first {
				break
			}
			e, err = nextLoopEdge(tx, at, e, inLoop, used)
			if err != nil {
				return err
			}
			flag = inLoop[e].Reverse()
			from, to, err := edgeEnds(tx, core.IncidenceRef{Cell: e, Orient: flag})
			if err != nil {
				return fmt.Errorf("euler: close hole: %w", err)
			}
			if from != at {
				return fmt.Errorf("euler: close hole: edge %v enters %v against its free flag: %w",
					e, at, ErrIncompatibleBoundary)
			}
			at = to
		}
		if len(refs) != len(edges) {
			return fmt.Errorf("euler: close hole: %d of %d edges form the cycle: %w",
				len(refs), len(edges), ErrIncompatibleBoundary)
		}

		// 3. Cap it.
		if capFace, err = tx.NewCell(core.DimFace, cfg.payload); err != nil {
			return err
		}
		if err := tx.ReplaceBoundary(capFace, refs); err != nil {
			return err
		}
		tx.AddLoops(-1)

		return nil
	})
	if err != nil {
		return core.NilID, err
	}

	return capFace, nil
}

// punchOut is the shared surgery of CreateHole and DeleteFace.
func punchOut(tx *core.Tx, f core.ID) ([]core.ID, error) {
	if f.Dim() != core.DimFace {
		return nil, fmt.Errorf("euler: punch out %v: %w", f, core.ErrDimension)
	}
	if !tx.AllowsBoundary() {
		return nil, fmt.Errorf("euler: punch out %v: complex forbids boundary loops: %w", f, ErrDegenerateTopology)
	}
	cycle, err := faceCycle(tx, f)
	if err != nil {
		return nil, fmt.Errorf("euler: punch out %v: %w", f, err)
	}
	parents, err := tx.Coboundary(f)
	if err != nil {
		return nil, err
	}
	if len(parents) > 0 {
		return nil, fmt.Errorf("euler: punch out %v: bounds volume %v: %w", f, parents[0].Cell, ErrCellInUse)
	}
	for _, s := range cycle {
		cob, err := tx.Coboundary(s.ref.Cell)
		if err != nil {
			return nil, err
		}
		if len(cob) < 2 {
			return nil, fmt.Errorf("euler: punch out %v: would orphan edge %v: %w", f, s.ref.Cell, ErrCellInUse)
		}
	}

	// Report the loop rotated to its minimal corner, like orbit.FaceBoundary.
	start := 0
	for i := 1; i < len(cycle); i++ {
		if cycle[i].from.Less(cycle[start].from) {
			start = i
		}
	}
	loop := make([]core.ID, len(cycle))
	for i := range cycle {
		loop[i] = cycle[(start+i)%len(cycle)].ref.Cell
	}

	if err := tx.ClearBoundary(f); err != nil {
		return nil, err
	}
	if err := tx.ReleaseCell(f); err != nil {
		return nil, err
	}
	tx.AddLoops(1)

	return loop, nil
}

// nextLoopEdge finds the unused loop edge meeting vertex v, other than prev.
func nextLoopEdge(tx *core.Tx, v core.ID, prev core.ID, inLoop map[core.ID]core.Orientation, used map[core.ID]struct{}) (core.ID, error) {
	cob, err := tx.Coboundary(v)
	if err != nil {
		return core.NilID, err
	}
	for _, eref := range cob {
		if eref.Cell == prev {
			continue
		}
		if _, ok := inLoop[eref.Cell]; !ok {
			continue
		}
		if _, ok := used[eref.Cell]; ok {
			continue
		}

		return eref.Cell, nil
	}

	return core.NilID, fmt.Errorf("euler: close hole: no loop edge continues past %v: %w", v, ErrIncompatibleBoundary)
}
