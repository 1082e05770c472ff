// File: handle.go
// Role: CreateHandle — the genus-raising operator. Two equal-length faces are
// removed and their boundary cycles joined by a prism of rung edges and quad
// faces, dropping χ by exactly 2.
package euler

import (
	"fmt"

	"github.com/topmod-org/topocore/core"
)

// CreateHandle removes faces f1 and f2 and glues their boundary cycles with a
// tube: one rung edge per corner pair and one quad face per original edge
// pair. The cycles are paired anti-aligned, so every quad traverses its f1
// edge with f1's old flag and its f2 edge with f2's old flag, preserving
// orientability.
//
// Ledger: when the faces lie in one component the surgery adds a handle
// (genus +1); when they lie in different components it is a connected sum
// (components −1). Both cases: χ −2 (−2 faces, +n edges, +n faces… net −2).
//
// Preconditions: equal boundary length (ErrIncompatibleBoundary), disjoint
// boundaries (ErrDegenerateTopology), no volumes above either face
// (ErrCellInUse). Returns the quad faces in pairing order.
//
// Complexity: O(n) surgery plus one edge-graph reachability probe.
func CreateHandle(c *core.Complex, f1, f2 core.ID) (quads []core.ID, err error) {
	if c == nil {
		return nil, core.ErrNilComplex
	}

	err = c.Edit(func(tx *core.Tx) error {
		if f1.Dim() != core.DimFace || f2.Dim() != core.DimFace {
			return fmt.Errorf("euler: handle between %v and %v: %w", f1, f2, core.ErrDimension)
		}
		if f1 == f2 {
			return fmt.Errorf("euler: handle from %v to itself: %w", f1, ErrDegenerateTopology)
		}
		cycle1, err := faceCycle(tx, f1)
		if err != nil {
			return fmt.Errorf("euler: handle: %w", err)
		}
		cycle2, err := faceCycle(tx, f2)
		if err != nil {
			return fmt.Errorf("euler: handle: %w", err)
		}
		n := len(cycle1)
		if len(cycle2) != n {
			return fmt.Errorf("euler: handle between %v (%d edges) and %v (%d edges): %w",
				f1, n, f2, len(cycle2), ErrIncompatibleBoundary)
		}

		// 1. The cycles must be fully disjoint — a shared vertex or edge
		//    would pinch the tube.
		set1 := vertexSet(cycle1)
		for _, s := range cycle2 {
			if _, hit := set1[s.from]; hit {
				return fmt.Errorf("euler: handle between %v and %v: boundaries meet at %v: %w",
					f1, f2, s.from, ErrDegenerateTopology)
			}
		}
		edges2 := edgeSet(cycle2)
		for p1 := range edgeSet(cycle1) {
			if _, hit := edges2[p1]; hit {
				return fmt.Errorf("euler: handle between %v and %v: boundaries share edge %v: %w",
					f1, f2, p1, ErrDegenerateTopology)
			}
		}
		for _, f := range []core.ID{f1, f2} {
			parents, err := tx.Coboundary(f)
			if err != nil {
				return err
			}
			if len(parents) > 0 {
				return fmt.Errorf("euler: handle: %v bounds volume %v: %w", f, parents[0].Cell, ErrCellInUse)
			}
		}

		// 2. Probe connectivity before surgery: it decides the ledger entry.
		joined, err := connected(tx, cycle1[0].from, cycle2[0].from)
		if err != nil {
			return err
		}

		// 3. Anti-aligned corner pairing: a_i ↔ b_{(n−i) mod n}. Walking the
		//    tube this reverses f2's cycle, which is exactly what keeps every
		//    edge's two new faces on opposite flags.
		sigma := func(i int) int { return (n - i) % n }
		rungs := make([]core.ID, n)
		for i := 0; i < n; i++ {
			r, err := tx.NewCell(core.DimEdge, nil)
			if err != nil {
				return err
			}
			if err := tx.ReplaceBoundary(r, []core.IncidenceRef{
				{Cell: cycle1[i].from, Orient: core.Minus},
				{Cell: cycle2[sigma(i)].from, Orient: core.Plus},
			}); err != nil {
				return err
			}
			rungs[i] = r
		}

		// 4. Remove the two caps, freeing their edges' flag slots.
		if err := tx.ClearBoundary(f1); err != nil {
			return err
		}
		if err := tx.ClearBoundary(f2); err != nil {
			return err
		}
		if err := tx.ReleaseCell(f1); err != nil {
			return err
		}
		if err := tx.ReleaseCell(f2); err != nil {
			return err
		}

		// 5. One quad per edge pair:
		//    a_i → a_{i+1} → b_{σ(i)−1} → b_{σ(i)} → a_i.
		quads = make([]core.ID, n)
		for i := 0; i < n; i++ {
			q, err := tx.NewCell(core.DimFace, nil)
			if err != nil {
				return err
			}
			j := (sigma(i) + n - 1) % n // cycle2 step arriving at b_{σ(i)}
			if err := tx.ReplaceBoundary(q, []core.IncidenceRef{
				cycle1[i].ref,
				{Cell: rungs[(i+1)%n], Orient: core.Plus},
				cycle2[j].ref,
				{Cell: rungs[i], Orient: core.Minus},
			}); err != nil {
				return err
			}
			quads[i] = q
		}

		// 6. Ledger: χ drops by 2 either way; the split between genus and
		//    component count depends on prior connectivity.
		if joined {
			tx.AddHandles(1)
		} else {
			tx.AddComponents(-1)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return quads, nil
}

// connected reports whether two vertices lie in one component of the edge
// graph, by breadth-first search over coboundary/boundary hops.
func connected(tx *core.Tx, a, b core.ID) (bool, error) {
	if a == b {
		return true, nil
	}
	seen := map[core.ID]struct{}{a: {}}
	frontier := []core.ID{a}
	for len(frontier) > 0 {
		v := frontier[0]
		frontier = frontier[1:]
		cob, err := tx.Coboundary(v)
		if err != nil {
			return false, err
		}
		for _, eref := range cob {
			w, err := otherEndpoint(tx, eref.Cell, v)
			if err != nil {
				return false, err
			}
			if w == b {
				return true, nil
			}
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			frontier = append(frontier, w)
		}
	}

	return false, nil
}
