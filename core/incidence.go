// File: incidence.go
// Role: read primitives over the oriented incidence graph, plus the unlocked
// link/unlink internals used by edit transactions.
//
// Invariant guarded here (bidirectional consistency): if parent P lists child
// C in its boundary with orientation o, then C lists P in its coboundary with
// the matching flag o. Two parents of the same child must carry opposite
// flags — that is the orientability condition on shared edges — and link()
// rejects the contradictory pairing outright rather than repairing it.
package core

import (
	"fmt"
	"sort"
)

// BoundaryOf returns the ordered boundary of the cell named by id: its
// oriented references to cells one dimension below. For an edge the order is
// (tail, head); for a face it is the edge cycle.
//
// The returned slice is a copy; callers may retain it.
//
// Returns ErrUnknownCell for stale or unallocated identifiers.
// Complexity: O(k) where k is the boundary size.
func (c *Complex) BoundaryOf(id ID) ([]IncidenceRef, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, err := c.resolve(id)
	if err != nil {
		return nil, err
	}

	out := make([]IncidenceRef, len(s.boundary))
	copy(out, s.boundary)

	return out, nil
}

// CoboundaryOf returns the cells one dimension above id that list it in their
// boundary, with the mirrored orientation flags, sorted by identifier for
// determinism.
//
// Returns ErrUnknownCell for stale or unallocated identifiers.
// Complexity: O(k log k) where k is the coboundary size.
func (c *Complex) CoboundaryOf(id ID) ([]IncidenceRef, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, err := c.resolve(id)
	if err != nil {
		return nil, err
	}

	out := make([]IncidenceRef, 0, len(s.cob))
	for parent, o := range s.cob {
		out = append(out, IncidenceRef{Cell: parent, Orient: o})
	}
	sortRefs(out)

	return out, nil
}

// sortRefs orders incidence references by identifier for deterministic output.
func sortRefs(refs []IncidenceRef) {
	sort.Slice(refs, func(i, j int) bool { return refs[i].Cell.Less(refs[j].Cell) })
}

// link establishes the boundary/coboundary pair parent→child atomically:
// the reference is appended to the parent's ordered boundary and mirrored in
// the child's coboundary, or neither side is touched.
//
// Callers must hold c.mu for writing. Rejections (all ErrInvariantViolation
// or ErrDimension wrapped with context):
//   - parent and child do not span adjacent dimensions;
//   - the pair is already linked (duplicate);
//   - on a surface complex, the child is an edge already carrying a parent
//     with the same flag o (two faces must induce opposite directions).
func (c *Complex) link(parent, child ID, o Orientation) error {
	if !o.Valid() {
		return fmt.Errorf("core: link(%v, %v): flag %v: %w", parent, child, o, ErrInvariantViolation)
	}
	if parent.dim != child.dim+1 {
		return fmt.Errorf("core: link(%v, %v): non-adjacent dimensions: %w", parent, child, ErrDimension)
	}

	ps, err := c.resolve(parent)
	if err != nil {
		return fmt.Errorf("core: link(%v, %v): parent: %w", parent, child, err)
	}
	cs, err := c.resolve(child)
	if err != nil {
		return fmt.Errorf("core: link(%v, %v): child: %w", parent, child, err)
	}

	if _, dup := cs.cob[parent]; dup {
		return fmt.Errorf("core: link(%v, %v): duplicate incidence: %w", parent, child, ErrInvariantViolation)
	}
	if child.dim == DimEdge && c.maxDim == DimFace {
		// Orientability on surfaces: the two faces of an edge traverse it in
		// opposite directions, so their stored flags must differ. Volume
		// complexes have many faces around an edge; no pairwise rule applies.
		for other, oo := range cs.cob {
			if oo == o {
				return fmt.Errorf("core: link(%v, %v): orientation %v conflicts with %v: %w",
					parent, child, o, other, ErrInvariantViolation)
			}
		}
	}

	ps.boundary = append(ps.boundary, IncidenceRef{Cell: child, Orient: o})
	if cs.cob == nil {
		cs.cob = make(map[ID]Orientation, 2)
	}
	cs.cob[parent] = o

	return nil
}

// unlink removes the boundary/coboundary pair parent→child, both sides or
// neither. The parent's boundary keeps its order for the remaining entries.
//
// Callers must hold c.mu for writing. Returns ErrInvariantViolation if the
// pair is not linked.
func (c *Complex) unlink(parent, child ID) (Orientation, error) {
	ps, err := c.resolve(parent)
	if err != nil {
		return 0, fmt.Errorf("core: unlink(%v, %v): parent: %w", parent, child, err)
	}
	cs, err := c.resolve(child)
	if err != nil {
		return 0, fmt.Errorf("core: unlink(%v, %v): child: %w", parent, child, err)
	}

	o, ok := cs.cob[parent]
	if !ok {
		return 0, fmt.Errorf("core: unlink(%v, %v): not linked: %w", parent, child, ErrInvariantViolation)
	}

	// Remove the last boundary entry naming the child (links are unique, so
	// there is exactly one).
	at := -1
	for i := len(ps.boundary) - 1; i >= 0; i-- {
		if ps.boundary[i].Cell == child {
			at = i
			break
		}
	}
	if at < 0 {
		return 0, fmt.Errorf("core: unlink(%v, %v): one-sided incidence: %w", parent, child, ErrInvariantViolation)
	}
	ps.boundary = append(ps.boundary[:at], ps.boundary[at+1:]...)
	delete(cs.cob, parent)

	return o, nil
}

// edgeEndpoints returns (tail, head) of an edge slot. The boundary of a valid
// edge is exactly [{tail, Minus}, {head, Plus}].
func (s *slot) edgeEndpoints() (tail, head ID, ok bool) {
	if len(s.boundary) != 2 {
		return NilID, NilID, false
	}
	a, b := s.boundary[0], s.boundary[1]
	if a.Orient != Minus || b.Orient != Plus {
		return NilID, NilID, false
	}

	return a.Cell, b.Cell, true
}
