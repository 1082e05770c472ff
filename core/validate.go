// File: validate.go
// Role: the invariant checker — per-cell structural checks, vertex rotation
// (umbrella) checks, and the full-graph consistency pass used by tests and
// bulk loads.
//
// Checked invariants:
//  1. Bidirectional consistency: boundary entries and coboundary mirrors
//     agree in both directions and carry matching flags.
//  2. Closed boundaries: an edge has exactly (tail, head); a face boundary is
//     one closed edge cycle with no repeats; no self-loop edges.
//  3. Radial consistency: the faces and edges around each vertex form a
//     single umbrella (one fan when a boundary passes through the vertex).
//  4. Euler–Poincaré ledger: χ == 2·components − 2·handles − loops, with the
//     component and loop counts recomputed independently.
//  5. No dangling identifiers: every reference resolves to a live cell.
//
// Operators validate only the region they touched (O(boundary) per edit);
// Validate walks the whole complex and is meant for tests and load time.
package core

import "fmt"

// violation builds an ErrInvariantViolation with context.
func violation(format string, args ...any) error {
	return fmt.Errorf("core: "+format+": %w", append(args, ErrInvariantViolation)...)
}

// Validate runs the full-graph consistency check: every invariant on every
// live cell, plus an independent recomputation of the component and
// boundary-loop counts cross-checked against the tracked ledger.
//
// Complexity: O(cells + incidences) — not for production hot paths.
func (c *Complex) Validate() error {
	if c == nil {
		return ErrNilComplex
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	// 1. Per-cell structural checks, all dimensions.
	for d := DimVertex; d <= c.maxDim; d++ {
		it := c.live[d].Iterator()
		for it.HasNext() {
			index := it.Next()
			id := ID{dim: d, index: index, gen: c.arenas[d][index].gen}
			if err := c.checkCell(id); err != nil {
				return err
			}
		}
	}

	// 2. Vertex rotation checks (surface complexes only; the volumetric
	//    variant has radial orders around edges that this kernel does not
	//    police beyond the structural checks above).
	if c.maxDim == DimFace {
		it := c.live[DimVertex].Iterator()
		for it.HasNext() {
			index := it.Next()
			v := ID{dim: DimVertex, index: index, gen: c.arenas[DimVertex][index].gen}
			if err := c.checkVertexRotation(v); err != nil {
				return err
			}
		}
	}

	// 3. Euler–Poincaré ledger cross-check.
	if c.maxDim == DimFace {
		if err := c.checkLedger(); err != nil {
			return err
		}
	}

	return nil
}

// validateTouched checks the invariants on the region a transaction edited:
// each touched cell that is still live, plus rotation checks on touched
// vertices. Cost proportional to the touched boundary sizes.
func (tx *Tx) validateTouched() error {
	for id := range tx.touched {
		if _, err := tx.c.resolve(id); err != nil {
			continue // released during the transaction; nothing to check
		}
		if err := tx.c.checkCell(id); err != nil {
			return err
		}
		if id.dim == DimVertex && tx.c.maxDim == DimFace {
			if err := tx.c.checkVertexRotation(id); err != nil {
				return err
			}
		}
	}

	return nil
}

// checkCell runs the per-cell structural checks (invariants 1, 2, 5 plus the
// orientability flag condition). Callers must hold c.mu.
func (c *Complex) checkCell(id ID) error {
	s := &c.arenas[id.dim][id.index]

	// Mirror consistency, child dimensions, and child liveness.
	for _, ref := range s.boundary {
		cs, err := c.resolve(ref.Cell)
		if err != nil {
			return violation("cell %v: boundary names destroyed cell %v", id, ref.Cell)
		}
		if ref.Cell.dim+1 != id.dim {
			return violation("cell %v: boundary names %v of non-adjacent dimension", id, ref.Cell)
		}
		if o, ok := cs.cob[id]; !ok || o != ref.Orient {
			return violation("cell %v: incidence to %v is not mirrored", id, ref.Cell)
		}
	}
	for parent, o := range s.cob {
		ps, err := c.resolve(parent)
		if err != nil {
			return violation("cell %v: coboundary names destroyed cell %v", id, parent)
		}
		found := false
		for _, ref := range ps.boundary {
			if ref.Cell == id && ref.Orient == o {
				found = true
				break
			}
		}
		if !found {
			return violation("cell %v: coboundary entry for %v is not mirrored", id, parent)
		}
	}

	switch id.dim {
	case DimVertex:
		return c.checkVertex(id, s)
	case DimEdge:
		return c.checkEdge(id, s)
	case DimFace:
		return c.checkFace(id, s)
	case DimVolume:
		return c.checkVolume(id, s)
	}

	return nil
}

func (c *Complex) checkVertex(id ID, s *slot) error {
	if len(s.boundary) != 0 {
		return violation("vertex %v: non-empty boundary", id)
	}
	if len(s.cob) < 2 {
		return violation("vertex %v: fewer than two incident edges", id)
	}

	return nil
}

func (c *Complex) checkEdge(id ID, s *slot) error {
	tail, head, ok := s.edgeEndpoints()
	if !ok {
		return violation("edge %v: boundary is not (tail, head)", id)
	}
	if tail == head {
		return violation("edge %v: self-loop on vertex %v", id, tail)
	}

	if c.maxDim == DimFace {
		switch n := len(s.cob); {
		case n == 0:
			return violation("edge %v: no incident face", id)
		case n == 1 && !c.allowBoundary:
			return violation("edge %v: single incident face on a closed complex", id)
		case n > 2:
			return violation("edge %v: %d incident faces (non-manifold)", id, n)
		case n == 2:
			// The link primitive enforces opposite flags; re-verify here so
			// the full checker stands on its own.
			var flags [2]Orientation
			i := 0
			for _, o := range s.cob {
				flags[i] = o
				i++
			}
			if flags[0] == flags[1] {
				return violation("edge %v: both faces traverse it in the same direction", id)
			}
		}
	}

	return nil
}

func (c *Complex) checkFace(id ID, s *slot) error {
	n := len(s.boundary)
	if n < 3 {
		return violation("face %v: %d boundary edges (minimum 3)", id, n)
	}

	// One closed cycle: the oriented head of each edge is the oriented tail
	// of the next, cyclically.
	for i, ref := range s.boundary {
		next := s.boundary[(i+1)%n]
		_, headV, err := c.orientedEndpoints(ref)
		if err != nil {
			return err
		}
		tailN, _, err := c.orientedEndpoints(next)
		if err != nil {
			return err
		}
		if headV != tailN {
			return violation("face %v: boundary breaks between %v and %v", id, ref.Cell, next.Cell)
		}
	}

	if c.maxDim == DimFace && len(s.cob) != 0 {
		return violation("face %v: coboundary on a surface complex", id)
	}
	if len(s.cob) > 2 {
		return violation("face %v: %d incident volumes", id, len(s.cob))
	}

	return nil
}

func (c *Complex) checkVolume(id ID, s *slot) error {
	if len(s.boundary) < 4 {
		return violation("volume %v: %d boundary faces (minimum 4)", id, len(s.boundary))
	}
	if len(s.cob) != 0 {
		return violation("volume %v: unexpected coboundary", id)
	}

	return nil
}

// orientedEndpoints resolves a face-boundary reference to the (from, to)
// vertices it traverses: (tail, head) under Plus, (head, tail) under Minus.
func (c *Complex) orientedEndpoints(ref IncidenceRef) (from, to ID, err error) {
	es, err := c.resolve(ref.Cell)
	if err != nil {
		return NilID, NilID, violation("edge %v: destroyed mid-cycle", ref.Cell)
	}
	tail, head, ok := es.edgeEndpoints()
	if !ok {
		return NilID, NilID, violation("edge %v: boundary is not (tail, head)", ref.Cell)
	}
	if ref.Orient == Plus {
		return tail, head, nil
	}

	return head, tail, nil
}

// checkVertexRotation verifies invariant 3 for one vertex of a surface
// complex: walking face-to-face around the vertex visits every incident edge
// and face exactly once — a single closed umbrella, or a single open fan when
// a boundary loop passes through the vertex.
//
// Complexity: O(deg(v) · avg face size).
func (c *Complex) checkVertexRotation(v ID) error {
	s := &c.arenas[v.dim][v.index]

	// Incident edges and faces.
	edges := make(map[ID]struct{}, len(s.cob))
	faces := make(map[ID]struct{}, len(s.cob))
	for e := range s.cob {
		edges[e] = struct{}{}
		es, err := c.resolve(e)
		if err != nil {
			return violation("vertex %v: incident edge %v destroyed", v, e)
		}
		for f := range es.cob {
			faces[f] = struct{}{}
		}
	}
	if len(edges) == 0 {
		return violation("vertex %v: isolated", v)
	}

	// Each incident face must use exactly two of the vertex's edges
	// (a face visiting a vertex twice is a pinch point).
	for f := range faces {
		if n := len(c.edgesAtVertex(f, v, edges)); n != 2 {
			return violation("vertex %v: face %v meets it with %d edges", v, f, n)
		}
	}

	// Umbrella walk. Start from the minimal incident edge; advance through
	// faces, pairing each edge with the face's other edge at v. On a closed
	// umbrella the walk wraps; with a boundary it stops at boundary edges in
	// both directions.
	start := minKey(edges)
	visitedE := map[ID]struct{}{start: {}}
	visitedF := make(map[ID]struct{}, len(faces))

	for pass := 0; pass < 2; pass++ {
		e := start
		var prevFace ID
		for {
			next, face, ok := c.nextAroundVertex(v, e, prevFace, edges, visitedF)
			if !ok {
				break // boundary edge (or exhausted faces): end of this fan arm
			}
			visitedF[face] = struct{}{}
			if next == start {
				break // wrapped: umbrella closed
			}
			visitedE[next] = struct{}{}
			e = next
			prevFace = face
		}
	}

	if len(visitedE) != len(edges) || len(visitedF) != len(faces) {
		return violation("vertex %v: rotation splits into multiple fans (%d/%d edges, %d/%d faces)",
			v, len(visitedE), len(edges), len(visitedF), len(faces))
	}

	return nil
}

// edgesAtVertex lists the boundary edges of face f incident to v, restricted
// to the known incident-edge set.
func (c *Complex) edgesAtVertex(f, v ID, edges map[ID]struct{}) []ID {
	fs := &c.arenas[f.dim][f.index]
	var out []ID
	for _, ref := range fs.boundary {
		if _, ok := edges[ref.Cell]; ok {
			out = append(out, ref.Cell)
		}
	}

	return out
}

// nextAroundVertex advances the umbrella walk: given edge e at vertex v and
// the face just crossed, pick an unvisited face of e and return the face's
// other edge at v. ok is false when no unvisited face remains (boundary).
func (c *Complex) nextAroundVertex(v, e, prevFace ID, edges map[ID]struct{}, visitedF map[ID]struct{}) (next, face ID, ok bool) {
	es := &c.arenas[e.dim][e.index]
	for f := range es.cob {
		if f == prevFace {
			continue
		}
		if _, seen := visitedF[f]; seen {
			continue
		}
		pair := c.edgesAtVertex(f, v, edges)
		if len(pair) != 2 {
			return NilID, NilID, false
		}
		other := pair[0]
		if other == e {
			other = pair[1]
		}

		return other, f, true
	}

	return NilID, NilID, false
}

// minKey returns the minimal identifier in a set.
func minKey(set map[ID]struct{}) ID {
	var best ID
	first := true
	for id := range set {
		if first || id.Less(best) {
			best = id
			first = false
		}
	}

	return best
}

// checkLedger recomputes components and boundary loops from scratch and
// verifies invariant 4 against the tracked counters.
func (c *Complex) checkLedger() error {
	// Union-find over vertices, joined by edges.
	parent := make(map[ID]ID)
	var find func(ID) ID
	find = func(x ID) ID {
		for parent[x] != x {
			parent[x] = parent[parent[x]] // path halving
			x = parent[x]
		}
		return x
	}

	itV := c.live[DimVertex].Iterator()
	for itV.HasNext() {
		index := itV.Next()
		v := ID{dim: DimVertex, index: index, gen: c.arenas[DimVertex][index].gen}
		parent[v] = v
	}

	itE := c.live[DimEdge].Iterator()
	boundaryEdges := make(map[ID]struct{})
	for itE.HasNext() {
		index := itE.Next()
		e := ID{dim: DimEdge, index: index, gen: c.arenas[DimEdge][index].gen}
		es := &c.arenas[DimEdge][index]
		tail, head, ok := es.edgeEndpoints()
		if !ok {
			return violation("edge %v: boundary is not (tail, head)", e)
		}
		rt, rh := find(tail), find(head)
		if rt != rh {
			parent[rt] = rh
		}
		if len(es.cob) == 1 {
			boundaryEdges[e] = struct{}{}
		}
	}

	components := 0
	for v := range parent {
		if find(v) == v {
			components++
		}
	}
	if components != c.components {
		return violation("ledger: %d components tracked, %d found", c.components, components)
	}

	// Boundary edges chain into loops through shared vertices; count them.
	loops := 0
	for len(boundaryEdges) > 0 {
		e := minKey(boundaryEdges)
		delete(boundaryEdges, e)
		loops++

		es := &c.arenas[DimEdge][e.index]
		_, cursor, _ := es.edgeEndpoints()
		for {
			advanced := false
			for cand := range boundaryEdges {
				cs := &c.arenas[DimEdge][cand.index]
				tail, head, _ := cs.edgeEndpoints()
				if tail == cursor || head == cursor {
					if tail == cursor {
						cursor = head
					} else {
						cursor = tail
					}
					delete(boundaryEdges, cand)
					advanced = true
					break
				}
			}
			if !advanced {
				break
			}
		}
	}
	if loops != c.loops {
		return violation("ledger: %d boundary loops tracked, %d found", c.loops, loops)
	}

	if chi := c.chi(); chi != 2*components-2*c.handles-loops {
		return violation("ledger: χ=%d but 2c−2g−b=%d", chi, 2*components-2*c.handles-loops)
	}

	return nil
}
