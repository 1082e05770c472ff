// File: registry.go
// Role: cell arena management — allocation, release, generation-guarded lookup.
//
// Identifier policy:
//   - Slots live in per-dimension arenas; released slots go to a LIFO free list.
//   - A slot's generation is bumped on release, so identifiers held by callers
//     deterministically fail resolve() after the cell is destroyed, even once
//     the slot has been recycled.
//   - Live slot indices are additionally tracked in a roaring bitmap per
//     dimension, giving compact, ordered enumeration without scanning arenas.
package core

// resolve returns the slot named by id, or ErrUnknownCell if id was never
// allocated, has been destroyed, or belongs to a recycled slot.
// Callers must hold c.mu (either side).
func (c *Complex) resolve(id ID) (*slot, error) {
	if !id.dim.Valid() || id == NilID {
		return nil, ErrUnknownCell
	}
	arena := c.arenas[id.dim]
	if uint64(id.index) >= uint64(len(arena)) {
		return nil, ErrUnknownCell
	}
	s := &arena[id.index]
	if !s.live || s.gen != id.gen {
		return nil, ErrUnknownCell
	}

	return s, nil
}

// alloc creates a fresh cell slot of dimension d with empty incidence records
// and returns its identifier. fromFree reports whether a recycled slot was
// used; the edit journal needs it to undo the allocation exactly.
// Callers must hold c.mu for writing.
func (c *Complex) alloc(d Dimension, payload any) (id ID, fromFree bool) {
	var index uint32
	if n := len(c.free[d]); n > 0 {
		// Reuse the most recently released slot (LIFO keeps rollback exact).
		index = c.free[d][n-1]
		c.free[d] = c.free[d][:n-1]
		fromFree = true
	} else {
		index = uint32(len(c.arenas[d]))
		c.arenas[d] = append(c.arenas[d], slot{})
	}

	s := &c.arenas[d][index]
	if s.gen == 0 {
		s.gen = 1
	}
	s.live = true
	s.payload = payload
	s.boundary = nil
	s.cob = nil

	c.live[d].Add(index)

	return ID{dim: d, index: index, gen: s.gen}, fromFree
}

// release destroys the cell named by id and queues its slot for reuse.
// The caller is responsible for the dangling-reference check; release itself
// only flips the slot. Callers must hold c.mu for writing.
func (c *Complex) release(id ID) {
	s := &c.arenas[id.dim][id.index]
	s.live = false
	s.gen++ // stale identifiers now fail resolve deterministically
	s.payload = nil
	s.boundary = nil
	s.cob = nil

	c.live[id.dim].Remove(id.index)
	c.free[id.dim] = append(c.free[id.dim], id.index)
}

// unrelease reverses a release during rollback: the slot index is popped back
// off the free list and the recorded state restored.
// Callers must hold c.mu for writing.
func (c *Complex) unrelease(id ID, saved slot) {
	c.free[id.dim] = c.free[id.dim][:len(c.free[id.dim])-1]
	c.arenas[id.dim][id.index] = saved
	c.live[id.dim].Add(id.index)
}

// unalloc reverses an alloc during rollback.
// Callers must hold c.mu for writing.
func (c *Complex) unalloc(id ID, fromFree bool) {
	s := &c.arenas[id.dim][id.index]
	s.live = false
	s.payload = nil
	s.boundary = nil
	s.cob = nil

	c.live[id.dim].Remove(id.index)
	if fromFree {
		c.free[id.dim] = append(c.free[id.dim], id.index)
	} else {
		c.arenas[id.dim] = c.arenas[id.dim][:len(c.arenas[id.dim])-1]
	}
}

// Get returns a read-only view of the cell named by id.
//
// Returns:
//   - CellView: identifier, dimension, and the opaque payload.
//   - error: ErrUnknownCell if id was never allocated or has been destroyed.
//
// Complexity: O(1).
func (c *Complex) Get(id ID) (CellView, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, err := c.resolve(id)
	if err != nil {
		return CellView{}, err
	}

	return CellView{ID: id, Dim: id.dim, Payload: s.payload}, nil
}

// SetPayload replaces the opaque payload attached to a cell. The payload is
// owned by the embedding layer; the core stores and returns it unchanged.
//
// Returns ErrUnknownCell for stale or unallocated identifiers.
// Complexity: O(1).
func (c *Complex) SetPayload(id ID, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.resolve(id)
	if err != nil {
		return err
	}
	s.payload = payload

	return nil
}

// Cells returns the identifiers of all live cells of dimension d, ordered by
// slot index ascending. This is the stable enumeration surface used for
// deterministic output in algorithms and dumps.
//
// Complexity: O(n_d) where n_d is the number of live d-cells.
func (c *Complex) Cells(d Dimension) []ID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !d.Valid() {
		return nil
	}

	out := make([]ID, 0, c.live[d].GetCardinality())
	it := c.live[d].Iterator()
	for it.HasNext() {
		index := it.Next()
		out = append(out, ID{dim: d, index: index, gen: c.arenas[d][index].gen})
	}

	return out
}

// Count returns the number of live cells of dimension d.
// Complexity: O(1).
func (c *Complex) Count(d Dimension) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !d.Valid() {
		return 0
	}

	return int(c.live[d].GetCardinality())
}
