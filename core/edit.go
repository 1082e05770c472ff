// File: edit.go
// Role: edit transactions — the only mutation path into a Complex.
//
// Atomicity model:
//   - Edit acquires the write lock for the whole edit-plus-validate sequence,
//     so no orbit query ever observes a half-applied operator.
//   - Every primitive (alloc, release, link, unlink, boundary replacement,
//     ledger adjustment) appends an inverse record to the journal.
//   - If the callback errors, or the touched region fails validation, the
//     journal is replayed in reverse and the complex is structurally exactly
//     as before; only then is the error surfaced.
//
// The Tx primitives are the Euler-operator layer's toolkit. They are exported
// because Go has no friend packages; code outside an operator implementation
// should not call them directly.
package core

import "fmt"

// journalOp discriminates journal entries.
type journalOp uint8

const (
	jAlloc journalOp = iota
	jRelease
	jLink
	jUnlink
	jReplace
	jLedger
)

// ledgerCounter names a tracked ledger field in journal entries.
type ledgerCounter uint8

// Ledger counters adjustable from a transaction.
const (
	ctrHandles ledgerCounter = iota
	ctrLoops
	ctrComponents
)

// journalEntry records one applied primitive together with the data needed
// to reverse it exactly.
type journalEntry struct {
	op       journalOp
	id       ID // alloc/release/replace target; link/unlink parent
	child    ID
	orient   Orientation    // link/unlink flag
	at       int            // unlink: boundary position of the removed entry
	fromFree bool           // alloc: slot came off the free list
	saved    slot           // release: full slot state
	savedRef []IncidenceRef // replace: previous boundary
	counter  ledgerCounter  // ledger ops
	delta    int            // ledger ops
}

// Tx is an in-flight edit transaction. It is valid only inside the callback
// passed to Complex.Edit and must not be retained.
type Tx struct {
	c       *Complex
	journal []journalEntry
	touched map[ID]struct{}
}

// Edit runs fn inside an exclusive edit transaction. If fn returns an error,
// or the cells touched by the transaction fail invariant validation, every
// applied primitive is rolled back and the error is returned; otherwise the
// edits are committed as one atomic state transition.
//
// At most one transaction is in flight per Complex; Edit blocks concurrent
// writers and readers for its whole duration (single-writer semantics).
//
// Complexity: O(edits) plus validation proportional to the touched region.
func (c *Complex) Edit(fn func(tx *Tx) error) error {
	if c == nil {
		return ErrNilComplex
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tx := &Tx{c: c, touched: make(map[ID]struct{}, 8)}

	// 1. Apply the caller's primitive edits.
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}

	// 2. Validate the touched region before committing.
	if err := tx.validateTouched(); err != nil {
		tx.rollback()
		return err
	}

	return nil
}

// rollback replays the journal in reverse, restoring the pre-transaction
// state exactly (LIFO free lists make alloc/release inverses positional).
func (tx *Tx) rollback() {
	for i := len(tx.journal) - 1; i >= 0; i-- {
		e := &tx.journal[i]
		switch e.op {
		case jAlloc:
			tx.c.unalloc(e.id, e.fromFree)
		case jRelease:
			tx.c.unrelease(e.id, e.saved)
		case jLink:
			_, _ = tx.c.unlink(e.id, e.child)
		case jUnlink:
			tx.c.relinkAt(e.id, e.child, e.orient, e.at)
		case jReplace:
			tx.c.restoreBoundary(e.id, e.savedRef)
		case jLedger:
			tx.c.adjustLedger(e.counter, -e.delta)
		}
	}
	tx.journal = nil
}

// mark records a cell as touched for post-edit validation.
func (tx *Tx) mark(ids ...ID) {
	for _, id := range ids {
		tx.touched[id] = struct{}{}
	}
}

// NewCell allocates a fresh cell of dimension d with empty incidence records
// and the given opaque payload. Fails with ErrDimension if d exceeds the
// complex's top dimension.
func (tx *Tx) NewCell(d Dimension, payload any) (ID, error) {
	if !d.Valid() || d > tx.c.maxDim {
		return NilID, fmt.Errorf("core: new cell: %v exceeds top dimension %v: %w", d, tx.c.maxDim, ErrDimension)
	}

	id, fromFree := tx.c.alloc(d, payload)
	tx.journal = append(tx.journal, journalEntry{op: jAlloc, id: id, fromFree: fromFree})
	tx.mark(id)

	return id, nil
}

// ReleaseCell destroys the cell named by id and reclaims its identifier for
// future reuse. Fails with ErrDanglingReference while any incidence record
// (boundary or coboundary) still references the cell: callers unlink first.
func (tx *Tx) ReleaseCell(id ID) error {
	s, err := tx.c.resolve(id)
	if err != nil {
		return fmt.Errorf("core: release %v: %w", id, err)
	}
	if len(s.boundary) > 0 || len(s.cob) > 0 {
		return fmt.Errorf("core: release %v: %d boundary / %d coboundary records remain: %w",
			id, len(s.boundary), len(s.cob), ErrDanglingReference)
	}

	tx.journal = append(tx.journal, journalEntry{op: jRelease, id: id, saved: *s})
	tx.c.release(id)
	tx.mark(id)

	return nil
}

// Link establishes the oriented boundary/coboundary pair parent→child, both
// sides atomically. The reference is appended at the end of the parent's
// ordered boundary. See Complex link rules for the rejection cases.
func (tx *Tx) Link(parent, child ID, o Orientation) error {
	if err := tx.c.link(parent, child, o); err != nil {
		return err
	}
	tx.journal = append(tx.journal, journalEntry{op: jLink, id: parent, child: child, orient: o})
	tx.mark(parent, child)

	return nil
}

// Unlink removes the boundary/coboundary pair parent→child, both sides
// atomically. Fails with ErrInvariantViolation if the pair is not linked.
func (tx *Tx) Unlink(parent, child ID) error {
	// Record the boundary position for exact reinsertion on rollback.
	ps, err := tx.c.resolve(parent)
	if err != nil {
		return fmt.Errorf("core: unlink(%v, %v): parent: %w", parent, child, err)
	}
	at := -1
	for i, ref := range ps.boundary {
		if ref.Cell == child {
			at = i
			break
		}
	}

	o, err := tx.c.unlink(parent, child)
	if err != nil {
		return err
	}
	tx.journal = append(tx.journal, journalEntry{op: jUnlink, id: parent, child: child, orient: o, at: at})
	tx.mark(parent, child)

	return nil
}

// ReplaceBoundary swaps the parent's whole ordered boundary for refs in one
// primitive: the old mirrors are removed and the new ones installed, or the
// call fails with nothing changed. Operators use it for cycle surgery where
// entry order matters (face splits, edge subdivision).
//
// Rejections mirror Link: duplicate children, invalid flags, non-adjacent
// dimensions, or an orientation conflict on a shared edge.
func (tx *Tx) ReplaceBoundary(parent ID, refs []IncidenceRef) error {
	ps, err := tx.c.resolve(parent)
	if err != nil {
		return fmt.Errorf("core: replace boundary of %v: %w", parent, err)
	}

	// 1. Validate the new reference list against a world where the parent's
	//    old links are already gone.
	seen := make(map[ID]struct{}, len(refs))
	for _, ref := range refs {
		if !ref.Orient.Valid() {
			return fmt.Errorf("core: replace boundary of %v: flag %v: %w", parent, ref.Orient, ErrInvariantViolation)
		}
		if ref.Cell.dim+1 != parent.dim {
			return fmt.Errorf("core: replace boundary of %v: child %v: %w", parent, ref.Cell, ErrDimension)
		}
		cs, err := tx.c.resolve(ref.Cell)
		if err != nil {
			return fmt.Errorf("core: replace boundary of %v: child %v: %w", parent, ref.Cell, err)
		}
		if _, dup := seen[ref.Cell]; dup {
			return fmt.Errorf("core: replace boundary of %v: child %v repeated: %w", parent, ref.Cell, ErrInvariantViolation)
		}
		seen[ref.Cell] = struct{}{}
		if ref.Cell.dim == DimEdge && tx.c.maxDim == DimFace {
			for other, oo := range cs.cob {
				if other != parent && oo == ref.Orient {
					return fmt.Errorf("core: replace boundary of %v: orientation %v on %v conflicts with %v: %w",
						parent, ref.Orient, ref.Cell, other, ErrInvariantViolation)
				}
			}
		}
	}

	// 2. Journal the old boundary, then swap.
	old := make([]IncidenceRef, len(ps.boundary))
	copy(old, ps.boundary)
	tx.journal = append(tx.journal, journalEntry{op: jReplace, id: parent, savedRef: old})

	tx.c.restoreBoundary(parent, refs)

	tx.mark(parent)
	for _, ref := range old {
		tx.mark(ref.Cell)
	}
	for _, ref := range refs {
		tx.mark(ref.Cell)
	}

	return nil
}

// ClearBoundary removes every boundary reference of the parent (a
// ReplaceBoundary with an empty list), the usual prelude to ReleaseCell.
func (tx *Tx) ClearBoundary(parent ID) error {
	return tx.ReplaceBoundary(parent, nil)
}

// AddHandles adjusts the tracked handle (genus) counter.
func (tx *Tx) AddHandles(delta int) { tx.adjust(ctrHandles, delta) }

// AddLoops adjusts the tracked open-boundary-loop counter.
func (tx *Tx) AddLoops(delta int) { tx.adjust(ctrLoops, delta) }

// AddComponents adjusts the tracked connected-component counter.
func (tx *Tx) AddComponents(delta int) { tx.adjust(ctrComponents, delta) }

func (tx *Tx) adjust(counter ledgerCounter, delta int) {
	if delta == 0 {
		return
	}
	tx.c.adjustLedger(counter, delta)
	tx.journal = append(tx.journal, journalEntry{op: jLedger, counter: counter, delta: delta})
}

// Boundary returns a copy of the ordered boundary of id, readable while the
// transaction holds the write lock.
func (tx *Tx) Boundary(id ID) ([]IncidenceRef, error) {
	s, err := tx.c.resolve(id)
	if err != nil {
		return nil, err
	}
	out := make([]IncidenceRef, len(s.boundary))
	copy(out, s.boundary)

	return out, nil
}

// Coboundary returns the coboundary of id sorted by identifier, readable
// while the transaction holds the write lock.
func (tx *Tx) Coboundary(id ID) ([]IncidenceRef, error) {
	s, err := tx.c.resolve(id)
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

// View returns a read-only view of one cell inside the transaction.
func (tx *Tx) View(id ID) (CellView, error) {
	s, err := tx.c.resolve(id)
	if err != nil {
		return CellView{}, err
	}

	return CellView{ID: id, Dim: id.dim, Payload: s.payload}, nil
}

// MaxDim returns the complex's top cell dimension.
func (tx *Tx) MaxDim() Dimension { return tx.c.maxDim }

// AllowsBoundary reports whether boundary loops may persist after commit.
func (tx *Tx) AllowsBoundary() bool { return tx.c.allowBoundary }

// --- unlocked internals shared with rollback ---------------------------------

// relinkAt reinserts a previously unlinked pair at its original boundary
// position. Used only by rollback; by construction it cannot conflict.
func (c *Complex) relinkAt(parent, child ID, o Orientation, at int) {
	ps := &c.arenas[parent.dim][parent.index]
	cs := &c.arenas[child.dim][child.index]

	if at < 0 || at > len(ps.boundary) {
		at = len(ps.boundary)
	}
	ps.boundary = append(ps.boundary, IncidenceRef{})
	copy(ps.boundary[at+1:], ps.boundary[at:])
	ps.boundary[at] = IncidenceRef{Cell: child, Orient: o}

	if cs.cob == nil {
		cs.cob = make(map[ID]Orientation, 2)
	}
	cs.cob[parent] = o
}

// restoreBoundary installs refs as the parent's boundary, rewriting the
// children's mirrors accordingly. Callers must hold c.mu for writing and have
// validated refs.
func (c *Complex) restoreBoundary(parent ID, refs []IncidenceRef) {
	ps := &c.arenas[parent.dim][parent.index]

	for _, ref := range ps.boundary {
		delete(c.arenas[ref.Cell.dim][ref.Cell.index].cob, parent)
	}

	ps.boundary = make([]IncidenceRef, len(refs))
	copy(ps.boundary, refs)

	for _, ref := range refs {
		cs := &c.arenas[ref.Cell.dim][ref.Cell.index]
		if cs.cob == nil {
			cs.cob = make(map[ID]Orientation, 2)
		}
		cs.cob[parent] = ref.Orient
	}
}

// adjustLedger applies a delta to one tracked counter.
func (c *Complex) adjustLedger(counter ledgerCounter, delta int) {
	switch counter {
	case ctrHandles:
		c.handles += delta
	case ctrLoops:
		c.loops += delta
	case ctrComponents:
		c.components += delta
	}
}
