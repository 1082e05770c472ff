// Package core provides the cell registry, the oriented incidence graph, and
// the Complex aggregate — the substrate every other topocore package operates
// on.
//
// The Complex stores cells of dimensions 0..3 (vertex, edge, face, volume) in
// per-dimension arenas. Cells reference each other only through generation-
// guarded identifiers (core.ID), never raw pointers, so there are no
// reference cycles to collect and stale handles fail deterministically:
//
//   - Bidirectional incidence — every boundary entry is mirrored in the
//     child's coboundary with a matching orientation flag; the pair is
//     written or removed atomically, never one-sided.
//   - Orientation flags — edges store (tail −, head +); faces store their
//     edge cycle with +/− meaning tail→head / head→tail traversal. Two faces
//     sharing an edge must traverse it in opposite directions, which the link
//     primitive enforces at O(1) cost.
//   - Generation guard — destroyed identifiers keep failing Get/resolve even
//     after their slot is recycled.
//   - Roaring bitmaps — live slot indices per dimension, for compact ordered
//     enumeration (Cells, Snapshot, Validate) without arena scans.
//
// Mutation model:
//
//	All topology edits flow through Complex.Edit, which runs a callback
//	against a Tx handle under the complex's write lock. Tx exposes the
//	primitive edits (NewCell, ReleaseCell, Link, Unlink, ReplaceBoundary)
//	and journals an inverse for each; if the callback errors or the touched
//	region fails validation, the journal is replayed backwards and the
//	complex is structurally untouched. Euler operators (package euler) are
//	thin compositions over this machinery — they are the intended callers.
//
// Euler ledger:
//
//	The complex tracks its Euler characteristic implicitly (live cell
//	counts), plus handle, boundary-loop, and component counters maintained
//	by the operators. Genus() is therefore O(1): g = (2c − χ − b)/2. The
//	full checker recomputes components and loops independently and
//	cross-checks the relation.
//
// Concurrency:
//
//	One sync.RWMutex per Complex. Read queries (Get, BoundaryOf,
//	CoboundaryOf, Cells, Snapshot, Validate) take the read side and may run
//	concurrently; Edit holds the write side for its whole atomic
//	edit-plus-validate sequence. The complex is single-writer by design —
//	callers needing parallel edits partition into separate Complex values.
//
// Errors:
//
//	ErrUnknownCell        – stale, destroyed, or never-allocated identifier.
//	ErrDanglingReference  – release attempted while incidences remain.
//	ErrInvariantViolation – an edit or check found the graph inconsistent.
//	ErrDimension          – cell of the wrong dimension for the operation.
//	ErrNilComplex         – nil *Complex.
package core
