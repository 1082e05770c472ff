// Package orbit implements the read-only traversal queries over a
// core.Complex: face boundaries, vertex stars, edge rings, and the
// generalized star/link orbits used by subdivision and genus algorithms.
//
// Key features:
//   - FaceBoundary(c, f): the cyclic (vertex, edge) sequence bounding f,
//     rotated to start at the minimal-identifier vertex for determinism
//   - VertexStar(c, v): faces incident to v in radial cyclic order, walking
//     face-to-face through shared edges (one fan per boundary arm)
//   - EdgeRing(c, e): the (at most two) faces sharing e
//   - Star(c, x) / Link(c, x): generalized incidence orbits — the cofaces of
//     x, and the boundary of its star with the star removed
//
// All queries return Go 1.23 iterator sequences (iter.Seq / iter.Seq2):
// lazy, finite, and restartable — ranging over the same sequence twice
// replays the walk. Identifier validation happens up front, so the
// constructors return an error and the sequences themselves never fail.
//
// Traversals are pure reads and never mutate the complex. Each step costs
// time proportional to the local boundary sizes it inspects — there is no
// global scan. Queries may run concurrently with each other; the caller must
// not run them concurrently with a mutating operator (operators
// hold the complex's write lock, so a mid-operator state is never observable,
// but a sequence consumed across two committed states is the caller's error).
//
// Errors:
//
//	ErrNilComplex      – nil *core.Complex.
//	core.ErrUnknownCell – the seed identifier is stale or unknown.
//	core.ErrDimension   – the seed has the wrong dimension for the query.
package orbit
