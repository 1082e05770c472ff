// Package euler implements the atomic manifold-preserving operators over a
// core.Complex — the only trusted topology-editing primitives in topocore.
//
// Operator set:
//   - SplitEdge(c, e): subdivide an edge at a new vertex; the (at most two)
//     adjacent face cycles are rewritten in place. O(1) incidence updates.
//   - SplitFace(c, f, v1, v2): insert a chord between two non-adjacent
//     boundary vertices of f, splitting it into two faces.
//   - MergeFaces(c, f1, f2): the inverse — dissolve the single shared edge
//     and fuse the two cycles into one face.
//   - CreateHandle(c, f1, f2): remove two equal-length faces and join their
//     boundary cycles with a tube of quads. Same component: genus +1;
//     different components: a connected sum (component count −1). Either
//     way χ drops by exactly 2.
//   - CreateHole(c, f) / CloseHole(c, edges): punch out a face interior,
//     leaving its edge cycle as a persistent boundary loop, and the inverse.
//     Requires a complex built WithBoundaryLoops.
//   - DeleteVertex / DeleteEdge / DeleteFace: inverses of the creation steps
//     (edge-merge at a valence-2 vertex, face-merge across an edge, face
//     removal to a boundary loop).
//
// Every operator runs inside one core.Complex.Edit transaction: it reads the
// incidence graph, applies its link/unlink edits, and the touched region is
// validated before commit. On any precondition or validation failure the
// journal is rolled back — callers never observe a partially-edited complex.
//
// Errors (all satisfy errors.Is(err, ErrTopology)):
//
//	ErrInvalidSplit          – split endpoints not on the face, equal, or
//	                           already edge-adjacent along its boundary.
//	ErrNotAdjacent           – merge operands do not share exactly one edge.
//	ErrIncompatibleBoundary  – handle faces differ in boundary length, or a
//	                           hole closure is not one coherent cycle.
//	ErrDegenerateTopology    – the edit would produce a face with fewer than
//	                           3 edges, a self-loop edge, a pinched vertex,
//	                           or boundary loops are not enabled.
//	ErrCellInUse             – removal would orphan a higher-dimensional
//	                           cell with no alternative boundary path.
//
// Registry and incidence misuse surface as the core sentinels
// (core.ErrUnknownCell, core.ErrDimension, core.ErrInvariantViolation).
package euler
