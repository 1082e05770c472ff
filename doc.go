// Package topocore is an in-memory kernel for topological mesh modeling:
// cellular complexes (vertices, edges, faces, volumes) edited through
// manifold-preserving Euler operators.
//
// 🚀 What is topocore?
//
//	A library that brings together:
//		• Core primitives: a generation-guarded cell registry and an oriented
//		  incidence graph, mutated only through journaled edit transactions
//		• Orbit queries: vertex stars, edge rings, face boundaries, star/link
//		• Euler operators: split/merge, handle attachment, hole punch/close —
//		  each atomic, validated, and rolled back on failure
//		• Complex-level algorithms: centroid triangulation, Catmull–Clark
//		  style quadrangulation, Poincaré duality
//		• A construction layer that rebuilds manifolds from raw face lists
//
// ✨ Why choose topocore?
//
//   - Fail-fast guarantees – no operator ever leaves a complex half-edited
//   - Constant-time genus – Euler characteristic and handle count are tracked,
//     never recomputed by brute force
//   - Pure topology – geometric attributes are opaque payloads, never inspected
//   - Multiple complexes coexist – no process-wide state
//
// Everything is organized under flat subpackages:
//
//	core/    — Complex, cell registry, incidence graph, edit transactions
//	orbit/   — read-only traversal queries over a Complex
//	euler/   — atomic manifold-preserving operators
//	refine/  — subdivision schemes composed from euler operators
//	dual/    — Poincaré duality transforms
//	builder/ — DLFL-style construction of complexes from face lists
//
// Quick ASCII example:
//
//	      v1
//	     /  \
//	    /    \
//	  v2──────v3     a triangular face; three of them plus a base
//	                 close up into a tetrahedron (V−E+F = 2).
//
// Dive into the package docs for operator semantics and invariants.
package topocore
