// Package builder constructs strict core complexes from loose face
// descriptions.
//
// The strict kernel cannot represent construction intermediates — a lone
// vertex, an open face, a dangling edge all fail validation. The builder
// therefore works on a permissive scratchpad Mesh first (faces as ordered
// vertex cycles, vertices as face rotations) and compiles it into a validated
// core.Complex at the end:
//
//	m := builder.NewMesh()
//	v1, f1 := m.PointSphere(nil)
//	v2, f2 := m.PointSphere(nil)
//	m.InsertEdge(v1, f1, v2, f2)
//	...
//	c, _, _, err := m.Compile()
//
// Key features:
//   - PointSphere / InsertEdge / DeleteEdge: corner-based construction
//     primitives. Inserting between two corners of one face splits it;
//     between corners of two faces merges them (point spheres absorb).
//   - FromFaces: builds a complex from indexed face lists by corner matching —
//     every vertex starts as a point sphere and edges are inserted where
//     corners agree, postponing the ambiguous ones until they resolve.
//   - Compile: derives the edge set, orientations, and the Euler ledger
//     (components, loops, genus) and loads everything through one validated
//     edit transaction.
//   - Triangle / Quad / Tetrahedron / Cube: ready-made closed surfaces.
//
// Scratchpad keys (VertexKey, FaceKey) are plain prefixed strings and are
// unrelated to the core identifiers of the compiled complex; Compile returns
// the key→ID maps for callers that need to carry references across.
//
// Errors:
//
//	ErrUnknownKey    – a key that does not name a scratchpad cell, or a
//	                   corner pair that does not occur.
//	ErrIncompleteMesh – Compile found a point sphere or a sub-triangle face.
//	ErrNonManifold   – the face set does not describe an orientable manifold
//	                   (edge direction repeated, more than two faces on an
//	                   edge, inconsistent Euler ledger, unresolvable corners).
package builder
