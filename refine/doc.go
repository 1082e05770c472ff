// Package refine implements whole-complex subdivision schemes composed purely
// from the euler operators: centroid triangulation and one Catmull–Clark
// style quadrangulation step.
//
// Key features:
//   - TriangulateFace(c, f): stellate one face — insert a center vertex and
//     fan it to every corner, yielding one triangle per original edge.
//   - Triangulate(c): stellate every non-triangle face; afterwards the
//     complex is a triangle mesh.
//   - Quadrangulate(c): the topological half of a Catmull–Clark step — split
//     every edge at an edge point, then split every original n-gon into n
//     quads around a face point.
//
// The package computes no geometry. Collaborators that need midpoint or
// centroid coordinates supply payload hooks (WithEdgePointPayload,
// WithFacePointPayload) which receive the original cell's view and return the
// payload for the vertex the scheme inserts.
//
// Schemes are compositions of independently-committed euler transactions:
// each underlying operator is atomic, adjacency is preserved throughout, and
// the Euler characteristic, genus, and component count are unchanged by both
// schemes. A precondition failure partway leaves a valid (partially refined)
// complex and returns the operator's error.
package refine
