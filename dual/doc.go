// Package dual implements the Poincaré duality transform: a fresh complex in
// which every k-cell of the input corresponds to an (n−k)-cell, with the
// boundary and coboundary roles of the incidence graph swapped.
//
// On a surface complex (n = 2): faces become vertices, edges become edges
// (spanning the two faces the original separated), vertices become faces
// (their cycle following the rotation of edges around the original vertex).
// On a volume complex (n = 3) the pattern shifts one dimension up: volumes
// become vertices, faces edges, edges faces, vertices volumes.
//
// The transform is defined only for closed complexes: no boundary loops, and
// every codimension-1 cell separating exactly two top cells. Degenerate duals
// (a valence-2 vertex would dualize to a two-sided face) are rejected up
// front with ErrNotDualizable. The input is read-only throughout; the result
// is built through the ordinary edit machinery and therefore arrives fully
// validated, with the Euler ledger carried over (duality preserves χ, genus,
// and components).
package dual
