// File: mesh.go
// Role: the permissive construction scratchpad — faces as ordered vertex
// cycles, vertices as face-rotation sets — with the corner-based insert and
// delete primitives.
//
// The scratchpad tolerates states the strict kernel rejects (point spheres,
// sub-triangle faces, open edges); Compile is the bridge that turns a
// finished scratchpad into a validated core.Complex.
package builder

import (
	"fmt"
	"sort"
)

// Mesh is the construction scratchpad. Not safe for concurrent use; build it
// in one goroutine and Compile.
type Mesh struct {
	faceVerts   map[FaceKey][]VertexKey
	vertexFaces map[VertexKey]map[FaceKey]struct{}
	payloads    map[VertexKey]any

	nextVertex int
	nextFace   int
}

// NewMesh creates an empty scratchpad.
func NewMesh() *Mesh {
	return &Mesh{
		faceVerts:   make(map[FaceKey][]VertexKey),
		vertexFaces: make(map[VertexKey]map[FaceKey]struct{}),
		payloads:    make(map[VertexKey]any),
	}
}

// PointSphere creates the minimal object: one vertex, one face whose cycle is
// just that vertex. Every construction starts from point spheres; InsertEdge
// grows them together.
func (m *Mesh) PointSphere(payload any) (VertexKey, FaceKey) {
	m.nextVertex++
	m.nextFace++
	v := VertexKey(fmt.Sprintf("v%d", m.nextVertex))
	f := FaceKey(fmt.Sprintf("f%d", m.nextFace))

	m.faceVerts[f] = []VertexKey{v}
	m.vertexFaces[v] = map[FaceKey]struct{}{f: {}}
	m.payloads[v] = payload

	return v, f
}

// Faces lists the scratchpad's face keys in sorted order.
func (m *Mesh) Faces() []FaceKey {
	out := make([]FaceKey, 0, len(m.faceVerts))
	for f := range m.faceVerts {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// FaceCycle returns a copy of the ordered vertex cycle of a face.
func (m *Mesh) FaceCycle(f FaceKey) ([]VertexKey, error) {
	cycle, ok := m.faceVerts[f]
	if !ok {
		return nil, fmt.Errorf("builder: face %s: %w", f, ErrUnknownKey)
	}
	out := make([]VertexKey, len(cycle))
	copy(out, cycle)

	return out, nil
}

// FaceTrace returns the half-edges of a face boundary in cycle order.
func (m *Mesh) FaceTrace(f FaceKey) ([]HalfEdge, error) {
	cycle, ok := m.faceVerts[f]
	if !ok {
		return nil, fmt.Errorf("builder: face %s: %w", f, ErrUnknownKey)
	}
	out := make([]HalfEdge, 0, len(cycle))
	for _, p := range pairs(cycle) {
		out = append(out, HalfEdge{From: p[0], To: p[1], Face: f})
	}

	return out, nil
}

// VertexTrace returns the half-edges of the rotation around v: alternating
// outgoing and incoming legs, hopping face to face through the shared edge.
// A point sphere traces to its single degenerate (v, v) leg.
func (m *Mesh) VertexTrace(v VertexKey) ([]HalfEdge, error) {
	faces, ok := m.vertexFaces[v]
	if !ok {
		return nil, fmt.Errorf("builder: vertex %s: %w", v, ErrUnknownKey)
	}

	first := minFaceKey(faces)
	to, _ := nextItem(m.faceVerts[first], v)
	firstHE := HalfEdge{From: v, To: to, Face: first}
	out := []HalfEdge{firstHE}

	he, err := m.oppositeHalfEdge(firstHE)
	if err != nil {
		return nil, err
	}
	for he != firstHE {
		out = append(out, he)
		if he.To == v {
			// Leg arrives at v: continue within the same face.
			next, _ := nextItem(m.faceVerts[he.Face], v)
			he = HalfEdge{From: v, To: next, Face: he.Face}
		} else {
			// Leg leaves v: hop to the face holding the opposite direction.
			if he, err = m.oppositeHalfEdge(he); err != nil {
				return nil, err
			}
		}
		if len(out) > 2*len(m.faceVerts)*maxCycle(m.faceVerts) {
			return nil, fmt.Errorf("builder: rotation of %s does not close: %w", v, ErrNonManifold)
		}
	}

	return out, nil
}

// InsertEdge inserts an edge between corner (f1, v1) and corner (f2, v2).
// Cofacial insertion (f1 == f2) splits the face in two; non-cofacial
// insertion merges the two faces (point spheres are absorbed). Returns the
// resulting face keys — distinct for a split, identical for a merge.
func (m *Mesh) InsertEdge(v1 VertexKey, f1 FaceKey, v2 VertexKey, f2 FaceKey) (FaceKey, FaceKey, error) {
	if err := m.checkCorner(f1, v1); err != nil {
		return "", "", err
	}
	if err := m.checkCorner(f2, v2); err != nil {
		return "", "", err
	}
	if f1 == f2 {
		return m.insertCofacial(v1, v2, f1)
	}

	return m.insertAcross(v1, f1, v2, f2)
}

// DeleteEdge removes the edge between corner (f1, v1) and corner (f2, v2) —
// the scratchpad inverse of InsertEdge. Cofacial deletion splits the face;
// non-cofacial deletion merges the two faces across the edge.
func (m *Mesh) DeleteEdge(v1 VertexKey, f1 FaceKey, v2 VertexKey, f2 FaceKey) (FaceKey, FaceKey, error) {
	if err := m.checkCorner(f1, v1); err != nil {
		return "", "", err
	}
	if err := m.checkCorner(f2, v2); err != nil {
		return "", "", err
	}
	if f1 == f2 {
		return m.deleteCofacial(v1, v2, f1)
	}

	return m.deleteAcross(v1, f1, v2, f2)
}

// --- internals ---------------------------------------------------------------

// insertCofacial splits a face along a new (v1, v2) edge.
func (m *Mesh) insertCofacial(v1, v2 VertexKey, old FaceKey) (FaceKey, FaceKey, error) {
	// Circulate the cycle to end at v2, cut after v1, and close each part
	// with the opposite endpoint.
	head, tail := splitAtItem(circulatedToItem(m.faceVerts[old], v2), v1)

	nf1 := m.newFace(append(append([]VertexKey{}, head...), v2))
	nf2 := m.newFace(append(append([]VertexKey{}, tail...), v1))
	m.adoptFace(nf1, old)
	m.adoptFace(nf2, old)
	m.dropFace(old)

	return nf1, nf2, nil
}

// insertAcross merges two faces along a new (v1, v2) edge.
func (m *Mesh) insertAcross(v1 VertexKey, old1 FaceKey, v2 VertexKey, old2 FaceKey) (FaceKey, FaceKey, error) {
	cycle1 := m.faceVerts[old1]
	cycle2 := m.faceVerts[old2]

	// old1 circulated to end at v1, old2 circulated to end just before v2,
	// then the joint corners — skipped for point spheres, whose single
	// vertex is already in place.
	prev2, _ := prevItem(cycle2, v2)
	joined := append([]VertexKey{}, circulatedToItem(cycle1, v1)...)
	joined = append(joined, circulatedToItem(cycle2, prev2)...)
	if len(cycle2) > 1 {
		joined = append(joined, v2)
	}
	if len(cycle1) > 1 {
		joined = append(joined, v1)
	}

	nf := m.newFace(joined)
	m.adoptFace(nf, old1, old2)
	m.dropFace(old1)
	m.dropFace(old2)

	return nf, nf, nil
}

// deleteCofacial splits a face by removing its (v1, v2) edge, which the face
// traverses in both directions.
func (m *Mesh) deleteCofacial(v1, v2 VertexKey, old FaceKey) (FaceKey, FaceKey, error) {
	cycle := m.faceVerts[old]
	n := len(cycle)
	p := indexOfPair(cycle, v1, v2)
	q := indexOfPair(cycle, v2, v1)
	if p < 0 || q < 0 {
		return "", "", fmt.Errorf("builder: face %s does not traverse %s↔%s twice: %w", old, v1, v2, ErrUnknownKey)
	}

	// Each side runs from just past one crossing to the far vertex of the
	// return crossing, keeping a single copy of its junction vertex. The two
	// crossings may overlap on a 2-cycle or a spur, collapsing a side to a
	// bare point sphere.
	side2 := []VertexKey{v2}
	if (p+1)%n != q {
		side2 = cyclicArc(cycle, (p+2)%n, q)
	}
	side1 := []VertexKey{v1}
	if (q+1)%n != p {
		side1 = cyclicArc(cycle, (q+2)%n, p)
	}

	nf1 := m.newFace(side2)
	nf2 := m.newFace(side1)
	m.adoptFace(nf1, old)
	m.adoptFace(nf2, old)
	m.dropFace(old)

	return nf1, nf2, nil
}

// deleteAcross merges the two faces sharing the (v1, v2) edge.
func (m *Mesh) deleteAcross(v1 VertexKey, old1 FaceKey, v2 VertexKey, old2 FaceKey) (FaceKey, FaceKey, error) {
	part1 := circulatedToItem(m.faceVerts[old1], v1)
	part2 := circulatedToItem(m.faceVerts[old2], v2)
	joined := append([]VertexKey{}, part1[:len(part1)-1]...)
	joined = append(joined, part2[:len(part2)-1]...)

	nf := m.newFace(joined)
	m.adoptFace(nf, old1, old2)
	m.dropFace(old1)
	m.dropFace(old2)

	return nf, nf, nil
}

func (m *Mesh) checkCorner(f FaceKey, v VertexKey) error {
	cycle, ok := m.faceVerts[f]
	if !ok {
		return fmt.Errorf("builder: face %s: %w", f, ErrUnknownKey)
	}
	if indexOf(cycle, v) < 0 {
		return fmt.Errorf("builder: no corner (%s, %s): %w", f, v, ErrUnknownKey)
	}

	return nil
}

func (m *Mesh) newFace(cycle []VertexKey) FaceKey {
	m.nextFace++
	f := FaceKey(fmt.Sprintf("f%d", m.nextFace))
	m.faceVerts[f] = cycle

	return f
}

// adoptFace points the rotations of the new face's vertices at it, dropping
// the faces it replaces.
func (m *Mesh) adoptFace(f FaceKey, replaced ...FaceKey) {
	for _, v := range m.faceVerts[f] {
		for _, old := range replaced {
			delete(m.vertexFaces[v], old)
		}
		m.vertexFaces[v][f] = struct{}{}
	}
}

func (m *Mesh) dropFace(f FaceKey) {
	delete(m.faceVerts, f)
}

// oppositeHalfEdge finds the half-edge running (To, From) and the face
// carrying it.
func (m *Mesh) oppositeHalfEdge(he HalfEdge) (HalfEdge, error) {
	for f := range m.vertexFaces[he.To] {
		if indexOfPair(m.faceVerts[f], he.To, he.From) >= 0 {
			return HalfEdge{From: he.To, To: he.From, Face: f}, nil
		}
	}

	return HalfEdge{}, fmt.Errorf("builder: no opposite for %v: %w", he, ErrNonManifold)
}

func minFaceKey(set map[FaceKey]struct{}) FaceKey {
	var best FaceKey
	first := true
	for f := range set {
		if first || f < best {
			best = f
			first = false
		}
	}

	return best
}

func maxCycle(faces map[FaceKey][]VertexKey) int {
	n := 1
	for _, cycle := range faces {
		if len(cycle) > n {
			n = len(cycle)
		}
	}

	return n
}
