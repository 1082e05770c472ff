package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topmod-org/topocore/builder"
	"github.com/topmod-org/topocore/core"
)

func census(t *testing.T, c *core.Complex, v, e, f, chi int) {
	t.Helper()
	assert.Equal(t, v, c.Count(core.DimVertex), "vertices")
	assert.Equal(t, e, c.Count(core.DimEdge), "edges")
	assert.Equal(t, f, c.Count(core.DimFace), "faces")
	assert.Equal(t, chi, c.Chi(), "Euler characteristic")
	require.NoError(t, c.Validate())
}

func TestPrimitives(t *testing.T) {
	cases := []struct {
		name    string
		build   func() (*core.Complex, error)
		v, e, f int
	}{
		{"triangle", builder.Triangle, 3, 3, 2},
		{"quad", builder.Quad, 4, 4, 2},
		{"tetrahedron", builder.Tetrahedron, 4, 6, 4},
		{"cube", builder.Cube, 8, 12, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := tc.build()
			require.NoError(t, err)
			census(t, c, tc.v, tc.e, tc.f, 2)

			g, err := c.Genus()
			require.NoError(t, err)
			assert.Equal(t, 0, g)
			assert.Equal(t, 1, c.Components())
			assert.Equal(t, 0, c.BoundaryLoops())
		})
	}
}

func TestFromFacesTetrahedron(t *testing.T) {
	c, ids, err := builder.FromFaces([][]int{
		{0, 1, 2},
		{0, 2, 3},
		{0, 3, 1},
		{1, 3, 2},
	}, nil)
	require.NoError(t, err)
	census(t, c, 4, 6, 4, 2)

	require.Len(t, ids, 4)
	for i, id := range ids {
		view, err := c.Get(id)
		require.NoError(t, err, "vertex %d", i)
		assert.Equal(t, core.DimVertex, view.Dim)

		// Every tetrahedron corner has valence 3.
		cob, err := c.CoboundaryOf(id)
		require.NoError(t, err)
		assert.Len(t, cob, 3)
	}
}

func TestFromFacesSingleTriangleClosesToPillow(t *testing.T) {
	// One input face still stitches to a closed surface: the back face
	// emerges from the construction itself.
	c, _, err := builder.FromFaces([][]int{{0, 1, 2}}, nil)
	require.NoError(t, err)
	census(t, c, 3, 3, 2, 2)
}

func TestFromFacesCarriesPayloads(t *testing.T) {
	c, ids, err := builder.FromFaces([][]int{
		{0, 1, 2},
		{2, 1, 0},
	}, []any{"a", "b", "c"})
	require.NoError(t, err)

	for i, want := range []any{"a", "b", "c"} {
		view, err := c.Get(ids[i])
		require.NoError(t, err)
		assert.Equal(t, want, view.Payload)
	}
}

func TestFromFacesTwoComponents(t *testing.T) {
	c, _, err := builder.FromFaces([][]int{
		{0, 1, 2}, {0, 2, 3}, {0, 3, 1}, {1, 3, 2},
		{4, 5, 6}, {4, 6, 7}, {4, 7, 5}, {5, 7, 6},
	}, nil)
	require.NoError(t, err)
	census(t, c, 8, 12, 8, 4)
	assert.Equal(t, 2, c.Components())

	g, err := c.Genus()
	require.NoError(t, err)
	assert.Equal(t, 0, g)
}

func TestFromFacesRejectsBadInput(t *testing.T) {
	_, _, err := builder.FromFaces(nil, nil)
	assert.ErrorIs(t, err, builder.ErrIncompleteMesh, "no faces")

	_, _, err = builder.FromFaces([][]int{{0, 1}}, nil)
	assert.ErrorIs(t, err, builder.ErrIncompleteMesh, "short face")

	_, _, err = builder.FromFaces([][]int{{0, -1, 2}}, nil)
	assert.ErrorIs(t, err, builder.ErrUnknownKey, "negative index")
}

func TestPointSphereScratchpad(t *testing.T) {
	m := builder.NewMesh()
	v, f := m.PointSphere("origin")

	cycle, err := m.FaceCycle(f)
	require.NoError(t, err)
	assert.Equal(t, []builder.VertexKey{v}, cycle)

	// A point sphere's rotation is its single degenerate leg.
	rot, err := m.VertexTrace(v)
	require.NoError(t, err)
	require.Len(t, rot, 1)
	assert.Equal(t, v, rot[0].From)
	assert.Equal(t, v, rot[0].To)
	assert.Equal(t, f, rot[0].Face)
}

func TestCompileRejectsPointSphere(t *testing.T) {
	m := builder.NewMesh()
	m.PointSphere(nil)

	_, _, _, err := m.Compile()
	assert.ErrorIs(t, err, builder.ErrIncompleteMesh)
}

func TestInsertEdgeByHand(t *testing.T) {
	// The classic bottom-up construction: three point spheres grown into the
	// two-sided triangle by three edge insertions.
	m := builder.NewMesh()
	v1, f1 := m.PointSphere(nil)
	v2, f2 := m.PointSphere(nil)
	v3, f3 := m.PointSphere(nil)

	// Non-cofacial inserts merge; the two spheres fuse into one face.
	g1, g2, err := m.InsertEdge(v1, f1, v2, f2)
	require.NoError(t, err)
	assert.Equal(t, g1, g2)

	h1, h2, err := m.InsertEdge(v2, g1, v3, f3)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	// The closing edge is cofacial and splits the face in two.
	k1, k2, err := m.InsertEdge(v3, h1, v1, h1)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)

	c, verts, faces, err := m.Compile()
	require.NoError(t, err)
	census(t, c, 3, 3, 2, 2)
	assert.Len(t, verts, 3)
	assert.Len(t, faces, 2)
}

func TestDeleteEdgeUndoesInsert(t *testing.T) {
	m := builder.NewMesh()
	v1, f1 := m.PointSphere(nil)
	v2, f2 := m.PointSphere(nil)

	g, _, err := m.InsertEdge(v1, f1, v2, f2)
	require.NoError(t, err)
	cycle, err := m.FaceCycle(g)
	require.NoError(t, err)
	assert.Len(t, cycle, 2)

	// The merged face traverses the edge in both directions, so the deletion
	// is cofacial and restores two point spheres.
	s1, s2, err := m.DeleteEdge(v1, g, v2, g)
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)

	c1, err := m.FaceCycle(s1)
	require.NoError(t, err)
	c2, err := m.FaceCycle(s2)
	require.NoError(t, err)
	assert.Len(t, c1, 1)
	assert.Len(t, c2, 1)
}

func TestDeleteEdgeRemovesSpur(t *testing.T) {
	m := builder.NewMesh()
	v1, f1 := m.PointSphere(nil)
	v2, f2 := m.PointSphere(nil)
	v3, f3 := m.PointSphere(nil)

	g, _, err := m.InsertEdge(v1, f1, v2, f2)
	require.NoError(t, err)
	h, _, err := m.InsertEdge(v2, g, v3, f3)
	require.NoError(t, err)

	// The face walks v1→v2→v3→v2: both crossings of (v2, v3) meet at the same
	// corner, so deleting that edge strands v3 as a point sphere.
	cycle, err := m.FaceCycle(h)
	require.NoError(t, err)
	require.Equal(t, []builder.VertexKey{v1, v2, v3, v2}, cycle)

	k1, k2, err := m.DeleteEdge(v2, h, v3, h)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)

	c1, err := m.FaceCycle(k1)
	require.NoError(t, err)
	c2, err := m.FaceCycle(k2)
	require.NoError(t, err)
	assert.Equal(t, []builder.VertexKey{v3}, c1)
	assert.Equal(t, []builder.VertexKey{v1, v2}, c2)

	trace, err := m.VertexTrace(v3)
	require.NoError(t, err)
	require.Len(t, trace, 1)
	assert.Equal(t, v3, trace[0].From)
	assert.Equal(t, v3, trace[0].To)
}

func TestInsertEdgeRejectsUnknownCorner(t *testing.T) {
	m := builder.NewMesh()
	v1, f1 := m.PointSphere(nil)
	v2, _ := m.PointSphere(nil)

	_, _, err := m.InsertEdge(v1, f1, v2, f1)
	assert.ErrorIs(t, err, builder.ErrUnknownKey, "v2 is not a corner of f1")

	_, _, err = m.InsertEdge(v1, builder.FaceKey("f99"), v2, f1)
	assert.ErrorIs(t, err, builder.ErrUnknownKey)
}

func TestFaceTraceHalfEdges(t *testing.T) {
	m := builder.NewMesh()
	v1, f1 := m.PointSphere(nil)
	v2, f2 := m.PointSphere(nil)
	g, _, err := m.InsertEdge(v1, f1, v2, f2)
	require.NoError(t, err)

	trace, err := m.FaceTrace(g)
	require.NoError(t, err)
	require.Len(t, trace, 2)
	assert.Equal(t, v1, trace[0].From)
	assert.Equal(t, v2, trace[0].To)
	assert.Equal(t, v2, trace[1].From)
	assert.Equal(t, v1, trace[1].To)
}
