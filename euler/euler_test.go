package euler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topmod-org/topocore/builder"
	"github.com/topmod-org/topocore/core"
	"github.com/topmod-org/topocore/euler"
	"github.com/topmod-org/topocore/orbit"
)

var cubeFaces = [][]int{
	{0, 3, 2, 1},
	{4, 5, 6, 7},
	{0, 1, 5, 4},
	{1, 2, 6, 5},
	{2, 3, 7, 6},
	{3, 0, 4, 7},
}

func tetra(t *testing.T) *core.Complex {
	t.Helper()
	c, err := builder.Tetrahedron()
	require.NoError(t, err)

	return c
}

func cube(t *testing.T, opts ...core.Option) *core.Complex {
	t.Helper()
	c, _, err := builder.FromFaces(cubeFaces, nil, opts...)
	require.NoError(t, err)

	return c
}

// census asserts the cell counts and the Euler characteristic in one line.
func census(t *testing.T, c *core.Complex, v, e, f, chi int) {
	t.Helper()
	assert.Equal(t, v, c.Count(core.DimVertex), "vertices")
	assert.Equal(t, e, c.Count(core.DimEdge), "edges")
	assert.Equal(t, f, c.Count(core.DimFace), "faces")
	assert.Equal(t, chi, c.Chi(), "Euler characteristic")
	require.NoError(t, c.Validate())
}

// corners lists the corner vertices of a face in cycle order.
func corners(t *testing.T, c *core.Complex, f core.ID) []core.ID {
	t.Helper()
	seq, err := orbit.FaceBoundary(c, f)
	require.NoError(t, err)
	var out []core.ID
	for v := range seq {
		out = append(out, v)
	}

	return out
}

// disjointFacePair finds two faces with no shared vertices.
func disjointFacePair(t *testing.T, c *core.Complex) (core.ID, core.ID) {
	t.Helper()
	faces := c.Cells(core.DimFace)
	for i := 0; i < len(faces); i++ {
		vi := corners(t, c, faces[i])
		set := make(map[core.ID]struct{}, len(vi))
		for _, v := range vi {
			set[v] = struct{}{}
		}
	next:
		for j := i + 1; j < len(faces); j++ {
			for _, v := range corners(t, c, faces[j]) {
				if _, hit := set[v]; hit {
					continue next
				}
			}
			return faces[i], faces[j]
		}
	}
	t.Fatal("no disjoint face pair")

	return core.NilID, core.NilID
}

// adjacentFacePair finds two faces sharing an edge.
func adjacentFacePair(t *testing.T, c *core.Complex) (core.ID, core.ID) {
	t.Helper()
	e := c.Cells(core.DimEdge)[0]
	cob, err := c.CoboundaryOf(e)
	require.NoError(t, err)
	require.Len(t, cob, 2)

	return cob[0].Cell, cob[1].Cell
}

func TestSplitEdgePreservesChi(t *testing.T) {
	c := tetra(t)
	e := c.Cells(core.DimEdge)[0]

	mid, half, err := euler.SplitEdge(c, e)
	require.NoError(t, err)
	census(t, c, 5, 7, 4, 2)

	// The midpoint sits between the halves with valence 2.
	cob, err := c.CoboundaryOf(mid)
	require.NoError(t, err)
	require.Len(t, cob, 2)
	assert.Equal(t, e, cob[0].Cell)
	assert.Equal(t, half, cob[1].Cell)

	// Both halves run through mid: e = (tail, mid), half = (mid, head).
	be, err := c.BoundaryOf(e)
	require.NoError(t, err)
	assert.Equal(t, mid, be[1].Cell)
	bh, err := c.BoundaryOf(half)
	require.NoError(t, err)
	assert.Equal(t, mid, bh[0].Cell)
}

func TestSplitEdgeCarriesPayload(t *testing.T) {
	c := tetra(t)
	e := c.Cells(core.DimEdge)[0]

	mid, _, err := euler.SplitEdge(c, e, euler.WithPayload("midpoint"))
	require.NoError(t, err)

	view, err := c.Get(mid)
	require.NoError(t, err)
	assert.Equal(t, "midpoint", view.Payload)
}

func TestDeleteVertexUndoesSplitEdge(t *testing.T) {
	c := tetra(t)
	e := c.Cells(core.DimEdge)[0]

	mid, half, err := euler.SplitEdge(c, e)
	require.NoError(t, err)

	fused, err := euler.DeleteVertex(c, mid)
	require.NoError(t, err)
	assert.Equal(t, e, fused, "the lower-identifier edge survives")
	census(t, c, 4, 6, 4, 2)

	_, err = c.Get(mid)
	assert.ErrorIs(t, err, core.ErrUnknownCell)
	_, err = c.Get(half)
	assert.ErrorIs(t, err, core.ErrUnknownCell)
}

func TestDeleteVertexRejectsHigherValence(t *testing.T) {
	c := tetra(t)
	v := c.Cells(core.DimVertex)[0] // valence 3 on a tetrahedron

	_, err := euler.DeleteVertex(c, v)
	assert.ErrorIs(t, err, euler.ErrCellInUse)
	assert.ErrorIs(t, err, euler.ErrTopology)
	census(t, c, 4, 6, 4, 2)
}

func TestSplitFaceAcrossQuad(t *testing.T) {
	c := cube(t)
	f := c.Cells(core.DimFace)[0]
	cs := corners(t, c, f)
	require.Len(t, cs, 4)

	chord, fa, fb, err := euler.SplitFace(c, f, cs[0], cs[2])
	require.NoError(t, err)
	census(t, c, 8, 13, 7, 2)

	// Two triangles sharing only the chord, on opposite flags.
	assert.Len(t, corners(t, c, fa), 3)
	assert.Len(t, corners(t, c, fb), 3)
	cob, err := c.CoboundaryOf(chord)
	require.NoError(t, err)
	require.Len(t, cob, 2)
	assert.NotEqual(t, cob[0].Orient, cob[1].Orient)

	_, err = c.Get(f)
	assert.ErrorIs(t, err, core.ErrUnknownCell, "the split face is destroyed")
}

func TestSplitFaceRejectsAdjacentCorners(t *testing.T) {
	c := cube(t)
	f := c.Cells(core.DimFace)[0]
	cs := corners(t, c, f)

	_, _, _, err := euler.SplitFace(c, f, cs[0], cs[1])
	assert.ErrorIs(t, err, euler.ErrInvalidSplit)
	census(t, c, 8, 12, 6, 2)

	_, _, _, err = euler.SplitFace(c, f, cs[0], cs[0])
	assert.ErrorIs(t, err, euler.ErrInvalidSplit)
}

func TestMergeFacesUndoesSplitFace(t *testing.T) {
	c := cube(t)
	f := c.Cells(core.DimFace)[0]
	cs := corners(t, c, f)

	chord, fa, fb, err := euler.SplitFace(c, f, cs[0], cs[2])
	require.NoError(t, err)

	merged, err := euler.MergeFaces(c, fa, fb)
	require.NoError(t, err)
	census(t, c, 8, 12, 6, 2)
	assert.Len(t, corners(t, c, merged), 4, "the quad is back")

	for _, id := range []core.ID{chord, fa, fb} {
		_, err := c.Get(id)
		assert.ErrorIs(t, err, core.ErrUnknownCell, "%v must be gone", id)
	}
}

func TestDeleteEdgeUndoesSplitFace(t *testing.T) {
	c := cube(t)
	f := c.Cells(core.DimFace)[0]
	cs := corners(t, c, f)

	chord, _, _, err := euler.SplitFace(c, f, cs[0], cs[2])
	require.NoError(t, err)

	merged, err := euler.DeleteEdge(c, chord)
	require.NoError(t, err)
	census(t, c, 8, 12, 6, 2)
	assert.Len(t, corners(t, c, merged), 4)
}

func TestMergeFacesRejectsNonAdjacent(t *testing.T) {
	c := cube(t)
	f1, f2 := disjointFacePair(t, c)

	_, err := euler.MergeFaces(c, f1, f2)
	assert.ErrorIs(t, err, euler.ErrNotAdjacent)
	census(t, c, 8, 12, 6, 2)
}

func TestMergeFacesOnTetrahedron(t *testing.T) {
	// Two adjacent triangles fuse into a quad: V=4, E=5, F=3, χ=2.
	c := tetra(t)
	f1, f2 := adjacentFacePair(t, c)

	merged, err := euler.MergeFaces(c, f1, f2)
	require.NoError(t, err)
	census(t, c, 4, 5, 3, 2)
	assert.Len(t, corners(t, c, merged), 4)
}

func TestDeleteEdgeRejectsSplitHalf(t *testing.T) {
	// After a split both halves separate the same two faces, so dissolving
	// either half alone cannot produce a simple merged cycle.
	c := tetra(t)
	e := c.Cells(core.DimEdge)[0]

	_, half, err := euler.SplitEdge(c, e)
	require.NoError(t, err)

	_, err = euler.DeleteEdge(c, half)
	assert.ErrorIs(t, err, euler.ErrCellInUse)
	census(t, c, 5, 7, 4, 2)
}

func TestCreateHandleOnCube(t *testing.T) {
	c := cube(t)
	f1, f2 := disjointFacePair(t, c)

	quads, err := euler.CreateHandle(c, f1, f2)
	require.NoError(t, err)
	require.Len(t, quads, 4)
	census(t, c, 8, 16, 8, 0)

	g, err := c.Genus()
	require.NoError(t, err)
	assert.Equal(t, 1, g, "a handle on a sphere makes a torus")
	assert.Equal(t, 1, c.Components())

	for _, q := range quads {
		assert.Len(t, corners(t, c, q), 4)
	}
}

func TestCreateHandleJoinsComponents(t *testing.T) {
	// Two tetrahedra in one complex, loaded from two snapshots' worth of faces.
	c, _, err := builder.FromFaces([][]int{
		{0, 1, 2}, {0, 2, 3}, {0, 3, 1}, {1, 3, 2},
		{4, 5, 6}, {4, 6, 7}, {4, 7, 5}, {5, 7, 6},
	}, nil)
	require.NoError(t, err)
	require.Equal(t, 2, c.Components())

	// One face per component; all faces are triangles so any disjoint pair works.
	f1, f2 := disjointFacePair(t, c)
	_, err = euler.CreateHandle(c, f1, f2)
	require.NoError(t, err)

	assert.Equal(t, 1, c.Components(), "a cross-component tube is a connected sum")
	g, err := c.Genus()
	require.NoError(t, err)
	assert.Equal(t, 0, g)
	census(t, c, 8, 15, 9, 2)
}

func TestCreateHandleRejectsAdjacentFaces(t *testing.T) {
	c := cube(t)
	f1, f2 := adjacentFacePair(t, c)

	_, err := euler.CreateHandle(c, f1, f2)
	assert.ErrorIs(t, err, euler.ErrDegenerateTopology)
	census(t, c, 8, 12, 6, 2)
}

func TestCreateHandleRejectsMixedSizes(t *testing.T) {
	c := cube(t)
	f1, f2 := disjointFacePair(t, c)
	cs := corners(t, c, f1)

	// Triangulate one operand's slot: f1 becomes two triangles.
	_, fa, _, err := euler.SplitFace(c, f1, cs[0], cs[2])
	require.NoError(t, err)

	_, err = euler.CreateHandle(c, fa, f2)
	assert.ErrorIs(t, err, euler.ErrIncompatibleBoundary)
	census(t, c, 8, 13, 7, 2)
}

func TestCreateHandleRejectsSelf(t *testing.T) {
	c := cube(t)
	f := c.Cells(core.DimFace)[0]

	_, err := euler.CreateHandle(c, f, f)
	assert.ErrorIs(t, err, euler.ErrDegenerateTopology)
}

func TestHoleLifecycle(t *testing.T) {
	c := cube(t, core.WithBoundaryLoops())
	f := c.Cells(core.DimFace)[0]

	loop, err := euler.CreateHole(c, f)
	require.NoError(t, err)
	require.Len(t, loop, 4)
	census(t, c, 8, 12, 5, 1)
	assert.Equal(t, 1, c.BoundaryLoops())

	g, err := c.Genus()
	require.NoError(t, err)
	assert.Equal(t, 0, g, "a punched sphere is still genus 0")

	// Every loop edge now carries exactly one face.
	for _, e := range loop {
		cob, err := c.CoboundaryOf(e)
		require.NoError(t, err)
		assert.Len(t, cob, 1)
	}

	capFace, err := euler.CloseHole(c, loop)
	require.NoError(t, err)
	census(t, c, 8, 12, 6, 2)
	assert.Equal(t, 0, c.BoundaryLoops())
	assert.Len(t, corners(t, c, capFace), 4)
}

func TestCreateHoleNeedsBoundaryPermission(t *testing.T) {
	c := cube(t) // closed-manifold complex
	f := c.Cells(core.DimFace)[0]

	_, err := euler.CreateHole(c, f)
	assert.ErrorIs(t, err, euler.ErrDegenerateTopology)
	census(t, c, 8, 12, 6, 2)
}

func TestCreateHoleRejectsOrphaningEdges(t *testing.T) {
	c := cube(t, core.WithBoundaryLoops())
	f1, f2 := adjacentFacePair(t, c)

	_, err := euler.CreateHole(c, f1)
	require.NoError(t, err)

	// The neighbor now owns the shared edge alone; punching it would orphan it.
	err = euler.DeleteFace(c, f2)
	assert.ErrorIs(t, err, euler.ErrCellInUse)
	census(t, c, 8, 12, 5, 1)
}

func TestCloseHoleRejectsBadLoops(t *testing.T) {
	c := cube(t, core.WithBoundaryLoops())
	f := c.Cells(core.DimFace)[0]

	loop, err := euler.CreateHole(c, f)
	require.NoError(t, err)

	_, err = euler.CloseHole(c, loop[:2])
	assert.ErrorIs(t, err, euler.ErrIncompatibleBoundary, "too short")

	inLoop := make(map[core.ID]struct{}, len(loop))
	for _, e := range loop {
		inLoop[e] = struct{}{}
	}
	interior := core.NilID
	for _, e := range c.Cells(core.DimEdge) {
		if _, ok := inLoop[e]; !ok {
			interior = e
			break
		}
	}
	require.False(t, interior.IsNil())
	_, err = euler.CloseHole(c, []core.ID{loop[0], loop[1], interior})
	assert.ErrorIs(t, err, euler.ErrIncompatibleBoundary, "interior edge carries two faces")

	census(t, c, 8, 12, 5, 1)
}

func TestOperatorsRejectNilComplex(t *testing.T) {
	_, _, err := euler.SplitEdge(nil, core.NilID)
	assert.ErrorIs(t, err, core.ErrNilComplex)
	_, err = euler.MergeFaces(nil, core.NilID, core.NilID)
	assert.ErrorIs(t, err, core.ErrNilComplex)
	_, err = euler.CreateHandle(nil, core.NilID, core.NilID)
	assert.ErrorIs(t, err, core.ErrNilComplex)
	_, err = euler.CreateHole(nil, core.NilID)
	assert.ErrorIs(t, err, core.ErrNilComplex)
}

func TestOperatorsRejectWrongDimension(t *testing.T) {
	c := tetra(t)
	v := c.Cells(core.DimVertex)[0]
	f := c.Cells(core.DimFace)[0]

	_, _, err := euler.SplitEdge(c, v)
	assert.ErrorIs(t, err, core.ErrDimension)
	_, err = euler.DeleteVertex(c, f)
	assert.ErrorIs(t, err, core.ErrDimension)
	_, err = euler.DeleteEdge(c, f)
	assert.ErrorIs(t, err, core.ErrDimension)
	census(t, c, 4, 6, 4, 2)
}

func TestVolumeBoundarySplicing(t *testing.T) {
	c, vs, es, fs := simplexSphere(t)

	// Subdividing an edge of a 3-complex rewrites all three surrounding
	// triangles; the tetrahedra above keep their face count.
	mid, half, err := euler.SplitEdge(c, es[[2]int{0, 1}])
	require.NoError(t, err)
	assert.Equal(t, 6, c.Count(core.DimVertex))
	assert.Equal(t, 11, c.Count(core.DimEdge))
	assert.Equal(t, 0, c.Chi())

	cob, err := c.CoboundaryOf(mid)
	require.NoError(t, err)
	require.Len(t, cob, 2)
	assert.Equal(t, es[[2]int{0, 1}], cob[0].Cell)
	assert.Equal(t, half, cob[1].Cell)

	// Chording the quad from the midpoint hands each volume above it a fifth
	// boundary face.
	chord, fa, fb, err := euler.SplitFace(c, fs[[3]int{0, 1, 2}], mid, vs[2])
	require.NoError(t, err)
	assert.Equal(t, 11, c.Count(core.DimFace))
	assert.Equal(t, 0, c.Chi())
	above := volumesAbove(t, c, fa)
	require.Len(t, above, 2)
	assert.ElementsMatch(t, above, volumesAbove(t, c, fb))
	for _, vol := range above {
		refs, err := c.BoundaryOf(vol)
		require.NoError(t, err)
		assert.Len(t, refs, 5)
	}

	// Deleting the chord merges the halves back and drops both volumes to
	// four faces again.
	merged, err := euler.DeleteEdge(c, chord)
	require.NoError(t, err)
	for _, vol := range volumesAbove(t, c, merged) {
		refs, err := c.BoundaryOf(vol)
		require.NoError(t, err)
		assert.Len(t, refs, 4)
	}

	// Fusing the midpoint away restores the original census everywhere.
	fused, err := euler.DeleteVertex(c, mid)
	require.NoError(t, err)
	assert.Equal(t, es[[2]int{0, 1}], fused)
	assert.Equal(t, 5, c.Count(core.DimVertex))
	assert.Equal(t, 10, c.Count(core.DimEdge))
	assert.Equal(t, 10, c.Count(core.DimFace))
	assert.Equal(t, 5, c.Count(core.DimVolume))
	require.NoError(t, c.Validate())
}

// volumesAbove lists the volumes in the coboundary of a face.
func volumesAbove(t *testing.T, c *core.Complex, f core.ID) []core.ID {
	t.Helper()

	cob, err := c.CoboundaryOf(f)
	require.NoError(t, err)
	out := make([]core.ID, 0, len(cob))
	for _, ref := range cob {
		out = append(out, ref.Cell)
	}

	return out
}

// simplexSphere builds the boundary of the 4-simplex — five vertices, ten
// edges, ten triangles, five tetrahedral volumes — and returns the cells
// keyed by their vertex indices.
func simplexSphere(t *testing.T) (*core.Complex, [5]core.ID, map[[2]int]core.ID, map[[3]int]core.ID) {
	t.Helper()

	c := core.New(core.WithMaxDimension(core.DimVolume))
	var vs [5]core.ID
	es := make(map[[2]int]core.ID)
	fs := make(map[[3]int]core.ID)

	err := c.Edit(func(tx *core.Tx) error {
		for i := range vs {
			id, err := tx.NewCell(core.DimVertex, nil)
			if err != nil {
				return err
			}
			vs[i] = id
		}
		for i := 0; i < 5; i++ {
			for j := i + 1; j < 5; j++ {
				id, err := tx.NewCell(core.DimEdge, nil)
				if err != nil {
					return err
				}
				if err := tx.ReplaceBoundary(id, []core.IncidenceRef{
					{Cell: vs[i], Orient: core.Minus},
					{Cell: vs[j], Orient: core.Plus},
				}); err != nil {
					return err
				}
				es[[2]int{i, j}] = id
			}
		}
		for i := 0; i < 5; i++ {
			for j := i + 1; j < 5; j++ {
				for k := j + 1; k < 5; k++ {
					id, err := tx.NewCell(core.DimFace, nil)
					if err != nil {
						return err
					}
					if err := tx.ReplaceBoundary(id, []core.IncidenceRef{
						{Cell: es[[2]int{i, j}], Orient: core.Plus},
						{Cell: es[[2]int{j, k}], Orient: core.Plus},
						{Cell: es[[2]int{i, k}], Orient: core.Minus},
					}); err != nil {
						return err
					}
					fs[[3]int{i, j, k}] = id
				}
			}
		}
		// One tetrahedral volume per omitted vertex, signed alternately so
		// each triangle ends up under two volumes with opposite flags.
		for m := 0; m < 5; m++ {
			vol, err := tx.NewCell(core.DimVolume, nil)
			if err != nil {
				return err
			}
			var quad []int
			for i := 0; i < 5; i++ {
				if i != m {
					quad = append(quad, i)
				}
			}
			refs := make([]core.IncidenceRef, 0, 4)
			for pos := 0; pos < 4; pos++ {
				var tri [3]int
				w := 0
				for i, x := range quad {
					if i == pos {
						continue
					}
					tri[w] = x
					w++
				}
				flag := core.Plus
				if (m+pos)%2 == 1 {
					flag = core.Minus
				}
				refs = append(refs, core.IncidenceRef{Cell: fs[tri], Orient: flag})
			}
			if err := tx.ReplaceBoundary(vol, refs); err != nil {
				return err
			}
		}
		tx.AddComponents(1)

		return nil
	})
	require.NoError(t, err)

	return c, vs, es, fs
}
