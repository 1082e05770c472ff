package refine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topmod-org/topocore/builder"
	"github.com/topmod-org/topocore/core"
	"github.com/topmod-org/topocore/euler"
	"github.com/topmod-org/topocore/orbit"
	"github.com/topmod-org/topocore/refine"
)

func census(t *testing.T, c *core.Complex, v, e, f, chi int) {
	t.Helper()
	assert.Equal(t, v, c.Count(core.DimVertex), "vertices")
	assert.Equal(t, e, c.Count(core.DimEdge), "edges")
	assert.Equal(t, f, c.Count(core.DimFace), "faces")
	assert.Equal(t, chi, c.Chi(), "Euler characteristic")
	require.NoError(t, c.Validate())
}

func faceSizes(t *testing.T, c *core.Complex) map[int]int {
	t.Helper()
	sizes := make(map[int]int)
	for _, f := range c.Cells(core.DimFace) {
		seq, err := orbit.FaceBoundary(c, f)
		require.NoError(t, err)
		n := 0
		for range seq {
			n++
		}
		sizes[n]++
	}

	return sizes
}

// disjointFacePair finds two faces with no shared vertices.
func disjointFacePair(t *testing.T, c *core.Complex) (core.ID, core.ID) {
	t.Helper()
	faces := c.Cells(core.DimFace)
	for i := 0; i < len(faces); i++ {
		set := make(map[core.ID]struct{})
		seq, err := orbit.FaceBoundary(c, faces[i])
		require.NoError(t, err)
		for v := range seq {
			set[v] = struct{}{}
		}
	next:
		for j := i + 1; j < len(faces); j++ {
			seq, err := orbit.FaceBoundary(c, faces[j])
			require.NoError(t, err)
			for v := range seq {
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

func TestTriangulateFaceQuad(t *testing.T) {
	c, err := builder.Cube()
	require.NoError(t, err)
	f := c.Cells(core.DimFace)[0]

	center, err := refine.TriangulateFace(c, f)
	require.NoError(t, err)
	require.False(t, center.IsNil())
	census(t, c, 9, 16, 9, 2)

	// The center fans out to all four old corners.
	cob, err := c.CoboundaryOf(center)
	require.NoError(t, err)
	assert.Len(t, cob, 4)

	_, err = c.Get(f)
	assert.ErrorIs(t, err, core.ErrUnknownCell, "the stellated face is destroyed")
}

func TestTriangulateFaceTriangleIsNoop(t *testing.T) {
	c, err := builder.Tetrahedron()
	require.NoError(t, err)
	f := c.Cells(core.DimFace)[0]

	center, err := refine.TriangulateFace(c, f)
	require.NoError(t, err)
	assert.True(t, center.IsNil())
	census(t, c, 4, 6, 4, 2)

	_, err = c.Get(f)
	assert.NoError(t, err, "a triangle is left alone")
}

func TestTriangulateCube(t *testing.T) {
	c, err := builder.Cube()
	require.NoError(t, err)

	centers, err := refine.Triangulate(c)
	require.NoError(t, err)
	assert.Len(t, centers, 6, "one center per quad")
	census(t, c, 14, 36, 24, 2)
	assert.Equal(t, map[int]int{3: 24}, faceSizes(t, c), "every face a triangle")
}

func TestTriangulatePreservesGenus(t *testing.T) {
	c, err := builder.Cube()
	require.NoError(t, err)

	// Make a torus first: χ = 0, genus 1.
	f1, f2 := disjointFacePair(t, c)
	_, err = euler.CreateHandle(c, f1, f2)
	require.NoError(t, err)

	_, err = refine.Triangulate(c)
	require.NoError(t, err)
	census(t, c, 16, 48, 32, 0)

	g, err := c.Genus()
	require.NoError(t, err)
	assert.Equal(t, 1, g)
	assert.Equal(t, map[int]int{3: 32}, faceSizes(t, c))
}

func TestQuadrangulateCube(t *testing.T) {
	c, err := builder.Cube()
	require.NoError(t, err)

	facePoints, err := refine.Quadrangulate(c)
	require.NoError(t, err)
	assert.Len(t, facePoints, 6)
	census(t, c, 26, 48, 24, 2)
	assert.Equal(t, map[int]int{4: 24}, faceSizes(t, c), "every face a quad")
}

func TestQuadrangulateTetrahedron(t *testing.T) {
	c, err := builder.Tetrahedron()
	require.NoError(t, err)

	facePoints, err := refine.Quadrangulate(c)
	require.NoError(t, err)
	assert.Len(t, facePoints, 4)
	census(t, c, 14, 24, 12, 2)
	assert.Equal(t, map[int]int{4: 12}, faceSizes(t, c))
}

func TestQuadrangulateTwice(t *testing.T) {
	c, err := builder.Cube()
	require.NoError(t, err)

	_, err = refine.Quadrangulate(c)
	require.NoError(t, err)
	_, err = refine.Quadrangulate(c)
	require.NoError(t, err)

	// Second round over V=26, E=48, F=24: V'=98, E'=192, F'=96.
	census(t, c, 98, 192, 96, 2)
	assert.Equal(t, map[int]int{4: 96}, faceSizes(t, c))
}

func TestQuadrangulatePayloadHooks(t *testing.T) {
	c, err := builder.Cube()
	require.NoError(t, err)

	edgeCalls, faceCalls := 0, 0
	facePoints, err := refine.Quadrangulate(c,
		refine.WithEdgePointPayload(func(edge core.CellView) any {
			edgeCalls++
			return "edge-point"
		}),
		refine.WithFacePointPayload(func(face core.CellView) any {
			faceCalls++
			return "face-point"
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, 12, edgeCalls, "one edge point per original edge")
	assert.Equal(t, 6, faceCalls, "one face point per original face")

	for _, p := range facePoints {
		view, err := c.Get(p)
		require.NoError(t, err)
		assert.Equal(t, "face-point", view.Payload)
	}

	tagged := 0
	for _, v := range c.Cells(core.DimVertex) {
		view, err := c.Get(v)
		require.NoError(t, err)
		if view.Payload == "edge-point" {
			tagged++
		}
	}
	assert.Equal(t, 12, tagged)
}

func TestTriangulateFacePayloadHook(t *testing.T) {
	c, err := builder.Cube()
	require.NoError(t, err)
	f := c.Cells(core.DimFace)[0]

	var sawFace core.ID
	center, err := refine.TriangulateFace(c, f,
		refine.WithFacePointPayload(func(face core.CellView) any {
			sawFace = face.ID
			return "center"
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, f, sawFace, "the hook sees the original face")

	view, err := c.Get(center)
	require.NoError(t, err)
	assert.Equal(t, "center", view.Payload)
}

func TestRefineRejectsNilComplex(t *testing.T) {
	_, err := refine.Triangulate(nil)
	assert.ErrorIs(t, err, core.ErrNilComplex)
	_, err = refine.Quadrangulate(nil)
	assert.ErrorIs(t, err, core.ErrNilComplex)
	_, err = refine.TriangulateFace(nil, core.NilID)
	assert.ErrorIs(t, err, core.ErrNilComplex)
}
