package orbit_test

import (
	"testing"

	"github.com/topmod-org/topocore/builder"
	"github.com/topmod-org/topocore/core"
	"github.com/topmod-org/topocore/orbit"
	"github.com/topmod-org/topocore/refine"
)

// quadCube builds a twice-quadrangulated cube (96 faces) for traversal load.
func quadCube(b *testing.B) *core.Complex {
	b.Helper()
	c, err := builder.Cube()
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := refine.Quadrangulate(c); err != nil {
			b.Fatal(err)
		}
	}

	return c
}

// BenchmarkFaceBoundary walks every face boundary of the refined cube.
func BenchmarkFaceBoundary(b *testing.B) {
	c := quadCube(b)
	faces := c.Cells(core.DimFace)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for _, f := range faces {
			seq, err := orbit.FaceBoundary(c, f)
			if err != nil {
				b.Fatal(err)
			}
			for range seq {
			}
		}
	}
}

// BenchmarkVertexStar spins the umbrella of every vertex.
func BenchmarkVertexStar(b *testing.B) {
	c := quadCube(b)
	verts := c.Cells(core.DimVertex)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for _, v := range verts {
			seq, err := orbit.VertexStar(c, v)
			if err != nil {
				b.Fatal(err)
			}
			for range seq {
			}
		}
	}
}

// BenchmarkLink computes the link of one interior vertex.
func BenchmarkLink(b *testing.B) {
	c := quadCube(b)
	v := c.Cells(core.DimVertex)[0]

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		seq, err := orbit.Link(c, v)
		if err != nil {
			b.Fatal(err)
		}
		for range seq {
		}
	}
}
