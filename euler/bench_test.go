package euler_test

import (
	"testing"

	"github.com/topmod-org/topocore/builder"
	"github.com/topmod-org/topocore/core"
	"github.com/topmod-org/topocore/euler"
)

// BenchmarkSplitUndoCycle measures one SplitEdge/DeleteVertex round trip; the
// pair restores the complex, so every iteration sees the same topology.
func BenchmarkSplitUndoCycle(b *testing.B) {
	c, err := builder.Cube()
	if err != nil {
		b.Fatal(err)
	}
	e := c.Cells(core.DimEdge)[0]

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		mid, _, err := euler.SplitEdge(c, e)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := euler.DeleteVertex(c, mid); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSplitMergeCycle measures one SplitFace/DeleteEdge round trip on a
// quad face.
func BenchmarkSplitMergeCycle(b *testing.B) {
	c, err := builder.Cube()
	if err != nil {
		b.Fatal(err)
	}
	f := c.Cells(core.DimFace)[0]
	var cs []core.ID
	refs, err := c.BoundaryOf(f)
	if err != nil {
		b.Fatal(err)
	}
	for _, ref := range refs {
		be, err := c.BoundaryOf(ref.Cell)
		if err != nil {
			b.Fatal(err)
		}
		v := be[0].Cell
		if ref.Orient == core.Minus {
			v = be[1].Cell
		}
		cs = append(cs, v)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		chord, _, _, err := euler.SplitFace(c, f, cs[0], cs[2])
		if err != nil {
			b.Fatal(err)
		}
		if f, err = euler.DeleteEdge(c, chord); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCreateHandle rebuilds the cube each iteration; the rebuild cost is
// excluded via the timer.
func BenchmarkCreateHandle(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		c, err := builder.Cube()
		if err != nil {
			b.Fatal(err)
		}
		f1, f2, ok := disjointPair(c)
		if !ok {
			b.Fatal("no disjoint face pair")
		}
		b.StartTimer()

		if _, err := euler.CreateHandle(c, f1, f2); err != nil {
			b.Fatal(err)
		}
	}
}

// disjointPair finds two vertex-disjoint faces without testing helpers.
func disjointPair(c *core.Complex) (core.ID, core.ID, bool) {
	faces := c.Cells(core.DimFace)
	vertsOf := func(f core.ID) map[core.ID]struct{} {
		out := make(map[core.ID]struct{})
		refs, err := c.BoundaryOf(f)
		if err != nil {
			return out
		}
		for _, ref := range refs {
			be, err := c.BoundaryOf(ref.Cell)
			if err != nil {
				continue
			}
			out[be[0].Cell] = struct{}{}
			out[be[1].Cell] = struct{}{}
		}
		return out
	}
	for i := 0; i < len(faces); i++ {
		vi := vertsOf(faces[i])
	next:
		for j := i + 1; j < len(faces); j++ {
			for v := range vertsOf(faces[j]) {
				if _, hit := vi[v]; hit {
					continue next
				}
			}
			return faces[i], faces[j], true
		}
	}

	return core.NilID, core.NilID, false
}
