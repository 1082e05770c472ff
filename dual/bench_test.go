package dual_test

import (
	"testing"

	"github.com/topmod-org/topocore/builder"
	"github.com/topmod-org/topocore/dual"
	"github.com/topmod-org/topocore/refine"
)

// BenchmarkDual dualizes a twice-quadrangulated cube (98 vertices, 192 edges,
// 96 faces) into a fresh complex each iteration.
func BenchmarkDual(b *testing.B) {
	c, err := builder.Cube()
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := refine.Quadrangulate(c); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, _, err := dual.Dual(c); err != nil {
			b.Fatal(err)
		}
	}
}
