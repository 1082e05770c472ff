package refine_test

import (
	"fmt"

	"github.com/topmod-org/topocore/builder"
	"github.com/topmod-org/topocore/core"
	"github.com/topmod-org/topocore/refine"
)

// ExampleQuadrangulate applies one Catmull-Clark style step to a cube:
// V' = V+E+F, E' = 4E, F' = sum of the face degrees.
func ExampleQuadrangulate() {
	c, _ := builder.Cube()

	facePoints, err := refine.Quadrangulate(c)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("face points:", len(facePoints))
	fmt.Println("V E F:", c.Count(core.DimVertex), c.Count(core.DimEdge), c.Count(core.DimFace))
	fmt.Println("chi:", c.Chi())
	// Output:
	// face points: 6
	// V E F: 26 48 24
	// chi: 2
}

// ExampleTriangulate stellates every quad of a cube into four triangles.
func ExampleTriangulate() {
	c, _ := builder.Cube()

	centers, err := refine.Triangulate(c)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("centers:", len(centers))
	fmt.Println("V E F:", c.Count(core.DimVertex), c.Count(core.DimEdge), c.Count(core.DimFace))
	fmt.Println("chi:", c.Chi())
	// Output:
	// centers: 6
	// V E F: 14 36 24
	// chi: 2
}
