// Command topocore is a small demonstration CLI for the topological kernel:
// it builds a primitive surface, optionally refines it, and reports the cell
// census and Euler ledger.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/topmod-org/topocore/builder"
	"github.com/topmod-org/topocore/core"
	"github.com/topmod-org/topocore/dual"
	"github.com/topmod-org/topocore/euler"
	"github.com/topmod-org/topocore/refine"
)

var (
	flagPrimitive     string
	flagTriangulate   int
	flagQuadrangulate int
	flagHandles       int
	flagDual          bool
)

func main() {
	root := &cobra.Command{
		Use:   "topocore",
		Short: "Topological mesh kernel demo",
		Long: "Builds a primitive closed surface, applies refinement rounds and\n" +
			"handle surgeries, and prints the resulting cell census, Euler\n" +
			"characteristic, and genus.",
		RunE: run,
	}

	root.Flags().StringVarP(&flagPrimitive, "primitive", "p", "tetrahedron",
		"base surface: triangle, quad, tetrahedron, cube")
	root.Flags().IntVarP(&flagTriangulate, "triangulate", "t", 0,
		"centroid-triangulation rounds")
	root.Flags().IntVarP(&flagQuadrangulate, "quadrangulate", "q", 0,
		"Catmull-Clark quadrangulation rounds")
	root.Flags().IntVar(&flagHandles, "handles", 0,
		"handles to attach between equal-sized faces")
	root.Flags().BoolVar(&flagDual, "dual", false,
		"report the Poincaré dual instead of the surface itself")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	c, err := buildPrimitive(flagPrimitive)
	if err != nil {
		return err
	}

	for i := 0; i < flagQuadrangulate; i++ {
		if _, err := refine.Quadrangulate(c); err != nil {
			return fmt.Errorf("quadrangulate round %d: %w", i+1, err)
		}
	}
	for i := 0; i < flagTriangulate; i++ {
		if _, err := refine.Triangulate(c); err != nil {
			return fmt.Errorf("triangulate round %d: %w", i+1, err)
		}
	}
	for i := 0; i < flagHandles; i++ {
		if err := attachHandle(c); err != nil {
			return fmt.Errorf("handle %d: %w", i+1, err)
		}
	}

	if flagDual {
		d, _, err := dual.Dual(c)
		if err != nil {
			return err
		}
		c = d
	}

	return report(cmd, c)
}

func buildPrimitive(name string) (*core.Complex, error) {
	switch name {
	case "triangle":
		return builder.Triangle()
	case "quad":
		return builder.Quad()
	case "tetrahedron":
		return builder.Tetrahedron()
	case "cube":
		return builder.Cube()
	default:
		return nil, fmt.Errorf("unknown primitive %q", name)
	}
}

// attachHandle picks the first pair of disjoint equal-sized faces and glues a
// handle between them.
func attachHandle(c *core.Complex) error {
	faces := c.Cells(core.DimFace)
	for i := 0; i < len(faces); i++ {
		for j := i + 1; j < len(faces); j++ {
			if _, err := euler.CreateHandle(c, faces[i], faces[j]); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("no compatible face pair for a handle")
}

func report(cmd *cobra.Command, c *core.Complex) error {
	if err := c.Validate(); err != nil {
		return err
	}
	genus, err := c.Genus()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "vertices:   %d\n", c.Count(core.DimVertex))
	fmt.Fprintf(out, "edges:      %d\n", c.Count(core.DimEdge))
	fmt.Fprintf(out, "faces:      %d\n", c.Count(core.DimFace))
	fmt.Fprintf(out, "chi:        %d\n", c.Chi())
	fmt.Fprintf(out, "genus:      %d\n", genus)
	fmt.Fprintf(out, "components: %d\n", c.Components())
	fmt.Fprintf(out, "loops:      %d\n", c.BoundaryLoops())

	return nil
}
