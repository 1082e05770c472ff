// File: primitives.go
// Role: ready-made closed surfaces, all stitched through FromFaces so the
// corner-matching path is the single construction route.
package builder

import "github.com/topmod-org/topocore/core"

// Triangle builds the two-sided triangle (a pillow of two faces over three
// edges): the smallest closed surface the kernel accepts. χ = 2, genus 0.
func Triangle() (*core.Complex, error) {
	c, _, err := FromFaces([][]int{
		{0, 1, 2},
		{2, 1, 0},
	}, nil)

	return c, err
}

// Quad builds the two-sided quadrilateral pillow. χ = 2, genus 0.
func Quad() (*core.Complex, error) {
	c, _, err := FromFaces([][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
	}, nil)

	return c, err
}

// Tetrahedron builds the boundary surface of a tetrahedron:
// V=4, E=6, F=4, χ = 2, genus 0.
func Tetrahedron() (*core.Complex, error) {
	c, _, err := FromFaces([][]int{
		{0, 1, 2},
		{0, 2, 3},
		{0, 3, 1},
		{1, 3, 2},
	}, nil)

	return c, err
}

// Cube builds the boundary surface of a cube (vertices 0–3 bottom, 4–7 top):
// V=8, E=12, F=6, χ = 2, genus 0.
func Cube() (*core.Complex, error) {
	c, _, err := FromFaces([][]int{
		{0, 3, 2, 1},
		{4, 5, 6, 7},
		{0, 1, 5, 4},
		{1, 2, 6, 5},
		{2, 3, 7, 6},
		{3, 0, 4, 7},
	}, nil)

	return c, err
}
