// File: refine.go
// Role: subdivision schemes — centroid triangulation and Catmull–Clark style
// quadrangulation, composed from euler.SplitEdge / euler.SplitFace only.
package refine

import (
	"fmt"

	"github.com/topmod-org/topocore/core"
	"github.com/topmod-org/topocore/euler"
	"github.com/topmod-org/topocore/orbit"
)

// Option configures a refinement pass.
type Option func(*config)

type config struct {
	edgePoint func(edge core.CellView) any
	facePoint func(face core.CellView) any
}

// WithEdgePointPayload sets the hook producing the payload of each vertex
// inserted on an edge. The hook receives the original edge's view (identifier
// and payload) before the split.
func WithEdgePointPayload(fn func(edge core.CellView) any) Option {
	return func(cfg *config) { cfg.edgePoint = fn }
}

// WithFacePointPayload sets the hook producing the payload of each center
// vertex inserted in a face. The hook receives the original face's view
// before any surgery.
func WithFacePointPayload(fn func(face core.CellView) any) Option {
	return func(cfg *config) { cfg.facePoint = fn }
}

func newConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// TriangulateFace stellates face f: a center vertex is inserted and fanned
// out to every corner, replacing an n-gon with n triangles. A face that is
// already a triangle is left alone and NilID is returned.
//
// χ, genus, and components are unchanged. O(n) euler operations.
func TriangulateFace(c *core.Complex, f core.ID, opts ...Option) (center core.ID, err error) {
	if c == nil {
		return core.NilID, core.ErrNilComplex
	}
	cfg := newConfig(opts)

	view, err := c.Get(f)
	if err != nil {
		return core.NilID, fmt.Errorf("refine: triangulate %v: %w", f, err)
	}
	corners, err := faceCorners(c, f)
	if err != nil {
		return core.NilID, fmt.Errorf("refine: triangulate %v: %w", f, err)
	}
	if len(corners) <= 3 {
		return core.NilID, nil
	}

	// 1. A chord across two corners, split at its midpoint, plants the center
	//    strictly inside the face.
	var payload any
	if cfg.facePoint != nil {
		payload = cfg.facePoint(view)
	}
	chord, fa, fb, err := euler.SplitFace(c, f, corners[0], corners[2])
	if err != nil {
		return core.NilID, err
	}
	center, _, err = euler.SplitEdge(c, chord, euler.WithPayload(payload))
	if err != nil {
		return core.NilID, err
	}

	// 2. Fan each half down to triangles.
	if err := fanToGons(c, fa, center, 3); err != nil {
		return core.NilID, err
	}
	if err := fanToGons(c, fb, center, 3); err != nil {
		return core.NilID, err
	}

	return center, nil
}

// Triangulate stellates every non-triangle face of the complex; afterwards
// every face is a triangle. Returns the inserted centers.
func Triangulate(c *core.Complex, opts ...Option) ([]core.ID, error) {
	if c == nil {
		return nil, core.ErrNilComplex
	}

	var centers []core.ID
	for _, f := range c.Cells(core.DimFace) {
		center, err := TriangulateFace(c, f, opts...)
		if err != nil {
			return centers, err
		}
		if !center.IsNil() {
			centers = append(centers, center)
		}
	}

	return centers, nil
}

// Quadrangulate applies one Catmull–Clark style topological step to the whole
// complex: every edge is split at an edge point, then every original n-gon is
// split into n quads fanned around a face point. Vertex counts follow the
// usual V+E+F / 2E / sum(n) pattern; χ, genus, and components are unchanged.
//
// Returns the inserted face points, one per original face.
func Quadrangulate(c *core.Complex, opts ...Option) ([]core.ID, error) {
	if c == nil {
		return nil, core.ErrNilComplex
	}
	cfg := newConfig(opts)

	edges := c.Cells(core.DimEdge)
	faces := c.Cells(core.DimFace)

	// 1. Edge points: after this pass every face cycle alternates original
	//    vertices and edge points.
	edgePoints := make(map[core.ID]struct{}, len(edges))
	for _, e := range edges {
		var payload any
		if cfg.edgePoint != nil {
			view, err := c.Get(e)
			if err != nil {
				return nil, fmt.Errorf("refine: quadrangulate: %w", err)
			}
			payload = cfg.edgePoint(view)
		}
		m, _, err := euler.SplitEdge(c, e, euler.WithPayload(payload))
		if err != nil {
			return nil, err
		}
		edgePoints[m] = struct{}{}
	}

	// 2. Face points: chord two adjacent edge points, split it, and fan the
	//    rest of the (2n)-gon into quads.
	facePoints := make([]core.ID, 0, len(faces))
	for _, f := range faces {
		var payload any
		if cfg.facePoint != nil {
			view, err := c.Get(f)
			if err != nil {
				return nil, fmt.Errorf("refine: quadrangulate: %w", err)
			}
			payload = cfg.facePoint(view)
		}
		corners, err := faceCorners(c, f)
		if err != nil {
			return nil, fmt.Errorf("refine: quadrangulate %v: %w", f, err)
		}
		j := -1
		for i, corner := range corners {
			if _, ok := edgePoints[corner]; ok {
				j = i
				break
			}
		}
		if j < 0 {
			return nil, fmt.Errorf("refine: quadrangulate %v: no edge point on boundary: %w",
				f, core.ErrInvariantViolation)
		}

		chord, _, fb, err := euler.SplitFace(c, f, corners[j], corners[(j+2)%len(corners)])
		if err != nil {
			return nil, err
		}
		// The first half closes into a quad as the chord splits; the second
		// carries the remaining corners.
		p, _, err := euler.SplitEdge(c, chord, euler.WithPayload(payload))
		if err != nil {
			return nil, err
		}
		if err := fanToGons(c, fb, p, 4); err != nil {
			return nil, err
		}
		facePoints = append(facePoints, p)
	}

	return facePoints, nil
}

// --- helpers -----------------------------------------------------------------

// faceCorners lists the corner vertices of a face in cycle order.
func faceCorners(c *core.Complex, f core.ID) ([]core.ID, error) {
	seq, err := orbit.FaceBoundary(c, f)
	if err != nil {
		return nil, err
	}
	var corners []core.ID
	for v := range seq {
		corners = append(corners, v)
	}

	return corners, nil
}

// fanToGons repeatedly splits face g from pivot to the corner `size−1` steps
// ahead, peeling off one size-gon per split, until g itself has at most
// `size` edges.
func fanToGons(c *core.Complex, g, pivot core.ID, size int) error {
	for {
		corners, err := faceCorners(c, g)
		if err != nil {
			return err
		}
		n := len(corners)
		if n <= size {
			return nil
		}
		ip := -1
		for i, corner := range corners {
			if corner == pivot {
				ip = i
				break
			}
		}
		if ip < 0 {
			return fmt.Errorf("refine: fan: pivot %v not on face %v: %w", pivot, g, core.ErrInvariantViolation)
		}
		target := corners[(ip+size-1)%n]
		_, _, rest, err := euler.SplitFace(c, g, pivot, target)
		if err != nil {
			return err
		}
		g = rest
	}
}
