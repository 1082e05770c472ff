// File: dual.go
// Role: the duality transform. Pure reads against the input complex, one edit
// transaction against the output.
package dual

import (
	"errors"
	"fmt"

	"github.com/topmod-org/topocore/core"
)

// ErrNotDualizable indicates an input whose dual would be ill-formed: open
// boundary loops, a codimension-1 cell not separating two top cells, or a
// cell whose dual would fall below the minimum boundary size.
var ErrNotDualizable = errors.New("dual: complex not dualizable")

// Dual builds the Poincaré dual of c as a fresh complex. Identifiers of the
// two complexes are unrelated; the returned maps are keyed by the input's
// cells and yield their dual counterparts (one map per input dimension, index
// 0..maxDim).
//
// Payloads travel with their cell: the dual of a face carries the face's
// payload on a vertex, and so on.
//
// Complexity: O(cells + incidences).
func Dual(c *core.Complex) (*core.Complex, [core.NumDimensions]map[core.ID]core.ID, error) {
	var mapping [core.NumDimensions]map[core.ID]core.ID
	if c == nil {
		return nil, mapping, core.ErrNilComplex
	}

	if loops := c.BoundaryLoops(); loops != 0 {
		return nil, mapping, fmt.Errorf("dual: %d open boundary loops: %w", loops, ErrNotDualizable)
	}

	switch c.MaxDim() {
	case core.DimFace:
		return surfaceDual(c)
	case core.DimVolume:
		return volumeDual(c)
	default:
		return nil, mapping, fmt.Errorf("dual: top dimension %v: %w", c.MaxDim(), core.ErrDimension)
	}
}

// surfaceDual handles n = 2: face↦vertex, edge↦edge, vertex↦face.
func surfaceDual(c *core.Complex) (*core.Complex, [core.NumDimensions]map[core.ID]core.ID, error) {
	var mapping [core.NumDimensions]map[core.ID]core.ID

	faces := c.Cells(core.DimFace)
	edges := c.Cells(core.DimEdge)
	vertices := c.Cells(core.DimVertex)

	// 1. Each edge must separate two faces; remember which side is which.
	plusFace := make(map[core.ID]core.ID, len(edges))
	minusFace := make(map[core.ID]core.ID, len(edges))
	for _, e := range edges {
		cob, err := c.CoboundaryOf(e)
		if err != nil {
			return nil, mapping, err
		}
		if len(cob) != 2 {
			return nil, mapping, fmt.Errorf("dual: edge %v separates %d faces, need 2: %w",
				e, len(cob), ErrNotDualizable)
		}
		for _, fref := range cob {
			if fref.Orient == core.Plus {
				plusFace[e] = fref.Cell
			} else {
				minusFace[e] = fref.Cell
			}
		}
	}

	// 2. Rotation order of edges and faces around every vertex; the dual face
	//    cycle follows it. A valence-2 vertex would dualize to a bigon.
	rotations := make(map[core.ID][]rotStep, len(vertices))
	for _, v := range vertices {
		rot, err := vertexRotation(c, v)
		if err != nil {
			return nil, mapping, err
		}
		if len(rot) < 3 {
			return nil, mapping, fmt.Errorf("dual: vertex %v has valence %d, dual face would degenerate: %w",
				v, len(rot), ErrNotDualizable)
		}
		rotations[v] = rot
	}

	// 3. Assemble through one edit transaction on the fresh complex.
	out := core.New(WithSameLimits(c)...)
	vDual := make(map[core.ID]core.ID, len(faces))
	eDual := make(map[core.ID]core.ID, len(edges))
	fDual := make(map[core.ID]core.ID, len(vertices))

	err := out.Edit(func(tx *core.Tx) error {
		for _, f := range faces {
			view, err := c.Get(f)
			if err != nil {
				return err
			}
			id, err := tx.NewCell(core.DimVertex, view.Payload)
			if err != nil {
				return err
			}
			vDual[f] = id
		}
		for _, e := range edges {
			view, err := c.Get(e)
			if err != nil {
				return err
			}
			id, err := tx.NewCell(core.DimEdge, view.Payload)
			if err != nil {
				return err
			}
			eDual[e] = id
			if err := tx.ReplaceBoundary(id, []core.IncidenceRef{
				{Cell: vDual[minusFace[e]], Orient: core.Minus},
				{Cell: vDual[plusFace[e]], Orient: core.Plus},
			}); err != nil {
				return err
			}
		}
		for _, v := range vertices {
			view, err := c.Get(v)
			if err != nil {
				return err
			}
			id, err := tx.NewCell(core.DimFace, view.Payload)
			if err != nil {
				return err
			}
			fDual[v] = id

			rot := rotations[v]
			refs := make([]core.IncidenceRef, len(rot))
			for k, s := range rot {
				// Step k of the dual cycle crosses e_k from the previous
				// sector's face to s.face.
				flag := core.Minus
				if plusFace[s.edge] == s.face {
					flag = core.Plus
				}
				refs[k] = core.IncidenceRef{Cell: eDual[s.edge], Orient: flag}
			}
			if err := tx.ReplaceBoundary(id, refs); err != nil {
				return err
			}
		}

		tx.AddHandles(c.Handles())
		tx.AddComponents(c.Components())

		return nil
	})
	if err != nil {
		return nil, mapping, fmt.Errorf("dual: %w", err)
	}

	mapping[core.DimFace] = vDual
	mapping[core.DimEdge] = eDual
	mapping[core.DimVertex] = fDual

	return out, mapping, nil
}

// volumeDual handles n = 3: volume↦vertex, face↦edge, edge↦face,
// vertex↦volume.
func volumeDual(c *core.Complex) (*core.Complex, [core.NumDimensions]map[core.ID]core.ID, error) {
	var mapping [core.NumDimensions]map[core.ID]core.ID

	volumes := c.Cells(core.DimVolume)
	faces := c.Cells(core.DimFace)
	edges := c.Cells(core.DimEdge)
	vertices := c.Cells(core.DimVertex)

	// 1. Each face must separate two volumes; fix a (tail, head) side per face.
	tailVol := make(map[core.ID]core.ID, len(faces))
	headVol := make(map[core.ID]core.ID, len(faces))
	for _, f := range faces {
		cob, err := c.CoboundaryOf(f)
		if err != nil {
			return nil, mapping, err
		}
		if len(cob) != 2 {
			return nil, mapping, fmt.Errorf("dual: face %v separates %d volumes, need 2: %w",
				f, len(cob), ErrNotDualizable)
		}
		a, b := cob[0], cob[1]
		switch {
		case a.Orient == core.Minus && b.Orient == core.Plus:
			tailVol[f], headVol[f] = a.Cell, b.Cell
		case a.Orient == core.Plus && b.Orient == core.Minus:
			tailVol[f], headVol[f] = b.Cell, a.Cell
		default:
			// Unoriented pairing: identifier order fixes the side.
			tailVol[f], headVol[f] = a.Cell, b.Cell
		}
	}

	// 2. Rotation of faces around every edge, through the volumes gluing them.
	edgeRot := make(map[core.ID][]rotStep, len(edges))
	for _, e := range edges {
		rot, err := edgeRotation(c, e, tailVol, headVol)
		if err != nil {
			return nil, mapping, err
		}
		if len(rot) < 3 {
			return nil, mapping, fmt.Errorf("dual: edge %v meets %d faces, dual face would degenerate: %w",
				e, len(rot), ErrNotDualizable)
		}
		edgeRot[e] = rot
	}
	for _, v := range vertices {
		cob, err := c.CoboundaryOf(v)
		if err != nil {
			return nil, mapping, err
		}
		if len(cob) < 4 {
			return nil, mapping, fmt.Errorf("dual: vertex %v has valence %d, dual volume would degenerate: %w",
				v, len(cob), ErrNotDualizable)
		}
	}

	out := core.New(WithSameLimits(c)...)
	vDual := make(map[core.ID]core.ID, len(volumes))
	eDual := make(map[core.ID]core.ID, len(faces))
	fDual := make(map[core.ID]core.ID, len(edges))
	cDual := make(map[core.ID]core.ID, len(vertices))

	err := out.Edit(func(tx *core.Tx) error {
		for _, vol := range volumes {
			view, err := c.Get(vol)
			if err != nil {
				return err
			}
			id, err := tx.NewCell(core.DimVertex, view.Payload)
			if err != nil {
				return err
			}
			vDual[vol] = id
		}
		for _, f := range faces {
			view, err := c.Get(f)
			if err != nil {
				return err
			}
			id, err := tx.NewCell(core.DimEdge, view.Payload)
			if err != nil {
				return err
			}
			eDual[f] = id
			if err := tx.ReplaceBoundary(id, []core.IncidenceRef{
				{Cell: vDual[tailVol[f]], Orient: core.Minus},
				{Cell: vDual[headVol[f]], Orient: core.Plus},
			}); err != nil {
				return err
			}
		}
		for _, e := range edges {
			view, err := c.Get(e)
			if err != nil {
				return err
			}
			id, err := tx.NewCell(core.DimFace, view.Payload)
			if err != nil {
				return err
			}
			fDual[e] = id

			rot := edgeRot[e]
			refs := make([]core.IncidenceRef, len(rot))
			for k, s := range rot {
				flag := core.Minus
				if headVol[s.edge] == s.face { // s.edge holds the face here
					flag = core.Plus
				}
				refs[k] = core.IncidenceRef{Cell: eDual[s.edge], Orient: flag}
			}
			if err := tx.ReplaceBoundary(id, refs); err != nil {
				return err
			}
		}
		for _, v := range vertices {
			view, err := c.Get(v)
			if err != nil {
				return err
			}
			id, err := tx.NewCell(core.DimVolume, view.Payload)
			if err != nil {
				return err
			}
			cDual[v] = id

			// The dual volume is bounded by the dual faces of the edges at v:
			// Minus on the tail side, Plus on the head side.
			cob, err := c.CoboundaryOf(v)
			if err != nil {
				return err
			}
			for _, eref := range cob {
				if err := tx.Link(id, fDual[eref.Cell], eref.Orient); err != nil {
					return err
				}
			}
		}

		tx.AddHandles(c.Handles())
		tx.AddComponents(c.Components())

		return nil
	})
	if err != nil {
		return nil, mapping, fmt.Errorf("dual: %w", err)
	}

	mapping[core.DimVolume] = vDual
	mapping[core.DimFace] = eDual
	mapping[core.DimEdge] = fDual
	mapping[core.DimVertex] = cDual

	return out, mapping, nil
}

// --- rotation walks ----------------------------------------------------------

// rotStep pairs a codimension-1 cell with the top cell entered after crossing
// it (edge/face on surfaces, face/volume on 3-complexes — the field names
// follow the surface case).
type rotStep struct {
	edge core.ID
	face core.ID
}

// vertexRotation orders the edges at v by walking edge → face → next edge
// around the umbrella, starting from the minimal incident edge. Every
// crossing enters the face whose traversal of the edge arrives at v, so all
// umbrellas turn with the same handedness and the dual faces of an edge's two
// endpoints claim opposite flags on the shared dual edge.
func vertexRotation(c *core.Complex, v core.ID) ([]rotStep, error) {
	cob, err := c.CoboundaryOf(v)
	if err != nil {
		return nil, err
	}
	if len(cob) == 0 {
		return nil, fmt.Errorf("dual: isolated vertex %v: %w", v, ErrNotDualizable)
	}

	start := cob[0].Cell
	rot := make([]rotStep, 0, len(cob))
	e := start
	for {
		f, err := faceInto(c, e, v)
		if err != nil {
			return nil, err
		}
		rot = append(rot, rotStep{edge: e, face: f})
		next, ok := siblingEdgeAt(c, f, v, e)
		if !ok {
			return nil, fmt.Errorf("dual: rotation stuck at vertex %v: %w", v, core.ErrInvariantViolation)
		}
		e = next
		if e == start || len(rot) > len(cob) {
			break
		}
	}
	if len(rot) != len(cob) {
		return nil, fmt.Errorf("dual: vertex %v umbrella is not a single cycle: %w", v, ErrNotDualizable)
	}

	return rot, nil
}

// edgeRotation orders the faces around edge e by walking face → volume → next
// face, starting from the minimal incident face. Every crossing enters the
// volume on the side matching the face's own traversal of e — the volumetric
// analogue of the umbrella handedness rule above.
func edgeRotation(c *core.Complex, e core.ID, tailVol, headVol map[core.ID]core.ID) ([]rotStep, error) {
	cob, err := c.CoboundaryOf(e)
	if err != nil {
		return nil, err
	}
	if len(cob) == 0 {
		return nil, fmt.Errorf("dual: faceless edge %v: %w", e, ErrNotDualizable)
	}

	start := cob[0].Cell
	rot := make([]rotStep, 0, len(cob))
	f := start
	for {
		vol, err := volumeInto(c, f, e, tailVol, headVol)
		if err != nil {
			return nil, err
		}
		rot = append(rot, rotStep{edge: f, face: vol})
		next, ok := siblingFaceAt(c, vol, e, f)
		if !ok {
			return nil, fmt.Errorf("dual: rotation stuck at edge %v: %w", e, core.ErrInvariantViolation)
		}
		f = next
		if f == start || len(rot) > len(cob) {
			break
		}
	}
	if len(rot) != len(cob) {
		return nil, fmt.Errorf("dual: faces around edge %v are not a single cycle: %w", e, ErrNotDualizable)
	}

	return rot, nil
}

// faceInto returns the face whose traversal of e arrives at v: the Plus face
// when v is the head, the Minus face when v is the tail.
func faceInto(c *core.Complex, e, v core.ID) (core.ID, error) {
	b, err := c.BoundaryOf(e)
	if err != nil {
		return core.NilID, err
	}
	if len(b) != 2 {
		return core.NilID, fmt.Errorf("dual: edge %v: malformed boundary: %w", e, core.ErrInvariantViolation)
	}
	want := core.Plus
	if b[0].Cell == v {
		want = core.Minus
	} else if b[1].Cell != v {
		return core.NilID, fmt.Errorf("dual: edge %v does not end at %v: %w", e, v, core.ErrInvariantViolation)
	}

	cob, err := c.CoboundaryOf(e)
	if err != nil {
		return core.NilID, err
	}
	for _, ref := range cob {
		if ref.Orient == want {
			return ref.Cell, nil
		}
	}

	return core.NilID, fmt.Errorf("dual: no face of %v arrives at %v: %w", e, v, ErrNotDualizable)
}

// siblingEdgeAt returns the edge of face f at vertex v other than e.
func siblingEdgeAt(c *core.Complex, f, v, e core.ID) (core.ID, bool) {
	refs, err := c.BoundaryOf(f)
	if err != nil {
		return core.NilID, false
	}
	for _, ref := range refs {
		if ref.Cell == e {
			continue
		}
		b, err := c.BoundaryOf(ref.Cell)
		if err != nil || len(b) != 2 {
			continue
		}
		if b[0].Cell == v || b[1].Cell == v {
			return ref.Cell, true
		}
	}

	return core.NilID, false
}

// volumeInto returns the volume on the side of f matching f's own traversal
// of e: the head side when f runs e forward, the tail side otherwise.
func volumeInto(c *core.Complex, f, e core.ID, tailVol, headVol map[core.ID]core.ID) (core.ID, error) {
	refs, err := c.BoundaryOf(f)
	if err != nil {
		return core.NilID, err
	}
	for _, ref := range refs {
		if ref.Cell != e {
			continue
		}
		if ref.Orient == core.Plus {
			return headVol[f], nil
		}

		return tailVol[f], nil
	}

	return core.NilID, fmt.Errorf("dual: face %v does not bound edge %v: %w", f, e, core.ErrInvariantViolation)
}

// siblingFaceAt returns the face of volume vol at edge e other than f.
func siblingFaceAt(c *core.Complex, vol, e, f core.ID) (core.ID, bool) {
	refs, err := c.BoundaryOf(vol)
	if err != nil {
		return core.NilID, false
	}
	for _, ref := range refs {
		if ref.Cell == f {
			continue
		}
		b, err := c.BoundaryOf(ref.Cell)
		if err != nil {
			continue
		}
		for _, eref := range b {
			if eref.Cell == e {
				return ref.Cell, true
			}
		}
	}

	return core.NilID, false
}

// WithSameLimits carries the input's structural options to a fresh complex.
func WithSameLimits(c *core.Complex) []core.Option {
	opts := []core.Option{core.WithMaxDimension(c.MaxDim())}
	if c.AllowsBoundary() {
		opts = append(opts, core.WithBoundaryLoops())
	}

	return opts
}
