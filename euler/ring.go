// File: ring.go
// Role: cyclic boundary arithmetic shared by the operators — resolving a face
// boundary into an oriented corner walk, rotating it, and cutting arcs out of
// it. All helpers run inside a core.Tx.
package euler

import (
	"fmt"

	"github.com/topmod-org/topocore/core"
)

// step is one leg of a face's boundary walk: the oriented edge reference as
// stored in the face, plus the vertices it runs between under that flag.
type step struct {
	ref      core.IncidenceRef
	from, to core.ID
}

// faceCycle resolves the ordered boundary of face f into its corner walk.
// On a validated complex the walk chains (each step's `to` is the next step's
// `from`); a broken chain surfaces as core.ErrInvariantViolation.
func faceCycle(tx *core.Tx, f core.ID) ([]step, error) {
	refs, err := tx.Boundary(f)
	if err != nil {
		return nil, err
	}

	cycle := make([]step, len(refs))
	for i, ref := range refs {
		from, to, err := edgeEnds(tx, ref)
		if err != nil {
			return nil, fmt.Errorf("face %v: %w", f, err)
		}
		cycle[i] = step{ref: ref, from: from, to: to}
	}

	return cycle, nil
}

// edgeEnds resolves an oriented edge reference to the (from, to) vertices it
// traverses under its flag.
func edgeEnds(tx *core.Tx, ref core.IncidenceRef) (from, to core.ID, err error) {
	b, err := tx.Boundary(ref.Cell)
	if err != nil {
		return core.NilID, core.NilID, err
	}
	if len(b) != 2 || b[0].Orient != core.Minus || b[1].Orient != core.Plus {
		return core.NilID, core.NilID,
			fmt.Errorf("edge %v: malformed boundary: %w", ref.Cell, core.ErrInvariantViolation)
	}
	if ref.Orient == core.Plus {
		return b[0].Cell, b[1].Cell, nil
	}

	return b[1].Cell, b[0].Cell, nil
}

// indexOfCorner returns the position of the step leaving vertex v, or -1.
func indexOfCorner(cycle []step, v core.ID) int {
	for i, s := range cycle {
		if s.from == v {
			return i
		}
	}

	return -1
}

// indexOfEdge returns the position of the step traversing edge e, or -1.
func indexOfEdge(cycle []step, e core.ID) int {
	for i, s := range cycle {
		if s.ref.Cell == e {
			return i
		}
	}

	return -1
}

// arc copies the cyclic sub-walk cycle[i..j) (wrapping), as incidence refs.
// arc(i, i) is the whole cycle re-rooted at i.
func arc(cycle []step, i, j int) []core.IncidenceRef {
	n := len(cycle)
	out := make([]core.IncidenceRef, 0, n)
	for k := i; ; k = (k + 1) % n {
		out = append(out, cycle[k].ref)
		if (k+1)%n == j {
			break
		}
	}

	return out
}

// vertexSet collects the corner vertices of a cycle.
func vertexSet(cycle []step) map[core.ID]struct{} {
	out := make(map[core.ID]struct{}, len(cycle))
	for _, s := range cycle {
		out[s.from] = struct{}{}
	}

	return out
}

// edgeSet collects the edges of a cycle.
func edgeSet(cycle []step) map[core.ID]struct{} {
	out := make(map[core.ID]struct{}, len(cycle))
	for _, s := range cycle {
		out[s.ref.Cell] = struct{}{}
	}

	return out
}

// spliceParentBoundary rewrites every volume above face f, replacing f's
// single entry with the given replacements at the same position and flag.
// A no-op on surface complexes.
func spliceParentBoundary(tx *core.Tx, f core.ID, repl ...core.ID) error {
	parents, err := tx.Coboundary(f)
	if err != nil {
		return err
	}
	for _, p := range parents {
		refs, err := tx.Boundary(p.Cell)
		if err != nil {
			return err
		}
		out := make([]core.IncidenceRef, 0, len(refs)+len(repl)-1)
		for _, ref := range refs {
			if ref.Cell != f {
				out = append(out, ref)
				continue
			}
			for _, r := range repl {
				out = append(out, core.IncidenceRef{Cell: r, Orient: ref.Orient})
			}
		}
		if err := tx.ReplaceBoundary(p.Cell, out); err != nil {
			return err
		}
	}

	return nil
}
