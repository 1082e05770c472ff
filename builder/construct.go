// File: construct.go
// Role: FromFaces — manifold construction from indexed face lists by corner
// matching. Every vertex starts as a point sphere; edges are inserted where
// a corner on each side can be identified, and ambiguous edges are postponed
// until earlier insertions disambiguate them.
package builder

import (
	"fmt"

	"github.com/topmod-org/topocore/core"
)

// quadruplet is one candidate edge (v1, v2) with its face-cycle context:
// prev precedes v1 and next follows v2 in the face being stitched. The
// context is what identifies the corners to insert between.
type quadruplet struct {
	prev, v1, v2, next VertexKey
}

// FromFaces builds a validated complex from faces given as vertex-index
// cycles. payloads, when non-nil, supplies the vertex payloads by index.
// Returns the complex and the core identifier of each input vertex.
//
// The face set must describe an orientable 2-manifold: every edge shared by
// exactly two faces in opposite directions (or one, when compiling with
// core.WithBoundaryLoops). Ambiguous stitchings that survive repeated passes
// fail with ErrNonManifold.
func FromFaces(faces [][]int, payloads []any, opts ...core.Option) (*core.Complex, []core.ID, error) {
	// 1. One point sphere per referenced vertex.
	top := -1
	for _, face := range faces {
		for _, idx := range face {
			if idx < 0 {
				return nil, nil, fmt.Errorf("builder: from faces: negative vertex index %d: %w", idx, ErrUnknownKey)
			}
			if idx > top {
				top = idx
			}
		}
	}
	if top < 0 {
		return nil, nil, fmt.Errorf("builder: from faces: no faces: %w", ErrIncompleteMesh)
	}

	m := NewMesh()
	keys := make([]VertexKey, top+1)
	for i := range keys {
		var payload any
		if i < len(payloads) {
			payload = payloads[i]
		}
		keys[i], _ = m.PointSphere(payload)
	}

	// 2. Queue every edge with its corner context.
	var queue []quadruplet
	for _, face := range faces {
		if len(face) < 3 {
			return nil, nil, fmt.Errorf("builder: from faces: face %v too short: %w", face, ErrIncompleteMesh)
		}
		for _, t := range tuples(face, 4) {
			queue = append(queue, quadruplet{
				prev: keys[t[0]], v1: keys[t[1]], v2: keys[t[2]], next: keys[t[3]],
			})
		}
	}

	// 3. Insert in passes; edges whose corners cannot be identified yet go to
	//    the back. Two consecutive passes without progress means the face set
	//    has no (or no unique) manifold interpretation.
	if err := m.stitch(queue); err != nil {
		return nil, nil, err
	}

	// 4. Compile, carrying the vertex identifiers out.
	c, vertexIDs, _, err := m.Compile(opts...)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]core.ID, len(keys))
	for i, k := range keys {
		ids[i] = vertexIDs[k]
	}

	return c, ids, nil
}

// stitch drains the quadruplet queue, inserting each edge between the
// matched corners.
func (m *Mesh) stitch(queue []quadruplet) error {
	inserted := make(map[[2]VertexKey]struct{})
	nullPasses := 0

	for len(queue) > 0 {
		var postponed []quadruplet
		progressed := false

		for _, q := range queue {
			if q.v1 == q.v2 {
				continue // self-loop: never inserted
			}
			if _, done := inserted[normPair(q.v1, q.v2)]; done {
				continue
			}

			f1, ok1, err := m.matchCorner(q.v1, q.prev, q.v2)
			if err != nil {
				return err
			}
			f2, ok2, err := m.matchCorner(q.v2, q.v1, q.next)
			if err != nil {
				return err
			}
			if !ok1 || !ok2 {
				postponed = append(postponed, q)
				continue
			}

			if _, _, err := m.InsertEdge(q.v1, f1, q.v2, f2); err != nil {
				return err
			}
			inserted[normPair(q.v1, q.v2)] = struct{}{}
			progressed = true
		}

		if !progressed {
			nullPasses++
			if nullPasses > 2 {
				return fmt.Errorf("builder: %d edges unresolvable (multiple manifold interpretations): %w",
					len(postponed), ErrNonManifold)
			}
		} else {
			nullPasses = 0
		}
		queue = postponed
	}

	return nil
}

// matchCorner identifies the face of the corner at v flanked by prev and
// next. A vertex with a single corner (a point sphere, or one face so far)
// matches unconditionally; otherwise the rotation is scanned for a corner
// preceded by prev or followed by next.
func (m *Mesh) matchCorner(v, prev, next VertexKey) (FaceKey, bool, error) {
	rotation, err := m.VertexTrace(v)
	if err != nil {
		return "", false, err
	}
	if len(rotation) == 1 {
		return rotation[0].Face, true, nil
	}

	for _, corner := range rotationCorners(v, rotation) {
		if corner.prev == prev || corner.next == next {
			return corner.face, true, nil
		}
	}

	return "", false, nil
}

// corner is one (prev, v, next) wedge of a rotation and the face holding it.
type corner struct {
	prev, next VertexKey
	face       FaceKey
}

// rotationCorners extracts the corners from a rotation trace: each incoming
// leg (x → v) paired with the outgoing leg (v → y) that follows it in the
// same face.
func rotationCorners(v VertexKey, rotation []HalfEdge) []corner {
	n := len(rotation)
	out := make([]corner, 0, n/2)
	for i, he := range rotation {
		if he.To != v {
			continue // outgoing leg: the corner starts at the incoming one
		}
		follow := rotation[(i+1)%n]
		if follow.From != v {
			continue
		}
		out = append(out, corner{prev: he.From, next: follow.To, face: he.Face})
	}

	return out
}

func normPair(a, b VertexKey) [2]VertexKey {
	if b < a {
		a, b = b, a
	}

	return [2]VertexKey{a, b}
}
