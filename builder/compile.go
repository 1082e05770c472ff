// File: compile.go
// Role: the bridge from scratchpad to strict kernel — derive the edge set and
// orientations from the face cycles, compute the Euler ledger, and load
// everything through one validated edit transaction.
package builder

import (
	"fmt"
	"sort"

	"github.com/topmod-org/topocore/core"
)

// edgeUse is one directed traversal of an undirected edge.
type edgeUse struct {
	from, to VertexKey
	face     FaceKey
}

// Compile turns a finished scratchpad into a validated core.Complex. Options
// are forwarded to core.New (pass core.WithBoundaryLoops for meshes with open
// boundary). Returns the complex plus the vertex and face key→ID maps.
//
// Fails with ErrIncompleteMesh while point spheres or sub-triangle faces
// remain, and with ErrNonManifold when the cycles do not describe an
// orientable manifold.
//
// Complexity: O(cells + incidences).
func (m *Mesh) Compile(opts ...core.Option) (*core.Complex, map[VertexKey]core.ID, map[FaceKey]core.ID, error) {
	faces := m.Faces()

	// 1. Structural completeness.
	for _, f := range faces {
		if n := len(m.faceVerts[f]); n < 3 {
			return nil, nil, nil, fmt.Errorf("builder: compile: face %s has %d vertices: %w", f, n, ErrIncompleteMesh)
		}
	}

	// 2. Derive the undirected edge set; each edge carries one or two
	//    directed uses, and two uses must run opposite ways.
	uses := make(map[[2]VertexKey][]edgeUse)
	var order [][2]VertexKey
	for _, f := range faces {
		cycle := m.faceVerts[f]
		seen := make(map[[2]VertexKey]struct{}, len(cycle))
		for _, p := range pairs(cycle) {
			if p[0] == p[1] {
				return nil, nil, nil, fmt.Errorf("builder: compile: face %s has a self-loop at %s: %w", f, p[0], ErrNonManifold)
			}
			k := normPair(p[0], p[1])
			if _, dup := seen[k]; dup {
				return nil, nil, nil, fmt.Errorf("builder: compile: face %s traverses %s↔%s twice: %w", f, p[0], p[1], ErrNonManifold)
			}
			seen[k] = struct{}{}
			if _, known := uses[k]; !known {
				order = append(order, k)
			}
			uses[k] = append(uses[k], edgeUse{from: p[0], to: p[1], face: f})
		}
	}
	for _, k := range order {
		us := uses[k]
		switch {
		case len(us) > 2:
			return nil, nil, nil, fmt.Errorf("builder: compile: edge %s↔%s on %d faces: %w", k[0], k[1], len(us), ErrNonManifold)
		case len(us) == 2 && us[0].from == us[1].from:
			return nil, nil, nil, fmt.Errorf("builder: compile: edge %s→%s traversed twice in the same direction: %w",
				us[0].from, us[0].to, ErrNonManifold)
		}
	}

	// 3. Euler ledger from scratch: components by union-find, boundary loops
	//    by chaining single-use edges, genus from χ = 2c − 2g − b.
	components := m.countComponents(order)
	loops, err := countLoops(order, uses)
	if err != nil {
		return nil, nil, nil, err
	}
	chi := len(m.vertexFaces) - len(order) + len(faces)
	twoG := 2*components - loops - chi
	if twoG < 0 || twoG%2 != 0 {
		return nil, nil, nil, fmt.Errorf("builder: compile: χ=%d, c=%d, b=%d solve to no genus: %w",
			chi, components, loops, ErrNonManifold)
	}

	// 4. Load through one transaction; validation covers the whole graph
	//    since every cell is new.
	c := core.New(opts...)
	if loops > 0 && !c.AllowsBoundary() {
		return nil, nil, nil, fmt.Errorf("builder: compile: %d open boundary loops (compile with core.WithBoundaryLoops): %w",
			loops, ErrNonManifold)
	}

	vertexIDs := make(map[VertexKey]core.ID, len(m.vertexFaces))
	faceIDs := make(map[FaceKey]core.ID, len(faces))
	edgeIDs := make(map[[2]VertexKey]core.ID, len(order))

	err = c.Edit(func(tx *core.Tx) error {
		for _, v := range m.sortedVertices() {
			id, err := tx.NewCell(core.DimVertex, m.payloads[v])
			if err != nil {
				return err
			}
			vertexIDs[v] = id
		}
		for _, k := range order {
			// The first use fixes (tail, head).
			tail, head := uses[k][0].from, uses[k][0].to
			id, err := tx.NewCell(core.DimEdge, nil)
			if err != nil {
				return err
			}
			if err := tx.ReplaceBoundary(id, []core.IncidenceRef{
				{Cell: vertexIDs[tail], Orient: core.Minus},
				{Cell: vertexIDs[head], Orient: core.Plus},
			}); err != nil {
				return err
			}
			edgeIDs[k] = id
		}
		for _, f := range faces {
			id, err := tx.NewCell(core.DimFace, nil)
			if err != nil {
				return err
			}
			cycle := m.faceVerts[f]
			refs := make([]core.IncidenceRef, 0, len(cycle))
			for _, p := range pairs(cycle) {
				k := normPair(p[0], p[1])
				flag := core.Minus
				if uses[k][0].from == p[0] {
					flag = core.Plus
				}
				refs = append(refs, core.IncidenceRef{Cell: edgeIDs[k], Orient: flag})
			}
			if err := tx.ReplaceBoundary(id, refs); err != nil {
				return err
			}
			faceIDs[f] = id
		}

		tx.AddComponents(components)
		tx.AddLoops(loops)
		tx.AddHandles(twoG / 2)

		return nil
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("builder: compile: %w", err)
	}

	return c, vertexIDs, faceIDs, nil
}

// sortedVertices lists the scratchpad's vertex keys in sorted order.
func (m *Mesh) sortedVertices() []VertexKey {
	out := make([]VertexKey, 0, len(m.vertexFaces))
	for v := range m.vertexFaces {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// countComponents runs union-find over the vertices joined by the edge set.
func (m *Mesh) countComponents(order [][2]VertexKey) int {
	parent := make(map[VertexKey]VertexKey, len(m.vertexFaces))
	var find func(VertexKey) VertexKey
	find = func(x VertexKey) VertexKey {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for v := range m.vertexFaces {
		parent[v] = v
	}
	for _, k := range order {
		ra, rb := find(k[0]), find(k[1])
		if ra != rb {
			parent[ra] = rb
		}
	}

	components := 0
	for v := range parent {
		if find(v) == v {
			components++
		}
	}

	return components
}

// countLoops chains the single-use edges into boundary loops through shared
// vertices.
func countLoops(order [][2]VertexKey, uses map[[2]VertexKey][]edgeUse) (int, error) {
	open := make(map[[2]VertexKey]struct{})
	atVertex := make(map[VertexKey][][2]VertexKey)
	for _, k := range order {
		if len(uses[k]) == 1 {
			open[k] = struct{}{}
			atVertex[k[0]] = append(atVertex[k[0]], k)
			atVertex[k[1]] = append(atVertex[k[1]], k)
		}
	}
	for v, ks := range atVertex {
		if len(ks) != 2 {
			return 0, fmt.Errorf("builder: compile: %d boundary edges meet at %s: %w", len(ks), v, ErrNonManifold)
		}
	}

	loops := 0
	for len(open) > 0 {
		var start [2]VertexKey
		for k := range open {
			start = k
			break
		}
		delete(open, start)
		loops++

		cursor := start[1]
		for {
			advanced := false
			for _, k := range atVertex[cursor] {
				if _, remains := open[k]; !remains {
					continue
				}
				delete(open, k)
				if k[0] == cursor {
					cursor = k[1]
				} else {
					cursor = k[0]
				}
				advanced = true
				break
			}
			if !advanced {
				break
			}
		}
	}

	return loops, nil
}
