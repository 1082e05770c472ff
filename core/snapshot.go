// File: snapshot.go
// Role: the interchange surface for collaborators — a full structural dump
// (cell list plus oriented incidence list) and the matching bulk-load
// constructor that validates every invariant once at load time.
//
// Import/export collaborators own any on-disk format; the core only
// guarantees that Load(c.Snapshot()) reconstructs an equivalent complex,
// identifiers included.
package core

import "fmt"

// SnapCell is one cell in a structural dump.
type SnapCell struct {
	ID      ID
	Payload any
}

// SnapIncidence is one oriented boundary entry in a structural dump.
// Entries sharing a parent appear in boundary order.
type SnapIncidence struct {
	Parent ID
	Child  ID
	Orient Orientation
}

// Snapshot is a complete structural dump of a Complex: enough to reconstruct
// it via Load, or for an export collaborator to serialize.
type Snapshot struct {
	MaxDim        Dimension
	AllowBoundary bool

	Cells      []SnapCell
	Incidences []SnapIncidence

	// Euler ledger at dump time.
	Handles    int
	Loops      int
	Components int
}

// Snapshot dumps the complex: cells ordered by (dimension, slot index),
// incidences in each parent's boundary order.
//
// Complexity: O(cells + incidences).
func (c *Complex) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := &Snapshot{
		MaxDim:        c.maxDim,
		AllowBoundary: c.allowBoundary,
		Handles:       c.handles,
		Loops:         c.loops,
		Components:    c.components,
	}

	for d := DimVertex; d <= c.maxDim; d++ {
		it := c.live[d].Iterator()
		for it.HasNext() {
			index := it.Next()
			s := &c.arenas[d][index]
			id := ID{dim: d, index: index, gen: s.gen}
			snap.Cells = append(snap.Cells, SnapCell{ID: id, Payload: s.payload})
			for _, ref := range s.boundary {
				snap.Incidences = append(snap.Incidences, SnapIncidence{
					Parent: id, Child: ref.Cell, Orient: ref.Orient,
				})
			}
		}
	}

	return snap
}

// Load reconstructs a Complex from a structural dump, preserving the dumped
// identifiers (slot indices and generations), then validates invariants 1–4
// once over the whole graph. On any failure the error is returned and no
// complex is produced.
//
// Complexity: O(cells + incidences) plus one full Validate pass.
func Load(snap *Snapshot) (*Complex, error) {
	if snap == nil {
		return nil, fmt.Errorf("core: load: nil snapshot: %w", ErrNilComplex)
	}

	c := New(WithMaxDimension(snap.MaxDim))
	if snap.AllowBoundary {
		c.allowBoundary = true
	}

	// 1. Size the arenas and install the cells at their dumped slots.
	var tops [NumDimensions]uint32
	for _, sc := range snap.Cells {
		d := sc.ID.dim
		if !d.Valid() || d > c.maxDim {
			return nil, fmt.Errorf("core: load: cell %v beyond top dimension %v: %w", sc.ID, c.maxDim, ErrDimension)
		}
		if sc.ID.index+1 > tops[d] {
			tops[d] = sc.ID.index + 1
		}
	}
	for d := range c.arenas {
		c.arenas[d] = make([]slot, tops[d])
	}

	for _, sc := range snap.Cells {
		d := sc.ID.dim
		s := &c.arenas[d][sc.ID.index]
		if s.live {
			return nil, violation("load: duplicate cell %v", sc.ID)
		}
		if sc.ID.gen == 0 {
			return nil, fmt.Errorf("core: load: cell %v has zero generation: %w", sc.ID, ErrUnknownCell)
		}
		s.live = true
		s.gen = sc.ID.gen
		s.payload = sc.Payload
		c.live[d].Add(sc.ID.index)
	}

	// 2. Queue the gaps for reuse (descending, so low indices come off first).
	for d := range c.arenas {
		for index := len(c.arenas[d]) - 1; index >= 0; index-- {
			if !c.arenas[d][index].live {
				c.free[d] = append(c.free[d], uint32(index))
			}
		}
	}

	// 3. Replay the incidences through the same primitive the operators use,
	//    preserving boundary order.
	for _, inc := range snap.Incidences {
		if err := c.link(inc.Parent, inc.Child, inc.Orient); err != nil {
			return nil, fmt.Errorf("core: load: %w", err)
		}
	}

	// 4. Install the ledger, then verify everything in one pass.
	c.handles = snap.Handles
	c.loops = snap.Loops
	c.components = snap.Components

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("core: load: %w", err)
	}

	return c, nil
}
