// Package core defines the central Complex, ID, and incidence types,
// and provides thread-safe primitives for building, querying, and editing
// cellular complexes.
//
// This file declares Dimension, Orientation, ID, IncidenceRef, CellView,
// sentinel errors, Option, and the New constructor.
//
// Errors:
//
//	ErrUnknownCell        - identifier was never allocated, or is stale/destroyed.
//	ErrDanglingReference  - cell release attempted while incidences still name it.
//	ErrInvariantViolation - a primitive edit would break incidence consistency.
//	ErrDimension          - cell of the wrong dimension passed to an operation.
//	ErrNilComplex         - nil *Complex passed to a function.
package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring"
)

// Sentinel errors for core complex operations.
var (
	// ErrUnknownCell indicates an identifier that was never allocated, or that
	// has been destroyed (stale generation). Registry misuse; never retried.
	ErrUnknownCell = errors.New("core: unknown cell")

	// ErrDanglingReference indicates an attempt to release a cell while some
	// incidence record still references it.
	ErrDanglingReference = errors.New("core: dangling reference")

	// ErrInvariantViolation indicates a primitive edit (or a validation pass)
	// found the incidence graph inconsistent: duplicate links, contradictory
	// orientation pairings, broken boundary cycles, or a mismatched
	// Euler-characteristic ledger.
	ErrInvariantViolation = errors.New("core: invariant violation")

	// ErrDimension indicates a cell of an unexpected dimension was passed
	// (e.g. a face where an edge is required, or a link that does not span
	// adjacent dimensions).
	ErrDimension = errors.New("core: wrong cell dimension")

	// ErrNilComplex indicates a nil *Complex receiver or argument.
	ErrNilComplex = errors.New("core: complex is nil")
)

// Dimension tags a cell with its topological dimension.
type Dimension uint8

// Cell dimensions. A surface complex uses DimVertex..DimFace; the volumetric
// variant adds DimVolume.
const (
	DimVertex Dimension = iota // 0-cells
	DimEdge                    // 1-cells
	DimFace                    // 2-cells
	DimVolume                  // 3-cells
)

// NumDimensions is the number of supported cell dimensions.
const NumDimensions = 4

var dimPrefix = [NumDimensions]string{"v", "e", "f", "c"}

// String returns the human-readable name of the dimension.
func (d Dimension) String() string {
	switch d {
	case DimVertex:
		return "vertex"
	case DimEdge:
		return "edge"
	case DimFace:
		return "face"
	case DimVolume:
		return "volume"
	default:
		return fmt.Sprintf("dimension(%d)", uint8(d))
	}
}

// Valid reports whether d names a supported dimension.
func (d Dimension) Valid() bool { return d < NumDimensions }

// Orientation is the +/- flag carried by every incidence reference.
// For an edge boundary, Minus marks the tail vertex and Plus the head
// (∂e = head − tail). For a face boundary, Plus means the edge is traversed
// tail→head, Minus head→tail.
type Orientation int8

// Orientation values.
const (
	Plus  Orientation = +1
	Minus Orientation = -1
)

// Reverse returns the opposite orientation.
func (o Orientation) Reverse() Orientation { return -o }

// Valid reports whether o is one of Plus, Minus.
func (o Orientation) Valid() bool { return o == Plus || o == Minus }

// String returns "+" or "-" (or "orientation(n)" for invalid values).
func (o Orientation) String() string {
	switch o {
	case Plus:
		return "+"
	case Minus:
		return "-"
	default:
		return fmt.Sprintf("orientation(%d)", int8(o))
	}
}

// ID is the stable identifier of a cell within one Complex.
//
// It is an opaque, comparable, hashable token: collaborators must not assume
// identifiers are small sequential integers usable as array indices across
// edits. Slots are recycled with a generation guard, so a destroyed cell's ID
// deterministically fails Get with ErrUnknownCell even after its slot is
// reused. The zero ID is never allocated.
type ID struct {
	dim   Dimension
	index uint32
	gen   uint32
}

// NilID is the zero identifier; it never names a live cell.
var NilID ID

// Dim returns the dimension the identifier was allocated for.
func (id ID) Dim() Dimension { return id.dim }

// IsNil reports whether id is the zero identifier.
func (id ID) IsNil() bool { return id == NilID }

// Less orders identifiers by (dimension, slot index, generation).
// Orbit queries use this ordering for canonical, deterministic output.
func (id ID) Less(other ID) bool {
	if id.dim != other.dim {
		return id.dim < other.dim
	}
	if id.index != other.index {
		return id.index < other.index
	}

	return id.gen < other.gen
}

// String renders identifiers in the conventional short form: "v1", "e12",
// "f3", "c2". Recycled slots carry a generation suffix, e.g. "v1~2".
func (id ID) String() string {
	if id.IsNil() {
		return "nil-cell"
	}
	if id.gen > 1 {
		return fmt.Sprintf("%s%d~%d", dimPrefix[id.dim], id.index+1, id.gen)
	}

	return fmt.Sprintf("%s%d", dimPrefix[id.dim], id.index+1)
}

// IncidenceRef is one oriented reference from a cell to a cell one dimension
// below it (a boundary entry) or the mirrored entry held by the child.
type IncidenceRef struct {
	// Cell is the referenced cell identifier.
	Cell ID

	// Orient is the orientation flag of this reference.
	Orient Orientation
}

// CellView is a read-only snapshot of one cell, returned by Complex.Get.
// Payload is the opaque attribute owned by the cell; the core never inspects
// its contents.
type CellView struct {
	ID      ID
	Dim     Dimension
	Payload any
}

// Option configures a Complex before creation.
type Option func(c *Complex)

// WithMaxDimension sets the top cell dimension of the complex
// (DimFace for surfaces — the default — or DimVolume for 3-complexes).
func WithMaxDimension(d Dimension) Option {
	return func(c *Complex) {
		if d.Valid() && d >= DimFace {
			c.maxDim = d
		}
	}
}

// WithBoundaryLoops permits persistent mesh boundaries: faces may be removed
// (CreateHole) leaving their edge cycles as boundary loops, and edges on such
// loops have a single incident face. Without this option the complex must
// remain a closed manifold after every operator.
func WithBoundaryLoops() Option {
	return func(c *Complex) { c.allowBoundary = true }
}

// Complex is the aggregate of all cells and incidence records for one
// topological structure. It owns its cells exclusively: no cell outlives its
// complex, and identifiers from one complex are meaningless in another.
//
// mu guards every map and slice below. Read queries take the read side;
// Edit holds the write side for a whole atomic edit-plus-validate sequence.
// The complex is single-writer by design: at most one edit transaction is in
// flight at a time.
type Complex struct {
	mu sync.RWMutex

	// Configuration
	maxDim        Dimension // top cell dimension (DimFace or DimVolume)
	allowBoundary bool      // boundary loops are a valid persistent state

	// Storage: one arena per dimension, with free lists for slot reuse and
	// roaring bitmaps over live slot indices for compact enumeration.
	arenas [NumDimensions][]slot
	free   [NumDimensions][]uint32
	live   [NumDimensions]*roaring.Bitmap

	// Euler ledger: tracked alongside every edit so genus queries are O(1).
	handles    int // attached handles (genus contribution)
	loops      int // open boundary loops (holes)
	components int // connected components
}

// slot is one registry entry. Boundary order is significant (cycle order for
// faces, tail-then-head for edges); coboundary is an orientation-mirrored set.
type slot struct {
	gen      uint32
	live     bool
	payload  any
	boundary []IncidenceRef
	cob      map[ID]Orientation
}

// New creates an empty Complex. By default the complex is a surface complex
// (top dimension DimFace) and must stay a closed manifold; see
// WithMaxDimension and WithBoundaryLoops.
// Complexity: O(1).
func New(opts ...Option) *Complex {
	c := &Complex{maxDim: DimFace}
	for d := range c.live {
		c.live[d] = roaring.New()
	}
	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// MaxDim returns the top cell dimension of the complex.
func (c *Complex) MaxDim() Dimension {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.maxDim
}

// AllowsBoundary reports whether boundary loops are a permitted persistent
// state for this complex.
func (c *Complex) AllowsBoundary() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.allowBoundary
}
