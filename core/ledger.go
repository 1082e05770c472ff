// File: ledger.go
// Role: Euler–Poincaré bookkeeping.
//
// The complex tracks handle count, open boundary loops, and connected
// components alongside every committed edit, so genus queries never rescan
// the incidence graph. The full checker (validate.go) recomputes the
// component count independently and cross-checks the relation
//
//	V − E + F (− C) == 2·components − 2·handles − loops
//
// after test scenarios and bulk loads.
package core

import "fmt"

// Chi returns the Euler characteristic V − E + F − C, derived from the live
// cell counts. Complexity: O(1).
func (c *Complex) Chi() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.chi()
}

// chi computes the alternating sum of live cell counts.
// Callers must hold c.mu (either side).
func (c *Complex) chi() int {
	sign := 1
	sum := 0
	for d := DimVertex; d <= c.maxDim; d++ {
		sum += sign * int(c.live[d].GetCardinality())
		sign = -sign
	}

	return sum
}

// Handles returns the tracked number of attached handles (the total genus of
// the complex across its components). Complexity: O(1).
func (c *Complex) Handles() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.handles
}

// BoundaryLoops returns the tracked number of open boundary loops (holes).
// Complexity: O(1).
func (c *Complex) BoundaryLoops() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.loops
}

// Components returns the tracked number of connected components.
// Complexity: O(1).
func (c *Complex) Components() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.components
}

// Genus returns the total genus derived from the tracked Euler characteristic:
// g = (2·components − χ − loops) / 2 for orientable surface complexes.
//
// Returns ErrInvariantViolation if the relation does not yield an integer,
// which indicates a corrupted ledger (and would be caught by Validate).
// Complexity: O(1) — the point of tracking χ instead of recomputing it.
func (c *Complex) Genus() (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	twice := 2*c.components - c.chi() - c.loops
	if twice < 0 || twice%2 != 0 {
		return 0, fmt.Errorf("core: genus: 2c−χ−b = %d: %w", twice, ErrInvariantViolation)
	}

	return twice / 2, nil
}
