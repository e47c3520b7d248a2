package compositor

import (
	"github.com/dshills/waycore/internal/geom"
)

// OutputID identifies an output within one compositor. IDs are assigned
// densely starting at zero, so small sets of outputs pack into OutputSet.
type OutputID uint32

// maxOutputs bounds OutputID so the set representation stays a single word.
const maxOutputs = 64

// Output is one display sink: a fixed global-space geometry, the plane
// flips are submitted to, and the damage carried over from the previous
// frame of this output's back buffer.
type Output struct {
	id       OutputID
	geometry geom.Rect
	plane    Plane

	// previousDamage is the region damaged in the immediately prior frame.
	// The back buffer still shows stale content there until redrawn again.
	previousDamage *geom.Region
}

// ID returns the output's identifier.
func (o *Output) ID() OutputID { return o.id }

// Geometry returns the output's global-space geometry.
func (o *Output) Geometry() geom.Rect { return o.geometry }

// Plane returns the output's framebuffer plane.
func (o *Output) Plane() Plane { return o.plane }

// OutputSet is a set of output identifiers. The representation is a bitmask
// over the dense ID space; only the set semantics (membership, union,
// difference) matter to callers.
type OutputSet uint64

// Has reports whether id is in the set.
func (s OutputSet) Has(id OutputID) bool {
	return s&(1<<id) != 0
}

// Add returns the set with id included.
func (s OutputSet) Add(id OutputID) OutputSet {
	return s | 1<<id
}

// Remove returns the set without id.
func (s OutputSet) Remove(id OutputID) OutputSet {
	return s &^ (1 << id)
}

// Union returns the union of s and other.
func (s OutputSet) Union(other OutputSet) OutputSet {
	return s | other
}

// Diff returns the members of s not in other.
func (s OutputSet) Diff(other OutputSet) OutputSet {
	return s &^ other
}

// Empty reports whether the set has no members.
func (s OutputSet) Empty() bool {
	return s == 0
}
