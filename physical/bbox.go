package physical

import "math"

// BoundingBox is an axis-aligned box around a set of points. The zero value
// is an empty box that takes the dimension of the first point added.
type BoundingBox struct {
	min, max    []float64
	initialized bool
}

// Add expands the box to contain point.
//
// **params**
// + the point, of the same dimension as the points added before
//
// **returns**
// + this BoundingBox for chaining
func (b *BoundingBox) Add(point ControlPoint) *BoundingBox {
	if !b.initialized {
		b.min = point.Coordinates()
		b.max = point.Coordinates()
		b.initialized = true
		return b
	}

	point.mustMatch(ControlPoint{b.min})
	for i, val := range point.coordinates {
		if val > b.max[i] {
			b.max[i] = val
		}
		if val < b.min[i] {
			b.min[i] = val
		}
	}

	return b
}

// AddRange adds every point of points.
func (b *BoundingBox) AddRange(points []ControlPoint) *BoundingBox {
	for _, pt := range points {
		b.Add(pt)
	}
	return b
}

// IsEmpty reports whether no point has been added.
func (b *BoundingBox) IsEmpty() bool {
	return !b.initialized
}

// Min returns the lower corner. It panics on an empty box.
func (b *BoundingBox) Min() ControlPoint {
	if !b.initialized {
		panic("physical: corner of an empty bounding box")
	}
	return NewControlPoint(b.min...)
}

// Max returns the upper corner. It panics on an empty box.
func (b *BoundingBox) Max() ControlPoint {
	if !b.initialized {
		panic("physical: corner of an empty bounding box")
	}
	return NewControlPoint(b.max...)
}

// Contains reports whether point lies in the box widened by tolerance.
func (b *BoundingBox) Contains(point ControlPoint, tolerance float64) bool {
	if !b.initialized || point.Dimension() != len(b.min) {
		return false
	}
	for i, val := range point.coordinates {
		if val < b.min[i]-tolerance || val > b.max[i]+tolerance {
			return false
		}
	}
	return true
}

// Intersects reports whether the two boxes, each widened by tolerance,
// overlap.
func (b *BoundingBox) Intersects(other *BoundingBox, tolerance float64) bool {
	if !b.initialized || !other.initialized || len(b.min) != len(other.min) {
		return false
	}
	for i := range b.min {
		if b.max[i]+tolerance < other.min[i]-tolerance || other.max[i]+tolerance < b.min[i]-tolerance {
			return false
		}
	}
	return true
}

// AxisLength returns the extent of the box along axis i, or 0 if i is not an
// axis of the box.
func (b *BoundingBox) AxisLength(i int) float64 {
	if !b.initialized || i < 0 || i >= len(b.min) {
		return 0
	}
	return math.Abs(b.max[i] - b.min[i])
}

// LongestAxis returns the index of the axis with the largest extent.
func (b *BoundingBox) LongestAxis() int {
	id, longest := 0, 0.0
	for i := range b.min {
		if l := b.AxisLength(i); l > longest {
			longest = l
			id = i
		}
	}
	return id
}

// Clear empties the box.
func (b *BoundingBox) Clear() *BoundingBox {
	b.initialized = false
	b.min, b.max = nil, nil
	return b
}
