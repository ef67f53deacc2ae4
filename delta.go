package delta

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Used by the debug overlay.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default debug tint.
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA for ebiten drawing calls.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R) * a * 255),
		G: uint8(clamp01(c.G) * a * 255),
		B: uint8(clamp01(c.B) * a * 255),
		A: uint8(a * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions, offsets, axes, and responses
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// UnitX is the fallback axis used when a direction cannot be derived
// (e.g. two circles sharing a center).
var UnitX = Vec2{1, 0}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Neg returns -v.
func (v Vec2) Neg() Vec2 { return Vec2{-v.X, -v.Y} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the 3D cross product of v and o.
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// LenSq returns the squared length of v.
func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Normalize returns v scaled to unit length. The second result is false when
// v has zero (or non-finite) length, in which case the zero vector is returned.
func (v Vec2) Normalize() (Vec2, bool) {
	l := v.Len()
	if l == 0 || math.IsInf(l, 0) || math.IsNaN(l) {
		return Vec2{}, false
	}
	return Vec2{v.X / l, v.Y / l}, true
}

// Perp returns v rotated 90 degrees: (y, -x).
func (v Vec2) Perp() Vec2 { return Vec2{v.Y, -v.X} }

// AABB is an axis-aligned bounding box in world space. Used by the broadphase
// only; the narrow phase never looks at it.
type AABB struct {
	Min, Max Vec2
}

// IsEmpty reports whether the box has inverted or zero-area extents.
// Empty boxes never overlap anything.
func (b AABB) IsEmpty() bool {
	return !(b.Max.X > b.Min.X) || !(b.Max.Y > b.Min.Y)
}

// Overlaps reports whether b and o share interior area. Boxes that only touch
// along an edge do not overlap, matching the narrow phase's treatment of
// exact contact.
func (b AABB) Overlaps(o AABB) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return false
	}
	return b.Min.X < o.Max.X && o.Min.X < b.Max.X &&
		b.Min.Y < o.Max.Y && o.Min.Y < b.Max.Y
}

// Width returns the X extent.
func (b AABB) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the Y extent.
func (b AABB) Height() float64 { return b.Max.Y - b.Min.Y }

// aabbOfPoints returns the tightest AABB enclosing pts. An empty slice yields
// the zero AABB (which is empty).
func aabbOfPoints(pts []Vec2) AABB {
	if len(pts) == 0 {
		return AABB{}
	}
	b := AABB{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

// ShapeKind identifies the concrete variant of a Geometry.
type ShapeKind uint8

const (
	ShapeBox     ShapeKind = iota // oriented bounding box
	ShapePolygon                  // convex polygon
	ShapeCircle                   // circle
	numShapeKinds
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapePolygon:
		return "polygon"
	case ShapeCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// StepState is the phase a CollisionWorld is in during Simulate.
type StepState uint8

const (
	StateIdle          StepState = iota // between steps
	StateBuildingPairs                  // refreshing AABBs and regenerating the pair cache
	StateNarrowPhase                    // running SAT tests on candidate pairs
	StateNotifying                      // invoking owner callbacks
)

func (s StepState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuildingPairs:
		return "building-pairs"
	case StateNarrowPhase:
		return "narrow-phase"
	case StateNotifying:
		return "notifying"
	default:
		return "unknown"
	}
}
