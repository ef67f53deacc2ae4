package delta

import (
	"fmt"
	"math"
)

// CollisionResult is the outcome of a narrow-phase test between two shapes.
// When IsColliding is true, Response is the minimum translation vector: its
// length is the penetration depth and it points from Them toward Us, so
// adding it to Us's position separates the shapes along the shortest axis
// found.
//
// Exact contact (zero penetration) is reported as not colliding. No epsilon
// is applied.
type CollisionResult struct {
	Us          Geometry
	Them        Geometry
	Response    Vec2
	IsColliding bool
}

// Penetration returns the length of Response.
func (r CollisionResult) Penetration() float64 {
	return r.Response.Len()
}

func noCollision(us, them Geometry) CollisionResult {
	return CollisionResult{Us: us, Them: them}
}

// TestBoxBox runs the separating axis test on two oriented boxes. Each
// candidate axis is an edge normal of either box; penetration on an axis is
// the sum of both projected half-extents minus the projected center distance.
func TestBoxBox(a, b *Box) CollisionResult {
	distance := a.Position().Sub(b.Position())
	minPenetration := math.Inf(1)
	var mtv Vec2

	for _, normals := range [2][]Vec2{a.normals(), b.normals()} {
		for _, axis := range normals {
			if axis.IsZero() {
				continue
			}
			projectedDistance := math.Abs(distance.Dot(axis))
			penetration := a.ProjectedRadius(axis) + b.ProjectedRadius(axis) - projectedDistance

			// Separating axis found; the boxes do not overlap.
			if penetration <= 0 {
				return noCollision(a, b)
			}
			if penetration < minPenetration {
				minPenetration = penetration
				mtv = orientAway(axis, distance)
			}
		}
	}
	return overlapResult(a, b, minPenetration, mtv)
}

// TestPolyPoly runs the separating axis test on two convex polygons (boxes
// are accepted too). Penetration on an axis is the overlap of the two
// projected intervals.
func TestPolyPoly(a, b Polygonal) CollisionResult {
	distance := shapeCenter(a).Sub(shapeCenter(b))
	minPenetration := math.Inf(1)
	var mtv Vec2

	for _, normals := range [2][]Vec2{a.normals(), b.normals()} {
		for _, axis := range normals {
			if axis.IsZero() {
				continue
			}
			minA, maxA := a.ProjectOntoAxis(axis)
			minB, maxB := b.ProjectOntoAxis(axis)
			penetration := math.Min(maxA-minB, maxB-minA)

			if penetration <= 0 {
				return noCollision(a, b)
			}
			if penetration < minPenetration {
				minPenetration = penetration
				mtv = orientAway(axis, distance)
			}
		}
	}
	return overlapResult(a, b, minPenetration, mtv)
}

// TestCircleCircle tests two circles. Penetration is the sum of the radii
// minus the center distance. Circles sharing a center push apart along UnitX.
func TestCircleCircle(a, b *Circle) CollisionResult {
	distance := a.Position().Sub(b.Position())
	penetration := a.Radius() + b.Radius() - distance.Len()
	if !(penetration > 0) {
		return noCollision(a, b)
	}
	axis, ok := distance.Normalize()
	if !ok {
		axis = UnitX
	}
	return CollisionResult{
		Us:          a,
		Them:        b,
		Response:    axis.Scale(penetration),
		IsColliding: true,
	}
}

// TestCircleBox always reports no collision. Circle versus box resolution is
// not implemented; the pair is accepted so that a simulation step stays
// total.
func TestCircleBox(a *Circle, b *Box) CollisionResult {
	return noCollision(a, b)
}

// shapeCenter returns the mean of the world vertices. Polygon vertices need
// not be centered on Position, so the MTV is oriented between the shapes'
// actual centers.
func shapeCenter(g Polygonal) Vec2 {
	if b, ok := g.(*Box); ok {
		return b.Position()
	}
	verts := g.worldVertices()
	if len(verts) == 0 {
		return g.Position()
	}
	var sum Vec2
	for _, v := range verts {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(verts)))
}

// orientAway flips axis so that it points along distance (from them to us).
func orientAway(axis, distance Vec2) Vec2 {
	if distance.Dot(axis) < 0 {
		return axis.Neg()
	}
	return axis
}

func overlapResult(a, b Geometry, penetration float64, mtv Vec2) CollisionResult {
	// No usable axis: every normal was degenerate.
	if math.IsInf(penetration, 1) {
		return noCollision(a, b)
	}
	return CollisionResult{
		Us:          a,
		Them:        b,
		Response:    mtv.Scale(penetration),
		IsColliding: true,
	}
}

// --- Dispatch ---

type pairTest func(a, b Geometry) CollisionResult

// Narrowphase dispatches a pair of shapes to the SAT test for their kinds.
// Every (kind, kind) combination has an entry; combinations without a real
// test report no collision.
type Narrowphase struct {
	table       [numShapeKinds][numShapeKinds]pairTest
	implemented [numShapeKinds][numShapeKinds]bool
}

// NewNarrowphase returns the separating axis narrow phase.
func NewNarrowphase() *Narrowphase {
	n := &Narrowphase{}

	n.set(ShapeBox, ShapeBox, true, func(a, b Geometry) CollisionResult {
		return TestBoxBox(a.(*Box), b.(*Box))
	})
	polyPoly := func(a, b Geometry) CollisionResult {
		return TestPolyPoly(a.(Polygonal), b.(Polygonal))
	}
	n.set(ShapePolygon, ShapePolygon, true, polyPoly)
	n.set(ShapeBox, ShapePolygon, true, polyPoly)
	n.set(ShapePolygon, ShapeBox, true, polyPoly)
	n.set(ShapeCircle, ShapeCircle, true, func(a, b Geometry) CollisionResult {
		return TestCircleCircle(a.(*Circle), b.(*Circle))
	})

	n.set(ShapeCircle, ShapeBox, false, func(a, b Geometry) CollisionResult {
		return TestCircleBox(a.(*Circle), b.(*Box))
	})
	n.set(ShapeBox, ShapeCircle, false, func(a, b Geometry) CollisionResult {
		r := TestCircleBox(b.(*Circle), a.(*Box))
		return noCollision(r.Them, r.Us)
	})
	n.set(ShapeCircle, ShapePolygon, false, noCollision)
	n.set(ShapePolygon, ShapeCircle, false, noCollision)
	return n
}

func (n *Narrowphase) set(a, b ShapeKind, implemented bool, fn pairTest) {
	n.table[a][b] = fn
	n.implemented[a][b] = implemented
}

// Supported reports whether the pair of kinds has a real test rather than a
// no-collision placeholder.
func (n *Narrowphase) Supported(a, b ShapeKind) bool {
	if a >= numShapeKinds || b >= numShapeKinds {
		return false
	}
	return n.implemented[a][b]
}

// Collide tests a against b. The result's Response pushes a out of b.
// Nil shapes and unknown kinds are caller errors.
func (n *Narrowphase) Collide(a, b Geometry) (CollisionResult, error) {
	if isNilGeometry(a) || isNilGeometry(b) {
		return CollisionResult{}, ErrNilGeometry
	}
	ka, kb := a.Kind(), b.Kind()
	if ka >= numShapeKinds || kb >= numShapeKinds || n.table[ka][kb] == nil {
		return CollisionResult{}, fmt.Errorf("%w: %s/%s", ErrUnsupportedShape, ka, kb)
	}
	return n.table[ka][kb](a, b), nil
}

func isNilGeometry(g Geometry) bool {
	switch v := g.(type) {
	case nil:
		return true
	case *Box:
		return v == nil
	case *Polygon:
		return v == nil
	case *Circle:
		return v == nil
	}
	return false
}
