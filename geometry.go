package delta

import "math"

// Geometry is a collidable shape: one of *Box, *Polygon or *Circle. The set
// is closed; the narrow phase dispatches on Kind.
type Geometry interface {
	// Kind returns the concrete shape variant.
	Kind() ShapeKind
	// Position returns the world-space center.
	Position() Vec2
	SetPosition(p Vec2)
	// Rotation returns the rotation in radians. Always 0 for circles.
	Rotation() float64
	SetRotation(r float64)
	// AABB returns the world-space bounding box for the broadphase.
	AABB() AABB
	// ProjectOntoAxis returns the scalar interval covered by the shape when
	// projected onto axis. axis must be a unit vector.
	ProjectOntoAxis(axis Vec2) (min, max float64)
	// Contains reports whether the world-space point lies inside the shape.
	Contains(p Vec2) bool

	// revision changes every time the shape is mutated.
	revision() uint64
}

// Polygonal is implemented by the shapes that have vertices and edge normals
// (*Box and *Polygon).
type Polygonal interface {
	Geometry
	// cached world vertices and normals; callers must not mutate them.
	worldVertices() []Vec2
	normals() []Vec2
}

var (
	_ Polygonal = (*Polygon)(nil)
	_ Polygonal = (*Box)(nil)
	_ Geometry  = (*Circle)(nil)
)

// --- Polygon ---

// Polygon is a convex polygon defined by vertices relative to its Position.
// World vertices and normals are derived lazily: any mutation marks them
// stale and the next read recomputes them.
type Polygon struct {
	position Vec2
	rotation float64
	local    []Vec2

	world []Vec2
	norms []Vec2
	dirty bool
	rev   uint64
}

// NewPolygon creates a polygon from local-space vertices in either winding
// order. The slice is copied.
func NewPolygon(vertices ...Vec2) *Polygon {
	p := &Polygon{}
	p.SetLocalVertices(vertices)
	return p
}

// Kind returns ShapePolygon.
func (p *Polygon) Kind() ShapeKind { return ShapePolygon }

// Position returns the polygon's origin. Vertices are relative to it and
// need not be centered on it.
func (p *Polygon) Position() Vec2 { return p.position }

// SetPosition moves the polygon and marks derived data stale.
func (p *Polygon) SetPosition(pos Vec2) {
	if pos == p.position {
		return
	}
	p.position = pos
	p.markDirty()
}

// Rotation returns the polygon's rotation in radians.
func (p *Polygon) Rotation() float64 { return p.rotation }

// SetRotation rotates the polygon and marks derived data stale.
func (p *Polygon) SetRotation(r float64) {
	if r == p.rotation {
		return
	}
	p.rotation = r
	p.markDirty()
}

// LocalVertices returns a copy of the vertices relative to Position.
func (p *Polygon) LocalVertices() []Vec2 {
	out := make([]Vec2, len(p.local))
	copy(out, p.local)
	return out
}

// SetLocalVertices replaces the polygon's vertices. The slice is copied.
func (p *Polygon) SetLocalVertices(vertices []Vec2) {
	p.local = append(p.local[:0:0], vertices...)
	p.markDirty()
}

// WorldVertices returns the vertices transformed by the current rotation and
// position. Each call returns a fresh slice.
func (p *Polygon) WorldVertices() []Vec2 {
	w := p.worldVertices()
	out := make([]Vec2, len(w))
	copy(out, w)
	return out
}

// Normals returns one outward unit normal per edge, where edge i runs from
// vertex i to vertex i+1. Degenerate (zero-length) edges yield a zero normal.
// Each call returns a fresh slice.
func (p *Polygon) Normals() []Vec2 {
	n := p.normals()
	out := make([]Vec2, len(n))
	copy(out, n)
	return out
}

// AABB returns the bounding box of the world vertices.
func (p *Polygon) AABB() AABB {
	return aabbOfPoints(p.worldVertices())
}

// ProjectOntoAxis projects every world vertex onto axis.
func (p *Polygon) ProjectOntoAxis(axis Vec2) (min, max float64) {
	return projectPoints(p.worldVertices(), p.position, axis)
}

// Contains reports whether pt lies inside the polygon, using a cross-product
// sign test against every edge. Points on an edge count as inside.
func (p *Polygon) Contains(pt Vec2) bool {
	return convexContains(p.worldVertices(), pt)
}

func (p *Polygon) revision() uint64 { return p.rev }

func (p *Polygon) markDirty() {
	p.dirty = true
	p.rev++
}

func (p *Polygon) worldVertices() []Vec2 {
	p.refresh()
	return p.world
}

func (p *Polygon) normals() []Vec2 {
	p.refresh()
	return p.norms
}

// refresh recomputes world vertices and normals if stale.
func (p *Polygon) refresh() {
	if !p.dirty && p.world != nil {
		return
	}
	p.dirty = false

	n := len(p.local)
	if cap(p.world) < n {
		p.world = make([]Vec2, n)
		p.norms = make([]Vec2, n)
	}
	p.world = p.world[:n]
	p.norms = p.norms[:n]

	m := shapeTransform(p.position, p.rotation)
	for i, v := range p.local {
		p.world[i] = transformVec(m, v)
	}
	computeNormals(p.world, p.norms)
}

// computeNormals fills dst with outward unit edge normals for the polygon
// described by verts. The outward side is picked from the winding order.
func computeNormals(verts, dst []Vec2) {
	n := len(verts)
	sign := 1.0
	if signedArea(verts) < 0 {
		sign = -1
	}
	for i := 0; i < n; i++ {
		edge := verts[(i+1)%n].Sub(verts[i])
		normal, ok := edge.Perp().Scale(sign).Normalize()
		if !ok {
			dst[i] = Vec2{}
			continue
		}
		dst[i] = normal
	}
}

// signedArea returns twice the signed area of the polygon; positive for
// counter-clockwise winding in a Y-up frame.
func signedArea(verts []Vec2) float64 {
	var area float64
	n := len(verts)
	for i := 0; i < n; i++ {
		area += verts[i].Cross(verts[(i+1)%n])
	}
	return area
}

func projectPoints(pts []Vec2, center Vec2, axis Vec2) (min, max float64) {
	if len(pts) == 0 {
		d := center.Dot(axis)
		return d, d
	}
	min = pts[0].Dot(axis)
	max = min
	for _, v := range pts[1:] {
		d := v.Dot(axis)
		if d < min {
			min = d
		} else if d > max {
			max = d
		}
	}
	return min, max
}

func convexContains(verts []Vec2, pt Vec2) bool {
	n := len(verts)
	if n < 3 {
		return false
	}
	var positive, negative bool
	for i := 0; i < n; i++ {
		c := verts[(i+1)%n].Sub(verts[i]).Cross(pt.Sub(verts[i]))
		if c > 0 {
			positive = true
		} else if c < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// --- Box ---

// Box is an oriented bounding box centered on its Position.
type Box struct {
	poly         Polygon
	halfW, halfH float64
}

// NewBox creates a box of the given width and height.
func NewBox(width, height float64) *Box {
	b := &Box{}
	b.SetSize(width, height)
	return b
}

// Kind returns ShapeBox.
func (b *Box) Kind() ShapeKind { return ShapeBox }

// Size returns the full width and height.
func (b *Box) Size() (w, h float64) { return b.halfW * 2, b.halfH * 2 }

// HalfExtents returns half the width and height.
func (b *Box) HalfExtents() Vec2 { return Vec2{b.halfW, b.halfH} }

// SetSize resizes the box. Negative dimensions are treated as their absolute
// value.
func (b *Box) SetSize(width, height float64) {
	b.halfW = math.Abs(width) / 2
	b.halfH = math.Abs(height) / 2
	b.poly.SetLocalVertices([]Vec2{
		{-b.halfW, -b.halfH},
		{b.halfW, -b.halfH},
		{b.halfW, b.halfH},
		{-b.halfW, b.halfH},
	})
}

// Position returns the box center.
func (b *Box) Position() Vec2 { return b.poly.Position() }

// SetPosition moves the box.
func (b *Box) SetPosition(p Vec2) { b.poly.SetPosition(p) }

// Rotation returns the box rotation in radians.
func (b *Box) Rotation() float64 { return b.poly.Rotation() }

// SetRotation rotates the box.
func (b *Box) SetRotation(r float64) { b.poly.SetRotation(r) }

// LocalVertices returns a copy of the four corners relative to Position.
func (b *Box) LocalVertices() []Vec2 { return b.poly.LocalVertices() }

// WorldVertices returns the four world-space corners in a fresh slice.
func (b *Box) WorldVertices() []Vec2 { return b.poly.WorldVertices() }

// Normals returns the four outward edge normals in a fresh slice.
func (b *Box) Normals() []Vec2 { return b.poly.Normals() }

// AABB returns the bounding box of the rotated corners.
func (b *Box) AABB() AABB { return b.poly.AABB() }

// Axes returns the box's local X and Y axes rotated into world space.
func (b *Box) Axes() (x, y Vec2) {
	m := rotationTransform(b.poly.rotation)
	return rotateVec(m, Vec2{1, 0}), rotateVec(m, Vec2{0, 1})
}

// ProjectedRadius returns the half-length of the box's shadow on axis.
func (b *Box) ProjectedRadius(axis Vec2) float64 {
	ax, ay := b.Axes()
	return b.halfW*math.Abs(ax.Dot(axis)) + b.halfH*math.Abs(ay.Dot(axis))
}

// ProjectOntoAxis returns center·axis ± the projected radius.
func (b *Box) ProjectOntoAxis(axis Vec2) (min, max float64) {
	c := b.poly.position.Dot(axis)
	r := b.ProjectedRadius(axis)
	return c - r, c + r
}

// Contains reports whether p lies inside the box.
func (b *Box) Contains(p Vec2) bool { return b.poly.Contains(p) }

func (b *Box) revision() uint64 { return b.poly.revision() }
func (b *Box) worldVertices() []Vec2 { return b.poly.worldVertices() }
func (b *Box) normals() []Vec2 { return b.poly.normals() }

// --- Circle ---

// Circle is a circle centered on its Position.
type Circle struct {
	position Vec2
	radius   float64
	rev      uint64
}

// NewCircle creates a circle with the given radius.
func NewCircle(radius float64) *Circle {
	c := &Circle{}
	c.SetRadius(radius)
	return c
}

// Kind returns ShapeCircle.
func (c *Circle) Kind() ShapeKind { return ShapeCircle }

// Position returns the circle center.
func (c *Circle) Position() Vec2 { return c.position }

// SetPosition moves the circle.
func (c *Circle) SetPosition(p Vec2) {
	if p == c.position {
		return
	}
	c.position = p
	c.rev++
}

// Rotation always returns 0.
func (c *Circle) Rotation() float64 { return 0 }

// SetRotation is a no-op; circles are rotation invariant.
func (c *Circle) SetRotation(float64) {}

// Radius returns the circle radius.
func (c *Circle) Radius() float64 { return c.radius }

// SetRadius sets the radius. Negative values are clamped to zero.
func (c *Circle) SetRadius(r float64) {
	if r < 0 {
		r = 0
	}
	c.radius = r
	c.rev++
}

// AABB returns the square enclosing the circle.
func (c *Circle) AABB() AABB {
	r := Vec2{c.radius, c.radius}
	return AABB{Min: c.position.Sub(r), Max: c.position.Add(r)}
}

// ProjectOntoAxis returns center·axis ± radius.
func (c *Circle) ProjectOntoAxis(axis Vec2) (min, max float64) {
	d := c.position.Dot(axis)
	return d - c.radius, d + c.radius
}

// Contains reports whether p lies inside or on the circle.
func (c *Circle) Contains(p Vec2) bool {
	return p.Sub(c.position).LenSq() <= c.radius*c.radius
}

func (c *Circle) revision() uint64 { return c.rev }
