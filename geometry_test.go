package delta

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-9

func assertVecNear(t *testing.T, want, got Vec2) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, epsilon, "X")
	assert.InDelta(t, want.Y, got.Y, epsilon, "Y")
}

func TestBoxNormalsAreOutwardUnitVectors(t *testing.T) {
	b := NewBox(2, 4)
	normals := b.Normals()
	verts := b.WorldVertices()
	require.Len(t, normals, 4)
	require.Len(t, verts, len(normals))

	for i, n := range normals {
		assert.InDelta(t, 1, n.Len(), epsilon, "normal %d length", i)
		mid := verts[i].Add(verts[(i+1)%4]).Scale(0.5)
		assert.Greater(t, mid.Sub(b.Position()).Dot(n), 0.0, "normal %d points inward", i)
	}
}

func TestPolygonNormalsIgnoreWinding(t *testing.T) {
	ccw := NewPolygon(Vec2{0, 0}, Vec2{2, 0}, Vec2{1, 2})
	cw := NewPolygon(Vec2{0, 0}, Vec2{1, 2}, Vec2{2, 0})
	centroid := Vec2{1, 2.0 / 3}

	for _, p := range []*Polygon{ccw, cw} {
		verts := p.WorldVertices()
		for i, n := range p.Normals() {
			mid := verts[i].Add(verts[(i+1)%len(verts)]).Scale(0.5)
			assert.Greater(t, mid.Sub(centroid).Dot(n), 0.0)
		}
	}
}

func TestPolygonDegenerateEdgeHasZeroNormal(t *testing.T) {
	p := NewPolygon(Vec2{0, 0}, Vec2{0, 0}, Vec2{1, 0}, Vec2{0, 1})
	normals := p.Normals()
	require.Len(t, normals, 4)
	assert.True(t, normals[0].IsZero())
	for _, n := range normals[1:] {
		assert.InDelta(t, 1, n.Len(), epsilon)
	}
}

func TestPolygonWorldVerticesFollowTransform(t *testing.T) {
	p := NewPolygon(Vec2{1, 0}, Vec2{0, 1}, Vec2{-1, 0})
	p.SetPosition(Vec2{10, 20})
	assertVecNear(t, Vec2{11, 20}, p.WorldVertices()[0])

	p.SetRotation(math.Pi / 2)
	assertVecNear(t, Vec2{10, 21}, p.WorldVertices()[0])
	assertVecNear(t, Vec2{9, 20}, p.WorldVertices()[1])
}

func TestPolygonRevisionOnlyChangesOnMutation(t *testing.T) {
	p := NewPolygon(Vec2{0, 0}, Vec2{1, 0}, Vec2{0, 1})
	rev := p.revision()

	p.SetPosition(Vec2{})
	p.SetRotation(0)
	_ = p.WorldVertices()
	assert.Equal(t, rev, p.revision())

	p.SetPosition(Vec2{1, 1})
	assert.NotEqual(t, rev, p.revision())
}

func TestPolygonReturnsCopies(t *testing.T) {
	p := NewPolygon(Vec2{0, 0}, Vec2{1, 0}, Vec2{0, 1})
	verts := p.WorldVertices()
	verts[0] = Vec2{100, 100}
	assert.Equal(t, Vec2{0, 0}, p.WorldVertices()[0])

	local := []Vec2{{0, 0}, {1, 0}, {0, 1}}
	p.SetLocalVertices(local)
	local[0] = Vec2{5, 5}
	assert.Equal(t, Vec2{0, 0}, p.LocalVertices()[0])
}

func TestBoxAABBRotated(t *testing.T) {
	b := NewBox(2, 2)
	b.SetPosition(Vec2{5, 5})
	assert.Equal(t, AABB{Min: Vec2{4, 4}, Max: Vec2{6, 6}}, b.AABB())

	b.SetRotation(math.Pi / 4)
	aabb := b.AABB()
	assert.InDelta(t, 5-math.Sqrt2, aabb.Min.X, epsilon)
	assert.InDelta(t, 5+math.Sqrt2, aabb.Max.Y, epsilon)
}

func TestBoxProjectionMatchesVertices(t *testing.T) {
	b := NewBox(3, 1)
	b.SetPosition(Vec2{2, -1})
	b.SetRotation(0.7)

	for _, axis := range []Vec2{{1, 0}, {0, 1}, {math.Sqrt2 / 2, math.Sqrt2 / 2}} {
		min, max := b.ProjectOntoAxis(axis)
		wantMin, wantMax := projectPoints(b.WorldVertices(), b.Position(), axis)
		assert.InDelta(t, wantMin, min, 1e-9)
		assert.InDelta(t, wantMax, max, 1e-9)
	}
}

func TestBoxSetSizeAbs(t *testing.T) {
	b := NewBox(-4, -2)
	w, h := b.Size()
	assert.Equal(t, 4.0, w)
	assert.Equal(t, 2.0, h)
	assert.Equal(t, Vec2{2, 1}, b.HalfExtents())
}

func TestContains(t *testing.T) {
	b := NewBox(2, 2)
	assert.True(t, b.Contains(Vec2{0.5, -0.5}))
	assert.True(t, b.Contains(Vec2{1, 0}))
	assert.False(t, b.Contains(Vec2{1.5, 0}))

	c := NewCircle(1)
	c.SetPosition(Vec2{3, 3})
	assert.True(t, c.Contains(Vec2{3, 4}))
	assert.False(t, c.Contains(Vec2{4, 4}))

	assert.False(t, NewPolygon(Vec2{0, 0}, Vec2{1, 1}).Contains(Vec2{0.5, 0.5}))
}

func TestCircleNegativeRadiusClamped(t *testing.T) {
	c := NewCircle(-3)
	assert.Equal(t, 0.0, c.Radius())
	assert.True(t, c.AABB().IsEmpty())
}

func TestCircleIgnoresRotation(t *testing.T) {
	c := NewCircle(1)
	rev := c.revision()
	c.SetRotation(2)
	assert.Equal(t, 0.0, c.Rotation())
	assert.Equal(t, rev, c.revision())
}

func TestAABBOverlapsIsStrict(t *testing.T) {
	a := AABB{Min: Vec2{0, 0}, Max: Vec2{1, 1}}
	assert.True(t, a.Overlaps(AABB{Min: Vec2{0.5, 0.5}, Max: Vec2{2, 2}}))
	assert.False(t, a.Overlaps(AABB{Min: Vec2{1, 0}, Max: Vec2{2, 1}}), "touching edges")
	assert.False(t, a.Overlaps(AABB{Min: Vec2{0.5, 0.5}, Max: Vec2{0.5, 0.8}}), "zero width")
	assert.False(t, a.Overlaps(AABB{Min: Vec2{2, 2}, Max: Vec2{0, 0}}), "inverted")
}

func TestVec2Normalize(t *testing.T) {
	n, ok := Vec2{3, 4}.Normalize()
	require.True(t, ok)
	assertVecNear(t, Vec2{0.6, 0.8}, n)

	n, ok = Vec2{}.Normalize()
	assert.False(t, ok)
	assert.True(t, n.IsZero())

	_, ok = Vec2{math.Inf(1), 0}.Normalize()
	assert.False(t, ok)
}

func TestShapeKindString(t *testing.T) {
	assert.Equal(t, "box", ShapeBox.String())
	assert.Equal(t, "polygon", ShapePolygon.String())
	assert.Equal(t, "circle", ShapeCircle.String())
	assert.Equal(t, "unknown", numShapeKinds.String())
}
