package delta

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// rotationTransform returns the affine matrix for a rotation of r radians
// about the origin.
func rotationTransform(r float64) [6]float64 {
	sin, cos := math.Sincos(r)
	return [6]float64{cos, sin, -sin, cos, 0, 0}
}

// translationTransform returns the affine matrix for a translation by (x, y).
func translationTransform(x, y float64) [6]float64 {
	return [6]float64{1, 0, 0, 1, x, y}
}

// shapeTransform computes the local-to-world matrix of a shape.
//
// Composition order:
//
//	Rotate(rotation) -> Translate(position)
func shapeTransform(position Vec2, rotation float64) [6]float64 {
	if rotation == 0 {
		return translationTransform(position.X, position.Y)
	}
	return multiplyAffine(translationTransform(position.X, position.Y), rotationTransform(rotation))
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// transformVec applies an affine matrix to v.
func transformVec(m [6]float64, v Vec2) Vec2 {
	x, y := transformPoint(m, v.X, v.Y)
	return Vec2{x, y}
}

// rotateVec applies only the linear part of m to v (no translation).
func rotateVec(m [6]float64, v Vec2) Vec2 {
	return Vec2{m[0]*v.X + m[2]*v.Y, m[1]*v.X + m[3]*v.Y}
}
