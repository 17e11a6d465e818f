package boardfx

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// rotationTransform returns the affine matrix for a rotation about the origin.
func rotationTransform(radians float64) [6]float64 {
	sin, cos := math.Sincos(radians)
	return [6]float64{cos, sin, -sin, cos, 0, 0}
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

// transformScale returns the average linear scale factor of m. Used to size
// strokes and radii that are not otherwise transformed.
func transformScale(m [6]float64) float64 {
	sx := math.Hypot(m[0], m[1])
	sy := math.Hypot(m[2], m[3])
	return (sx + sy) / 2
}

// CirclePoints approximates a circle with n points in local space.
func CirclePoints(cx, cy, r float64, n int) []Vec2 {
	if n < 3 {
		n = 3
	}
	pts := make([]Vec2, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		sin, cos := math.Sincos(a)
		pts[i] = Vec2{cx + cos*r, cy + sin*r}
	}
	return pts
}

// RectPoints returns the four corners of r, clockwise from the top-left.
func RectPoints(r Rect) []Vec2 {
	return []Vec2{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}
}

// StarPoints returns the vertices of a star with the given number of points,
// centered on the origin, first point straight up.
func StarPoints(points int, outer, inner float64) []Vec2 {
	pts := make([]Vec2, 0, points*2)
	for i := 0; i < points*2; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + math.Pi*float64(i)/float64(points)
		sin, cos := math.Sincos(a)
		pts = append(pts, Vec2{cos * r, sin * r})
	}
	return pts
}
