package rendercore

import "math"

// Matrix is a 2D affine transform.
//
//	| A  C  E |
//	| B  D  F |
//	| 0  0  1 |
//
// so x' = A*x + C*y + E and y' = B*x + D*y + F.
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// NewMatrix builds a matrix from its six coefficients in (a, b, c, d, e, f)
// order.
func NewMatrix(a, b, c, d, e, f float64) Matrix {
	return Matrix{A: a, B: b, C: c, D: d, E: e, F: f}
}

// Translate returns a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, D: 1, E: x, F: y}
}

// ScaleMatrix returns a scaling matrix.
func ScaleMatrix(sx, sy float64) Matrix {
	return Matrix{A: sx, D: sy}
}

// Translation returns the (E, F) translation component.
func (m Matrix) Translation() (x, y float64) { return m.E, m.F }

// Scale returns the (A, D) scale component.
func (m Matrix) Scale() (x, y float64) { return m.A, m.D }

// Skew returns the (C, B) skew component.
func (m Matrix) Skew() (x, y float64) { return m.C, m.B }

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// Multiply returns m * o: o is applied first, then m.
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		A: m.A*o.A + m.C*o.B,
		B: m.B*o.A + m.D*o.B,
		C: m.A*o.C + m.C*o.D,
		D: m.B*o.C + m.D*o.D,
		E: m.A*o.E + m.C*o.F + m.E,
		F: m.B*o.E + m.D*o.F + m.F,
	}
}

// Invert returns the inverse of m, or the identity if m is singular.
func (m Matrix) Invert() Matrix {
	det := m.A*m.D - m.C*m.B
	if det > -1e-12 && det < 1e-12 {
		return Identity()
	}
	inv := 1.0 / det
	a := m.D * inv
	b := -m.B * inv
	c := -m.C * inv
	d := m.A * inv
	return Matrix{
		A: a, B: b, C: c, D: d,
		E: -(a*m.E + c*m.F),
		F: -(b*m.E + d*m.F),
	}
}

// TransformPoint applies m to a point.
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// TransformRect returns the axis-aligned bounds of r after applying m.
func (m Matrix) TransformRect(r Rect) Rect {
	x0, y0 := m.TransformPoint(r.Left, r.Top)
	x1, y1 := m.TransformPoint(r.Right, r.Top)
	x2, y2 := m.TransformPoint(r.Right, r.Bottom)
	x3, y3 := m.TransformPoint(r.Left, r.Bottom)
	return Rect{
		Left:   math.Min(math.Min(x0, x1), math.Min(x2, x3)),
		Top:    math.Min(math.Min(y0, y1), math.Min(y2, y3)),
		Right:  math.Max(math.Max(x0, x1), math.Max(x2, x3)),
		Bottom: math.Max(math.Max(y0, y1), math.Max(y2, y3)),
	}
}

// aboutPoint returns T(p) * m * T(-p): m applied with p as its origin.
func (m Matrix) aboutPoint(p Point) Matrix {
	return Translate(p.X, p.Y).Multiply(m).Multiply(Translate(-p.X, -p.Y))
}
