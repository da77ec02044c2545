package curve

import (
	"fmt"
	"math/big"
)

// Point is an element of the curve group: either an affine point (X, Y) or
// the point at infinity. The zero value is the point at infinity.
//
// Build affine points with NewPoint. A composite literal such as
// Point{X: x, Y: y} leaves the point marked as infinity and its coordinates
// are ignored.
type Point struct {
	X, Y   *big.Int
	affine bool
}

// Infinity returns the additive identity.
func Infinity() Point {
	return Point{}
}

// NewPoint returns the affine point (x, y). The coordinates are copied; the
// point is not validated, use Curve.Normalize or Curve.IsOnCurve for that.
func NewPoint(x, y *big.Int) Point {
	return Point{
		X:      new(big.Int).Set(x),
		Y:      new(big.Int).Set(y),
		affine: true,
	}
}

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool {
	return !p.affine
}

// Equal reports whether p and q are the same group element. Coordinates are
// compared as given, normalize first when they may be unreduced.
func (p Point) Equal(q Point) bool {
	if p.affine != q.affine {
		return false
	}
	if !p.affine {
		return true
	}
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

func (p Point) String() string {
	if !p.affine {
		return "Point(∞)"
	}
	return fmt.Sprintf("Point(%s, %s)", p.X, p.Y)
}
