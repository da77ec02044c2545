package curve

import (
	"math/big"
)

// Neg returns -pt.
func (c *Curve) Neg(pt Point) Point {
	if pt.IsInfinity() {
		return pt
	}
	y := new(big.Int).Neg(pt.Y)
	y.Mod(y, c.p)
	return Point{X: new(big.Int).Set(pt.X), Y: y, affine: true}
}

// Add returns p1 + p2. Both points are expected to be on the curve.
func (c *Curve) Add(p1, p2 Point) Point {
	if p1.IsInfinity() {
		return p2
	}
	if p2.IsInfinity() {
		return p1
	}

	if p1.X.Cmp(p2.X) == 0 {
		negY2 := new(big.Int).Neg(p2.Y)
		negY2.Mod(negY2, c.p)
		if p1.Y.Cmp(negY2) == 0 {
			return Infinity()
		}
		if p1.Y.Cmp(p2.Y) == 0 {
			return c.Double(p1)
		}
	}

	// λ = (y2 - y1) / (x2 - x1)
	num := new(big.Int).Sub(p2.Y, p1.Y)
	den := new(big.Int).Sub(p2.X, p1.X)
	den.Mod(den, c.p)
	lambda := num.Mul(num, c.inverse(den))
	lambda.Mod(lambda, c.p)

	return c.chord(lambda, p1, p2.X)
}

// Double returns 2·pt. A point with y = 0 has a vertical tangent and doubles
// to infinity.
func (c *Curve) Double(pt Point) Point {
	if pt.IsInfinity() {
		return pt
	}
	if new(big.Int).Mod(pt.Y, c.p).Sign() == 0 {
		return Infinity()
	}

	// λ = (3x² + a) / 2y
	num := new(big.Int).Mul(pt.X, pt.X)
	num.Mul(num, three)
	num.Add(num, c.a)
	den := new(big.Int).Lsh(pt.Y, 1)
	den.Mod(den, c.p)
	lambda := num.Mul(num, c.inverse(den))
	lambda.Mod(lambda, c.p)

	return c.chord(lambda, pt, pt.X)
}

// chord finishes an addition given the slope through p1 and a point with
// x-coordinate x2: x3 = λ² - x1 - x2, y3 = λ(x1 - x3) - y1.
func (c *Curve) chord(lambda *big.Int, p1 Point, x2 *big.Int) Point {
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p1.X)
	x3.Sub(x3, x2)
	x3.Mod(x3, c.p)

	y3 := new(big.Int).Sub(p1.X, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p1.Y)
	y3.Mod(y3, c.p)

	return Point{X: x3, Y: y3, affine: true}
}

// Normalize reduces the coordinates of pt mod p and returns the point at
// infinity if the result is not on the curve.
func (c *Curve) Normalize(pt Point) Point {
	if pt.IsInfinity() {
		return pt
	}
	n := Point{
		X:      new(big.Int).Mod(pt.X, c.p),
		Y:      new(big.Int).Mod(pt.Y, c.p),
		affine: true,
	}
	if !c.IsOnCurve(n) {
		return Infinity()
	}
	return n
}

// ScalarMult returns k·pt by double-and-add from the most significant bit.
// k = 0 yields infinity; a negative k multiplies -pt. Not constant time.
func (c *Curve) ScalarMult(pt Point, k *big.Int) Point {
	if k.Sign() < 0 {
		return c.ScalarMult(c.Neg(pt), new(big.Int).Neg(k))
	}

	result := Infinity()
	if pt.IsInfinity() {
		return result
	}
	for i := k.BitLen() - 1; i >= 0; i-- {
		result = c.Double(result)
		if k.Bit(i) == 1 {
			result = c.Add(result, pt)
		}
	}
	return result
}
