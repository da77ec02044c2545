// Package curve implements the group of points of y² = x³ - x over a prime
// field: point validation, the group law, scalar multiplication, the group
// order and generator search.
package curve

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ecmodp/internal/crypto/cornacchia"
	"github.com/smallyu/go-ecmodp/internal/crypto/modarith"
	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
	four  = big.NewInt(4)
)

// Curve is y² = x³ + a·x with a = -1 over F_p. p must be prime; it is fixed at
// construction. The subgroup order q is set at most once.
type Curve struct {
	p *big.Int
	a *big.Int

	mu sync.RWMutex
	q  *big.Int
}

// New returns the curve over F_p. p must be an odd prime greater than 3;
// only the cheap parts of that are checked here.
func New(p *big.Int) (*Curve, error) {
	if p == nil || p.Cmp(three) <= 0 || p.Bit(0) == 0 {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter, "curve: modulus must be an odd prime > 3, got %v", p)
	}
	return &Curve{
		p: new(big.Int).Set(p),
		a: new(big.Int).Sub(p, one),
	}, nil
}

// P returns the field modulus.
func (c *Curve) P() *big.Int {
	return new(big.Int).Set(c.p)
}

// A returns the linear coefficient, -1 mod p.
func (c *Curve) A() *big.Int {
	return new(big.Int).Set(c.a)
}

// BitSize returns the bit length of p.
func (c *Curve) BitSize() int {
	return c.p.BitLen()
}

// ByteLen returns ceil(bitlen(p)/8), the width of one encoded field element.
func (c *Curve) ByteLen() int {
	return (c.p.BitLen() + 7) / 8
}

// Order returns the subgroup order q, or nil if it has not been set.
func (c *Curve) Order() *big.Int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.q == nil {
		return nil
	}
	return new(big.Int).Set(c.q)
}

// SetOrder records the subgroup order. Setting it again to a different value
// is an error.
func (c *Curve) SetOrder(q *big.Int) error {
	if q == nil || q.Cmp(two) < 0 {
		return errors.Wrapf(ecc.ErrInvalidParameter, "curve: subgroup order must be at least 2, got %v", q)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.q != nil {
		if c.q.Cmp(q) == 0 {
			return nil
		}
		return errors.Wrapf(ecc.ErrInvalidParameter, "curve: subgroup order already set to %s", c.q)
	}
	c.q = new(big.Int).Set(q)
	return nil
}

// Polynomial returns x³ - x mod p.
func (c *Curve) Polynomial(x *big.Int) *big.Int {
	r := new(big.Int).Mul(x, x)
	r.Mul(r, x)
	r.Sub(r, x)
	return r.Mod(r, c.p)
}

// IsOnCurve reports whether pt satisfies y² ≡ x³ - x (mod p) with both
// coordinates in [0, p). The point at infinity is on every curve.
func (c *Curve) IsOnCurve(pt Point) bool {
	if pt.IsInfinity() {
		return true
	}
	if pt.X.Sign() < 0 || pt.X.Cmp(c.p) >= 0 || pt.Y.Sign() < 0 || pt.Y.Cmp(c.p) >= 0 {
		return false
	}
	y2 := new(big.Int).Mul(pt.Y, pt.Y)
	y2.Mod(y2, c.p)
	return y2.Cmp(c.Polynomial(pt.X)) == 0
}

// GroupOrder returns N = #E(F_p). It requires p ≡ 1 (mod 4) and writes
// p = x² + y² with x even; then N = p + 1 - h where h = ±2y is picked by the
// residues of x and y mod 4.
func (c *Curve) GroupOrder() (*big.Int, error) {
	if new(big.Int).Mod(c.p, four).Cmp(one) != 0 {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter, "curve: group order needs p = 1 mod 4, got p = %s", c.p)
	}

	x, y, err := cornacchia.SumOfTwoSquares(c.p)
	if err != nil {
		return nil, err
	}

	xm := new(big.Int).Mod(x, four).Int64()
	ym := new(big.Int).Mod(y, four).Int64()

	h := new(big.Int).Lsh(y, 1)
	switch {
	case (xm == 0 && ym == 3) || (xm == 2 && ym == 1):
		h.Neg(h)
	case (xm == 0 && ym == 1) || (xm == 2 && ym == 3):
	default:
		return nil, errors.Wrapf(ecc.ErrArithmeticInconsistency,
			"curve: no trace case for p = %s = %s^2 + %s^2", c.p, x, y)
	}

	n := new(big.Int).Add(c.p, one)
	return n.Sub(n, h), nil
}

// inverse returns a^-1 mod p. p is prime and callers never pass a multiple of
// p, so failure means the curve was built over a composite modulus.
func (c *Curve) inverse(a *big.Int) *big.Int {
	inv, err := modarith.ModInverse(a, c.p)
	if err != nil {
		panic(errors.Wrap(ecc.ErrArithmeticInconsistency, err.Error()))
	}
	return inv
}
