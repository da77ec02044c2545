// Package cornacchia writes a prime p ≡ 1 (mod 4) as a sum of two squares.
package cornacchia

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ecmodp/internal/crypto/modarith"
	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

var (
	one  = big.NewInt(1)
	four = big.NewInt(4)
)

// maxNonResidueSearch bounds the scan for a quadratic non-residue. For a prime
// the least non-residue is tiny; running past the bound means p is composite.
const maxNonResidueSearch = 1 << 16

// SumOfTwoSquares returns (x, y) with x² + y² = p, x even and y odd, both
// positive. p must be a prime with p ≡ 1 (mod 4).
func SumOfTwoSquares(p *big.Int) (x, y *big.Int, err error) {
	if p.Sign() <= 0 || new(big.Int).Mod(p, four).Cmp(one) != 0 {
		return nil, nil, errors.Wrapf(ecc.ErrInvalidParameter, "cornacchia: p = %s is not 1 mod 4", p)
	}

	r0, err := sqrtMinusOne(p)
	if err != nil {
		return nil, nil, err
	}

	// take the root in (p/2, p)
	half := new(big.Int).Rsh(p, 1)
	if r0.Cmp(half) <= 0 {
		r0.Sub(p, r0)
	}

	limit, _ := modarith.ISqrt(p)
	a, b := new(big.Int).Set(p), r0
	for b.Cmp(limit) > 0 {
		a, b = b, new(big.Int).Mod(a, b)
	}

	x = b
	rem := new(big.Int).Mul(x, x)
	rem.Sub(p, rem)
	y, ok := modarith.IsSquare(rem)
	if !ok {
		return nil, nil, errors.Wrapf(ecc.ErrArithmeticInconsistency, "cornacchia: p - %s^2 is not a square for p = %s", x, p)
	}

	if x.Bit(0) == 1 {
		x, y = y, x
	}
	if x.Bit(0) != 0 || y.Bit(0) != 1 {
		return nil, nil, errors.Wrapf(ecc.ErrArithmeticInconsistency, "cornacchia: %s = %s^2 + %s^2 has no even/odd split", p, x, y)
	}
	return x, y, nil
}

// sqrtMinusOne finds t with t² ≡ -1 (mod p) as c^((p-1)/4) for the first
// non-residue c.
func sqrtMinusOne(p *big.Int) (*big.Int, error) {
	pMinus1 := new(big.Int).Sub(p, one)
	quarter := new(big.Int).Rsh(pMinus1, 2)

	c := big.NewInt(2)
	for i := 0; i < maxNonResidueSearch && c.Cmp(p) < 0; i++ {
		if modarith.EulerCriterion(c, p).Cmp(pMinus1) == 0 {
			t := modarith.MustModPow(c, quarter, p)
			check := new(big.Int).Mul(t, t)
			check.Add(check, one)
			if check.Mod(check, p).Sign() != 0 {
				return nil, errors.Wrapf(ecc.ErrArithmeticInconsistency, "cornacchia: %s^2 != -1 mod %s", t, p)
			}
			return t, nil
		}
		c.Add(c, one)
	}
	return nil, errors.Wrapf(ecc.ErrArithmeticInconsistency, "cornacchia: no quadratic non-residue found mod %s", p)
}
