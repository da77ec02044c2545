package curve

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ecmodp/internal/crypto/modarith"
	"github.com/smallyu/go-ecmodp/internal/flogging"
	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

var logger = flogging.MustGetLogger("curve")

var (
	five  = big.NewInt(5)
	eight = big.NewInt(8)
)

// FindGenerator returns a point of exact order q. q must be a prime dividing
// the group order N; p must be 5 mod 8 so square roots have a closed form.
//
// Each attempt draws a random x, lifts it to a point P when x³ - x is a
// quadratic residue, and returns G = (N/q)·P unless that is infinity, i.e.
// unless the order of P divides the cofactor. maxAttempts bounds the number of
// x values drawn, 0 meaning unbounded. It returns the number of attempts used.
func (c *Curve) FindGenerator(random io.Reader, q *big.Int, maxAttempts int) (Point, int, error) {
	if new(big.Int).Mod(c.p, eight).Cmp(five) != 0 {
		return Infinity(), 0, errors.Wrapf(ecc.ErrInvalidParameter, "curve: generator search needs p = 5 mod 8, got p = %s", c.p)
	}
	if q == nil || q.Cmp(two) < 0 {
		return Infinity(), 0, errors.Wrapf(ecc.ErrInvalidParameter, "curve: invalid subgroup order %v", q)
	}

	n, err := c.GroupOrder()
	if err != nil {
		return Infinity(), 0, err
	}
	cofactor, rem := new(big.Int).QuoRem(n, q, new(big.Int))
	if rem.Sign() != 0 {
		return Infinity(), 0, errors.Wrapf(ecc.ErrInvalidParameter, "curve: %s does not divide the group order %s", q, n)
	}

	for attempt := 1; maxAttempts == 0 || attempt <= maxAttempts; attempt++ {
		x, err := rand.Int(random, c.p)
		if err != nil {
			return Infinity(), attempt, errors.Wrap(err, "curve: drawing x")
		}

		r := c.Polynomial(x)
		if !modarith.IsQuadraticResidue(r, c.p) {
			continue
		}
		y, err := c.sqrt(r)
		if err != nil {
			return Infinity(), attempt, err
		}

		g := c.ScalarMult(NewPoint(x, y), cofactor)
		if g.IsInfinity() {
			logger.Debugw("rejected small-order candidate", "attempt", attempt)
			continue
		}
		if !c.ScalarMult(g, q).IsInfinity() {
			return Infinity(), attempt, errors.Wrapf(ecc.ErrInvalidParameter, "curve: %s is not the order of the cleared point", q)
		}
		logger.Debugw("found generator", "attempt", attempt)
		return g, attempt, nil
	}
	return Infinity(), maxAttempts, ecc.NewSamplingError("generator search", maxAttempts, nil)
}

// sqrt returns a square root of the residue r for p ≡ 5 (mod 8):
// r^((p+3)/8) when r^((p-1)/4) = 1, and 2r·(4r)^((p-5)/8) when it is -1.
func (c *Curve) sqrt(r *big.Int) (*big.Int, error) {
	pMinus1 := new(big.Int).Sub(c.p, one)

	t := modarith.MustModPow(r, new(big.Int).Rsh(pMinus1, 2), c.p)

	var y *big.Int
	switch {
	case t.Cmp(one) == 0:
		e := new(big.Int).Add(c.p, three)
		y = modarith.MustModPow(r, e.Rsh(e, 3), c.p)
	case t.Cmp(pMinus1) == 0:
		e := new(big.Int).Sub(c.p, five)
		fourR := new(big.Int).Mul(r, four)
		y = modarith.MustModPow(fourR, e.Rsh(e, 3), c.p)
		y.Mul(y, r)
		y.Lsh(y, 1)
		y.Mod(y, c.p)
	default:
		return nil, errors.Wrapf(ecc.ErrArithmeticInconsistency, "curve: %s is not a residue mod %s", r, c.p)
	}

	check := new(big.Int).Mul(y, y)
	if check.Mod(check, c.p).Cmp(r) != 0 {
		return nil, errors.Wrapf(ecc.ErrArithmeticInconsistency, "curve: square root of %s failed mod %s", r, c.p)
	}
	return y, nil
}
