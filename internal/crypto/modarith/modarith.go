// Package modarith implements the modular arithmetic helpers the curve and
// the generators are built on.
package modarith

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Mod returns a mod m in [0, m).
func Mod(a, m *big.Int) *big.Int {
	// big.Int.Mod is Euclidean, the result is never negative for m > 0
	return new(big.Int).Mod(a, m)
}

// ModPow computes base^exponent mod modulus by left-to-right square-and-multiply.
// A modulus of 1 yields 0 and a zero exponent yields 1. The exponent must not be
// negative and the modulus must be positive.
func ModPow(base, exponent, modulus *big.Int) (*big.Int, error) {
	if modulus.Sign() <= 0 {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter, "modpow: modulus must be positive, got %s", modulus)
	}
	if exponent.Sign() < 0 {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter, "modpow: negative exponent %s", exponent)
	}
	if modulus.Cmp(one) == 0 {
		return new(big.Int), nil
	}
	if exponent.Sign() == 0 {
		return big.NewInt(1), nil
	}

	b := Mod(base, modulus)
	result := big.NewInt(1)
	for i := exponent.BitLen() - 1; i >= 0; i-- {
		result.Mul(result, result)
		result.Mod(result, modulus)
		if exponent.Bit(i) == 1 {
			result.Mul(result, b)
			result.Mod(result, modulus)
		}
	}
	return result, nil
}

// MustModPow is ModPow for callers that already guarantee a positive modulus
// and a non-negative exponent.
func MustModPow(base, exponent, modulus *big.Int) *big.Int {
	r, err := ModPow(base, exponent, modulus)
	if err != nil {
		panic(err)
	}
	return r
}

// ExtendedEuclid returns (g, x, y) with a*x + b*y = g = gcd(a, b).
func ExtendedEuclid(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		q.Quo(oldR, r)

		tmp.Mul(q, r)
		oldR, r = r, new(big.Int).Sub(oldR, tmp)

		tmp.Mul(q, s)
		oldS, s = s, new(big.Int).Sub(oldS, tmp)

		tmp.Mul(q, t)
		oldT, t = t, new(big.Int).Sub(oldT, tmp)
	}

	if oldR.Sign() < 0 {
		oldR.Neg(oldR)
		oldS.Neg(oldS)
		oldT.Neg(oldT)
	}
	return oldR, oldS, oldT
}

// ModInverse returns a^-1 mod m. It fails with ecc.ErrInvalidParameter when
// gcd(a, m) != 1.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter, "inverse: modulus must be positive, got %s", m)
	}
	g, x, _ := ExtendedEuclid(Mod(a, m), m)
	if g.Cmp(one) != 0 {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter, "%s is not invertible mod %s", a, m)
	}
	return Mod(x, m), nil
}

// ISqrt returns floor(sqrt(n)) using Newton iteration. n must not be negative.
func ISqrt(n *big.Int) (*big.Int, error) {
	if n.Sign() < 0 {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter, "isqrt of negative number %s", n)
	}
	if n.Cmp(two) < 0 {
		return new(big.Int).Set(n), nil
	}

	// start above the root so the sequence decreases monotonically
	x := new(big.Int).Lsh(one, uint(n.BitLen()+1)/2)
	y := new(big.Int)
	for {
		// y = (x + n/x) / 2
		y.Quo(n, x)
		y.Add(y, x)
		y.Rsh(y, 1)
		if y.Cmp(x) >= 0 {
			return x, nil
		}
		x.Set(y)
	}
}

// IsSquare reports whether n is a perfect square and returns its root.
func IsSquare(n *big.Int) (*big.Int, bool) {
	if n.Sign() < 0 {
		return nil, false
	}
	r, _ := ISqrt(n)
	sq := new(big.Int).Mul(r, r)
	return r, sq.Cmp(n) == 0
}

// EulerCriterion returns a^((p-1)/2) mod p: 1 for a residue, p-1 for a
// non-residue and 0 when p divides a.
func EulerCriterion(a, p *big.Int) *big.Int {
	e := new(big.Int).Sub(p, one)
	e.Rsh(e, 1)
	return MustModPow(a, e, p)
}

// IsQuadraticResidue reports whether a is a non-zero square mod the odd prime p.
func IsQuadraticResidue(a, p *big.Int) bool {
	return EulerCriterion(a, p).Cmp(one) == 0
}
