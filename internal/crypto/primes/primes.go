// Package primes implements the Miller-Rabin primality test and random prime
// search under a congruence constraint.
package primes

import (
	"context"
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ecmodp/internal/crypto/modarith"
	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// smallPrimes are used for trial division before the Miller-Rabin rounds.
var smallPrimes = []int64{3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53}

// IsProbablePrime runs rounds independent Miller-Rabin trials with bases drawn
// uniformly from [2, n-2] using random. A false result is definite; a true
// result is wrong with probability at most 4^-rounds.
func IsProbablePrime(random io.Reader, n *big.Int, rounds int) (bool, error) {
	if n.Cmp(two) < 0 {
		return false, nil
	}
	if n.Cmp(three) <= 0 {
		return true, nil
	}
	if n.Bit(0) == 0 {
		return false, nil
	}

	var m big.Int
	for _, sp := range smallPrimes {
		bp := big.NewInt(sp)
		if n.Cmp(bp) == 0 {
			return true, nil
		}
		if m.Mod(n, bp).Sign() == 0 {
			return false, nil
		}
	}

	// n-1 = 2^s * d with d odd
	nMinus1 := new(big.Int).Sub(n, one)
	d := new(big.Int).Set(nMinus1)
	s := 0
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		s++
	}

	// bases in [2, n-2]: rand.Int(n-3) + 2
	span := new(big.Int).Sub(n, three)
	for i := 0; i < rounds; i++ {
		a, err := rand.Int(random, span)
		if err != nil {
			return false, errors.Wrap(err, "miller-rabin: drawing base")
		}
		a.Add(a, two)

		if !millerRabinTrial(a, d, nMinus1, n, s) {
			return false, nil
		}
	}
	return true, nil
}

// millerRabinTrial reports whether n passes the strong probable prime test to
// base a.
func millerRabinTrial(a, d, nMinus1, n *big.Int, s int) bool {
	x := modarith.MustModPow(a, d, n)
	if x.Cmp(one) == 0 || x.Cmp(nMinus1) == 0 {
		return true
	}
	for r := 1; r < s; r++ {
		x.Mul(x, x)
		x.Mod(x, n)
		if x.Cmp(nMinus1) == 0 {
			return true
		}
		if x.Cmp(one) == 0 {
			// nontrivial square root of 1
			return false
		}
	}
	return false
}

// Congruence constrains a candidate to Residue mod Modulus. The zero value
// means "odd".
type Congruence struct {
	Residue int64
	Modulus int64
}

// RandomPrime samples random bits-bit integers satisfying c until one passes
// rounds Miller-Rabin trials. maxAttempts bounds the number of candidates
// drawn, 0 meaning unbounded. ctx is checked between candidates.
func RandomPrime(ctx context.Context, random io.Reader, bits int, c Congruence, rounds, maxAttempts int) (*big.Int, int, error) {
	if c.Modulus == 0 {
		c = Congruence{Residue: 1, Modulus: 2}
	}
	if c.Modulus < 2 || c.Modulus&(c.Modulus-1) != 0 {
		return nil, 0, errors.Wrapf(ecc.ErrInvalidParameter, "congruence modulus must be a power of two, got %d", c.Modulus)
	}
	if c.Residue < 0 || c.Residue >= c.Modulus || c.Residue%2 == 0 {
		return nil, 0, errors.Wrapf(ecc.ErrInvalidParameter, "congruence residue must be odd and below the modulus, got %d", c.Residue)
	}
	lowBits := bitLen64(c.Modulus) - 1
	if bits <= lowBits+1 {
		return nil, 0, errors.Wrapf(ecc.ErrInvalidParameter, "bit length %d too small for modulus %d", bits, c.Modulus)
	}

	limit := new(big.Int).Lsh(one, uint(bits))
	mask := big.NewInt(c.Modulus - 1)
	residue := big.NewInt(c.Residue)

	for attempt := 1; maxAttempts == 0 || attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, attempt - 1, ecc.NewSamplingError("prime search", attempt-1, err)
		}

		candidate, err := rand.Int(random, limit)
		if err != nil {
			return nil, attempt, errors.Wrap(err, "prime search: drawing candidate")
		}
		candidate.SetBit(candidate, bits-1, 1)
		candidate.AndNot(candidate, mask)
		candidate.Or(candidate, residue)

		// the forced top bit keeps the length exact; reject any drift anyway
		if candidate.BitLen() != bits {
			continue
		}

		ok, err := IsProbablePrime(random, candidate, rounds)
		if err != nil {
			return nil, attempt, err
		}
		if ok {
			return candidate, attempt, nil
		}
	}
	return nil, maxAttempts, ecc.NewSamplingError("prime search", maxAttempts, nil)
}

func bitLen64(v int64) int {
	return big.NewInt(v).BitLen()
}
