// Package domain generates and validates the public parameters (p, q, G) of
// the curve y² = x³ - x and the key pairs defined over them.
package domain

import (
	"context"
	"crypto/rand"
	"io"
	"math/big"
	"time"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ecmodp/internal/crypto/curve"
	"github.com/smallyu/go-ecmodp/internal/crypto/primes"
	"github.com/smallyu/go-ecmodp/internal/flogging"
	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

var logger = flogging.MustGetLogger("domain")

var (
	one   = big.NewInt(1)
	eight = big.NewInt(8)
)

// cofactor is the fixed ratio N/q of generated parameters.
const cofactor = 8

// validationRounds is the Miller-Rabin round count used when checking
// imported parameters.
const validationRounds = 40

// Params are the domain parameters: the curve over F_p, the prime subgroup
// order q and a generator G of that subgroup.
type Params struct {
	Curve *curve.Curve
	Q     *big.Int
	G     curve.Point
}

// P returns the field modulus.
func (p *Params) P() *big.Int {
	return p.Curve.P()
}

// RandomScalar draws a scalar uniformly from [1, q-1].
func (p *Params) RandomScalar(random io.Reader) (*big.Int, error) {
	qMinus1 := new(big.Int).Sub(p.Q, one)
	k, err := rand.Int(random, qMinus1)
	if err != nil {
		return nil, errors.Wrap(err, "drawing scalar")
	}
	return k.Add(k, one), nil
}

// Generate searches for fresh domain parameters with a p of cfg.Bits bits.
//
// The search restarts from a new prime whenever the group order is not
// divisible by 8, N/8 is not prime, or the generator search gives up.
// cfg.MaxAttempts bounds both the restarts and every inner sampling loop;
// cfg.GenerationTimeout, if set, is applied on top of ctx.
func Generate(ctx context.Context, random io.Reader, cfg *ecc.Config) (*Params, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.GenerationTimeout)
		defer cancel()
	}

	start := time.Now()
	congruence := primes.Congruence{Residue: 5, Modulus: 8}

	for attempt := 1; cfg.MaxAttempts == 0 || attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, ecc.NewSamplingError("domain generation", attempt-1, err)
		}

		p, tries, err := primes.RandomPrime(ctx, random, cfg.Bits, congruence, cfg.MillerRabinRounds, cfg.MaxAttempts)
		if err != nil {
			return nil, err
		}
		logger.Debugw("found prime", "attempt", attempt, "candidates", tries)

		c, err := curve.New(p)
		if err != nil {
			return nil, err
		}
		n, err := c.GroupOrder()
		if err != nil {
			return nil, err
		}

		q, rem := new(big.Int).QuoRem(n, eight, new(big.Int))
		if rem.Sign() != 0 {
			logger.Debugw("restarting", "phase", "group order", "attempt", attempt)
			continue
		}
		ok, err := primes.IsProbablePrime(random, q, cfg.MillerRabinRounds)
		if err != nil {
			return nil, err
		}
		if !ok {
			logger.Debugw("restarting", "phase", "subgroup order", "attempt", attempt)
			continue
		}

		g, tries, err := c.FindGenerator(random, q, cfg.MaxAttempts)
		if errors.Is(err, ecc.ErrSamplingExhausted) {
			logger.Debugw("restarting", "phase", "generator", "attempt", attempt, "candidates", tries)
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := c.SetOrder(q); err != nil {
			return nil, err
		}

		logger.Infow("generated domain parameters",
			"bits", cfg.Bits, "attempts", attempt, "elapsed", time.Since(start))
		return &Params{Curve: c, Q: q, G: g}, nil
	}
	return nil, ecc.NewSamplingError("domain generation", cfg.MaxAttempts, nil)
}

// NewParams rebuilds domain parameters from an external (p, q, Gx, Gy) tuple
// and checks them: p prime and 1 mod 4, N = 8q with q prime, G a point of
// order q.
func NewParams(p, q, gx, gy *big.Int) (*Params, error) {
	if p == nil || q == nil || gx == nil || gy == nil {
		return nil, errors.Wrap(ecc.ErrInvalidParameter, "domain: incomplete parameter tuple")
	}

	ok, err := primes.IsProbablePrime(rand.Reader, p, validationRounds)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter, "domain: p = %s is not prime", p)
	}

	c, err := curve.New(p)
	if err != nil {
		return nil, err
	}
	n, err := c.GroupOrder()
	if err != nil {
		return nil, err
	}
	if new(big.Int).Mul(q, eight).Cmp(n) != 0 {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter, "domain: group order %s is not %d·q", n, cofactor)
	}
	ok, err = primes.IsProbablePrime(rand.Reader, q, validationRounds)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter, "domain: q = %s is not prime", q)
	}

	g := curve.NewPoint(gx, gy)
	if !c.IsOnCurve(g) {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter, "domain: generator %s is not on the curve", g)
	}
	if !c.ScalarMult(g, q).IsInfinity() {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter, "domain: generator %s does not have order q", g)
	}
	if err := c.SetOrder(q); err != nil {
		return nil, err
	}

	return &Params{Curve: c, Q: new(big.Int).Set(q), G: g}, nil
}

// hasOrderQ reports whether pt is a point of order q. q is prime, so any
// affine point on the curve annihilated by q qualifies.
func (p *Params) hasOrderQ(pt curve.Point) bool {
	return !pt.IsInfinity() && p.Curve.IsOnCurve(pt) && p.Curve.ScalarMult(pt, p.Q).IsInfinity()
}
