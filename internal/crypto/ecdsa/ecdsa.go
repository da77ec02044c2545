// Package ecdsa implements the signature scheme over the prime-order subgroup
// of the curve. The digest function is a parameter; its output is reduced
// mod q.
package ecdsa

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ecmodp/internal/crypto/domain"
	"github.com/smallyu/go-ecmodp/internal/crypto/hashing"
	"github.com/smallyu/go-ecmodp/internal/crypto/modarith"
	"github.com/smallyu/go-ecmodp/internal/flogging"
	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

var logger = flogging.MustGetLogger("ecdsa")

// Sign signs msg with priv. Nonces giving r = 0 or s = 0 are redrawn, at most
// maxAttempts times in total (0 = unbounded).
func Sign(random io.Reader, newHash hashing.Func, priv *domain.PrivateKey, msg []byte, maxAttempts int) (*ecc.Signature, error) {
	q := priv.Q
	h := hashing.ToScalar(hashing.Sum(newHash, msg), q)

	for attempt := 1; maxAttempts == 0 || attempt <= maxAttempts; attempt++ {
		k, err := priv.RandomScalar(random)
		if err != nil {
			return nil, err
		}

		pt := priv.Curve.ScalarMult(priv.G, k)
		if pt.IsInfinity() {
			return nil, errors.Wrap(ecc.ErrArithmeticInconsistency, "ecdsa: nonce multiple of the generator is infinity")
		}
		r := new(big.Int).Mod(pt.X, q)
		if r.Sign() == 0 {
			logger.Debugw("retrying nonce", "reason", "r = 0", "attempt", attempt)
			continue
		}

		kInv, err := modarith.ModInverse(k, q)
		if err != nil {
			return nil, err
		}
		// s = (h + d·r)·k⁻¹ mod q
		s := new(big.Int).Mul(priv.D, r)
		s.Add(s, h)
		s.Mul(s, kInv)
		s.Mod(s, q)
		if s.Sign() == 0 {
			logger.Debugw("retrying nonce", "reason", "s = 0", "attempt", attempt)
			continue
		}

		return &ecc.Signature{R: r, S: s}, nil
	}
	return nil, ecc.NewSamplingError("signature nonce", maxAttempts, nil)
}

// Verify reports whether sig is a valid signature of msg by pub. Malformed
// signatures are reported as invalid, never as errors.
func Verify(newHash hashing.Func, pub *domain.PublicKey, msg []byte, sig *ecc.Signature) bool {
	q := pub.Q
	if !sig.InRange(q) {
		return false
	}

	h := hashing.ToScalar(hashing.Sum(newHash, msg), q)
	w, err := modarith.ModInverse(sig.S, q)
	if err != nil {
		return false
	}
	u1 := new(big.Int).Mul(h, w)
	u1.Mod(u1, q)
	u2 := new(big.Int).Mul(sig.R, w)
	u2.Mod(u2, q)

	c := pub.Curve
	sum := c.Add(c.ScalarMult(pub.G, u1), c.ScalarMult(pub.Y, u2))
	if sum.IsInfinity() {
		return false
	}
	return new(big.Int).Mod(sum.X, q).Cmp(sig.R) == 0
}
