// Package schnorr proves knowledge of the private scalar behind a public key.
// Key tuples carry such a proof so an importer can tell the exporter held d.
package schnorr

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ecmodp/internal/crypto/curve"
	"github.com/smallyu/go-ecmodp/internal/crypto/domain"
	"github.com/smallyu/go-ecmodp/internal/crypto/hashing"
	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

// Proof represents a Schnorr proof of knowledge of a discrete logarithm.
// Proves knowledge of d such that Y = d·G.
type Proof struct {
	R curve.Point // Commitment R = k·G
	S *big.Int    // Response s = k + e·d mod q
}

// Prove generates a proof for the key pair priv.
func Prove(random io.Reader, newHash hashing.Func, priv *domain.PrivateKey) (*Proof, error) {
	if priv == nil || priv.D == nil {
		return nil, errors.Wrap(ecc.ErrInvalidParameter, "schnorr: missing private key")
	}

	k, err := priv.RandomScalar(random)
	if err != nil {
		return nil, err
	}
	r := priv.Curve.ScalarMult(priv.G, k)

	e := challenge(newHash, priv.Public(), r)

	// s = k + e·d mod q
	s := new(big.Int).Mul(e, priv.D)
	s.Add(s, k)
	s.Mod(s, priv.Q)

	return &Proof{R: r, S: s}, nil
}

// Verify checks the proof against pub: s·G = R + e·Y.
func (p *Proof) Verify(newHash hashing.Func, pub *domain.PublicKey) bool {
	if p == nil || p.S == nil || pub == nil {
		return false
	}
	c := pub.Curve
	if p.S.Sign() < 0 || p.S.Cmp(pub.Q) >= 0 {
		return false
	}
	if p.R.IsInfinity() || !c.IsOnCurve(p.R) {
		return false
	}

	e := challenge(newHash, pub, p.R)

	lhs := c.ScalarMult(pub.G, p.S)
	rhs := c.Add(p.R, c.ScalarMult(pub.Y, e))
	return lhs.Equal(rhs)
}

// challenge computes e = H(p, G, Y, R) mod q over fixed-width coordinates.
func challenge(newHash hashing.Func, pub *domain.PublicKey, r curve.Point) *big.Int {
	width := pub.Curve.ByteLen()
	parts := make([][]byte, 0, 7)
	for _, v := range []*big.Int{pub.P(), pub.G.X, pub.G.Y, pub.Y.X, pub.Y.Y, r.X, r.Y} {
		parts = append(parts, v.FillBytes(make([]byte, width)))
	}
	return hashing.ToScalar(hashing.Sum(newHash, parts...), pub.Q)
}
