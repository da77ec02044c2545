package domain

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ecmodp/internal/crypto/curve"
	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

// PublicKey is the point Y = d·G.
type PublicKey struct {
	*Params
	Y curve.Point
}

// PrivateKey holds the secret scalar d in [1, q-1].
type PrivateKey struct {
	PublicKey
	D *big.Int
}

// GenerateKey draws a fresh key pair over params.
func GenerateKey(random io.Reader, params *Params) (*PrivateKey, error) {
	d, err := params.RandomScalar(random)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{
		PublicKey: PublicKey{
			Params: params,
			Y:      params.Curve.ScalarMult(params.G, d),
		},
		D: d,
	}, nil
}

// NewPrivateKey imports the scalar d and derives its public point.
func NewPrivateKey(params *Params, d *big.Int) (*PrivateKey, error) {
	if d == nil || d.Sign() <= 0 || d.Cmp(params.Q) >= 0 {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter, "domain: private scalar outside [1, q-1]")
	}
	d = new(big.Int).Set(d)
	return &PrivateKey{
		PublicKey: PublicKey{
			Params: params,
			Y:      params.Curve.ScalarMult(params.G, d),
		},
		D: d,
	}, nil
}

// NewPublicKey imports the point (x, y), which must lie in the subgroup of
// order q.
func NewPublicKey(params *Params, x, y *big.Int) (*PublicKey, error) {
	if x == nil || y == nil {
		return nil, errors.Wrap(ecc.ErrInvalidParameter, "domain: incomplete public key")
	}
	pt := curve.NewPoint(x, y)
	if !params.hasOrderQ(pt) {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter, "domain: public key %s is not in the subgroup of order q", pt)
	}
	return &PublicKey{Params: params, Y: pt}, nil
}

// Public returns the public half of the key pair.
func (priv *PrivateKey) Public() *PublicKey {
	return &priv.PublicKey
}
