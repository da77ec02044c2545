package ecc

import (
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// Signature is an (r, s) pair produced by the signature scheme.
type Signature struct {
	R *big.Int
	S *big.Int
}

// InRange reports whether both components lie in [1, q-1].
func (sig *Signature) InRange(q *big.Int) bool {
	if sig == nil || sig.R == nil || sig.S == nil || q == nil {
		return false
	}
	return sig.R.Sign() > 0 && sig.R.Cmp(q) < 0 &&
		sig.S.Sign() > 0 && sig.S.Cmp(q) < 0
}

// MarshalASN1 encodes the signature as DER SEQUENCE { r INTEGER, s INTEGER }.
func (sig *Signature) MarshalASN1() ([]byte, error) {
	if sig == nil || sig.R == nil || sig.S == nil {
		return nil, errors.Wrap(ErrInvalidParameter, "signature components cannot be nil")
	}
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(sig.R)
		b.AddASN1BigInt(sig.S)
	})
	return b.Bytes()
}

// ParseSignature decodes a DER signature produced by MarshalASN1.
func ParseSignature(der []byte) (*Signature, error) {
	var (
		r, s  = new(big.Int), new(big.Int)
		inner cryptobyte.String
	)
	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, cbasn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) ||
		!inner.Empty() {
		return nil, errors.Wrap(ErrInvalidParameter, "malformed DER signature")
	}
	return &Signature{R: r, S: s}, nil
}
