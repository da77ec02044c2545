// Package elgamal implements the block cipher over the curve group.
//
// The plaintext is cut into pairs of halves m1, m2. For every pair an
// ephemeral scalar k gives A = k·G and the shared point C = k·Y, and the
// tuple (Ax, Ay, Cx·m1 mod p, Cy·m2 mod p) is written as four big-endian
// fields of ceil(bitlen(p)/8) bytes.
//
// Plaintext halves are floor((bitlen(p)-1)/8) bytes, one byte less than a
// field whenever bitlen(p) is a multiple of 8, so that every half is below p.
// Ciphertexts whose halves were padded to the full field width are not
// accepted: Decrypt rejects any recovered half wider than the layout's
// HalfLen.
package elgamal

import (
	"bytes"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ecmodp/internal/crypto/curve"
	"github.com/smallyu/go-ecmodp/internal/crypto/domain"
	"github.com/smallyu/go-ecmodp/internal/crypto/modarith"
	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

// fieldsPerTuple is the number of wire fields per encrypted pair.
const fieldsPerTuple = 4

// Layout describes the byte geometry of a cipher over a given p.
type Layout struct {
	HalfLen  int // plaintext bytes per half, floor((bitlen(p)-1)/8)
	FieldLen int // wire bytes per field element, ceil(bitlen(p)/8)
}

// NewLayout returns the layout for the field modulus p.
func NewLayout(p *big.Int) (Layout, error) {
	l := Layout{
		HalfLen:  (p.BitLen() - 1) / 8,
		FieldLen: (p.BitLen() + 7) / 8,
	}
	if l.HalfLen < 1 {
		return Layout{}, errors.Wrapf(ecc.ErrInvalidParameter, "elgamal: p = %s is too small to carry a plaintext byte", p)
	}
	return l, nil
}

// BlockLen is the number of plaintext bytes consumed per tuple.
func (l Layout) BlockLen() int {
	return 2 * l.HalfLen
}

// TupleLen is the number of ciphertext bytes produced per tuple.
func (l Layout) TupleLen() int {
	return fieldsPerTuple * l.FieldLen
}

// CiphertextLen returns the ciphertext length for a plaintext of n bytes.
func (l Layout) CiphertextLen(n int) int {
	blocks := (n + l.BlockLen() - 1) / l.BlockLen()
	return blocks * l.TupleLen()
}

// Encrypt encrypts plaintext to pub. The plaintext is zero padded to a whole
// number of blocks; an empty plaintext yields an empty ciphertext.
func Encrypt(random io.Reader, pub *domain.PublicKey, plaintext []byte) ([]byte, error) {
	layout, err := NewLayout(pub.P())
	if err != nil {
		return nil, err
	}

	blockLen := layout.BlockLen()
	out := make([]byte, 0, layout.CiphertextLen(len(plaintext)))
	block := make([]byte, blockLen)

	for off := 0; off < len(plaintext); off += blockLen {
		for i := range block {
			block[i] = 0
		}
		copy(block, plaintext[off:])

		m1 := new(big.Int).SetBytes(block[:layout.HalfLen])
		m2 := new(big.Int).SetBytes(block[layout.HalfLen:])

		out, err = encryptBlock(random, pub, layout, out, m1, m2)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func encryptBlock(random io.Reader, pub *domain.PublicKey, layout Layout, out []byte, m1, m2 *big.Int) ([]byte, error) {
	c := pub.Curve
	p := c.P()

	for {
		k, err := pub.RandomScalar(random)
		if err != nil {
			return nil, err
		}
		shared := c.ScalarMult(pub.Y, k)
		// for Y of odd prime order the shared point is affine with nonzero
		// coordinates; retry otherwise
		if shared.IsInfinity() || shared.X.Sign() == 0 || shared.Y.Sign() == 0 {
			continue
		}
		a := c.ScalarMult(pub.G, k)

		b1 := new(big.Int).Mul(shared.X, m1)
		b1.Mod(b1, p)
		b2 := new(big.Int).Mul(shared.Y, m2)
		b2.Mod(b2, p)

		for _, v := range []*big.Int{a.X, a.Y, b1, b2} {
			out = appendField(out, v, layout.FieldLen)
		}
		return out, nil
	}
}

// Decrypt reverses Encrypt and strips the trailing zero padding. Plaintexts
// that themselves end in zero bytes lose them.
func Decrypt(priv *domain.PrivateKey, ciphertext []byte) ([]byte, error) {
	layout, err := NewLayout(priv.P())
	if err != nil {
		return nil, err
	}
	tupleLen := layout.TupleLen()
	if len(ciphertext)%tupleLen != 0 {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter,
			"elgamal: ciphertext length %d is not a multiple of %d", len(ciphertext), tupleLen)
	}

	out := make([]byte, 0, len(ciphertext)/tupleLen*layout.BlockLen())
	for off := 0; off < len(ciphertext); off += tupleLen {
		out, err = decryptBlock(priv, layout, out, ciphertext[off:off+tupleLen])
		if err != nil {
			return nil, errors.WithMessagef(err, "elgamal: tuple %d", off/tupleLen)
		}
	}
	return bytes.TrimRight(out, "\x00"), nil
}

func decryptBlock(priv *domain.PrivateKey, layout Layout, out, tuple []byte) ([]byte, error) {
	c := priv.Curve
	p := c.P()

	fields := make([]*big.Int, fieldsPerTuple)
	for i := range fields {
		fields[i] = new(big.Int).SetBytes(tuple[i*layout.FieldLen : (i+1)*layout.FieldLen])
		if fields[i].Cmp(p) >= 0 {
			return nil, errors.Wrap(ecc.ErrInvalidParameter, "field element not reduced mod p")
		}
	}

	a := curve.NewPoint(fields[0], fields[1])
	if !c.IsOnCurve(a) {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter, "ephemeral point %s is not on the curve", a)
	}
	shared := c.ScalarMult(a, priv.D)
	if shared.IsInfinity() {
		return nil, errors.Wrap(ecc.ErrInvalidParameter, "shared point is infinity")
	}

	for i, mask := range []*big.Int{shared.X, shared.Y} {
		inv, err := modarith.ModInverse(mask, p)
		if err != nil {
			return nil, err
		}
		m := inv.Mul(inv, fields[2+i])
		m.Mod(m, p)
		if m.BitLen() > 8*layout.HalfLen {
			return nil, errors.Wrap(ecc.ErrInvalidParameter, "recovered half does not fit the block")
		}
		out = appendField(out, m, layout.HalfLen)
	}
	return out, nil
}

// appendField appends v as a big-endian integer of exactly width bytes.
func appendField(out []byte, v *big.Int, width int) []byte {
	start := len(out)
	out = append(out, make([]byte, width)...)
	v.FillBytes(out[start:])
	return out
}
