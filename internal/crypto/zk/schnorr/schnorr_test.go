package schnorr

import (
	"context"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-ecmodp/internal/crypto/curve"
	"github.com/smallyu/go-ecmodp/internal/crypto/domain"
	"github.com/smallyu/go-ecmodp/internal/crypto/hashing"
	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

func setup(t *testing.T) (*domain.PrivateKey, hashing.Func) {
	t.Helper()
	cfg := ecc.DefaultConfig()
	cfg.Bits = 96
	params, err := domain.Generate(context.Background(), rand.Reader, cfg)
	require.NoError(t, err)
	priv, err := domain.GenerateKey(rand.Reader, params)
	require.NoError(t, err)
	newHash, err := hashing.Get(ecc.SHA256)
	require.NoError(t, err)
	return priv, newHash
}

func TestSchnorrProof(t *testing.T) {
	priv, newHash := setup(t)

	proof, err := Prove(rand.Reader, newHash, priv)
	require.NoError(t, err)
	assert.True(t, proof.Verify(newHash, priv.Public()))
}

func TestSchnorrProofInvalid(t *testing.T) {
	priv, newHash := setup(t)
	proof, err := Prove(rand.Reader, newHash, priv)
	require.NoError(t, err)

	// another key over the same parameters
	other, err := domain.GenerateKey(rand.Reader, priv.Params)
	require.NoError(t, err)
	if other.D.Cmp(priv.D) != 0 {
		assert.False(t, proof.Verify(newHash, other.Public()), "wrong public key")
	}

	tampered := &Proof{R: proof.R, S: new(big.Int).Add(proof.S, big.NewInt(1))}
	tampered.S.Mod(tampered.S, priv.Q)
	assert.False(t, tampered.Verify(newHash, priv.Public()), "tampered response")

	assert.False(t, (&Proof{R: proof.R, S: priv.Q}).Verify(newHash, priv.Public()), "response out of range")
	assert.False(t, (&Proof{R: curve.Infinity(), S: proof.S}).Verify(newHash, priv.Public()), "infinite commitment")
	assert.False(t, (&Proof{R: priv.Curve.Neg(proof.R), S: proof.S}).Verify(newHash, priv.Public()), "negated commitment")

	var nilProof *Proof
	assert.False(t, nilProof.Verify(newHash, priv.Public()))

	sha3, err := hashing.Get(ecc.SHA3_256)
	require.NoError(t, err)
	assert.False(t, proof.Verify(sha3, priv.Public()), "different hash family")
}

func TestProveRequiresPrivateKey(t *testing.T) {
	_, newHash := setup(t)
	_, err := Prove(rand.Reader, newHash, nil)
	assert.ErrorIs(t, err, ecc.ErrInvalidParameter)
}
