package e2e

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/smallyu/go-ecmodp/internal/config"
	"github.com/smallyu/go-ecmodp/pkg/ecc"
	"github.com/smallyu/go-ecmodp/pkg/session"
)

func TestSessionIntegration(t *testing.T) {
	t.Setenv("ECMODP_BITS", "96")
	t.Setenv("ECMODP_HASHFAMILY", "sha3_384")
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, 96, cfg.Bits)
	require.Equal(t, ecc.SHA3_384, cfg.HashFamily)

	// 1. Parameter generation by the orchestrator
	orchestrator, err := session.New(cfg, rand.Reader)
	require.NoError(t, err)
	require.NoError(t, orchestrator.GenerateParams(context.Background()))
	params, err := orchestrator.Params()
	require.NoError(t, err)

	// parameters travel as YAML
	raw, err := yaml.Marshal(params)
	require.NoError(t, err)

	// 2. Each party imports the parameters and creates its key
	nParties := 3
	parties := make([]*session.Session, nParties)
	publics := make([]session.KeyTuple, nParties)
	for i := range parties {
		var received session.ParamsTuple
		require.NoError(t, yaml.Unmarshal(raw, &received))

		s, err := session.New(cfg, rand.Reader)
		require.NoError(t, err)
		require.NoError(t, s.ImportParams(received))
		require.NoError(t, s.GenerateKey())
		parties[i] = s

		key, err := s.ExportKey()
		require.NoError(t, err)
		publics[i] = key.Public()
	}

	// 3. Every party encrypts to and verifies every other party
	for from := range parties {
		for to := range parties {
			if from == to {
				continue
			}
			peer, err := session.New(cfg, rand.Reader)
			require.NoError(t, err)
			require.NoError(t, peer.ImportKey(publics[to]))

			msg := []byte{byte(from), 0, byte(to), 'm', 's', 'g'}
			ct, err := peer.EncryptToString(msg)
			require.NoError(t, err)

			pt, err := parties[to].DecryptString(ct)
			require.NoError(t, err)
			assert.Equal(t, msg, pt)

			// nobody else can read it
			for other := range parties {
				if other == to {
					continue
				}
				if got, err := parties[other].DecryptString(ct); err == nil {
					assert.False(t, bytes.Equal(msg, got))
				}
			}

			der, err := parties[from].SignMessage(msg)
			require.NoError(t, err)
			verifier, err := session.New(cfg, rand.Reader)
			require.NoError(t, err)
			require.NoError(t, verifier.ImportKey(publics[from]))
			assert.True(t, verifier.VerifyMessage(msg, der))
			assert.False(t, verifier.VerifyMessage(append(msg, 1), der))
		}
	}
}

func TestReferenceParameters(t *testing.T) {
	// p = 32789, N = 8·4057
	s, err := session.New(nil, rand.Reader)
	require.NoError(t, err)
	require.NoError(t, s.ImportParams(session.ParamsTuple{
		P:  big.NewInt(32789),
		Q:  big.NewInt(4057),
		Gx: big.NewInt(17705),
		Gy: big.NewInt(18800),
	}))
	require.NoError(t, s.ImportPrivateKey(big.NewInt(1234)))

	msg := []byte("small field, many tuples")
	ct, err := s.Encrypt(msg)
	require.NoError(t, err)
	// one plaintext byte per half, two-byte fields
	assert.Len(t, ct, (len(msg)+1)/2*8)

	pt, err := s.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, msg, pt)

	sig, err := s.Sign(msg)
	require.NoError(t, err)
	assert.True(t, s.Verify(msg, sig))
}

func TestBoundedGeneration(t *testing.T) {
	cfg := ecc.DefaultConfig()
	cfg.Bits = 2048
	cfg.MaxAttempts = 1

	s, err := session.New(cfg, rand.Reader)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.GenerateParams(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ecc.ErrSamplingExhausted))
	assert.True(t, errors.Is(err, context.Canceled))
}
