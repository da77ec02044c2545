// Package session is the caller-facing API of the engine. A Session owns its
// configuration, its randomness source and the domain parameters and keys it
// works with; nothing is shared between sessions.
//
// A Session is not safe for concurrent use.
package session

import (
	"context"
	"encoding/base64"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ecmodp/internal/crypto/domain"
	"github.com/smallyu/go-ecmodp/internal/crypto/ecdsa"
	"github.com/smallyu/go-ecmodp/internal/crypto/elgamal"
	"github.com/smallyu/go-ecmodp/internal/crypto/hashing"
	"github.com/smallyu/go-ecmodp/internal/flogging"
	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

var logger = flogging.MustGetLogger("session")

// Session holds the state of one engine user.
type Session struct {
	cfg     *ecc.Config
	random  io.Reader
	newHash hashing.Func

	params *domain.Params
	priv   *domain.PrivateKey
	pub    *domain.PublicKey
}

// New creates a session. random is used for every randomized operation.
func New(cfg *ecc.Config, random io.Reader) (*Session, error) {
	if cfg == nil {
		cfg = ecc.DefaultConfig()
	}
	if random == nil {
		return nil, errors.Wrap(ecc.ErrInvalidParameter, "session: nil randomness source")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	newHash, err := hashing.Get(cfg.HashFamily)
	if err != nil {
		return nil, err
	}
	return &Session{cfg: cfg, random: random, newHash: newHash}, nil
}

// Config returns the session configuration.
func (s *Session) Config() *ecc.Config {
	return s.cfg
}

// GenerateParams searches for fresh domain parameters and drops any key the
// session held.
func (s *Session) GenerateParams(ctx context.Context) error {
	params, err := domain.Generate(ctx, s.random, s.cfg)
	if err != nil {
		return err
	}
	s.setParams(params)
	return nil
}

// ImportParams installs externally supplied domain parameters after
// validating them.
func (s *Session) ImportParams(t ParamsTuple) error {
	params, err := domain.NewParams(t.P, t.Q, t.Gx, t.Gy)
	if err != nil {
		return err
	}
	s.setParams(params)
	logger.Debugw("imported domain parameters", "bits", params.P().BitLen())
	return nil
}

func (s *Session) setParams(params *domain.Params) {
	s.params = params
	s.priv = nil
	s.pub = nil
}

// GenerateKey draws a fresh key pair over the session parameters.
func (s *Session) GenerateKey() error {
	if s.params == nil {
		return ErrNoParams
	}
	priv, err := domain.GenerateKey(s.random, s.params)
	if err != nil {
		return err
	}
	s.priv = priv
	s.pub = priv.Public()
	return nil
}

// ImportPrivateKey installs the private scalar d and its public point.
func (s *Session) ImportPrivateKey(d *big.Int) error {
	if s.params == nil {
		return ErrNoParams
	}
	priv, err := domain.NewPrivateKey(s.params, d)
	if err != nil {
		return err
	}
	s.priv = priv
	s.pub = priv.Public()
	return nil
}

// ImportPublicKey installs a peer's public point, dropping any private key.
func (s *Session) ImportPublicKey(x, y *big.Int) error {
	if s.params == nil {
		return ErrNoParams
	}
	pub, err := domain.NewPublicKey(s.params, x, y)
	if err != nil {
		return err
	}
	s.priv = nil
	s.pub = pub
	return nil
}

// Encrypt encrypts plaintext to the session public key.
func (s *Session) Encrypt(plaintext []byte) ([]byte, error) {
	if s.pub == nil {
		return nil, ErrNoPublicKey
	}
	return elgamal.Encrypt(s.random, s.pub, plaintext)
}

// Decrypt decrypts a ciphertext produced by Encrypt.
func (s *Session) Decrypt(ciphertext []byte) ([]byte, error) {
	if s.priv == nil {
		return nil, ErrNoPrivateKey
	}
	return elgamal.Decrypt(s.priv, ciphertext)
}

// EncryptToString is Encrypt followed by standard base-64 encoding.
func (s *Session) EncryptToString(plaintext []byte) (string, error) {
	ct, err := s.Encrypt(plaintext)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

// DecryptString decodes a base-64 ciphertext and decrypts it.
func (s *Session) DecryptString(ciphertext string) ([]byte, error) {
	ct, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, errors.Wrap(ecc.ErrInvalidParameter, err.Error())
	}
	return s.Decrypt(ct)
}

// Sign signs msg with the session private key.
func (s *Session) Sign(msg []byte) (*ecc.Signature, error) {
	if s.priv == nil {
		return nil, ErrNoPrivateKey
	}
	return ecdsa.Sign(s.random, s.newHash, s.priv, msg, s.cfg.MaxAttempts)
}

// Verify checks sig over msg against the session public key. A session
// without a public key verifies nothing.
func (s *Session) Verify(msg []byte, sig *ecc.Signature) bool {
	if s.pub == nil {
		return false
	}
	return ecdsa.Verify(s.newHash, s.pub, msg, sig)
}

// SignMessage signs msg and returns the DER encoded signature.
func (s *Session) SignMessage(msg []byte) ([]byte, error) {
	sig, err := s.Sign(msg)
	if err != nil {
		return nil, err
	}
	return sig.MarshalASN1()
}

// VerifyMessage checks a DER encoded signature over msg.
func (s *Session) VerifyMessage(msg, der []byte) bool {
	sig, err := ecc.ParseSignature(der)
	if err != nil {
		return false
	}
	return s.Verify(msg, sig)
}
