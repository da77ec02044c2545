package session

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ecmodp/internal/crypto/curve"
	"github.com/smallyu/go-ecmodp/internal/crypto/hashing"
	"github.com/smallyu/go-ecmodp/internal/crypto/zk/schnorr"
	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

// ParamsTuple is the (p, q, Gx, Gy) record exchanged with an orchestrator.
type ParamsTuple struct {
	P  *big.Int `json:"p" yaml:"p"`
	Q  *big.Int `json:"q" yaml:"q"`
	Gx *big.Int `json:"gx" yaml:"gx"`
	Gy *big.Int `json:"gy" yaml:"gy"`
}

// KeyTuple extends the parameters with either the private scalar D or the
// public point (Yx, Yy). When D is set the public point is derived from it.
type KeyTuple struct {
	ParamsTuple `yaml:",inline"`

	D  *big.Int `json:"d,omitempty" yaml:"d,omitempty"`
	Yx *big.Int `json:"yx,omitempty" yaml:"yx,omitempty"`
	Yy *big.Int `json:"yy,omitempty" yaml:"yy,omitempty"`

	// Proof shows that whoever exported the key held D.
	Proof *ProofTuple `json:"proof,omitempty" yaml:"proof,omitempty"`
}

// ProofTuple is a Schnorr proof (R, s) of knowledge of D. Hash names the
// family the challenge was computed with; when empty the importing session's
// family is assumed.
type ProofTuple struct {
	Rx   *big.Int `json:"rx" yaml:"rx"`
	Ry   *big.Int `json:"ry" yaml:"ry"`
	S    *big.Int `json:"s" yaml:"s"`
	Hash string   `json:"hash,omitempty" yaml:"hash,omitempty"`
}

// Public returns a copy of t without the private scalar.
func (t KeyTuple) Public() KeyTuple {
	t.D = nil
	return t
}

// Params returns the session domain parameters.
func (s *Session) Params() (ParamsTuple, error) {
	if s.params == nil {
		return ParamsTuple{}, ErrNoParams
	}
	return ParamsTuple{
		P:  s.params.P(),
		Q:  new(big.Int).Set(s.params.Q),
		Gx: new(big.Int).Set(s.params.G.X),
		Gy: new(big.Int).Set(s.params.G.Y),
	}, nil
}

// ExportKey returns the parameters together with the key material the
// session holds. When the session has the private key the tuple carries D
// and a fresh proof of possession.
func (s *Session) ExportKey() (KeyTuple, error) {
	params, err := s.Params()
	if err != nil {
		return KeyTuple{}, err
	}
	if s.pub == nil {
		return KeyTuple{}, ErrNoPublicKey
	}
	t := KeyTuple{
		ParamsTuple: params,
		Yx:          new(big.Int).Set(s.pub.Y.X),
		Yy:          new(big.Int).Set(s.pub.Y.Y),
	}
	if s.priv != nil {
		t.D = new(big.Int).Set(s.priv.D)
		proof, err := schnorr.Prove(s.random, s.newHash, s.priv)
		if err != nil {
			return KeyTuple{}, err
		}
		t.Proof = &ProofTuple{
			Rx:   new(big.Int).Set(proof.R.X),
			Ry:   new(big.Int).Set(proof.R.Y),
			S:    proof.S,
			Hash: s.cfg.HashFamily,
		}
	}
	return t, nil
}

// ImportKey installs parameters and key material from t. A public point
// given along with D must match it; a proof given along with a public point
// must verify. A failed import leaves the session without a key.
func (s *Session) ImportKey(t KeyTuple) error {
	if err := s.ImportParams(t.ParamsTuple); err != nil {
		return err
	}
	switch {
	case t.D != nil:
		if err := s.ImportPrivateKey(t.D); err != nil {
			return err
		}
		if t.Yx != nil && t.Yy != nil && (t.Yx.Cmp(s.pub.Y.X) != 0 || t.Yy.Cmp(s.pub.Y.Y) != 0) {
			s.setParams(s.params)
			return errors.Wrap(ecc.ErrInvalidParameter, "session: public point does not match the private scalar")
		}
		return nil
	case t.Yx != nil && t.Yy != nil:
		if err := s.ImportPublicKey(t.Yx, t.Yy); err != nil {
			return err
		}
		if t.Proof != nil && !s.verifyPossession(t.Proof) {
			s.setParams(s.params)
			return errors.Wrap(ecc.ErrInvalidParameter, "session: proof of possession does not verify")
		}
		return nil
	default:
		return errors.Wrap(ecc.ErrInvalidParameter, "session: key tuple carries no key")
	}
}

func (s *Session) verifyPossession(t *ProofTuple) bool {
	if t.Rx == nil || t.Ry == nil || t.S == nil {
		return false
	}
	newHash := s.newHash
	if t.Hash != "" {
		var err error
		if newHash, err = hashing.Get(t.Hash); err != nil {
			return false
		}
	}
	proof := &schnorr.Proof{R: curve.NewPoint(t.Rx, t.Ry), S: t.S}
	return proof.Verify(newHash, s.pub)
}
