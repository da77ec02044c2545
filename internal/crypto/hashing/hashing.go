// Package hashing maps hash family names to constructors and reduces digests
// into scalars.
package hashing

import (
	"hash"
	"math/big"
	"sort"
	"strings"

	"github.com/minio/sha256-simd"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

// Func constructs a fresh hash state.
type Func func() hash.Hash

var families = map[string]Func{
	ecc.SHA256:   sha256.New,
	ecc.SHA3_256: sha3.New256,
	ecc.SHA3_384: sha3.New384,
	ecc.BLAKE2B256: func() hash.Hash {
		// only fails for keys longer than 64 bytes
		h, _ := blake2b.New256(nil)
		return h
	},
}

// Get returns the constructor registered under name. Names are case
// insensitive.
func Get(name string) (Func, error) {
	f, ok := families[strings.ToUpper(name)]
	if !ok {
		return nil, errors.Wrapf(ecc.ErrInvalidParameter, "hash family not recognized [%s]", name)
	}
	return f, nil
}

// Names lists the registered families in sorted order.
func Names() []string {
	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sum hashes the concatenation of parts.
func Sum(newHash Func, parts ...[]byte) []byte {
	h := newHash()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// ToScalar interprets digest as a big-endian integer and reduces it mod q.
func ToScalar(digest []byte, q *big.Int) *big.Int {
	e := new(big.Int).SetBytes(digest)
	return e.Mod(e, q)
}
