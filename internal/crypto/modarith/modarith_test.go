package modarith

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

func bi(v int64) *big.Int { return big.NewInt(v) }

func TestModPow(t *testing.T) {
	cases := []struct {
		base, exp, mod, want int64
	}{
		{2, 10, 1000, 24},
		{3, 0, 7, 1},
		{0, 0, 7, 1},
		{5, 3, 1, 0},
		{5, 0, 1, 0},
		{-2, 3, 7, 6}, // -8 = 6 mod 7
		{7, 560, 561, 1},
		{4, 13, 497, 445},
	}
	for _, tc := range cases {
		got, err := ModPow(bi(tc.base), bi(tc.exp), bi(tc.mod))
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.Int64(), "%d^%d mod %d", tc.base, tc.exp, tc.mod)
	}
}

func TestModPowMatchesExp(t *testing.T) {
	base, _ := new(big.Int).SetString("123456789123456789123456789", 10)
	exp, _ := new(big.Int).SetString("987654321987654321", 10)
	mod, _ := new(big.Int).SetString("170141183460469231731687303715884105727", 10)

	got, err := ModPow(base, exp, mod)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Cmp(new(big.Int).Exp(base, exp, mod)))
}

func TestModPowRejects(t *testing.T) {
	_, err := ModPow(bi(2), bi(-1), bi(7))
	assert.True(t, errors.Is(err, ecc.ErrInvalidParameter))

	_, err = ModPow(bi(2), bi(3), bi(0))
	assert.True(t, errors.Is(err, ecc.ErrInvalidParameter))
}

func TestExtendedEuclid(t *testing.T) {
	pairs := [][2]int64{{240, 46}, {46, 240}, {17, 5}, {0, 9}, {9, 0}, {101, 37}, {12, 18}}
	for _, pr := range pairs {
		a, b := bi(pr[0]), bi(pr[1])
		g, x, y := ExtendedEuclid(a, b)

		assert.Equal(t, 0, g.Cmp(new(big.Int).GCD(nil, nil, a, b)), "gcd(%d, %d)", pr[0], pr[1])

		lhs := new(big.Int).Mul(a, x)
		lhs.Add(lhs, new(big.Int).Mul(b, y))
		assert.Equal(t, 0, lhs.Cmp(g), "bezout for (%d, %d)", pr[0], pr[1])
	}
}

func TestModInverse(t *testing.T) {
	inv, err := ModInverse(bi(5), bi(11))
	require.NoError(t, err)
	assert.Equal(t, int64(9), inv.Int64())

	inv, err = ModInverse(bi(-3), bi(17))
	require.NoError(t, err)
	check := new(big.Int).Mul(inv, bi(-3))
	assert.Equal(t, int64(1), Mod(check, bi(17)).Int64())

	_, err = ModInverse(bi(6), bi(9))
	assert.True(t, errors.Is(err, ecc.ErrInvalidParameter))

	_, err = ModInverse(bi(0), bi(13))
	assert.True(t, errors.Is(err, ecc.ErrInvalidParameter))
}

func TestISqrt(t *testing.T) {
	for n := int64(0); n < 2000; n++ {
		r, err := ISqrt(bi(n))
		require.NoError(t, err)
		rr := r.Int64()
		if rr*rr > n || (rr+1)*(rr+1) <= n {
			t.Fatalf("isqrt(%d) = %d", n, rr)
		}
	}

	big2 := new(big.Int).Lsh(big.NewInt(1), 300)
	big2.Add(big2, big.NewInt(12345))
	r, err := ISqrt(big2)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Cmp(new(big.Int).Sqrt(big2)))

	_, err = ISqrt(bi(-4))
	assert.Error(t, err)
}

func TestIsSquare(t *testing.T) {
	r, ok := IsSquare(bi(144))
	assert.True(t, ok)
	assert.Equal(t, int64(12), r.Int64())

	_, ok = IsSquare(bi(145))
	assert.False(t, ok)

	_, ok = IsSquare(bi(-1))
	assert.False(t, ok)
}

func TestQuadraticResidue(t *testing.T) {
	p := bi(11)
	// squares mod 11: 1, 3, 4, 5, 9
	residues := map[int64]bool{1: true, 3: true, 4: true, 5: true, 9: true}
	for a := int64(1); a < 11; a++ {
		assert.Equal(t, residues[a], IsQuadraticResidue(bi(a), p), "a = %d", a)
	}
	assert.False(t, IsQuadraticResidue(bi(0), p))
	assert.Equal(t, int64(0), EulerCriterion(bi(22), p).Int64())
}
