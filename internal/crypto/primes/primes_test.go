package primes

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

func TestIsProbablePrimeKnownValues(t *testing.T) {
	primes := []int64{2, 3, 5, 7, 29, 37, 53, 59, 101, 7919, 104729, 2147483647}
	for _, p := range primes {
		ok, err := IsProbablePrime(rand.Reader, big.NewInt(p), 10)
		require.NoError(t, err)
		assert.True(t, ok, "%d should be prime", p)
	}

	composites := []int64{-7, 0, 1, 4, 9, 15, 91, 561, 1105, 1729, 2465, 2821, 6601, 8911, 3215031751}
	for _, c := range composites {
		ok, err := IsProbablePrime(rand.Reader, big.NewInt(c), 10)
		require.NoError(t, err)
		assert.False(t, ok, "%d should be composite", c)
	}
}

func TestCarmichaelAcrossRounds(t *testing.T) {
	for _, n := range []int64{561, 1105} {
		for rounds := 10; rounds <= 40; rounds += 10 {
			ok, err := IsProbablePrime(rand.Reader, big.NewInt(n), rounds)
			require.NoError(t, err)
			assert.False(t, ok, "%d with %d rounds", n, rounds)
		}
	}
}

func TestMillerRabinPath(t *testing.T) {
	// 211*421*631 is a Carmichael number with no factor below the trial
	// division bound, so only the Miller-Rabin rounds can reject it
	n := big.NewInt(56052361)
	ok, err := IsProbablePrime(rand.Reader, n, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	// strong pseudoprime to bases 2 and 3
	ok, err = IsProbablePrime(rand.Reader, big.NewInt(1373653), 20)
	require.NoError(t, err)
	assert.False(t, ok)

	m127, _ := new(big.Int).SetString("170141183460469231731687303715884105727", 10)
	ok, err = IsProbablePrime(rand.Reader, m127, 20)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsProbablePrimeMatchesStdlib(t *testing.T) {
	for i := int64(1); i < 3000; i++ {
		n := big.NewInt(i)
		ok, err := IsProbablePrime(rand.Reader, n, 20)
		require.NoError(t, err)
		assert.Equal(t, n.ProbablyPrime(20), ok, "n = %d", i)
	}
}

func TestRandomPrimeCongruence(t *testing.T) {
	for _, bits := range []int{16, 32, 64} {
		p, attempts, err := RandomPrime(context.Background(), rand.Reader, bits, Congruence{Residue: 5, Modulus: 8}, 20, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, attempts, 1)
		assert.Equal(t, bits, p.BitLen())
		assert.Equal(t, int64(5), new(big.Int).Mod(p, big.NewInt(8)).Int64())
		assert.True(t, p.ProbablyPrime(20))
	}
}

func TestRandomPrimeDefaultsToOdd(t *testing.T) {
	p, _, err := RandomPrime(context.Background(), rand.Reader, 24, Congruence{}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(1), p.Bit(0))
	assert.Equal(t, 24, p.BitLen())
}

func TestRandomPrimeBounded(t *testing.T) {
	// a single candidate of 256 bits is prime far too rarely to pass reliably;
	// use a cancelled context to make the failure deterministic
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := RandomPrime(ctx, rand.Reader, 256, Congruence{Residue: 5, Modulus: 8}, 20, 0)
	assert.True(t, errors.Is(err, ecc.ErrSamplingExhausted))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRandomPrimeInvalid(t *testing.T) {
	ctx := context.Background()
	_, _, err := RandomPrime(ctx, rand.Reader, 64, Congruence{Residue: 4, Modulus: 8}, 20, 0)
	assert.True(t, errors.Is(err, ecc.ErrInvalidParameter))

	_, _, err = RandomPrime(ctx, rand.Reader, 64, Congruence{Residue: 1, Modulus: 6}, 20, 0)
	assert.True(t, errors.Is(err, ecc.ErrInvalidParameter))

	_, _, err = RandomPrime(ctx, rand.Reader, 3, Congruence{Residue: 5, Modulus: 8}, 20, 0)
	assert.True(t, errors.Is(err, ecc.ErrInvalidParameter))
}
