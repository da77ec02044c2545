package ecc

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestSamplingError(t *testing.T) {
	err := NewSamplingError("prime search", 12, nil)
	assert.True(t, errors.Is(err, ErrSamplingExhausted))
	assert.Contains(t, err.Error(), "prime search")
	assert.Contains(t, err.Error(), "12 attempts")

	withCause := NewSamplingError("generator search", 3, context.DeadlineExceeded)
	assert.True(t, errors.Is(withCause, ErrSamplingExhausted))
	assert.True(t, errors.Is(withCause, context.DeadlineExceeded))

	var se *SamplingError
	wrapped := pkgerrors.Wrap(withCause, "domain")
	assert.True(t, errors.As(wrapped, &se))
	assert.Equal(t, 3, se.Attempts)
}

func TestWrappedSentinels(t *testing.T) {
	err := pkgerrors.Wrapf(ErrInvalidParameter, "p = %d", 7)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	assert.False(t, errors.Is(err, ErrArithmeticInconsistency))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"tiny bits", func(c *Config) { c.Bits = 8 }},
		{"zero rounds", func(c *Config) { c.MillerRabinRounds = 0 }},
		{"negative attempts", func(c *Config) { c.MaxAttempts = -1 }},
		{"negative timeout", func(c *Config) { c.GenerationTimeout = -1 }},
		{"unknown hash", func(c *Config) { c.HashFamily = "MD5" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.mutate(c)
			err := c.Validate()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParameter))
		})
	}
}
