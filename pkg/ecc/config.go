package ecc

import (
	"time"

	"github.com/pkg/errors"
)

// Hash family identifiers accepted by Config.HashFamily.
const (
	SHA256     = "SHA256"
	SHA3_256   = "SHA3_256"
	SHA3_384   = "SHA3_384"
	BLAKE2B256 = "BLAKE2B_256"
)

// Config holds the tunables of a session. It is loaded by internal/config and
// passed explicitly; the engine keeps no process-wide settings.
type Config struct {
	Bits              int           `mapstructure:"bits" yaml:"bits"`                           // bit length of p
	MillerRabinRounds int           `mapstructure:"millerRabinRounds" yaml:"millerRabinRounds"` // rounds per primality test
	MaxAttempts       int           `mapstructure:"maxAttempts" yaml:"maxAttempts"`             // per sampling loop, 0 = unbounded
	GenerationTimeout time.Duration `mapstructure:"generationTimeout" yaml:"generationTimeout"` // 0 = no deadline
	HashFamily        string        `mapstructure:"hashFamily" yaml:"hashFamily"`
	Logging           LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// LoggingConfig selects the log level spec and encoding.
type LoggingConfig struct {
	Spec   string `mapstructure:"spec" yaml:"spec"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a new Config with the default values.
func DefaultConfig() *Config {
	return &Config{
		Bits:              256,
		MillerRabinRounds: 40,
		HashFamily:        SHA256,
		Logging: LoggingConfig{
			Spec:   "info",
			Format: "console",
		},
	}
}

// MinBits is the smallest accepted field size. Below it a plaintext half
// would not fit into one byte.
const MinBits = 16

// Validate checks the configuration for obviously unusable values.
func (c *Config) Validate() error {
	if c.Bits < MinBits {
		return errors.Wrapf(ErrInvalidParameter, "bits must be at least %d, got %d", MinBits, c.Bits)
	}
	if c.MillerRabinRounds < 1 {
		return errors.Wrapf(ErrInvalidParameter, "millerRabinRounds must be positive, got %d", c.MillerRabinRounds)
	}
	if c.MaxAttempts < 0 {
		return errors.Wrapf(ErrInvalidParameter, "maxAttempts must not be negative, got %d", c.MaxAttempts)
	}
	if c.GenerationTimeout < 0 {
		return errors.Wrapf(ErrInvalidParameter, "generationTimeout must not be negative, got %s", c.GenerationTimeout)
	}
	switch c.HashFamily {
	case SHA256, SHA3_256, SHA3_384, BLAKE2B256:
	default:
		return errors.Wrapf(ErrInvalidParameter, "hash family not recognized [%s]", c.HashFamily)
	}
	return nil
}
