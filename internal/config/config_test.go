package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-ecmodp/pkg/ecc"
)

func TestLoadDefaults(t *testing.T) {
	conf, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ecc.DefaultConfig(), conf)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ecmodp.yaml")
	content := `
bits: 64
millerRabinRounds: 20
maxAttempts: 500
generationTimeout: 30s
hashFamily: sha3_256
logging:
  spec: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, conf.Bits)
	assert.Equal(t, 20, conf.MillerRabinRounds)
	assert.Equal(t, 500, conf.MaxAttempts)
	assert.Equal(t, 30*time.Second, conf.GenerationTimeout)
	assert.Equal(t, ecc.SHA3_256, conf.HashFamily)
	assert.Equal(t, "debug", conf.Logging.Spec)
	assert.Equal(t, "json", conf.Logging.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ECMODP_BITS", "128")
	t.Setenv("ECMODP_LOGGING_SPEC", "warn")

	conf, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 128, conf.Bits)
	assert.Equal(t, "warn", conf.Logging.Spec)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bits: 4\n"), 0o600))

	_, err := Load(path)
	assert.True(t, errors.Is(err, ecc.ErrInvalidParameter))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	conf, err := Decode(map[string]interface{}{
		"bits":              float64(96),
		"generationTimeout": "30s",
		"hashFamily":        "blake2b_256",
		"logging":           map[string]interface{}{"spec": "debug"},
	})
	require.NoError(t, err)
	assert.Equal(t, 96, conf.Bits)
	assert.Equal(t, 30*time.Second, conf.GenerationTimeout)
	assert.Equal(t, ecc.BLAKE2B256, conf.HashFamily)
	assert.Equal(t, "debug", conf.Logging.Spec)
	assert.Equal(t, "console", conf.Logging.Format)
	assert.Equal(t, ecc.DefaultConfig().MillerRabinRounds, conf.MillerRabinRounds)

	conf, err = Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, ecc.DefaultConfig(), conf)

	for name, raw := range map[string]map[string]interface{}{
		"bad duration": {"generationTimeout": "soon"},
		"unknown key":  {"bitz": 64},
		"too small":    {"bits": 8},
	} {
		_, err := Decode(raw)
		assert.True(t, errors.Is(err, ecc.ErrInvalidParameter), name)
	}
}
