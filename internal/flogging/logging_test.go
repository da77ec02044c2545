package flogging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	l, err := New(Config{Format: "json", Spec: "debug", Writer: buf})
	require.NoError(t, err)

	l.Logger("domain").Debugw("restart", "phase", "order", "attempt", 3)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "domain", entry["name"])
	assert.Equal(t, "restart", entry["msg"])
	assert.Equal(t, "order", entry["phase"])
}

func TestLoggingLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	l, err := New(Config{Spec: "warn", Writer: buf})
	require.NoError(t, err)

	logger := l.Logger("ecdsa")
	logger.Info("hidden")
	assert.Equal(t, 0, buf.Len())

	require.NoError(t, l.SetLevel("info"))
	logger.Info("shown")
	assert.True(t, strings.Contains(buf.String(), "shown"))
}

func TestLoggingBadConfig(t *testing.T) {
	_, err := New(Config{Spec: "loud"})
	assert.Error(t, err)

	_, err = New(Config{Format: "xml"})
	assert.Error(t, err)
}

func TestApplyRedirectsExistingLoggers(t *testing.T) {
	first := &bytes.Buffer{}
	l, err := New(Config{Writer: first})
	require.NoError(t, err)
	logger := l.Logger("curve").With("p", 29)

	second := &bytes.Buffer{}
	require.NoError(t, l.Apply(Config{Format: "json", Writer: second}))
	logger.Info("after apply")

	assert.Equal(t, 0, first.Len())
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(second.Bytes(), &entry))
	assert.Equal(t, "curve", entry["name"])
	assert.Equal(t, float64(29), entry["p"])
}
