package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "pkc "+pkc.LibraryVersion()), out)
}

func TestAlgorithms(t *testing.T) {
	out, _, err := run(t, "algorithms")
	require.NoError(t, err)
	for _, name := range []string{"rsa", "elgamal", "ecc"} {
		assert.Contains(t, out, name)
	}
}

func TestKeygenHidesSecrets(t *testing.T) {
	out, _, err := run(t, "keygen", "--alg", "ecc")
	require.NoError(t, err)
	assert.Contains(t, out, "ecc key pair")
	assert.Contains(t, out, "public")
	assert.Contains(t, out, "private")
	assert.NotContains(t, out, "rsa key pair")
	assert.Contains(t, out, "[redacted]")
}

func TestDemoRoundTrip(t *testing.T) {
	out, _, err := run(t, "demo", "--alg", "ecc", "--message", "café au lait", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "== ecc ==")
	assert.Contains(t, out, `"ephemeralKey"`)
	assert.Contains(t, out, "round trip: ok")
}

func TestDemoJSONLogs(t *testing.T) {
	_, stderr, err := run(t, "demo", "--alg", "elgamal", "--log-level", "info", "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"message":"demo completed"`)
	assert.Contains(t, stderr, `"alg":"elgamal"`)
}

func TestUnknownAlgorithm(t *testing.T) {
	_, _, err := run(t, "demo", "--alg", "dsa")
	require.Error(t, err)
	assert.ErrorIs(t, err, pkc.ErrUnsupportedAlgorithm)
}

func TestInvalidConfiguration(t *testing.T) {
	_, _, err := run(t, "algorithms", "--rsa-bits", "1000")
	require.Error(t, err)

	_, _, err = run(t, "algorithms", "--config", "/does/not/exist.yaml")
	require.Error(t, err)
}
