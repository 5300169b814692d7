package pkc_test

import (
	"errors"
	"io"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
)

func TestErrorMatchesKindAndCause(t *testing.T) {
	err := pkc.E("rsa.Decrypt", pkc.ErrDecryption, io.ErrUnexpectedEOF)
	assert.ErrorIs(t, err, pkc.ErrDecryption)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.NotErrorIs(t, err, pkc.ErrEncryption)
	assert.Equal(t, "pkc: rsa.Decrypt: decryption failed: unexpected EOF", err.Error())
}

func TestENoDoubleWrap(t *testing.T) {
	inner := pkc.Errorf("bigmath.ModInverse", pkc.ErrArithmetic, "no inverse")
	assert.Same(t, inner, pkc.E("rsa.GenerateKeys", pkc.ErrArithmetic, inner))

	outer := pkc.E("rsa.GenerateKeys", pkc.ErrKeyGeneration, inner)
	assert.NotSame(t, inner, outer)
	assert.ErrorIs(t, outer, pkc.ErrKeyGeneration)
	assert.ErrorIs(t, outer, pkc.ErrArithmetic)
}

func TestFieldErrors(t *testing.T) {
	err := pkc.MissingField("ecc.Decrypt", "iv")
	var pe *pkc.Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "iv", pe.Field)
	assert.ErrorIs(t, err, pkc.ErrMissingField)
	assert.Contains(t, err.Error(), `(field "iv")`)

	err = pkc.FieldError("elgamal.Decrypt", pkc.ErrDecryption, "ciphertext", pkc.ErrValueTooLarge)
	assert.ErrorIs(t, err, pkc.ErrDecryption)
	assert.ErrorIs(t, err, pkc.ErrValueTooLarge)
}

func TestEnvelopeJSON(t *testing.T) {
	env := &pkc.Envelope{
		Algorithm:    pkc.AlgorithmElGamal,
		Ciphertext:   "ab,cd",
		EphemeralKey: "01,02",
		Metadata:     pkc.Metadata{IsBlocked: true, Blocks: 2, BlockSize: 205, Length: 300},
	}
	raw, err := env.MarshalIndent()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"ephemeralKey": "01,02"`)
	assert.NotContains(t, string(raw), `"iv"`)

	got, err := pkc.ParseEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, env, got)

	_, err = pkc.ParseEnvelope([]byte("{"))
	assert.ErrorIs(t, err, pkc.ErrDecryption)
}

func TestEnvelopeClone(t *testing.T) {
	env := &pkc.Envelope{Algorithm: pkc.AlgorithmRSA, Ciphertext: "abc"}
	c := env.Clone()
	c.Ciphertext = "xyz"
	assert.Equal(t, "abc", env.Ciphertext)
	assert.Nil(t, (*pkc.Envelope)(nil).Clone())
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, pkc.DefaultConfig().Validate())

	cases := map[string]func(*pkc.Config){
		"small modulus":  func(c *pkc.Config) { c.RSABits = 512 },
		"odd modulus":    func(c *pkc.Config) { c.RSABits = 2000 },
		"no rounds":      func(c *pkc.Config) { c.PrimeRounds = 0 },
		"no hash":        func(c *pkc.Config) { c.Hash = "" },
		"negative limit": func(c *pkc.Config) { c.KeygenTimeout = -1 },
		"bad level":      func(c *pkc.Config) { c.LogLevel = "trace" },
		"bad format":     func(c *pkc.Config) { c.LogFormat = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := pkc.DefaultConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := pkc.DefaultConfig()
	cfg.LogLevel = "DEBUG"
	cfg.LogFormat = "JSON"
	assert.NoError(t, cfg.Validate())
}

func TestZeroize(t *testing.T) {
	buf := []byte(strings.Repeat("k", 32))
	pkc.ZeroizeBytes(buf)
	assert.Equal(t, make([]byte, 32), buf)

	x, _ := new(big.Int).SetString("123456789abcdef0123456789abcdef", 16)
	words := x.Bits()
	pkc.ZeroizeInt(x)
	assert.Equal(t, 0, x.Sign())
	for _, w := range words {
		assert.Zero(t, w)
	}
	pkc.ZeroizeInt(nil)
}
