package elgamal_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
	"github.com/pkcdemo/pkc-go/pkg/pkc/bigmath"
	"github.com/pkcdemo/pkc-go/pkg/pkc/elgamal"
	"github.com/pkcdemo/pkc-go/pkg/pkc/entropy"
)

var (
	keysOnce sync.Once
	keys     *pkc.KeyPair
)

func testKeys(t *testing.T) (*elgamal.PublicKey, *elgamal.PrivateKey) {
	t.Helper()
	keysOnce.Do(func() {
		eng, err := elgamal.New(elgamal.WithRand(entropy.NewDeterministic([]byte("elgamal keys"))))
		require.NoError(t, err)
		keys, err = eng.GenerateKeys(context.Background())
		require.NoError(t, err)
	})
	require.NotNil(t, keys)
	return keys.Public.(*elgamal.PublicKey), keys.Private.(*elgamal.PrivateKey)
}

func newEngine(t *testing.T, opts ...elgamal.Option) *elgamal.Engine {
	t.Helper()
	eng, err := elgamal.New(opts...)
	require.NoError(t, err)
	return eng
}

func TestGroup(t *testing.T) {
	g := elgamal.DefaultGroup()
	assert.Equal(t, 2048, g.P.BitLen())
	assert.Equal(t, int64(2), g.G.Int64())
	assert.Equal(t, 205, g.BlockSize())
	assert.True(t, g.P.ProbablyPrime(4))

	q := new(big.Int).Rsh(g.P, 1)
	assert.True(t, q.ProbablyPrime(4), "p must be a safe prime")

	limit := new(big.Int).Lsh(big.NewInt(1), uint(8*g.BlockSize()))
	assert.True(t, limit.Cmp(g.P) <= 0, "every block value must be below p")
}

func TestGenerateKeys(t *testing.T) {
	pub, priv := testKeys(t)
	g := elgamal.DefaultGroup()

	assert.True(t, priv.X.Sign() > 0)
	assert.True(t, priv.X.Cmp(new(big.Int).Sub(g.P, big.NewInt(1))) < 0)
	assert.Equal(t, 0, pub.Y.Cmp(new(big.Int).Exp(g.G, priv.X, g.P)))
	assert.Equal(t, 0, pub.P.Cmp(g.P))
}

func TestEncryptTestRecoversEphemeral(t *testing.T) {
	pub, priv := testKeys(t)
	seed := []byte("elgamal ephemeral")
	eng := newEngine(t, elgamal.WithRand(entropy.NewDeterministic(seed)))

	env, err := eng.Encrypt("test", pub)
	require.NoError(t, err)
	assert.False(t, env.Metadata.IsBlocked)
	assert.Equal(t, 4, env.Metadata.Length)

	// The first draw from the same stream is the ephemeral exponent.
	pm1 := new(big.Int).Sub(pub.P, big.NewInt(1))
	k, err := bigmath.RandomRange(entropy.NewDeterministic(seed), big.NewInt(1), pm1)
	require.NoError(t, err)

	c1 := new(big.Int).Exp(pub.G, k, pub.P)
	assert.Equal(t, bigmath.IntToHex(c1), env.EphemeralKey)

	m := bigmath.BytesToInt([]byte("test"))
	wantC1, wantC2, err := elgamal.EncryptInt(pub, m, k)
	require.NoError(t, err)
	assert.Equal(t, bigmath.IntToHex(wantC1), env.EphemeralKey)
	assert.Equal(t, bigmath.IntToHex(wantC2), env.Ciphertext)

	got, err := eng.Decrypt(env, priv)
	require.NoError(t, err)
	assert.Equal(t, "test", got)
}

func TestRoundTrips(t *testing.T) {
	pub, priv := testKeys(t)
	eng := newEngine(t)
	bs := elgamal.DefaultGroup().BlockSize()

	cases := []struct {
		name    string
		msg     string
		blocked bool
		blocks  int
	}{
		{"empty", "", false, 0},
		{"short", "Hello, ElGamal!", false, 0},
		{"leading zero bytes", "\x00\x00zero", false, 0},
		{"unicode", "ElGamal 🔑 çà", false, 0},
		{"256 bytes below p", strings.Repeat("a", 256), false, 0},
		{"257 bytes", strings.Repeat("a", 257), true, 2},
		{"exact multiple of block size", strings.Repeat("b", 2*bs), true, 2},
		{"one byte short of multiple", strings.Repeat("c", 2*bs-1), true, 2},
		{"one byte past multiple", strings.Repeat("d", 2*bs+1), true, 3},
		{"zero bytes at block edges", "z" + strings.Repeat("\x00", bs) + "x" + strings.Repeat("\x00", bs-1), true, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env, err := eng.Encrypt(c.msg, pub)
			require.NoError(t, err)
			assert.Equal(t, c.blocked, env.Metadata.IsBlocked)
			if c.blocked {
				assert.Equal(t, c.blocks, env.Metadata.Blocks)
				assert.Equal(t, bs, env.Metadata.BlockSize)
				assert.Len(t, strings.Split(env.Ciphertext, ","), c.blocks)
				assert.Len(t, strings.Split(env.EphemeralKey, ","), c.blocks)
			}

			got, err := eng.Decrypt(env, priv)
			require.NoError(t, err)
			assert.Equal(t, c.msg, got)
		})
	}
}

func TestEnvelopeSurvivesJSON(t *testing.T) {
	pub, priv := testKeys(t)
	eng := newEngine(t)

	env, err := eng.Encrypt(strings.Repeat("json ", 100), pub)
	require.NoError(t, err)
	raw, err := env.MarshalIndent()
	require.NoError(t, err)
	parsed, err := pkc.ParseEnvelope(raw)
	require.NoError(t, err)

	got, err := eng.Decrypt(parsed, priv)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("json ", 100), got)
}

func TestMultiplicativeHomomorphism(t *testing.T) {
	pub, priv := testKeys(t)
	r := entropy.NewDeterministic([]byte("homomorphic"))
	pm1 := new(big.Int).Sub(pub.P, big.NewInt(1))

	k1, _ := bigmath.RandomRange(r, big.NewInt(1), pm1)
	k2, _ := bigmath.RandomRange(r, big.NewInt(1), pm1)
	a1, b1, err := elgamal.EncryptInt(pub, big.NewInt(6), k1)
	require.NoError(t, err)
	a2, b2, err := elgamal.EncryptInt(pub, big.NewInt(7), k2)
	require.NoError(t, err)

	c1 := new(big.Int).Mod(new(big.Int).Mul(a1, a2), pub.P)
	c2 := new(big.Int).Mod(new(big.Int).Mul(b1, b2), pub.P)

	// 42 is "*" as a one-byte message.
	env := &pkc.Envelope{
		Algorithm:    pkc.AlgorithmElGamal,
		Ciphertext:   bigmath.IntToHex(c2),
		EphemeralKey: bigmath.IntToHex(c1),
		Metadata:     pkc.Metadata{Length: 1},
	}
	got, err := newEngine(t).Decrypt(env, priv)
	require.NoError(t, err)
	assert.Equal(t, "*", got)
}

func TestEncryptIntRejectsOutOfRange(t *testing.T) {
	pub, _ := testKeys(t)
	pm1 := new(big.Int).Sub(pub.P, big.NewInt(1))

	_, _, err := elgamal.EncryptInt(pub, pub.P, big.NewInt(5))
	assert.True(t, errors.Is(err, pkc.ErrEncryption))
	_, _, err = elgamal.EncryptInt(pub, big.NewInt(1), big.NewInt(0))
	assert.True(t, errors.Is(err, pkc.ErrEncryption))
	_, _, err = elgamal.EncryptInt(pub, big.NewInt(1), pm1)
	assert.True(t, errors.Is(err, pkc.ErrEncryption))
}

func TestDecryptInvalidUTF8(t *testing.T) {
	pub, priv := testKeys(t)
	eng := newEngine(t)

	env, err := eng.Encrypt(string([]byte{0xff, 0xfe, 0xfd}), pub)
	require.NoError(t, err)
	_, err = eng.Decrypt(env, priv)
	assert.True(t, errors.Is(err, pkc.ErrDecoding), "got %v", err)
}

func TestDecryptMalformedEnvelopes(t *testing.T) {
	pub, priv := testKeys(t)
	eng := newEngine(t)

	single, err := eng.Encrypt("single", pub)
	require.NoError(t, err)
	blocked, err := eng.Encrypt(strings.Repeat("z", 500), pub)
	require.NoError(t, err)

	cases := []struct {
		name   string
		base   *pkc.Envelope
		mutate func(e *pkc.Envelope)
		want   error
	}{
		{"missing ephemeral key", single, func(e *pkc.Envelope) { e.EphemeralKey = "" }, pkc.ErrMissingField},
		{"missing ciphertext", single, func(e *pkc.Envelope) { e.Ciphertext = "" }, pkc.ErrMissingField},
		{"missing algorithm", single, func(e *pkc.Envelope) { e.Algorithm = "" }, pkc.ErrMissingField},
		{"algorithm mismatch", single, func(e *pkc.Envelope) { e.Algorithm = pkc.AlgorithmRSA }, pkc.ErrDecryption},
		{"bad hex", single, func(e *pkc.Envelope) { e.Ciphertext = "not-hex" }, pkc.ErrDecryption},
		{"zero c1", single, func(e *pkc.Envelope) { e.EphemeralKey = "0" }, pkc.ErrDecryption},
		{"c2 not below p", single, func(e *pkc.Envelope) { e.Ciphertext = bigmath.IntToHex(pub.P) }, pkc.ErrDecryption},
		{"length too small", single, func(e *pkc.Envelope) { e.Metadata.Length = 1 }, pkc.ErrDecryption},
		{"negative length", single, func(e *pkc.Envelope) { e.Metadata.Length = -1 }, pkc.ErrDecryption},
		{"list in single mode", single, func(e *pkc.Envelope) {
			e.EphemeralKey += "," + e.EphemeralKey
			e.Ciphertext += "," + e.Ciphertext
		}, pkc.ErrDecryption},
		{"block count mismatch", blocked, func(e *pkc.Envelope) { e.Metadata.Blocks++ }, pkc.ErrDecryption},
		{"uneven lists", blocked, func(e *pkc.Envelope) {
			e.Ciphertext = e.Ciphertext[:strings.LastIndex(e.Ciphertext, ",")]
		}, pkc.ErrDecryption},
		{"inconsistent length", blocked, func(e *pkc.Envelope) { e.Metadata.Length = 10 }, pkc.ErrDecryption},
		{"huge length", single, func(e *pkc.Envelope) { e.Metadata.Length = math.MaxInt }, pkc.ErrDecryption},
		{"length above limit", single, func(e *pkc.Envelope) { e.Metadata.Length = elgamal.MaxMessageLen + 1 }, pkc.ErrDecryption},
		{"huge blocked length", blocked, func(e *pkc.Envelope) { e.Metadata.Length = math.MaxInt }, pkc.ErrDecryption},
		{"blocked length beyond blocks", blocked, func(e *pkc.Envelope) { e.Metadata.Length = 3*elgamal.DefaultGroup().BlockSize() + 1 }, pkc.ErrDecryption},
		{"huge block size", blocked, func(e *pkc.Envelope) { e.Metadata.BlockSize = math.MaxInt / 2 }, pkc.ErrDecryption},
		{"foreign block size", blocked, func(e *pkc.Envelope) { e.Metadata.BlockSize = 250 }, pkc.ErrDecryption},
		{"missing length", single, func(e *pkc.Envelope) { e.Metadata.Length = 0 }, pkc.ErrMissingField},
		{"missing blocked length", blocked, func(e *pkc.Envelope) { e.Metadata.Length = 0 }, pkc.ErrMissingField},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env := c.base.Clone()
			c.mutate(env)
			_, err := eng.Decrypt(env, priv)
			require.Error(t, err)
			assert.True(t, errors.Is(err, c.want), "got %v", err)
		})
	}
}

func TestDecryptFieldReporting(t *testing.T) {
	pub, priv := testKeys(t)
	eng := newEngine(t)

	env, err := eng.Encrypt("hi", pub)
	require.NoError(t, err)

	// A dropped length survives a JSON round trip as zero.
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	delete(fields["metadata"].(map[string]any), "length")
	raw, err = json.Marshal(fields)
	require.NoError(t, err)
	parsed, err := pkc.ParseEnvelope(raw)
	require.NoError(t, err)

	_, err = eng.Decrypt(parsed, priv)
	var pe *pkc.Error
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, pkc.ErrMissingField, pe.Kind)
	assert.Equal(t, "metadata.length", pe.Field)

	huge := env.Clone()
	huge.Metadata.Length = math.MaxInt
	_, err = eng.Decrypt(huge, priv)
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, pkc.ErrDecryption, pe.Kind)
	assert.Equal(t, "metadata.length", pe.Field)
}

func TestBlockSizeDefaultsWhenAbsent(t *testing.T) {
	pub, priv := testKeys(t)
	eng := newEngine(t)

	msg := strings.Repeat("b", 300)
	env, err := eng.Encrypt(msg, pub)
	require.NoError(t, err)
	require.True(t, env.Metadata.IsBlocked)

	env.Metadata.BlockSize = 0
	got, err := eng.Decrypt(env, priv)
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestEncryptRejectsOversizedMessage(t *testing.T) {
	pub, _ := testKeys(t)
	_, err := newEngine(t).Encrypt(strings.Repeat("a", elgamal.MaxMessageLen+1), pub)
	assert.True(t, errors.Is(err, pkc.ErrMessageTooLong), "got %v", err)
}

type foreignKey struct{}

func (foreignKey) Algorithm() string              { return "other" }
func (foreignKey) Components() []pkc.KeyComponent { return nil }

func TestWrongKeyTypes(t *testing.T) {
	pub, _ := testKeys(t)
	eng := newEngine(t)

	_, err := eng.Encrypt("x", foreignKey{})
	assert.True(t, errors.Is(err, pkc.ErrEncryption))

	env, err := eng.Encrypt("x", pub)
	require.NoError(t, err)
	_, err = eng.Decrypt(env, foreignKey{})
	assert.True(t, errors.Is(err, pkc.ErrDecryption))
}

func TestGenerateKeysCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newEngine(t).GenerateKeys(ctx)
	assert.True(t, errors.Is(err, pkc.ErrKeyGeneration))
}

func TestKeyComponents(t *testing.T) {
	pub, priv := testKeys(t)
	pc := pub.Components()
	require.Len(t, pc, 3)
	assert.Equal(t, "y", pc[2].Name)
	assert.Equal(t, 2048, pc[0].Bits)

	sc := priv.Components()
	require.Len(t, sc, 2)
	assert.True(t, sc[1].Secret)
	assert.Contains(t, sc[1].Value, "...")
}
