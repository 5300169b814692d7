package elgamal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
	"github.com/pkcdemo/pkc-go/pkg/pkc/bigmath"
	"github.com/pkcdemo/pkc-go/pkg/pkc/entropy"
	"github.com/pkcdemo/pkc-go/pkg/pkc/logging"
)

var one = big.NewInt(1)

// MaxMessageLen is the largest plaintext, in bytes, that Encrypt accepts and
// that an envelope may declare in Metadata.Length.
const MaxMessageLen = 1 << 20

// Engine implements ElGamal over the fixed 2048-bit group.
type Engine struct {
	group  *Group
	rand   io.Reader
	logger logging.Logger
}

var _ pkc.Algorithm = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the randomness source. nil selects crypto/rand.
func WithRand(r io.Reader) Option {
	return func(e *Engine) { e.rand = r }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New returns an Engine bound to DefaultGroup.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{group: DefaultGroup()}
	for _, opt := range opts {
		opt(e)
	}
	e.rand = entropy.Resolve(e.rand)
	e.logger = logging.OrDiscard(e.logger)
	return e, nil
}

// Name implements pkc.Algorithm.
func (e *Engine) Name() string { return pkc.AlgorithmElGamal }

// Group returns the domain parameters.
func (e *Engine) Group() *Group { return e.group }

// GenerateKeys draws x uniformly from [1, p-1) and sets y = g^x mod p.
func (e *Engine) GenerateKeys(ctx context.Context) (*pkc.KeyPair, error) {
	const op = "elgamal.GenerateKeys"
	if err := ctx.Err(); err != nil {
		return nil, pkc.E(op, pkc.ErrKeyGeneration, err)
	}
	x, err := bigmath.RandomRange(e.rand, one, e.group.pMinus1())
	if err != nil {
		return nil, pkc.E(op, pkc.ErrKeyGeneration, err)
	}
	priv := &PrivateKey{
		P: new(big.Int).Set(e.group.P),
		G: new(big.Int).Set(e.group.G),
		X: x,
	}
	e.logger.Info(ctx, "keys generated", "alg", pkc.AlgorithmElGamal, "group", GroupName, logging.Redacted("x"))
	return &pkc.KeyPair{
		Algorithm: pkc.AlgorithmElGamal,
		Public:    priv.Public(),
		Private:   priv,
	}, nil
}

// EncryptInt computes c1 = g^k mod p and c2 = m·y^k mod p for a caller
// supplied ephemeral exponent. m must lie in [0, p) and k in [1, p-1).
func EncryptInt(pub *PublicKey, m, k *big.Int) (c1, c2 *big.Int, err error) {
	const op = "elgamal.EncryptInt"
	if err := pub.validate(); err != nil {
		return nil, nil, pkc.E(op, pkc.ErrEncryption, err)
	}
	if m.Sign() < 0 || m.Cmp(pub.P) >= 0 {
		return nil, nil, pkc.Errorf(op, pkc.ErrEncryption, "message representative out of range")
	}
	pm1 := new(big.Int).Sub(pub.P, one)
	if k.Sign() <= 0 || k.Cmp(pm1) >= 0 {
		return nil, nil, pkc.Errorf(op, pkc.ErrEncryption, "ephemeral exponent out of range")
	}
	c1 = bigmath.ModPow(pub.G, k, pub.P)
	s := bigmath.ModPow(pub.Y, k, pub.P)
	c2 = s.Mul(s, m)
	c2.Mod(c2, pub.P)
	return c1, c2, nil
}

func (e *Engine) encryptBlock(pub *PublicKey, m *big.Int) (c1, c2 *big.Int, err error) {
	pm1 := new(big.Int).Sub(pub.P, one)
	k, err := bigmath.RandomRange(e.rand, one, pm1)
	if err != nil {
		return nil, nil, pkc.E("elgamal.Encrypt", pkc.ErrEncryption, err)
	}
	defer pkc.ZeroizeInt(k)
	return EncryptInt(pub, m, k)
}

// Encrypt maps message to an integer M. When M < p a single ElGamal pair is
// produced; otherwise the bytes are cut into BlockSize chunks that are
// encrypted independently with fresh ephemeral exponents.
func (e *Engine) Encrypt(message string, pub pkc.PublicKey) (*pkc.Envelope, error) {
	const op = "elgamal.Encrypt"
	pk, ok := pub.(*PublicKey)
	if !ok {
		return nil, pkc.Errorf(op, pkc.ErrEncryption, "expected *elgamal.PublicKey, got %T", pub)
	}
	if err := pk.validate(); err != nil {
		return nil, pkc.E(op, pkc.ErrEncryption, err)
	}

	if len(message) > MaxMessageLen {
		return nil, pkc.Errorf(op, pkc.ErrMessageTooLong, "%d bytes exceeds the limit of %d", len(message), MaxMessageLen)
	}
	data := []byte(message)
	m := bigmath.BytesToInt(data)
	if m.Cmp(pk.P) < 0 {
		c1, c2, err := e.encryptBlock(pk, m)
		if err != nil {
			return nil, err
		}
		return &pkc.Envelope{
			Algorithm:    pkc.AlgorithmElGamal,
			Ciphertext:   bigmath.IntToHex(c2),
			EphemeralKey: bigmath.IntToHex(c1),
			Metadata:     pkc.Metadata{Length: len(data)},
		}, nil
	}

	size := blockSizeFor(pk.P)
	blocks := splitBlocks(data, size)
	c1s := make([]*big.Int, len(blocks))
	c2s := make([]*big.Int, len(blocks))
	for i, block := range blocks {
		c1, c2, err := e.encryptBlock(pk, bigmath.BytesToInt(block))
		if err != nil {
			return nil, err
		}
		c1s[i], c2s[i] = c1, c2
	}
	e.logger.Debug(context.Background(), "message encrypted in block mode", "alg", pkc.AlgorithmElGamal, "blocks", len(blocks), "block_size", size)

	return &pkc.Envelope{
		Algorithm:    pkc.AlgorithmElGamal,
		Ciphertext:   joinHex(c2s),
		EphemeralKey: joinHex(c1s),
		Metadata: pkc.Metadata{
			IsBlocked: true,
			Blocks:    len(blocks),
			BlockSize: size,
			Length:    len(data),
		},
	}, nil
}

// Decrypt recovers M = c2·(c1^x)⁻¹ mod p for every pair and restores each
// block to its recorded width.
func (e *Engine) Decrypt(env *pkc.Envelope, priv pkc.PrivateKey) (string, error) {
	const op = "elgamal.Decrypt"
	sk, ok := priv.(*PrivateKey)
	if !ok {
		return "", pkc.Errorf(op, pkc.ErrDecryption, "expected *elgamal.PrivateKey, got %T", priv)
	}
	if err := sk.validate(); err != nil {
		return "", pkc.E(op, pkc.ErrDecryption, err)
	}
	if env == nil {
		return "", pkc.Errorf(op, pkc.ErrDecryption, "nil envelope")
	}
	if env.Algorithm == "" {
		return "", pkc.MissingField(op, "algorithm")
	}
	if !strings.EqualFold(env.Algorithm, pkc.AlgorithmElGamal) {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "algorithm", fmt.Errorf("envelope is for %q", env.Algorithm))
	}
	if env.Ciphertext == "" {
		return "", pkc.MissingField(op, "ciphertext")
	}
	if env.EphemeralKey == "" {
		return "", pkc.MissingField(op, "ephemeralKey")
	}
	length := env.Metadata.Length
	if length < 0 {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "metadata.length", errors.New("negative length"))
	}
	if length > MaxMessageLen {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "metadata.length", fmt.Errorf("%d bytes exceeds the limit of %d", length, MaxMessageLen))
	}

	c1s, err := splitHex(env.EphemeralKey)
	if err != nil {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "ephemeralKey", err)
	}
	c2s, err := splitHex(env.Ciphertext)
	if err != nil {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "ciphertext", err)
	}
	if len(c1s) != len(c2s) {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "ciphertext", fmt.Errorf("%d c1 values but %d c2 values", len(c1s), len(c2s)))
	}

	var widths []int
	if env.Metadata.IsBlocked {
		size := blockSizeFor(sk.P)
		if bs := env.Metadata.BlockSize; bs != 0 && bs != size {
			return "", pkc.FieldError(op, pkc.ErrDecryption, "metadata.blockSize", fmt.Errorf("block size %d does not match the group's %d", bs, size))
		}
		if env.Metadata.Blocks != len(c1s) {
			return "", pkc.FieldError(op, pkc.ErrDecryption, "metadata.blocks", fmt.Errorf("declares %d blocks, found %d", env.Metadata.Blocks, len(c1s)))
		}
		if length == 0 {
			return "", pkc.MissingField(op, "metadata.length")
		}
		widths, err = blockWidths(length, len(c1s), size)
		if err != nil {
			return "", pkc.FieldError(op, pkc.ErrDecryption, "metadata.length", err)
		}
	} else {
		if len(c1s) != 1 {
			return "", pkc.FieldError(op, pkc.ErrDecryption, "ciphertext", errors.New("multiple values in an unblocked envelope"))
		}
		// Only the empty message encrypts to c2 = 0, so a zero length with
		// any other c2 means the field was dropped.
		if length == 0 && c2s[0].Sign() != 0 {
			return "", pkc.MissingField(op, "metadata.length")
		}
		widths = []int{length}
	}

	var out []byte
	for i := range c1s {
		m, err := decryptPair(sk, c1s[i], c2s[i])
		if err != nil {
			return "", pkc.E(op, pkc.ErrDecryption, err)
		}
		block, err := bigmath.IntToFixedBytes(m, widths[i])
		if err != nil {
			return "", pkc.E(op, pkc.ErrDecryption, err)
		}
		out = append(out, block...)
	}

	if !utf8.Valid(out) {
		return "", pkc.Errorf(op, pkc.ErrDecoding, "plaintext is not valid UTF-8")
	}
	return string(out), nil
}

func decryptPair(sk *PrivateKey, c1, c2 *big.Int) (*big.Int, error) {
	if c1.Sign() <= 0 || c1.Cmp(sk.P) >= 0 {
		return nil, errors.New("c1 out of range")
	}
	if c2.Sign() < 0 || c2.Cmp(sk.P) >= 0 {
		return nil, errors.New("c2 out of range")
	}
	s := bigmath.ModPow(c1, sk.X, sk.P)
	sInv, err := bigmath.ModInverse(s, sk.P)
	if err != nil {
		return nil, err
	}
	m := sInv.Mul(sInv, c2)
	return m.Mod(m, sk.P), nil
}
