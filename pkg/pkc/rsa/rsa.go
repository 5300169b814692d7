package rsa

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"io"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
	"github.com/pkcdemo/pkc-go/pkg/pkc/bigmath"
	"github.com/pkcdemo/pkc-go/pkg/pkc/digest"
	"github.com/pkcdemo/pkc-go/pkg/pkc/entropy"
	"github.com/pkcdemo/pkc-go/pkg/pkc/logging"
	"github.com/pkcdemo/pkc-go/pkg/pkc/prime"
)

// Padding is the padding name recorded in envelope metadata.
const Padding = "OAEP"

// MinBits is the smallest modulus New accepts.
const MinBits = 1024

// Engine implements RSA-OAEP. It holds configuration only.
type Engine struct {
	bits     int
	rounds   int
	hashName string
	newHash  func() hash.Hash
	label    []byte
	rand     io.Reader
	logger   logging.Logger
}

var _ pkc.Algorithm = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithBits sets the modulus size. Each prime gets bits/2.
func WithBits(bits int) Option {
	return func(e *Engine) { e.bits = bits }
}

// WithRounds sets the Miller-Rabin round count used during key generation.
func WithRounds(rounds int) Option {
	return func(e *Engine) { e.rounds = rounds }
}

// WithHash selects the OAEP hash by digest name.
func WithHash(name string) Option {
	return func(e *Engine) { e.hashName = name }
}

// WithLabel sets the OAEP label.
func WithLabel(label []byte) Option {
	return func(e *Engine) { e.label = append([]byte(nil), label...) }
}

// WithRand sets the randomness source. nil selects crypto/rand.
func WithRand(r io.Reader) Option {
	return func(e *Engine) { e.rand = r }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New returns an Engine. The defaults are a 2048-bit modulus, 20
// Miller-Rabin rounds, ToyHash and an empty label.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		bits:     pkc.DefaultRSABits,
		rounds:   prime.DefaultRounds,
		hashName: digest.Default,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.bits < MinBits || e.bits%16 != 0 {
		return nil, fmt.Errorf("rsa: modulus size must be a multiple of 16 and at least %d bits, got %d", MinBits, e.bits)
	}
	if e.rounds < 1 {
		return nil, fmt.Errorf("rsa: prime rounds must be positive, got %d", e.rounds)
	}
	e.hashName = digest.Canonical(e.hashName)
	newHash, err := digest.New(e.hashName)
	if err != nil {
		return nil, err
	}
	e.newHash = newHash
	e.rand = entropy.Resolve(e.rand)
	e.logger = logging.OrDiscard(e.logger)
	return e, nil
}

// Name implements pkc.Algorithm.
func (e *Engine) Name() string { return pkc.AlgorithmRSA }

// Bits returns the configured modulus size.
func (e *Engine) Bits() int { return e.bits }

// GenerateKeys draws two bits/2 primes and derives d = e⁻¹ mod φ(n). It
// retries when the primes coincide, when n falls short of the requested
// size or when e is not invertible mod φ(n). Only ctx cancellation or a
// failing randomness source ends the search early.
func (e *Engine) GenerateKeys(ctx context.Context) (*pkc.KeyPair, error) {
	const op = "rsa.GenerateKeys"
	exp := big.NewInt(PublicExponent)
	half := e.bits / 2

	for attempt := 1; ; attempt++ {
		p, pTries, err := prime.GenerateWithStats(ctx, e.rand, half, e.rounds)
		if err != nil {
			return nil, pkc.E(op, pkc.ErrKeyGeneration, err)
		}
		q, qTries, err := prime.GenerateWithStats(ctx, e.rand, half, e.rounds)
		if err != nil {
			return nil, pkc.E(op, pkc.ErrKeyGeneration, err)
		}
		e.logger.Debug(ctx, "primes found", "attempt", attempt, "bits", half, "p_candidates", pTries, "q_candidates", qTries)

		if p.Cmp(q) == 0 {
			e.logger.Warn(ctx, "primes coincide, retrying", "attempt", attempt)
			continue
		}
		n := new(big.Int).Mul(p, q)
		if n.BitLen() != e.bits {
			e.logger.Warn(ctx, "modulus too short, retrying", "attempt", attempt, "bits", n.BitLen())
			continue
		}
		phi := totient(p, q)
		if !bigmath.Coprime(exp, phi) {
			e.logger.Warn(ctx, "e not invertible mod phi, retrying", "attempt", attempt)
			continue
		}
		d, err := bigmath.ModInverse(exp, phi)
		if err != nil {
			return nil, pkc.E(op, pkc.ErrKeyGeneration, err)
		}

		priv := &PrivateKey{N: n, E: exp, D: d, P: p, Q: q}
		e.logger.Info(ctx, "keys generated", "alg", pkc.AlgorithmRSA, "bits", n.BitLen(), "attempts", attempt, logging.Redacted("d"))
		return &pkc.KeyPair{
			Algorithm: pkc.AlgorithmRSA,
			Public:    priv.Public(),
			Private:   priv,
		}, nil
	}
}

// Encrypt OAEP-encodes message to the modulus length and computes
// c = m^e mod n. The ciphertext is exactly k bytes, base64 encoded.
func (e *Engine) Encrypt(message string, pub pkc.PublicKey) (*pkc.Envelope, error) {
	const op = "rsa.Encrypt"
	pk, ok := pub.(*PublicKey)
	if !ok {
		return nil, pkc.Errorf(op, pkc.ErrEncryption, "expected *rsa.PublicKey, got %T", pub)
	}
	if err := pk.validate(); err != nil {
		return nil, pkc.E(op, pkc.ErrEncryption, err)
	}

	k := pk.Size()
	em, err := EncodeOAEP(e.newHash, e.rand, []byte(message), e.label, k)
	if err != nil {
		if errors.Is(err, pkc.ErrMessageTooLong) {
			return nil, err
		}
		return nil, pkc.E(op, pkc.ErrEncryption, err)
	}
	defer pkc.ZeroizeBytes(em)

	m := bigmath.BytesToInt(em)
	c := bigmath.ModPow(m, pk.E, pk.N)
	ct, err := bigmath.IntToFixedBytes(c, k)
	if err != nil {
		return nil, pkc.E(op, pkc.ErrEncryption, err)
	}

	return &pkc.Envelope{
		Algorithm:  pkc.AlgorithmRSA,
		Ciphertext: base64.StdEncoding.EncodeToString(ct),
		Metadata: pkc.Metadata{
			Padding: Padding,
			Hash:    e.hashName,
			KeyBits: pk.N.BitLen(),
			Length:  len(message),
		},
	}, nil
}

// Decrypt computes m = c^d mod n and removes the OAEP padding. The hash
// recorded in the envelope wins over the engine's own setting.
func (e *Engine) Decrypt(env *pkc.Envelope, priv pkc.PrivateKey) (string, error) {
	const op = "rsa.Decrypt"
	sk, ok := priv.(*PrivateKey)
	if !ok {
		return "", pkc.Errorf(op, pkc.ErrDecryption, "expected *rsa.PrivateKey, got %T", priv)
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
	if !strings.EqualFold(env.Algorithm, pkc.AlgorithmRSA) {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "algorithm", fmt.Errorf("envelope is for %q", env.Algorithm))
	}
	if env.Ciphertext == "" {
		return "", pkc.MissingField(op, "ciphertext")
	}
	if p := env.Metadata.Padding; p != "" && !strings.EqualFold(p, Padding) {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "metadata.padding", fmt.Errorf("unsupported padding %q", p))
	}

	newHash := e.newHash
	if name := env.Metadata.Hash; name != "" {
		h, err := digest.New(name)
		if err != nil {
			return "", pkc.FieldError(op, pkc.ErrDecryption, "metadata.hash", err)
		}
		newHash = h
	}

	ct, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "ciphertext", err)
	}
	k := sk.Size()
	if len(ct) != k {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "ciphertext", fmt.Errorf("got %d bytes, want %d", len(ct), k))
	}
	c := bigmath.BytesToInt(ct)
	if c.Cmp(sk.N) >= 0 {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "ciphertext", errors.New("ciphertext representative out of range"))
	}

	m := bigmath.ModPow(c, sk.D, sk.N)
	defer pkc.ZeroizeInt(m)
	em, err := bigmath.IntToFixedBytes(m, k)
	if err != nil {
		return "", pkc.E(op, pkc.ErrDecryption, err)
	}
	defer pkc.ZeroizeBytes(em)

	msg, err := DecodeOAEP(newHash, em, e.label)
	if err != nil {
		e.logger.Debug(context.Background(), "oaep decoding failed", "alg", pkc.AlgorithmRSA)
		return "", err
	}
	if !utf8.Valid(msg) {
		return "", pkc.Errorf(op, pkc.ErrDecoding, "plaintext is not valid UTF-8")
	}
	return string(msg), nil
}
