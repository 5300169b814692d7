package ecc

import (
	"context"
	"crypto/hmac"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
	"github.com/pkcdemo/pkc-go/pkg/pkc/bigmath"
	"github.com/pkcdemo/pkc-go/pkg/pkc/digest"
	"github.com/pkcdemo/pkc-go/pkg/pkc/entropy"
	"github.com/pkcdemo/pkc-go/pkg/pkc/logging"
)

// IVSize is the length of the stream-cipher IV.
const IVSize = 16

// Domain separators appended to the shared secret.
const (
	encKeyLabel byte = 0x01
	macKeyLabel byte = 0x02
)

// Engine implements an ECIES-style hybrid scheme: an ephemeral ECDH
// exchange, a hash-counter keystream and an HMAC tag.
type Engine struct {
	curveName string
	curve     *Curve
	hashName  string
	newHash   func() hash.Hash
	rand      io.Reader
	logger    logging.Logger
}

var _ pkc.Algorithm = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithCurve selects the curve by name. The default is secp256k1.
func WithCurve(name string) Option {
	return func(e *Engine) { e.curveName = name }
}

// WithHash selects the key-derivation and MAC hash by digest name.
func WithHash(name string) Option {
	return func(e *Engine) { e.hashName = name }
}

// WithRand sets the randomness source. nil selects crypto/rand.
func WithRand(r io.Reader) Option {
	return func(e *Engine) { e.rand = r }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New returns an Engine on secp256k1 with ToyHash unless configured
// otherwise.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{curveName: NameSecp256k1, hashName: digest.Default}
	for _, opt := range opts {
		opt(e)
	}
	c, err := CurveByName(e.curveName)
	if err != nil {
		return nil, err
	}
	e.curve = c
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
func (e *Engine) Name() string { return pkc.AlgorithmECC }

// Curve returns the configured curve.
func (e *Engine) Curve() *Curve { return e.curve }

// GenerateKeys draws d uniformly from [1, n) and computes Q = d·G.
func (e *Engine) GenerateKeys(ctx context.Context) (*pkc.KeyPair, error) {
	const op = "ecc.GenerateKeys"
	if err := ctx.Err(); err != nil {
		return nil, pkc.E(op, pkc.ErrKeyGeneration, err)
	}
	d, err := bigmath.RandomRange(e.rand, one, e.curve.N)
	if err != nil {
		return nil, pkc.E(op, pkc.ErrKeyGeneration, err)
	}
	priv := &PrivateKey{Curve: e.curve, D: d}
	pub := priv.Public()
	e.logger.Info(ctx, "keys generated", "alg", pkc.AlgorithmECC, "curve", e.curve.Name, logging.Redacted("d"))
	return &pkc.KeyPair{Algorithm: pkc.AlgorithmECC, Public: pub, Private: priv}, nil
}

// Encrypt picks an ephemeral scalar r, publishes R = r·G and derives the
// stream and MAC keys from S = r·Q.
func (e *Engine) Encrypt(message string, pub pkc.PublicKey) (*pkc.Envelope, error) {
	const op = "ecc.Encrypt"
	pk, ok := pub.(*PublicKey)
	if !ok {
		return nil, pkc.Errorf(op, pkc.ErrEncryption, "expected *ecc.PublicKey, got %T", pub)
	}
	if err := pk.validate(); err != nil {
		return nil, pkc.E(op, pkc.ErrEncryption, err)
	}
	c := pk.Curve

	r, err := bigmath.RandomRange(e.rand, one, c.N)
	if err != nil {
		return nil, pkc.E(op, pkc.ErrEncryption, err)
	}
	defer pkc.ZeroizeInt(r)

	ephemeral := c.ScalarBaseMult(r)
	shared := c.ScalarMult(pk.Point, r)
	if shared.IsInfinity() {
		return nil, pkc.Errorf(op, pkc.ErrEncryption, "shared point is at infinity")
	}
	encKey, macKey, err := deriveKeys(e.newHash, c, shared)
	if err != nil {
		return nil, pkc.E(op, pkc.ErrEncryption, err)
	}
	defer pkc.ZeroizeBytes(encKey)
	defer pkc.ZeroizeBytes(macKey)

	iv, err := bigmath.RandomBytes(e.rand, IVSize)
	if err != nil {
		return nil, pkc.E(op, pkc.ErrEncryption, err)
	}
	rBytes, err := c.Compress(ephemeral)
	if err != nil {
		return nil, pkc.E(op, pkc.ErrEncryption, err)
	}

	ct := []byte(message)
	xorKeyStream(e.newHash, encKey, iv, ct)
	tag := computeTag(e.newHash, macKey, rBytes, iv, ct)

	return &pkc.Envelope{
		Algorithm:    pkc.AlgorithmECC,
		Ciphertext:   base64.StdEncoding.EncodeToString(ct),
		EphemeralKey: hex.EncodeToString(rBytes),
		IV:           base64.StdEncoding.EncodeToString(iv),
		Metadata: pkc.Metadata{
			Curve:  c.Name,
			Hash:   e.hashName,
			Length: len(message),
			Tag:    base64.StdEncoding.EncodeToString(tag),
		},
	}, nil
}

// Decrypt recomputes S = d·R, checks the tag and removes the keystream.
// Any modification of the ephemeral key, IV, ciphertext or tag is reported
// as ErrDecryption.
func (e *Engine) Decrypt(env *pkc.Envelope, priv pkc.PrivateKey) (string, error) {
	const op = "ecc.Decrypt"
	sk, ok := priv.(*PrivateKey)
	if !ok {
		return "", pkc.Errorf(op, pkc.ErrDecryption, "expected *ecc.PrivateKey, got %T", priv)
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
	if !strings.EqualFold(env.Algorithm, pkc.AlgorithmECC) {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "algorithm", fmt.Errorf("envelope is for %q", env.Algorithm))
	}
	for _, f := range []struct{ name, value string }{
		{"ciphertext", env.Ciphertext},
		{"ephemeralKey", env.EphemeralKey},
		{"iv", env.IV},
		{"metadata.tag", env.Metadata.Tag},
	} {
		if f.value == "" {
			return "", pkc.MissingField(op, f.name)
		}
	}

	c := sk.Curve
	if name := env.Metadata.Curve; name != "" {
		want, err := CurveByName(name)
		if err != nil || want != c {
			return "", pkc.FieldError(op, pkc.ErrDecryption, "metadata.curve", fmt.Errorf("envelope curve %q does not match key curve %s", name, c.Name))
		}
	}
	newHash := e.newHash
	if name := env.Metadata.Hash; name != "" {
		h, err := digest.New(name)
		if err != nil {
			return "", pkc.FieldError(op, pkc.ErrDecryption, "metadata.hash", err)
		}
		newHash = h
	}

	rBytes, err := hex.DecodeString(env.EphemeralKey)
	if err != nil {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "ephemeralKey", err)
	}
	ephemeral, err := c.Decompress(rBytes)
	if err != nil {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "ephemeralKey", err)
	}
	iv, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "iv", err)
	}
	if len(iv) != IVSize {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "iv", fmt.Errorf("got %d bytes, want %d", len(iv), IVSize))
	}
	ct, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "ciphertext", err)
	}
	tag, err := base64.StdEncoding.DecodeString(env.Metadata.Tag)
	if err != nil {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "metadata.tag", err)
	}

	shared := c.ScalarMult(ephemeral, sk.D)
	if shared.IsInfinity() {
		return "", pkc.FieldError(op, pkc.ErrDecryption, "ephemeralKey", errors.New("shared point is at infinity"))
	}
	encKey, macKey, err := deriveKeys(newHash, c, shared)
	if err != nil {
		return "", pkc.E(op, pkc.ErrDecryption, err)
	}
	defer pkc.ZeroizeBytes(encKey)
	defer pkc.ZeroizeBytes(macKey)

	if !hmac.Equal(tag, computeTag(newHash, macKey, rBytes, iv, ct)) {
		e.logger.Debug(context.Background(), "authentication tag mismatch", "alg", pkc.AlgorithmECC)
		return "", pkc.Errorf(op, pkc.ErrDecryption, "authentication failed")
	}

	xorKeyStream(newHash, encKey, iv, ct)
	if !utf8.Valid(ct) {
		return "", pkc.Errorf(op, pkc.ErrDecoding, "plaintext is not valid UTF-8")
	}
	return string(ct), nil
}

// deriveKeys returns H(x‖y‖0x01) and H(x‖y‖0x02) for the shared point.
func deriveKeys(newHash func() hash.Hash, c *Curve, shared Point) (encKey, macKey []byte, err error) {
	size := c.ByteSize()
	x, err := bigmath.IntToFixedBytes(shared.X, size)
	if err != nil {
		return nil, nil, err
	}
	y, err := bigmath.IntToFixedBytes(shared.Y, size)
	if err != nil {
		return nil, nil, err
	}
	defer pkc.ZeroizeBytes(x)
	defer pkc.ZeroizeBytes(y)

	derive := func(label byte) []byte {
		h := newHash()
		h.Write(x)
		h.Write(y)
		h.Write([]byte{label})
		return h.Sum(nil)
	}
	return derive(encKeyLabel), derive(macKeyLabel), nil
}

// xorKeyStream XORs buf in place with the keystream whose block i is
// H(iv ‖ key ‖ i), i as a 4-byte big-endian counter from 0.
func xorKeyStream(newHash func() hash.Hash, key, iv, buf []byte) {
	h := newHash()
	var counter [4]byte
	var block []byte
	for off, i := 0, uint32(0); off < len(buf); i++ {
		binary.BigEndian.PutUint32(counter[:], i)
		h.Reset()
		h.Write(iv)
		h.Write(key)
		h.Write(counter[:])
		block = h.Sum(block[:0])
		n := min(len(block), len(buf)-off)
		for j := 0; j < n; j++ {
			buf[off+j] ^= block[j]
		}
		off += n
	}
	pkc.ZeroizeBytes(block)
}

// computeTag returns HMAC-H(macKey, R ‖ iv ‖ ct).
func computeTag(newHash func() hash.Hash, macKey, ephemeral, iv, ct []byte) []byte {
	mac := hmac.New(newHash, macKey)
	mac.Write(ephemeral)
	mac.Write(iv)
	mac.Write(ct)
	return mac.Sum(nil)
}

// SharedSecret returns the ECDH point d·Q. It is exported so callers can
// check that both sides agree.
func SharedSecret(priv *PrivateKey, pub *PublicKey) (Point, error) {
	if err := priv.validate(); err != nil {
		return Point{}, pkc.E("ecc.SharedSecret", pkc.ErrDecryption, err)
	}
	if err := pub.validate(); err != nil {
		return Point{}, pkc.E("ecc.SharedSecret", pkc.ErrEncryption, err)
	}
	if priv.Curve != pub.Curve {
		return Point{}, pkc.Errorf("ecc.SharedSecret", pkc.ErrEncryption, "curve mismatch")
	}
	return priv.Curve.ScalarMult(pub.Point, priv.D), nil
}
