package ecc

import (
	"encoding/hex"
	"errors"
	"math/big"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
	"github.com/pkcdemo/pkc-go/pkg/pkc/bigmath"
)

const componentDigits = 12

// PublicKey is a curve point Q = d·G.
type PublicKey struct {
	Curve *Curve
	Point Point
}

// Algorithm implements pkc.PublicKey.
func (k *PublicKey) Algorithm() string { return pkc.AlgorithmECC }

// Components implements pkc.PublicKey.
func (k *PublicKey) Components() []pkc.KeyComponent {
	out := []pkc.KeyComponent{
		component("x", k.Point.X, false),
		component("y", k.Point.Y, false),
	}
	if b, err := k.Curve.Compress(k.Point); err == nil {
		out = append(out, pkc.KeyComponent{
			Name:  "compressed",
			Value: bigmath.Abbreviate(hex.EncodeToString(b), componentDigits),
			Bits:  8 * len(b),
		})
	}
	return out
}

// Bytes returns the compressed encoding of the key.
func (k *PublicKey) Bytes() ([]byte, error) {
	return k.Curve.Compress(k.Point)
}

func (k *PublicKey) validate() error {
	if k == nil || k.Curve == nil {
		return errors.New("incomplete public key")
	}
	if !k.Curve.IsOnCurve(k.Point) {
		return errors.New("public point is not on the curve")
	}
	return nil
}

// PrivateKey is a scalar d in [1, n).
type PrivateKey struct {
	Curve *Curve
	D     *big.Int
}

// Algorithm implements pkc.PrivateKey.
func (k *PrivateKey) Algorithm() string { return pkc.AlgorithmECC }

// Components implements pkc.PrivateKey.
func (k *PrivateKey) Components() []pkc.KeyComponent {
	return []pkc.KeyComponent{component("d", k.D, true)}
}

// Public returns d·G.
func (k *PrivateKey) Public() *PublicKey {
	return &PublicKey{Curve: k.Curve, Point: k.Curve.ScalarBaseMult(k.D)}
}

// Zeroize clears d.
func (k *PrivateKey) Zeroize() {
	pkc.ZeroizeInt(k.D)
}

func (k *PrivateKey) validate() error {
	if k == nil || k.Curve == nil || k.D == nil {
		return errors.New("incomplete private key")
	}
	if k.D.Sign() <= 0 || k.D.Cmp(k.Curve.N) >= 0 {
		return errors.New("scalar out of range")
	}
	return nil
}

func component(name string, v *big.Int, secret bool) pkc.KeyComponent {
	return pkc.KeyComponent{
		Name:   name,
		Value:  bigmath.AbbreviateInt(v, componentDigits),
		Bits:   bigmath.BitLength(v),
		Secret: secret,
	}
}
