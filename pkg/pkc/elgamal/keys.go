package elgamal

import (
	"errors"
	"math/big"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
	"github.com/pkcdemo/pkc-go/pkg/pkc/bigmath"
)

const componentDigits = 12

// PublicKey is (p, g, y) with y = g^x mod p.
type PublicKey struct {
	P *big.Int
	G *big.Int
	Y *big.Int
}

// Algorithm implements pkc.PublicKey.
func (k *PublicKey) Algorithm() string { return pkc.AlgorithmElGamal }

// Components implements pkc.PublicKey.
func (k *PublicKey) Components() []pkc.KeyComponent {
	return []pkc.KeyComponent{
		component("p", k.P, false),
		component("g", k.G, false),
		component("y", k.Y, false),
	}
}

func (k *PublicKey) validate() error {
	if k == nil || k.P == nil || k.G == nil || k.Y == nil {
		return errors.New("incomplete public key")
	}
	if k.P.Sign() <= 0 {
		return errors.New("modulus must be positive")
	}
	if k.Y.Sign() <= 0 || k.Y.Cmp(k.P) >= 0 {
		return errors.New("y out of range")
	}
	return nil
}

// PrivateKey is (p, g, x) with 1 ≤ x < p-1.
type PrivateKey struct {
	P *big.Int
	G *big.Int
	X *big.Int
}

// Algorithm implements pkc.PrivateKey.
func (k *PrivateKey) Algorithm() string { return pkc.AlgorithmElGamal }

// Components implements pkc.PrivateKey.
func (k *PrivateKey) Components() []pkc.KeyComponent {
	return []pkc.KeyComponent{
		component("p", k.P, false),
		component("x", k.X, true),
	}
}

// Public derives the matching public key.
func (k *PrivateKey) Public() *PublicKey {
	return &PublicKey{
		P: new(big.Int).Set(k.P),
		G: new(big.Int).Set(k.G),
		Y: bigmath.ModPow(k.G, k.X, k.P),
	}
}

// Zeroize clears x.
func (k *PrivateKey) Zeroize() {
	pkc.ZeroizeInt(k.X)
}

func (k *PrivateKey) validate() error {
	if k == nil || k.P == nil || k.X == nil {
		return errors.New("incomplete private key")
	}
	pm1 := new(big.Int).Sub(k.P, big.NewInt(1))
	if k.X.Sign() <= 0 || k.X.Cmp(pm1) >= 0 {
		return errors.New("x out of range")
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
