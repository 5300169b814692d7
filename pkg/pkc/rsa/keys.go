package rsa

import (
	"errors"
	"math/big"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
	"github.com/pkcdemo/pkc-go/pkg/pkc/bigmath"
)

// PublicExponent is the fixed public exponent e.
const PublicExponent = 65537

// componentDigits is how many hex digits of each end Components shows.
const componentDigits = 12

// PublicKey is an RSA public key (n, e).
type PublicKey struct {
	N *big.Int
	E *big.Int
}

// Algorithm implements pkc.PublicKey.
func (k *PublicKey) Algorithm() string { return pkc.AlgorithmRSA }

// Size returns the modulus length in bytes.
func (k *PublicKey) Size() int { return bigmath.ByteLength(k.N) }

// Components implements pkc.PublicKey.
func (k *PublicKey) Components() []pkc.KeyComponent {
	return []pkc.KeyComponent{
		component("n", k.N, false),
		component("e", k.E, false),
	}
}

func (k *PublicKey) validate() error {
	if k == nil || k.N == nil || k.E == nil {
		return errors.New("incomplete public key")
	}
	if k.N.Sign() <= 0 || k.E.Cmp(big.NewInt(1)) <= 0 {
		return errors.New("public key parameters out of range")
	}
	return nil
}

// PrivateKey is an RSA private key. P and Q are kept for display and
// validation; decryption uses d directly.
type PrivateKey struct {
	N *big.Int
	E *big.Int
	D *big.Int
	P *big.Int
	Q *big.Int
}

// Algorithm implements pkc.PrivateKey.
func (k *PrivateKey) Algorithm() string { return pkc.AlgorithmRSA }

// Size returns the modulus length in bytes.
func (k *PrivateKey) Size() int { return bigmath.ByteLength(k.N) }

// Public returns the matching public key.
func (k *PrivateKey) Public() *PublicKey {
	return &PublicKey{N: new(big.Int).Set(k.N), E: new(big.Int).Set(k.E)}
}

// Components implements pkc.PrivateKey.
func (k *PrivateKey) Components() []pkc.KeyComponent {
	return []pkc.KeyComponent{
		component("n", k.N, false),
		component("d", k.D, true),
		component("p", k.P, true),
		component("q", k.Q, true),
	}
}

// Validate checks n = p·q and e·d ≡ 1 (mod (p-1)(q-1)).
func (k *PrivateKey) Validate() error {
	if k.validate() != nil {
		return errors.New("incomplete private key")
	}
	if k.P == nil || k.Q == nil {
		return errors.New("private key has no factors")
	}
	if new(big.Int).Mul(k.P, k.Q).Cmp(k.N) != 0 {
		return errors.New("n != p*q")
	}
	phi := totient(k.P, k.Q)
	ed := new(big.Int).Mul(k.E, k.D)
	if ed.Mod(ed, phi).Cmp(big.NewInt(1)) != 0 {
		return errors.New("e*d != 1 mod phi(n)")
	}
	return nil
}

func (k *PrivateKey) validate() error {
	if k == nil || k.N == nil || k.E == nil || k.D == nil {
		return errors.New("incomplete private key")
	}
	if k.N.Sign() <= 0 || k.D.Sign() <= 0 {
		return errors.New("private key parameters out of range")
	}
	return nil
}

// Zeroize clears the secret parameters.
func (k *PrivateKey) Zeroize() {
	pkc.ZeroizeInt(k.D)
	pkc.ZeroizeInt(k.P)
	pkc.ZeroizeInt(k.Q)
}

func totient(p, q *big.Int) *big.Int {
	pm1 := new(big.Int).Sub(p, big.NewInt(1))
	qm1 := new(big.Int).Sub(q, big.NewInt(1))
	return pm1.Mul(pm1, qm1)
}

func component(name string, v *big.Int, secret bool) pkc.KeyComponent {
	return pkc.KeyComponent{
		Name:   name,
		Value:  bigmath.AbbreviateInt(v, componentDigits),
		Bits:   bigmath.BitLength(v),
		Secret: secret,
	}
}
