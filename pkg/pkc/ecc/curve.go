package ecc

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
	"github.com/pkcdemo/pkc-go/pkg/pkc/bigmath"
)

// Curve holds the domain parameters of y² = x³ + ax + b over GF(P) with a
// base point G of prime order N. Values are shared and must not be modified.
type Curve struct {
	Name   string
	P      *big.Int
	A      *big.Int
	B      *big.Int
	N      *big.Int
	Gx, Gy *big.Int
}

// Curve names.
const (
	NameSecp256k1 = "secp256k1"
	NameP256      = "P-256"
)

var (
	secp256k1 = mustCurve(NameSecp256k1,
		"fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f",
		"0",
		"7",
		"fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141",
		"79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		"483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8",
	)
	p256 = mustCurve(NameP256,
		"ffffffff00000001000000000000000000000000ffffffffffffffffffffffff",
		"ffffffff00000001000000000000000000000000fffffffffffffffffffffffc",
		"5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b",
		"ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551",
		"6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
		"4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
	)
)

func mustCurve(name, p, a, b, n, gx, gy string) *Curve {
	parse := func(s string) *big.Int {
		v, err := bigmath.HexToInt(s)
		if err != nil {
			panic(fmt.Sprintf("ecc: bad %s parameter: %v", name, err))
		}
		return v
	}
	c := &Curve{
		Name: name,
		P:    parse(p),
		A:    parse(a),
		B:    parse(b),
		N:    parse(n),
		Gx:   parse(gx),
		Gy:   parse(gy),
	}
	if !c.IsOnCurve(c.Generator()) {
		panic(fmt.Sprintf("ecc: %s generator is not on the curve", name))
	}
	return c
}

// Secp256k1 returns the secp256k1 curve (a = 0, b = 7), the default.
func Secp256k1() *Curve { return secp256k1 }

// P256 returns NIST P-256 (a = -3).
func P256() *Curve { return p256 }

// CurveByName looks a curve up by name, case-insensitively.
func CurveByName(name string) (*Curve, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "secp256k1":
		return secp256k1, nil
	case "p-256", "p256", "secp256r1", "prime256v1":
		return p256, nil
	default:
		return nil, pkc.Errorf("ecc.CurveByName", pkc.ErrUnsupportedAlgorithm, "unknown curve %q", name)
	}
}

// Generator returns G.
func (c *Curve) Generator() Point {
	return Point{X: new(big.Int).Set(c.Gx), Y: new(big.Int).Set(c.Gy)}
}

// ByteSize returns the length of an encoded field element.
func (c *Curve) ByteSize() int {
	return bigmath.ByteLength(c.P)
}

func (c *Curve) String() string { return c.Name }
