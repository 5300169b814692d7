package bigmath

import (
	"math/big"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
)

var one = big.NewInt(1)

// ModPow returns base^exp mod m using right-to-left square-and-multiply.
//
// The exponent is consumed from its least significant bit. base may be
// negative or larger than m; it is normalized into [0, m) first. ModPow
// returns 0 when m == 1. A non-positive modulus or a negative exponent is a
// programming error and panics, as division by zero does in math/big.
func ModPow(base, exp, m *big.Int) *big.Int {
	if m.Sign() <= 0 {
		panic("bigmath: ModPow with non-positive modulus")
	}
	if exp.Sign() < 0 {
		panic("bigmath: ModPow with negative exponent")
	}
	if m.Cmp(one) == 0 {
		return new(big.Int)
	}

	result := big.NewInt(1)
	b := new(big.Int).Mod(base, m)
	n := exp.BitLen()
	for i := 0; i < n; i++ {
		if exp.Bit(i) == 1 {
			result.Mul(result, b)
			result.Mod(result, m)
		}
		if i+1 < n {
			b.Mul(b, b)
			b.Mod(b, m)
		}
	}
	return result
}

// ModInverse returns x in [0, m) with a·x ≡ 1 (mod m), computed with the
// extended Euclidean algorithm. It fails with pkc.ErrArithmetic when
// gcd(a, m) != 1.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	const op = "bigmath.ModInverse"
	if m.Sign() <= 0 {
		return nil, pkc.Errorf(op, pkc.ErrArithmetic, "modulus must be positive")
	}

	oldR := new(big.Int).Mod(a, m)
	r := new(big.Int).Set(m)
	oldS := big.NewInt(1)
	s := big.NewInt(0)

	q := new(big.Int)
	rem := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		q.QuoRem(oldR, r, rem)
		oldR, r = r, oldR.Set(rem)

		tmp.Mul(q, s)
		tmp.Sub(oldS, tmp)
		oldS, s = s, oldS.Set(tmp)
	}

	if oldR.Cmp(one) != 0 {
		return nil, pkc.Errorf(op, pkc.ErrArithmetic, "element is not invertible (gcd has %d bits)", oldR.BitLen())
	}
	return oldS.Mod(oldS, m), nil
}

// GCD returns the greatest common divisor of |a| and |b|.
func GCD(a, b *big.Int) *big.Int {
	x := new(big.Int).Abs(a)
	y := new(big.Int).Abs(b)
	for y.Sign() != 0 {
		x.Mod(x, y)
		x, y = y, x
	}
	return x
}

// Coprime reports whether gcd(a, b) == 1.
func Coprime(a, b *big.Int) bool {
	return GCD(a, b).Cmp(one) == 0
}

// IsZero reports whether x is nil or zero.
func IsZero(x *big.Int) bool {
	return x == nil || x.Sign() == 0
}
