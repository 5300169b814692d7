package ecc

import (
	"errors"
	"math/big"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
	"github.com/pkcdemo/pkc-go/pkg/pkc/bigmath"
)

var one = big.NewInt(1)

// SqrtMod returns a square root of a modulo the odd prime p.
//
// Non-residues are detected up front with Euler's criterion and reported as
// ErrNoSquareRoot. When p ≡ 3 (mod 4) the root is a^((p+1)/4); otherwise
// Tonelli-Shanks runs for at most s iterations, where p-1 = q·2^s. A loop
// that fails to converge means p is not prime and yields ErrInternal.
func SqrtMod(a, p *big.Int) (*big.Int, error) {
	const op = "ecc.SqrtMod"
	if p.Cmp(two) < 0 {
		return nil, pkc.Errorf(op, pkc.ErrInternal, "modulus must be a prime")
	}
	n := new(big.Int).Mod(a, p)
	if n.Sign() == 0 {
		return n, nil
	}
	if p.Cmp(two) == 0 {
		return n, nil
	}

	pm1 := new(big.Int).Sub(p, one)
	euler := new(big.Int).Rsh(pm1, 1)
	if bigmath.ModPow(n, euler, p).Cmp(one) != 0 {
		return nil, pkc.Errorf(op, pkc.ErrNoSquareRoot, "value is a quadratic non-residue")
	}

	// p-1 = q·2^s with q odd.
	q := new(big.Int).Set(pm1)
	s := 0
	for q.Bit(0) == 0 {
		q.Rsh(q, 1)
		s++
	}

	if s == 1 {
		exp := new(big.Int).Add(p, one)
		exp.Rsh(exp, 2)
		return bigmath.ModPow(n, exp, p), nil
	}

	z, err := nonResidue(p, euler, pm1)
	if err != nil {
		return nil, pkc.E(op, pkc.ErrInternal, err)
	}

	m := s
	c := bigmath.ModPow(z, q, p)
	t := bigmath.ModPow(n, q, p)
	exp := new(big.Int).Add(q, one)
	exp.Rsh(exp, 1)
	r := bigmath.ModPow(n, exp, p)

	for iter := 0; iter <= s; iter++ {
		if t.Cmp(one) == 0 {
			return r, nil
		}

		// Least i in (0, m) with t^(2^i) = 1.
		i := 0
		t2 := new(big.Int).Set(t)
		for t2.Cmp(one) != 0 {
			t2.Mul(t2, t2)
			t2.Mod(t2, p)
			i++
			if i == m {
				return nil, pkc.Errorf(op, pkc.ErrInternal, "Tonelli-Shanks did not converge")
			}
		}

		b := new(big.Int).Set(c)
		for j := 0; j < m-i-1; j++ {
			b.Mul(b, b)
			b.Mod(b, p)
		}
		m = i
		c.Mul(b, b)
		c.Mod(c, p)
		t.Mul(t, c)
		t.Mod(t, p)
		r.Mul(r, b)
		r.Mod(r, p)
	}
	return nil, pkc.Errorf(op, pkc.ErrInternal, "Tonelli-Shanks exceeded %d iterations", s)
}

// nonResidue finds the smallest z ≥ 2 with z^((p-1)/2) = p-1.
func nonResidue(p, euler, pm1 *big.Int) (*big.Int, error) {
	z := big.NewInt(2)
	for z.Cmp(p) < 0 {
		if bigmath.ModPow(z, euler, p).Cmp(pm1) == 0 {
			return z, nil
		}
		z.Add(z, one)
	}
	return nil, errors.New("no quadratic non-residue found")
}
