package prime

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/pkcdemo/pkc-go/pkg/pkc/bigmath"
	"github.com/pkcdemo/pkc-go/pkg/pkc/entropy"
)

// DefaultRounds is the Miller-Rabin round count used for key generation.
// The error bound is 4^-rounds.
const DefaultRounds = 20

// MinBits is the smallest prime size Generate accepts.
const MinBits = 16

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// smallPrimes are used for trial division before running Miller-Rabin.
var smallPrimes = []uint64{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71,
	73, 79, 83, 89, 97, 101, 103, 107, 109, 113, 127, 131, 137, 139, 149, 151,
	157, 163, 167, 173, 179, 181, 191, 193, 197, 199, 211, 223, 227, 229, 233,
	239, 241, 251,
}

// IsProbablePrime runs the Miller-Rabin test on n with the given number of
// rounds, drawing each witness uniformly from [2, n-2].
//
// Composites are rejected exactly when a witness is found; a "probably
// prime" answer is wrong with probability at most 4^-rounds. The only error
// is a failure of the randomness source.
func IsProbablePrime(n *big.Int, rounds int, r io.Reader) (bool, error) {
	switch {
	case n.Cmp(one) <= 0:
		return false, nil
	case n.Cmp(three) <= 0:
		return true, nil
	case n.Bit(0) == 0:
		return false, nil
	}
	if rounds < 1 {
		rounds = 1
	}

	if composite, decided := trialDivision(n); decided {
		return !composite, nil
	}

	// n-1 = d·2^s with d odd.
	nm1 := new(big.Int).Sub(n, one)
	d := new(big.Int).Set(nm1)
	s := 0
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		s++
	}

	r = entropy.Resolve(r)
	x := new(big.Int)
	for i := 0; i < rounds; i++ {
		// RandomRange is half-open, so [2, n-1) is [2, n-2].
		a, err := bigmath.RandomRange(r, two, nm1)
		if err != nil {
			return false, fmt.Errorf("prime: draw witness: %w", err)
		}
		if !passesRound(a, d, s, n, nm1, x) {
			return false, nil
		}
	}
	return true, nil
}

// passesRound reports whether n survives witness a.
func passesRound(a, d *big.Int, s int, n, nm1, x *big.Int) bool {
	x.Set(bigmath.ModPow(a, d, n))
	if x.Cmp(one) == 0 || x.Cmp(nm1) == 0 {
		return true
	}
	for j := 1; j < s; j++ {
		x.Mul(x, x)
		x.Mod(x, n)
		if x.Cmp(nm1) == 0 {
			return true
		}
		if x.Cmp(one) == 0 {
			return false
		}
	}
	return false
}

// trialDivision divides n by the small primes. decided is true when the
// answer is known without Miller-Rabin.
func trialDivision(n *big.Int) (composite, decided bool) {
	m := new(big.Int)
	p := new(big.Int)
	for _, sp := range smallPrimes {
		p.SetUint64(sp)
		if n.Cmp(p) == 0 {
			return false, true
		}
		if m.Mod(n, p).Sign() == 0 {
			return true, true
		}
	}
	return false, false
}

// Generate returns a probable prime of exactly bits bits. The two most
// significant bits are set, so the product of two such primes has exactly
// 2·bits bits.
//
// The search has no attempt cap; it returns ctx.Err() once ctx is done.
func Generate(ctx context.Context, r io.Reader, bits int) (*big.Int, error) {
	p, _, err := GenerateWithStats(ctx, r, bits, DefaultRounds)
	return p, err
}

// GenerateWithStats is Generate with an explicit round count. It also reports
// how many candidates were drawn.
func GenerateWithStats(ctx context.Context, r io.Reader, bits, rounds int) (*big.Int, int, error) {
	if bits < MinBits {
		return nil, 0, fmt.Errorf("prime: bit size must be at least %d, got %d", MinBits, bits)
	}
	r = entropy.Resolve(r)

	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, attempts, err
		}
		attempts++

		c, err := bigmath.RandomBits(r, bits)
		if err != nil {
			return nil, attempts, err
		}
		c.SetBit(c, bits-1, 1)
		c.SetBit(c, bits-2, 1)
		c.SetBit(c, 0, 1)

		ok, err := IsProbablePrime(c, rounds, r)
		if err != nil {
			return nil, attempts, err
		}
		if ok {
			return c, attempts, nil
		}
	}
}
