package ecc_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
	"github.com/pkcdemo/pkc-go/pkg/pkc/ecc"
)

func TestSqrtModSmallPrimes(t *testing.T) {
	// Covers p ≡ 3 (mod 4) and Tonelli-Shanks with s = 2, 3, 4, 5, 16.
	for _, p := range []int64{3, 7, 11, 13, 17, 41, 73, 97, 113, 65537} {
		mod := big.NewInt(p)
		residues := make(map[int64]bool)
		for x := int64(0); x < p; x++ {
			residues[x*x%p] = true
		}
		for a := int64(0); a < p; a++ {
			root, err := ecc.SqrtMod(big.NewInt(a), mod)
			if !residues[a] {
				if !errors.Is(err, pkc.ErrNoSquareRoot) {
					t.Fatalf("p=%d a=%d: expected ErrNoSquareRoot, got %v", p, a, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("p=%d a=%d: %v", p, a, err)
			}
			sq := new(big.Int).Mul(root, root)
			if sq.Mod(sq, mod).Int64() != a {
				t.Fatalf("p=%d a=%d: %d² != a", p, a, root)
			}
		}
	}
}

func TestSqrtModLargePrime(t *testing.T) {
	// 2^255 - 19 ≡ 5 (mod 8), so s = 2.
	p := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(19))
	for _, v := range []int64{2, 3, 12345, 1 << 40} {
		a := new(big.Int).Mul(big.NewInt(v), big.NewInt(v))
		root, err := ecc.SqrtMod(a, p)
		if err != nil {
			t.Fatalf("SqrtMod(%d²): %v", v, err)
		}
		sq := new(big.Int).Mul(root, root)
		if sq.Mod(sq, p).Cmp(new(big.Int).Mod(a, p)) != 0 {
			t.Fatalf("wrong root for %d²", v)
		}
	}
}

func TestSqrtModNonPrimeModulus(t *testing.T) {
	// 21 = 3·7 is not prime; an error is fine, a wrong root is not.
	root, err := ecc.SqrtMod(big.NewInt(4), big.NewInt(21))
	if err == nil {
		sq := new(big.Int).Mul(root, root)
		if sq.Mod(sq, big.NewInt(21)).Int64() != 4 {
			t.Fatalf("wrong root %s", root)
		}
	}
}
