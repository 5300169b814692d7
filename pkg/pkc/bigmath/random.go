package bigmath

import (
	"fmt"
	"io"
	"math/big"

	"github.com/pkcdemo/pkc-go/pkg/pkc/entropy"
)

// RandomBelow returns a uniform integer in [0, max).
//
// Samples cover exactly BitLength(max-1) bits and are rejected until they
// fall below max, so the result is unbiased. A nil reader uses the default
// cryptographic source.
func RandomBelow(r io.Reader, max *big.Int) (*big.Int, error) {
	if max == nil || max.Sign() <= 0 {
		return nil, fmt.Errorf("bigmath: RandomBelow bound must be positive")
	}
	r = entropy.Resolve(r)

	limit := new(big.Int).Sub(max, one)
	bitLen := limit.BitLen()
	if bitLen == 0 {
		return new(big.Int), nil
	}

	k := (bitLen + 7) / 8
	topBits := uint(bitLen % 8)
	if topBits == 0 {
		topBits = 8
	}

	buf := make([]byte, k)
	n := new(big.Int)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("bigmath: read random bytes: %w", err)
		}
		buf[0] &= uint8(int(1<<topBits) - 1)
		n.SetBytes(buf)
		if n.Cmp(max) < 0 {
			return n, nil
		}
	}
}

// RandomRange returns a uniform integer in [lo, hi).
func RandomRange(r io.Reader, lo, hi *big.Int) (*big.Int, error) {
	if hi.Cmp(lo) <= 0 {
		return nil, fmt.Errorf("bigmath: empty range [%s, %s)", lo, hi)
	}
	width := new(big.Int).Sub(hi, lo)
	n, err := RandomBelow(r, width)
	if err != nil {
		return nil, err
	}
	return n.Add(n, lo), nil
}

// RandomBits returns a uniform integer in [0, 2^bits).
func RandomBits(r io.Reader, bits int) (*big.Int, error) {
	if bits <= 0 {
		return nil, fmt.Errorf("bigmath: RandomBits needs a positive bit count, got %d", bits)
	}
	r = entropy.Resolve(r)

	buf := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("bigmath: read random bytes: %w", err)
	}
	if extra := uint(len(buf)*8 - bits); extra > 0 {
		buf[0] &= uint8(0xff >> extra)
	}
	return new(big.Int).SetBytes(buf), nil
}

// RandomBytes returns n bytes from r.
func RandomBytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(entropy.Resolve(r), buf); err != nil {
		return nil, fmt.Errorf("bigmath: read random bytes: %w", err)
	}
	return buf, nil
}
