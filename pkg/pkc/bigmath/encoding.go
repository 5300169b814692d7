package bigmath

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
)

// BitLength returns the number of bits needed to represent |x|; 0 for zero.
func BitLength(x *big.Int) int {
	return x.BitLen()
}

// ByteLength returns the number of bytes of the minimal big-endian encoding of |x|.
func ByteLength(x *big.Int) int {
	return (x.BitLen() + 7) / 8
}

// DecimalDigits returns the number of decimal digits of |x|.
func DecimalDigits(x *big.Int) int {
	return len(new(big.Int).Abs(x).String())
}

// BytesToInt interprets b as an unsigned big-endian integer.
func BytesToInt(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// IntToBytes returns the minimal unsigned big-endian encoding of |x|.
// Zero encodes to an empty slice.
func IntToBytes(x *big.Int) []byte {
	return x.Bytes()
}

// IntToFixedBytes encodes x as exactly size big-endian bytes, padding on the
// left with zeros. It fails with pkc.ErrValueTooLarge if x needs more than
// size bytes and rejects negative values.
func IntToFixedBytes(x *big.Int, size int) ([]byte, error) {
	const op = "bigmath.IntToFixedBytes"
	if x.Sign() < 0 {
		return nil, pkc.Errorf(op, pkc.ErrValueTooLarge, "negative value")
	}
	if n := ByteLength(x); n > size {
		return nil, pkc.Errorf(op, pkc.ErrValueTooLarge, "need %d bytes, have %d", n, size)
	}
	out := make([]byte, size)
	x.FillBytes(out)
	return out, nil
}

// IntToHex returns the lowercase hexadecimal form of x without prefix.
func IntToHex(x *big.Int) string {
	return x.Text(16)
}

// HexToInt parses a hexadecimal string with an optional 0x prefix.
func HexToInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return nil, fmt.Errorf("bigmath: empty hex string")
	}
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("bigmath: invalid hex string")
	}
	return n, nil
}

// IntToBase64 encodes the minimal big-endian bytes of x with standard base64.
func IntToBase64(x *big.Int) string {
	return base64.StdEncoding.EncodeToString(x.Bytes())
}

// Base64ToInt decodes standard base64 into an unsigned integer.
func Base64ToInt(s string) (*big.Int, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("bigmath: invalid base64: %w", err)
	}
	return new(big.Int).SetBytes(b), nil
}

// Abbreviate shortens s to its first and last n characters joined by "...".
// Strings short enough to be shown whole are returned unchanged.
func Abbreviate(s string, n int) string {
	if n <= 0 || len(s) <= 2*n+3 {
		return s
	}
	return s[:n] + "..." + s[len(s)-n:]
}

// AbbreviateInt renders x in hex and abbreviates it.
func AbbreviateInt(x *big.Int, n int) string {
	if x == nil {
		return ""
	}
	return Abbreviate(IntToHex(x), n)
}
