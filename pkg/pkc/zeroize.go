package pkc

import (
	"math/big"
	"runtime"
)

// ZeroizeBytes overwrites the provided slice with zeros and prevents compiler
// dead store elimination using runtime.KeepAlive.
//
// Go's garbage collector may still hold copies, so this only shortens the
// lifetime of intermediate buffers such as OAEP seeds and derived keys.
func ZeroizeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	// Prevent dead store elimination per golang/go#33325
	runtime.KeepAlive(buf)
}

// ZeroizeInt clears the words backing x and sets it to zero.
func ZeroizeInt(x *big.Int) {
	if x == nil {
		return
	}
	words := x.Bits()
	for i := range words {
		words[i] = 0
	}
	x.SetInt64(0)
	runtime.KeepAlive(words)
}
