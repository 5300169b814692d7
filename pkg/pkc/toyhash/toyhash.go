package toyhash

import (
	"encoding/binary"
	"hash"
	"math/bits"
)

// Size is the length of a ToyHash digest in bytes.
const Size = 32

// BlockSize is the block size reported to callers such as crypto/hmac.
const BlockSize = 64

// Name is the identifier recorded in envelope metadata.
const Name = "toyhash"

const (
	prime32  = 0x01000193
	golden32 = 0x9e3779b9
	mix32    = 0x85ebca6b
)

// Same starting words as SHA-256.
var iv = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

type digest struct {
	h   [8]uint32
	len uint64
}

// New returns a new hash.Hash computing ToyHash.
//
// ToyHash is NOT a cryptographic hash. It exists so that the padding and key
// derivation code paths can be followed by hand.
func New() hash.Hash {
	d := new(digest)
	d.Reset()
	return d
}

// Sum returns the ToyHash digest of data.
func Sum(data []byte) [Size]byte {
	var d digest
	d.Reset()
	d.write(data)
	return d.checkSum()
}

func (d *digest) Reset() {
	d.h = iv
	d.len = 0
}

func (d *digest) Size() int      { return Size }
func (d *digest) BlockSize() int { return BlockSize }

func (d *digest) Write(p []byte) (int, error) {
	d.write(p)
	return len(p), nil
}

func (d *digest) write(p []byte) {
	for _, b := range p {
		i := d.len % 8
		x := d.h[i] ^ uint32(b)
		x *= prime32
		x = bits.RotateLeft32(x, 13)
		d.h[i] = x + d.h[(i+1)%8]
		d.len++
	}
}

// Sum appends the digest to in without changing the running state.
func (d *digest) Sum(in []byte) []byte {
	d0 := *d
	sum := d0.checkSum()
	return append(in, sum[:]...)
}

func (d *digest) checkSum() [Size]byte {
	h := d.h
	h[0] ^= uint32(d.len)
	h[1] ^= uint32(d.len >> 32)

	for round := 0; round < 4; round++ {
		for i := range h {
			x := h[i] + h[(i+7)%8]*golden32
			x ^= x >> 15
			x *= mix32
			x ^= x >> 13
			h[i] = x ^ bits.RotateLeft32(h[(i+3)%8], i+1)
		}
	}

	var out [Size]byte
	for i, v := range h {
		binary.BigEndian.PutUint32(out[4*i:], v)
	}
	return out
}
