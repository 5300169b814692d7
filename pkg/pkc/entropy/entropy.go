package entropy

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"io"
	mrand "math/rand/v2"
	"sync"

	"golang.org/x/crypto/hkdf"
)

// Default returns the cryptographically strong source, crypto/rand.Reader.
func Default() io.Reader {
	return rand.Reader
}

// Resolve returns r, or Default() when r is nil.
func Resolve(r io.Reader) io.Reader {
	if r == nil {
		return rand.Reader
	}
	return r
}

// hkdfEpochBytes is the output limit of a single HKDF-SHA256 expansion.
const hkdfEpochBytes = 255 * sha256.Size

// deterministicReader produces an unbounded byte stream from a seed using
// HKDF-SHA256 (Extract+Expand). Each expansion is capped at 255 blocks, so the
// reader re-expands with the epoch number appended to the info string when
// one runs dry.
type deterministicReader struct {
	mu    sync.Mutex
	seed  []byte
	epoch uint64
	cur   io.Reader
	left  int
}

// NewDeterministic returns a reproducible stream derived from seed. The same
// seed always yields the same bytes. The reader is safe for concurrent use,
// but concurrent consumers see an interleaving that depends on scheduling.
func NewDeterministic(seed []byte) io.Reader {
	s := make([]byte, len(seed))
	copy(s, seed)
	return &deterministicReader{seed: s}
}

func (r *deterministicReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := 0
	for out < len(p) {
		if r.cur == nil || r.left == 0 {
			r.rekey()
		}
		want := len(p) - out
		if want > r.left {
			want = r.left
		}
		n, err := io.ReadFull(r.cur, p[out:out+want])
		out += n
		r.left -= n
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func (r *deterministicReader) rekey() {
	const salt = "pkc-go/entropy/deterministic"
	info := make([]byte, 0, 32)
	info = append(info, "pkc-go/stream/"...)
	info = binary.BigEndian.AppendUint64(info, r.epoch)
	r.epoch++
	r.cur = hkdf.New(sha256.New, r.seed, []byte(salt), info)
	r.left = hkdfEpochBytes
}

// weakReader adapts a math/rand/v2 PCG generator to io.Reader.
type weakReader struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewWeak returns a NON-cryptographic source seeded with seed. It exists so a
// caller without access to a strong source can still drive the engines, and
// so that the weakness is visible at the call site rather than hidden behind
// an environment check. Keys derived from it are predictable.
func NewWeak(seed uint64) io.Reader {
	return &weakReader{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (w *weakReader) Read(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := 0; i < len(p); i += 8 {
		v := w.rng.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
	return len(p), nil
}
