package entropy_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkcdemo/pkc-go/pkg/pkc/entropy"
)

func TestResolve(t *testing.T) {
	require.Equal(t, entropy.Default(), entropy.Resolve(nil))

	r := bytes.NewReader([]byte{1, 2, 3})
	require.Equal(t, io.Reader(r), entropy.Resolve(r))
}

func TestDeterministicReproducible(t *testing.T) {
	a := make([]byte, 100)
	b := make([]byte, 100)
	_, err := io.ReadFull(entropy.NewDeterministic([]byte("seed")), a)
	require.NoError(t, err)
	_, err = io.ReadFull(entropy.NewDeterministic([]byte("seed")), b)
	require.NoError(t, err)
	require.Equal(t, a, b)

	c := make([]byte, 100)
	_, err = io.ReadFull(entropy.NewDeterministic([]byte("other")), c)
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestDeterministicChunkingIndependent(t *testing.T) {
	whole := make([]byte, 64)
	_, err := io.ReadFull(entropy.NewDeterministic([]byte("chunk")), whole)
	require.NoError(t, err)

	r := entropy.NewDeterministic([]byte("chunk"))
	var parts []byte
	for _, n := range []int{1, 7, 20, 36} {
		buf := make([]byte, n)
		_, err := io.ReadFull(r, buf)
		require.NoError(t, err)
		parts = append(parts, buf...)
	}
	require.Equal(t, whole, parts)
}

func TestDeterministicUnbounded(t *testing.T) {
	// Crosses several HKDF expansion limits.
	r := entropy.NewDeterministic([]byte("long"))
	buf := make([]byte, 3*255*32+17)
	n, err := io.ReadFull(r, buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)

	// The tail of one epoch must differ from the head of the next.
	epoch := 255 * 32
	require.NotEqual(t, buf[:32], buf[epoch:epoch+32])
}

func TestWeakReproducible(t *testing.T) {
	a := make([]byte, 33)
	b := make([]byte, 33)
	_, _ = entropy.NewWeak(42).Read(a)
	_, _ = entropy.NewWeak(42).Read(b)
	require.Equal(t, a, b)
	require.NotEqual(t, make([]byte, 33), a)
}
