package elgamal

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/pkcdemo/pkc-go/pkg/pkc/bigmath"
)

// splitBlocks cuts data into consecutive chunks of size bytes. The last chunk
// may be shorter.
func splitBlocks(data []byte, size int) [][]byte {
	blocks := make([][]byte, 0, (len(data)+size-1)/size)
	for len(data) > 0 {
		n := min(size, len(data))
		blocks = append(blocks, data[:n])
		data = data[n:]
	}
	return blocks
}

// blockWidths returns the byte width of each block for a plaintext of length
// bytes, checking that it is consistent with the block count.
func blockWidths(length, blocks, size int) ([]int, error) {
	if blocks < 1 || size < 1 {
		return nil, errors.New("invalid block layout")
	}
	if length > blocks*size || length <= (blocks-1)*size {
		return nil, fmt.Errorf("length %d does not match %d blocks of %d bytes", length, blocks, size)
	}
	widths := make([]int, blocks)
	for i := range widths {
		widths[i] = size
	}
	widths[blocks-1] = length - (blocks-1)*size
	return widths, nil
}

func joinHex(values []*big.Int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = bigmath.IntToHex(v)
	}
	return strings.Join(parts, ",")
}

func splitHex(s string) ([]*big.Int, error) {
	parts := strings.Split(s, ",")
	out := make([]*big.Int, len(parts))
	for i, part := range parts {
		v, err := bigmath.HexToInt(part)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
