package elgamal

import (
	"math/big"

	"github.com/pkcdemo/pkc-go/pkg/pkc/bigmath"
)

// GroupName identifies the fixed domain in key components and logs.
const GroupName = "rfc3526-modp-2048"

// modp2048 is the 2048-bit MODP safe prime of RFC 3526, section 3.
const modp2048 = "" +
	"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD1" +
	"29024E088A67CC74020BBEA63B139B22514A08798E3404DD" +
	"EF9519B3CD3A431B302B0A6DF25F14374FE1356D6D51C245" +
	"E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED" +
	"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3D" +
	"C2007CB8A163BF0598DA48361C55D39A69163FA8FD24CF5F" +
	"83655D23DCA3AD961C62F356208552BB9ED529077096966D" +
	"670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B" +
	"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9" +
	"DE2BCBF6955817183995497CEA956AE515D2261898FA0510" +
	"15728E5A8AACAA68FFFFFFFFFFFFFFFF"

// Group holds the domain parameters (p, g). It is read-only.
type Group struct {
	P *big.Int
	G *big.Int

	blockSize int
}

var defaultGroup = mustGroup()

func mustGroup() *Group {
	p, ok := new(big.Int).SetString(modp2048, 16)
	if !ok {
		panic("elgamal: bad MODP prime literal")
	}
	return &Group{P: p, G: big.NewInt(2), blockSize: blockSizeFor(p)}
}

// blockSizeFor derives the block size from the decimal digit count of p,
// shrinking it until every block value is below p.
func blockSizeFor(p *big.Int) int {
	size := bigmath.DecimalDigits(p) / 3
	limit := new(big.Int)
	for size > 1 {
		limit.Lsh(big.NewInt(1), uint(8*size))
		if limit.Cmp(p) <= 0 {
			break
		}
		size--
	}
	return size
}

// DefaultGroup returns the fixed 2048-bit group.
func DefaultGroup() *Group {
	return defaultGroup
}

// BlockSize returns the plaintext bytes per block in block mode: the decimal
// digit count of p divided by three, 205 for the 2048-bit group. Any
// 205-byte value is below 2^1640 and therefore below p.
func (g *Group) BlockSize() int {
	return g.blockSize
}

// pMinus1 returns p-1, the exclusive upper bound for exponents.
func (g *Group) pMinus1() *big.Int {
	return new(big.Int).Sub(g.P, big.NewInt(1))
}
