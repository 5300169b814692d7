package ecc

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
	"github.com/pkcdemo/pkc-go/pkg/pkc/bigmath"
)

var (
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Point is an affine curve point. The point at infinity is (0, 0), which is
// not on any curve with b != 0.
type Point struct {
	X *big.Int
	Y *big.Int
}

// Infinity returns the identity element.
func Infinity() Point {
	return Point{X: new(big.Int), Y: new(big.Int)}
}

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool {
	return (p.X == nil || p.X.Sign() == 0) && (p.Y == nil || p.Y.Sign() == 0)
}

// Equal reports whether p and q are the same point.
func (p Point) Equal(q Point) bool {
	if p.IsInfinity() || q.IsInfinity() {
		return p.IsInfinity() && q.IsInfinity()
	}
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

func (p Point) String() string {
	if p.IsInfinity() {
		return "(inf)"
	}
	return fmt.Sprintf("(%s, %s)", bigmath.AbbreviateInt(p.X, 8), bigmath.AbbreviateInt(p.Y, 8))
}

// IsOnCurve reports whether p satisfies the curve equation with both
// coordinates in [0, P). The point at infinity is not on the curve.
func (c *Curve) IsOnCurve(p Point) bool {
	if p.IsInfinity() {
		return false
	}
	if p.X.Sign() < 0 || p.X.Cmp(c.P) >= 0 || p.Y.Sign() < 0 || p.Y.Cmp(c.P) >= 0 {
		return false
	}
	lhs := new(big.Int).Mul(p.Y, p.Y)
	lhs.Mod(lhs, c.P)
	return lhs.Cmp(c.rhs(p.X)) == 0
}

// rhs returns x³ + ax + b mod P.
func (c *Curve) rhs(x *big.Int) *big.Int {
	r := new(big.Int).Mul(x, x)
	r.Mul(r, x)
	ax := new(big.Int).Mul(c.A, x)
	r.Add(r, ax)
	r.Add(r, c.B)
	return r.Mod(r, c.P)
}

// Negate returns -p.
func (c *Curve) Negate(p Point) Point {
	if p.IsInfinity() {
		return Infinity()
	}
	y := new(big.Int).Sub(c.P, p.Y)
	return Point{X: new(big.Int).Set(p.X), Y: y.Mod(y, c.P)}
}

// Add returns p + q. Coordinates are taken mod P, so representatives
// outside [0, P) are accepted.
func (c *Curve) Add(p, q Point) Point {
	p, q = c.reduce(p), c.reduce(q)
	switch {
	case p.IsInfinity():
		return copyPoint(q)
	case q.IsInfinity():
		return copyPoint(p)
	}
	if p.X.Cmp(q.X) == 0 {
		if p.Y.Cmp(q.Y) == 0 {
			return c.Double(p)
		}
		// q = -p.
		return Infinity()
	}

	// λ = (y2 - y1) / (x2 - x1)
	num := new(big.Int).Sub(q.Y, p.Y)
	den := new(big.Int).Sub(q.X, p.X)
	lambda := num.Mul(num, c.inverse(den))
	lambda.Mod(lambda, c.P)
	return c.finish(lambda, p, q.X)
}

// Double returns 2p. Coordinates are taken mod P.
func (c *Curve) Double(p Point) Point {
	p = c.reduce(p)
	if p.IsInfinity() || p.Y.Sign() == 0 {
		return Infinity()
	}

	// λ = (3x² + a) / 2y
	num := new(big.Int).Mul(p.X, p.X)
	num.Mul(num, three)
	num.Add(num, c.A)
	den := new(big.Int).Mul(p.Y, two)
	lambda := num.Mul(num, c.inverse(den))
	lambda.Mod(lambda, c.P)
	return c.finish(lambda, p, p.X)
}

// reduce returns p with both coordinates in [0, P). Nil coordinates read as 0.
func (c *Curve) reduce(p Point) Point {
	out := Infinity()
	if p.X != nil {
		out.X.Mod(p.X, c.P)
	}
	if p.Y != nil {
		out.Y.Mod(p.Y, c.P)
	}
	return out
}

// finish computes x3 = λ² - x1 - x2 and y3 = λ(x1 - x3) - y1.
func (c *Curve) finish(lambda *big.Int, p Point, x2 *big.Int) Point {
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p.X)
	x3.Sub(x3, x2)
	x3.Mod(x3, c.P)

	y3 := new(big.Int).Sub(p.X, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p.Y)
	y3.Mod(y3, c.P)
	return Point{X: x3, Y: y3}
}

// inverse returns v⁻¹ mod P. P is prime and v is never a multiple of it on
// the paths above, so a failure is a broken invariant.
func (c *Curve) inverse(v *big.Int) *big.Int {
	inv, err := bigmath.ModInverse(v, c.P)
	if err != nil {
		panic(fmt.Sprintf("ecc: %v", pkc.E("ecc.inverse", pkc.ErrInternal, err)))
	}
	return inv
}

// ScalarMult returns k·p using MSB-first double-and-add. k is reduced
// modulo the group order first, so 0·p and n·p are both infinity.
func (c *Curve) ScalarMult(p Point, k *big.Int) Point {
	e := new(big.Int).Mod(k, c.N)
	r := Infinity()
	for i := e.BitLen() - 1; i >= 0; i-- {
		r = c.Double(r)
		if e.Bit(i) == 1 {
			r = c.Add(r, p)
		}
	}
	return r
}

// ScalarBaseMult returns k·G.
func (c *Curve) ScalarBaseMult(k *big.Int) Point {
	return c.ScalarMult(c.Generator(), k)
}

// Compress encodes p as 0x02/0x03 ‖ x, the prefix carrying the parity of y.
func (c *Curve) Compress(p Point) ([]byte, error) {
	if p.IsInfinity() {
		return nil, pkc.Errorf("ecc.Compress", pkc.ErrEncryption, "cannot encode the point at infinity")
	}
	size := c.ByteSize()
	out := make([]byte, 1+size)
	out[0] = 0x02 | byte(p.Y.Bit(0))
	if _, err := bigmath.IntToFixedBytes(p.X, size); err != nil {
		return nil, pkc.E("ecc.Compress", pkc.ErrEncryption, err)
	}
	p.X.FillBytes(out[1:])
	return out, nil
}

// Decompress parses a compressed point and recovers y = √(x³ + ax + b).
// A prefix other than 0x02/0x03, a wrong length or x ≥ P is ErrDecoding;
// an x with no point above it is ErrNoSquareRoot.
func (c *Curve) Decompress(data []byte) (Point, error) {
	const op = "ecc.Decompress"
	size := c.ByteSize()
	if len(data) != 1+size {
		return Point{}, pkc.Errorf(op, pkc.ErrDecoding, "compressed point has %d bytes, want %d", len(data), 1+size)
	}
	if data[0] != 0x02 && data[0] != 0x03 {
		return Point{}, pkc.Errorf(op, pkc.ErrDecoding, "invalid point prefix %d", data[0])
	}
	x := bigmath.BytesToInt(data[1:])
	if x.Cmp(c.P) >= 0 {
		return Point{}, pkc.Errorf(op, pkc.ErrDecoding, "x coordinate out of range")
	}

	y, err := SqrtMod(c.rhs(x), c.P)
	if err != nil {
		return Point{}, err
	}
	if y.Bit(0) != uint(data[0]&1) {
		if y.Sign() == 0 {
			return Point{}, pkc.Errorf(op, pkc.ErrDecoding, "odd prefix for a point with y = 0")
		}
		y.Sub(c.P, y)
	}
	p := Point{X: x, Y: y}
	if !c.IsOnCurve(p) {
		return Point{}, pkc.E(op, pkc.ErrInternal, errors.New("decompressed point fails the curve equation"))
	}
	return p, nil
}

func copyPoint(p Point) Point {
	if p.IsInfinity() {
		return Infinity()
	}
	return Point{X: new(big.Int).Set(p.X), Y: new(big.Int).Set(p.Y)}
}
