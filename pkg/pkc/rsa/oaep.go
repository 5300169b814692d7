package rsa

import (
	"crypto/subtle"
	"encoding/binary"
	"hash"
	"io"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
	"github.com/pkcdemo/pkc-go/pkg/pkc/entropy"
)

// MaxMessageLen returns the OAEP capacity of a k-byte modulus with an
// hLen-byte hash: k - 2·hLen - 2. It is negative when the modulus is too
// small for the hash.
func MaxMessageLen(k, hLen int) int {
	return k - 2*hLen - 2
}

// MGF1 expands seed to length bytes by hashing seed‖counter for counter
// 0, 1, 2, ... (4-byte big-endian) and truncating the concatenation.
func MGF1(newHash func() hash.Hash, seed []byte, length int) []byte {
	h := newHash()
	out := make([]byte, 0, length+h.Size())
	var counter [4]byte
	for i := uint32(0); len(out) < length; i++ {
		binary.BigEndian.PutUint32(counter[:], i)
		h.Reset()
		h.Write(seed)
		h.Write(counter[:])
		out = h.Sum(out)
	}
	return out[:length]
}

func mgf1XOR(newHash func() hash.Hash, out, seed []byte) {
	mask := MGF1(newHash, seed, len(out))
	subtle.XORBytes(out, out, mask)
	pkc.ZeroizeBytes(mask)
}

// EncodeOAEP builds the k-byte encoded message 0x00 ‖ maskedSeed ‖ maskedDB
// where DB = H(label) ‖ PS ‖ 0x01 ‖ msg. The seed is read from r.
func EncodeOAEP(newHash func() hash.Hash, r io.Reader, msg, label []byte, k int) ([]byte, error) {
	const op = "rsa.EncodeOAEP"
	h := newHash()
	hLen := h.Size()
	if limit := MaxMessageLen(k, hLen); len(msg) > limit {
		return nil, pkc.Errorf(op, pkc.ErrMessageTooLong, "%d bytes exceeds the limit of %d", len(msg), max(limit, 0))
	}

	h.Write(label)
	lHash := h.Sum(nil)

	em := make([]byte, k)
	seed := em[1 : 1+hLen]
	db := em[1+hLen:]

	copy(db, lHash)
	db[len(db)-len(msg)-1] = 0x01
	copy(db[len(db)-len(msg):], msg)

	if _, err := io.ReadFull(entropy.Resolve(r), seed); err != nil {
		return nil, pkc.E(op, pkc.ErrEncryption, err)
	}

	mgf1XOR(newHash, db, seed)
	mgf1XOR(newHash, seed, db)
	return em, nil
}

// DecodeOAEP reverses EncodeOAEP. A wrong leading byte, a label hash
// mismatch and a missing 0x01 separator all produce the same ErrDecoding,
// and the checks run without data-dependent branches.
func DecodeOAEP(newHash func() hash.Hash, em, label []byte) ([]byte, error) {
	h := newHash()
	hLen := h.Size()
	k := len(em)
	if k < 2*hLen+2 {
		return nil, errDecoding()
	}

	h.Write(label)
	lHash := h.Sum(nil)

	buf := make([]byte, k)
	copy(buf, em)
	defer pkc.ZeroizeBytes(buf)

	leadOK := subtle.ConstantTimeByteEq(buf[0], 0)
	seed := buf[1 : 1+hLen]
	db := buf[1+hLen:]

	mgf1XOR(newHash, seed, db)
	mgf1XOR(newHash, db, seed)

	labelOK := subtle.ConstantTimeCompare(lHash, db[:hLen])

	// ps is the zero padding, the 0x01 separator and the message. All flags
	// are 0 or 1 and every byte is visited: found latches at the first 0x01,
	// sep records its offset, and a byte other than 0x00 before it sets bad.
	ps := db[hLen:]
	found, sep, bad := 0, 0, 0
	for i, b := range ps {
		isOne := subtle.ConstantTimeByteEq(b, 0x01)
		isZero := subtle.ConstantTimeByteEq(b, 0x00)
		first := isOne &^ found
		sep |= -first & i
		bad |= (1 ^ found) & (1 ^ isOne) & (1 ^ isZero)
		found |= isOne
	}

	if leadOK&labelOK&found&(1^bad) != 1 {
		return nil, errDecoding()
	}

	msg := make([]byte, len(ps)-sep-1)
	copy(msg, ps[sep+1:])
	return msg, nil
}

func errDecoding() error {
	return pkc.Errorf("rsa.DecodeOAEP", pkc.ErrDecoding, "invalid OAEP block")
}
