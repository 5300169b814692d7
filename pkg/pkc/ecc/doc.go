// Package ecc implements short Weierstrass curve arithmetic and an
// ECIES-style hybrid encryption scheme on top of it.
//
// Points use affine coordinates with (0, 0) standing for the point at
// infinity. Scalar multiplication is a plain MSB-first double-and-add and is
// not constant time. secp256k1 is the default curve; P-256 is available via
// WithCurve.
//
// Encryption draws an ephemeral scalar r, sends R = r·G in compressed form,
// and derives two keys from the shared point S = r·Q:
//
//	kEnc = H(x_S ‖ y_S ‖ 0x01)
//	kMac = H(x_S ‖ y_S ‖ 0x02)
//
// The plaintext is XORed with the keystream H(IV ‖ kEnc ‖ counter) and the
// envelope carries HMAC-H(kMac, R ‖ IV ‖ ciphertext) in Metadata.Tag, so a
// modified ephemeral key, IV or ciphertext fails with pkc.ErrDecryption.
package ecc
