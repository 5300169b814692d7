// Package elgamal implements ElGamal encryption in the 2048-bit MODP group of
// RFC 3526 with generator 2.
//
// A message is read as a big-endian integer M. If M < p it is encrypted as a
// single pair (c1, c2) = (g^k, M·y^k). Longer messages are cut into blocks of
// BlockSize bytes, each encrypted with its own k; the envelope then carries
// comma separated hex lists and Metadata.IsBlocked. Metadata.Length records
// the plaintext length so leading zero bytes and short final blocks are
// restored exactly.
//
// Ciphertexts are malleable and unauthenticated, as textbook ElGamal is.
package elgamal
