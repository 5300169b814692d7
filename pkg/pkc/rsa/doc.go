// Package rsa implements textbook RSA with OAEP padding on top of package
// bigmath and package prime.
//
// Key generation draws two independent probable primes of half the modulus
// size with the public exponent fixed at 65537. Encryption OAEP-encodes the
// message (RFC 8017, MGF1 with a configurable hash, ToyHash by default) and
// raises it to e mod n. Decryption reports every padding failure as the same
// pkc.ErrDecoding.
//
// With the "sha256" hash the ciphertexts are interoperable with crypto/rsa's
// EncryptOAEP and DecryptOAEP.
package rsa
