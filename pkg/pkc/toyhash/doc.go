// Package toyhash implements ToyHash, a small 256-bit mixing function used as
// the default hash inside OAEP, MGF1 and the ECC key derivation.
//
// ToyHash keeps eight 32-bit words, folds each input byte into one of them
// with an FNV-style multiply and a rotation, and finishes with four rounds of
// avalanche mixing. It is deterministic and fast to trace, and it offers no
// collision or preimage resistance. Select "sha256", "sha3-256" or
// "blake2b-256" through package digest for real workloads.
package toyhash
