package pkc

import "context"

// Registry names of the built-in schemes.
const (
	AlgorithmRSA     = "rsa"
	AlgorithmElGamal = "elgamal"
	AlgorithmECC     = "ecc"
)

// Algorithm is the capability shared by every encryption engine.
//
// Implementations hold configuration only and are safe for concurrent use.
type Algorithm interface {
	// Name returns the registry name of the scheme.
	Name() string

	// GenerateKeys creates a fresh key pair. It honours ctx cancellation,
	// which matters for RSA where the prime search dominates latency.
	GenerateKeys(ctx context.Context) (*KeyPair, error)

	// Encrypt encrypts a UTF-8 message under the public key.
	Encrypt(message string, pub PublicKey) (*Envelope, error)

	// Decrypt recovers the message from an envelope produced by Encrypt.
	Decrypt(env *Envelope, priv PrivateKey) (string, error)
}
