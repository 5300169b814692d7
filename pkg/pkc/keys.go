package pkc

// KeyComponent is a display-only view of one key parameter. Value is a
// truncated hexadecimal rendering and carries no cryptographic meaning.
type KeyComponent struct {
	Name   string
	Value  string
	Bits   int
	Secret bool
}

// PublicKey is the public half of a KeyPair.
type PublicKey interface {
	// Algorithm returns the registry name of the scheme the key belongs to.
	Algorithm() string
	// Components returns truncated summaries of the key parameters.
	Components() []KeyComponent
}

// PrivateKey is the private half of a KeyPair.
type PrivateKey interface {
	Algorithm() string
	Components() []KeyComponent
}

// KeyPair is the result of GenerateKeys. Both halves are immutable once
// returned.
type KeyPair struct {
	Algorithm string
	Public    PublicKey
	Private   PrivateKey
}
