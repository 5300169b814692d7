package pkc

import "encoding/json"

// Envelope is the wire format between Encrypt and Decrypt. Every algorithm
// populates Ciphertext; the remaining fields are filled as the scheme needs.
type Envelope struct {
	// Algorithm names the scheme that produced the envelope.
	Algorithm string `json:"algorithm"`
	// Ciphertext is always present. Its text encoding is scheme specific:
	// base64 for RSA and ECC, hex (comma separated when blocked) for ElGamal.
	Ciphertext string `json:"ciphertext"`
	// EphemeralKey holds the ECC ephemeral public point or the ElGamal c1 values.
	EphemeralKey string `json:"ephemeralKey,omitempty"`
	// IV is the base64 stream-cipher IV used by ECC.
	IV string `json:"iv,omitempty"`
	// Metadata carries algorithm-specific tags.
	Metadata Metadata `json:"metadata"`
}

// Metadata holds the algorithm-specific tags of an Envelope.
type Metadata struct {
	Padding   string `json:"padding,omitempty"`
	Hash      string `json:"hash,omitempty"`
	Curve     string `json:"curve,omitempty"`
	KeyBits   int    `json:"keyBits,omitempty"`
	IsBlocked bool   `json:"isBlocked,omitempty"`
	Blocks    int    `json:"blocks,omitempty"`
	BlockSize int    `json:"blockSize,omitempty"`
	// Length is the plaintext byte length, used to restore leading zero bytes.
	Length int `json:"length"`
	// Tag is the base64 authentication tag over an ECC ciphertext.
	Tag string `json:"tag,omitempty"`
}

// Clone returns a copy of the envelope that can be modified independently.
func (e *Envelope) Clone() *Envelope {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

// MarshalIndent renders the envelope as indented JSON for display.
func (e *Envelope) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// ParseEnvelope decodes a JSON envelope.
func ParseEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, E("pkc.ParseEnvelope", ErrDecryption, err)
	}
	return &env, nil
}
