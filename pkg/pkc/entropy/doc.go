// Package entropy provides the randomness sources injected into the engines.
//
// Every engine takes an io.Reader; nil means Default (crypto/rand). Tests use
// NewDeterministic to get reproducible keys and ciphertexts. NewWeak is the
// explicit, clearly labelled non-cryptographic fallback.
package entropy
