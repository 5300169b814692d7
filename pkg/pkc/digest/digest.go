// Package digest maps hash names used in configuration and envelope metadata
// to hash constructors.
package digest

import (
	"crypto/sha256"
	"hash"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
	"github.com/pkcdemo/pkc-go/pkg/pkc/toyhash"
)

// Names of the supported hashes.
const (
	ToyHash    = toyhash.Name
	SHA256     = "sha256"
	SHA3_256   = "sha3-256"
	BLAKE2b256 = "blake2b-256"
)

// Default is the hash used when none is configured.
const Default = ToyHash

var constructors = map[string]func() hash.Hash{
	ToyHash:  toyhash.New,
	SHA256:   sha256.New,
	SHA3_256: sha3.New256,
	BLAKE2b256: func() hash.Hash {
		// Only fails for keys longer than 64 bytes.
		h, _ := blake2b.New256(nil)
		return h
	},
}

// New returns the constructor for the named hash. Names are case-insensitive
// and the empty string selects Default.
func New(name string) (func() hash.Hash, error) {
	key := Canonical(name)
	fn, ok := constructors[key]
	if !ok {
		return nil, pkc.Errorf("digest.New", pkc.ErrUnsupportedAlgorithm, "unknown hash %q", name)
	}
	return fn, nil
}

// Canonical normalizes a hash name as stored in envelope metadata.
func Canonical(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Default
	}
	return name
}

// Names lists the supported hash names in sorted order.
func Names() []string {
	out := make([]string, 0, len(constructors))
	for k := range constructors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
