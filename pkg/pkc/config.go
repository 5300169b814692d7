package pkc

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config expresses the knobs shared by the engines and the CLI. The zero
// value is not usable; start from DefaultConfig.
type Config struct {
	// RSABits is the RSA modulus size. Each prime gets half of it.
	RSABits int `mapstructure:"rsa_bits" json:"rsa_bits"`

	// PrimeRounds is the number of Miller-Rabin rounds per candidate.
	PrimeRounds int `mapstructure:"prime_rounds" json:"prime_rounds"`

	// Hash names the hash used by OAEP/MGF1 and the ECC key derivation.
	Hash string `mapstructure:"hash" json:"hash"`

	// OAEPLabel is the label whose hash is embedded in every OAEP block.
	OAEPLabel string `mapstructure:"oaep_label" json:"oaep_label"`

	// KeygenTimeout bounds key generation in the CLI.
	KeygenTimeout time.Duration `mapstructure:"keygen_timeout" json:"keygen_timeout"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" json:"log_level"`

	// LogFormat is console or json.
	LogFormat string `mapstructure:"log_format" json:"log_format"`
}

// Defaults used by DefaultConfig.
const (
	DefaultRSABits       = 2048
	DefaultPrimeRounds   = 20
	DefaultHash          = "toyhash"
	DefaultKeygenTimeout = 2 * time.Minute
)

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		RSABits:       DefaultRSABits,
		PrimeRounds:   DefaultPrimeRounds,
		Hash:          DefaultHash,
		KeygenTimeout: DefaultKeygenTimeout,
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

// Validate performs basic sanity checks. Hash names are checked by the
// engines since the set of hashes lives in the digest package.
func (c Config) Validate() error {
	if c.RSABits < 1024 {
		return fmt.Errorf("rsa_bits must be at least 1024, got %d", c.RSABits)
	}
	if c.RSABits%256 != 0 {
		return fmt.Errorf("rsa_bits must be a multiple of 256, got %d", c.RSABits)
	}
	if c.PrimeRounds < 1 {
		return fmt.Errorf("prime_rounds must be positive, got %d", c.PrimeRounds)
	}
	if c.Hash == "" {
		return errors.New("hash is required")
	}
	if c.KeygenTimeout < 0 {
		return fmt.Errorf("keygen_timeout must not be negative, got %v", c.KeygenTimeout)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	return nil
}
