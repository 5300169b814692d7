// Package config loads pkc.Config from defaults, an optional config file,
// PKC_* environment variables and command-line flags, in increasing order of
// precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
)

// EnvPrefix is prepended to every environment variable, e.g. PKC_RSA_BITS.
const EnvPrefix = "PKC"

// Configuration keys, matching the mapstructure tags of pkc.Config.
const (
	KeyRSABits       = "rsa_bits"
	KeyPrimeRounds   = "prime_rounds"
	KeyHash          = "hash"
	KeyOAEPLabel     = "oaep_label"
	KeyKeygenTimeout = "keygen_timeout"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
)

// flagNames maps configuration keys to flag names.
var flagNames = map[string]string{
	KeyRSABits:       "rsa-bits",
	KeyPrimeRounds:   "prime-rounds",
	KeyHash:          "hash",
	KeyOAEPLabel:     "oaep-label",
	KeyKeygenTimeout: "keygen-timeout",
	KeyLogLevel:      "log-level",
	KeyLogFormat:     "log-format",
}

// RegisterFlags adds one flag per configuration key to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	def := pkc.DefaultConfig()
	fs.Int(flagNames[KeyRSABits], def.RSABits, "RSA modulus size in bits")
	fs.Int(flagNames[KeyPrimeRounds], def.PrimeRounds, "Miller-Rabin rounds per prime candidate")
	fs.String(flagNames[KeyHash], def.Hash, "hash for OAEP and ECC key derivation (toyhash, sha256, sha3-256, blake2b-256)")
	fs.String(flagNames[KeyOAEPLabel], def.OAEPLabel, "OAEP label")
	fs.Duration(flagNames[KeyKeygenTimeout], def.KeygenTimeout, "upper bound on key generation")
	fs.String(flagNames[KeyLogLevel], def.LogLevel, "log level (debug, info, warn, error)")
	fs.String(flagNames[KeyLogFormat], def.LogFormat, "log format (console, json)")
}

// Load resolves the configuration. path may be empty; flags may be nil.
// Only flags that were set on the command line override other sources.
func Load(path string, flags *pflag.FlagSet) (pkc.Config, error) {
	v := viper.New()

	def := pkc.DefaultConfig()
	v.SetDefault(KeyRSABits, def.RSABits)
	v.SetDefault(KeyPrimeRounds, def.PrimeRounds)
	v.SetDefault(KeyHash, def.Hash)
	v.SetDefault(KeyOAEPLabel, def.OAEPLabel)
	v.SetDefault(KeyKeygenTimeout, def.KeygenTimeout)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyLogFormat, def.LogFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return pkc.Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if flags != nil {
		for key, name := range flagNames {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return pkc.Config{}, fmt.Errorf("config: bind flag %s: %w", name, err)
			}
		}
	}

	var cfg pkc.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return pkc.Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return pkc.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
