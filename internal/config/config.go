// Package config loads the optional dexios configuration file: the default
// algorithm, whether to erase the source after encrypting, the erase pass
// count and keyfile search paths a user can pin once instead of repeating on
// every invocation. Command-line
// flags always override whatever this file sets.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/dexios-go/dexios/crypto/primitives"
	"github.com/dexios-go/dexios/erase"
)

// Config is the parsed form of the dexios configuration file.
type Config struct {
	// DefaultAlgorithm names the AEAD algorithm used by `encrypt` when
	// --algorithm is not given. One of xchacha20poly1305, aes256gcm, deoxys2.
	DefaultAlgorithm string `yaml:"default_algorithm" mapstructure:"default_algorithm"`
	// EraseSourceAfterEncrypt securely erases the plaintext input once
	// encryption succeeds, as if --erase had been passed.
	EraseSourceAfterEncrypt bool `yaml:"erase_source_after_encrypt" mapstructure:"erase_source_after_encrypt"`
	// ErasePasses is the number of random overwrite passes `erase` performs.
	ErasePasses int `yaml:"erase_passes" mapstructure:"erase_passes"`
	// KeyfileSearchPaths are checked, in order, for a keyfile when neither
	// --keyfile nor DEXIOS_KEY is set, before falling back to an interactive
	// prompt.
	KeyfileSearchPaths []string `yaml:"keyfile_search_paths" mapstructure:"keyfile_search_paths"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		DefaultAlgorithm:        "xchacha20poly1305",
		EraseSourceAfterEncrypt: false,
		ErasePasses:             erase.DefaultPasses,
		KeyfileSearchPaths:      nil,
	}
}

// Algorithm resolves DefaultAlgorithm to its primitives.Algorithm value.
func (c *Config) Algorithm() (primitives.Algorithm, error) {
	switch strings.ToLower(c.DefaultAlgorithm) {
	case "xchacha20poly1305", "xchacha20-poly1305":
		return primitives.XChaCha20Poly1305, nil
	case "aes256gcm", "aes-256-gcm":
		return primitives.Aes256Gcm, nil
	case "deoxys2", "deoxys-ii-256":
		return primitives.Deoxys2, nil
	default:
		return 0, fmt.Errorf("config: unknown default_algorithm %q", c.DefaultAlgorithm)
	}
}

// Load reads and parses the configuration file at path. A missing file is
// not an error: Default() is returned instead, since the file is optional.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: reading %q: %w", path, err)
	}
	return Parse(data)
}

var envVarRegex = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

// Parse parses configuration from YAML bytes, starting from Default() so
// any field the document omits keeps its default value. Environment
// variable references (${NAME}) are expanded before parsing.
func Parse(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("config: parsing yaml: %w", err)
	}

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("config: building decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	if _, err := c.Algorithm(); err != nil {
		return err
	}
	if c.ErasePasses < 1 {
		return fmt.Errorf("config: erase_passes must be at least 1, got %d", c.ErasePasses)
	}
	return nil
}
