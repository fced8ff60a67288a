// Package scenario runs the rogue-key attack end to end: load a registry,
// check every proof of knowledge, forge and append an entry, then verify the
// forged aggregate signature.
package scenario

import (
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/eth2030/blspok/crypto"
	"github.com/eth2030/blspok/log"
)

// Config holds all configuration for a run.
type Config struct {
	// RegistryPath is the registry blob to attack.
	RegistryPath string

	// Message is signed by the attacker and checked against the aggregate
	// key.
	Message string

	// Secret is the attacker scalar, decimal or 0x-prefixed hex.
	Secret string

	// Seed derives the per-index proof-of-knowledge generators.
	Seed uint64

	// DST is the 0x-prefixed hex message domain separation tag.
	DST string

	// ValidateSubgroups rejects registry points outside the r-torsion.
	ValidateSubgroups bool

	// Backend names the signature verifier for the final check (go, blst).
	Backend string

	// Verbosity is the 0-5 log verbosity.
	Verbosity int

	// LogFormat selects json or text log output.
	LogFormat string

	// Metrics prints the metrics registry on exit.
	Metrics bool
}

// DefaultConfig returns the parameters of the reference run.
func DefaultConfig() Config {
	return Config{
		RegistryPath: "public_keys.bin",
		Message:      "intldds",
		Secret:       "100",
		Seed:         crypto.DefaultGeneratorSeed,
		DST:          hexutil.Encode(crypto.DefaultDST),
		Backend:      crypto.DefaultBackendName,
		Verbosity:    3,
		LogFormat:    string(log.FormatJSON),
	}
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if c.RegistryPath == "" {
		return errors.New("config: registry path must not be empty")
	}
	sk, err := c.SecretScalar()
	if err != nil {
		return err
	}
	if sk.IsZero() {
		return errors.New("config: secret must be non-zero")
	}
	if _, err := c.DSTBytes(); err != nil {
		return err
	}
	if !knownBackend(c.Backend) {
		return fmt.Errorf("config: unknown backend %q (have %v)", c.Backend, crypto.BackendNames())
	}
	if c.Verbosity < 0 || c.Verbosity > 5 {
		return fmt.Errorf("config: invalid verbosity: %d", c.Verbosity)
	}
	if _, err := log.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	return nil
}

// SecretScalar parses Secret.
func (c *Config) SecretScalar() (crypto.Scalar, error) {
	sk, err := crypto.ParseScalar(c.Secret)
	if err != nil {
		return crypto.Scalar{}, fmt.Errorf("config: invalid secret %q: %w", c.Secret, err)
	}
	return sk, nil
}

// DSTBytes decodes DST.
func (c *Config) DSTBytes() ([]byte, error) {
	dst, err := hexutil.Decode(c.DST)
	if err != nil {
		return nil, fmt.Errorf("config: invalid dst %q: %w", c.DST, err)
	}
	if len(dst) == 0 {
		return nil, fmt.Errorf("config: invalid dst %q: %w", c.DST, crypto.ErrEmptyDST)
	}
	if len(dst) > 255 {
		return nil, fmt.Errorf("config: invalid dst %q: %w", c.DST, crypto.ErrDSTTooLong)
	}
	return dst, nil
}

// Logger builds the logger described by Verbosity and LogFormat, writing
// to w.
func (c *Config) Logger(w io.Writer) *log.Logger {
	format, err := log.ParseFormat(c.LogFormat)
	if err != nil {
		format = log.FormatJSON
	}
	return log.NewWriter(w, format, log.LevelFromVerbosity(c.Verbosity))
}

func knownBackend(name string) bool {
	for _, n := range crypto.BackendNames() {
		if n == name {
			return true
		}
	}
	return false
}
