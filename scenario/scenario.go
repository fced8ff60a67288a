package scenario

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eth2030/blspok/crypto"
	"github.com/eth2030/blspok/forge"
	"github.com/eth2030/blspok/log"
	"github.com/eth2030/blspok/registry"
)

// Status strings reported for the final signature check.
const (
	StatusVerified = "verification successful"
	StatusFailed   = "verification failed"
)

// Outcome is the result of a run that got as far as the final signature
// check. A failed check is an outcome, not an error.
type Outcome struct {
	// RegistryEntries is the number of entries loaded, before the forged one
	// was appended.
	RegistryEntries int
	// Fingerprint is the Keccak-256 of the loaded registry blob.
	Fingerprint common.Hash
	// Forgery is the forged entry and aggregate signature.
	Forgery *forge.Forgery
	// AggregateKey is the sum of every key, forged entry included.
	AggregateKey crypto.PublicKey
	// Collapsed reports whether AggregateKey equals the attacker's own key.
	Collapsed bool
	// Backend names the verifier of the final check.
	Backend string
	// Verified is the result of the final signature check.
	Verified bool
}

// Status returns StatusVerified or StatusFailed.
func (o *Outcome) Status() string {
	if o.Verified {
		return StatusVerified
	}
	return StatusFailed
}

// Err returns crypto.ErrSignatureVerification for a failed check.
func (o *Outcome) Err() error {
	if o.Verified {
		return nil
	}
	return crypto.ErrSignatureVerification
}

// Option customises a Runner.
type Option func(*Runner)

// WithGenerators replaces the seeded collinear generators.
func WithGenerators(gens crypto.GeneratorSource) Option {
	return func(r *Runner) { r.gens = gens }
}

// Runner executes the attack for one configuration.
type Runner struct {
	cfg     Config
	log     *log.Logger
	secret  crypto.Scalar
	msg     []byte
	gens    crypto.GeneratorSource
	enc     *crypto.MessageEncoder
	backend crypto.Backend
}

// New validates cfg and prepares the generators, encoder and backend.
func New(cfg Config, logger *log.Logger, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	secret, err := cfg.SecretScalar()
	if err != nil {
		return nil, err
	}
	dst, err := cfg.DSTBytes()
	if err != nil {
		return nil, err
	}
	enc, err := crypto.NewMessageEncoder(dst)
	if err != nil {
		return nil, fmt.Errorf("scenario: message encoder: %w", err)
	}
	backend, err := crypto.LookupBackend(cfg.Backend, dst)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	r := &Runner{
		cfg:     cfg,
		log:     logger.Module("scenario"),
		secret:  secret,
		msg:     []byte(cfg.Message),
		enc:     enc,
		backend: backend,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.gens == nil {
		gens, err := crypto.NewCollinearGenerators(cfg.Seed)
		if err != nil {
			return nil, fmt.Errorf("scenario: generators: %w", err)
		}
		r.gens = gens
	}
	return r, nil
}

// Run loads the configured registry file and attacks it.
func (r *Runner) Run() (*Outcome, error) {
	reg, err := registry.LoadFile(r.cfg.RegistryPath, registry.LoadOptions{
		ValidateSubgroups: r.cfg.ValidateSubgroups,
	})
	if err != nil {
		return nil, err
	}
	return r.RunRegistry(reg)
}

// RunRegistry attacks reg, appending the forged entry to it. Every step
// before the final signature check is fatal on failure.
func (r *Runner) RunRegistry(reg *registry.Registry) (*Outcome, error) {
	fp, err := reg.Fingerprint()
	if err != nil {
		return nil, err
	}
	n := reg.Len()
	r.log.Info("registry loaded", "entries", n, "fingerprint", fp.Hex())

	for i := 0; i < n; i++ {
		if err := reg.VerifyEntry(uint64(i), r.gens); err != nil {
			r.log.Error("proof of knowledge rejected", "index", i)
			return nil, err
		}
		r.log.Debug("proof of knowledge verified", "index", i)
	}

	f, err := forge.Forge(reg.PublicKeys(), reg.Proofs(), r.secret, r.msg, r.gens, r.enc)
	if err != nil {
		return nil, err
	}
	idx, err := reg.Append(registry.Entry{PublicKey: f.Key, Proof: f.Proof})
	if err != nil {
		return nil, err
	}
	r.log.Info("forged entry appended", "index", idx, "key", f.Key.String())
	if err := reg.VerifyEntry(idx, r.gens); err != nil {
		r.log.Error("forged proof of knowledge rejected", "index", idx)
		return nil, err
	}

	agg, err := reg.AggregateKey()
	if err != nil {
		return nil, err
	}
	out := &Outcome{
		RegistryEntries: n,
		Fingerprint:     fp,
		Forgery:         f,
		AggregateKey:    agg,
		Collapsed:       agg.Equal(f.AttackerKey),
		Backend:         r.backend.Name(),
	}
	r.log.Info("aggregate key created", "entries", reg.Len(), "collapsed", out.Collapsed)

	out.Verified = r.backend.VerifySignature(agg, f.AggregateSignature, r.msg)
	if out.Verified {
		r.log.Info(out.Status(), "backend", out.Backend, "message", r.cfg.Message)
	} else {
		r.log.Warn(out.Status(), "backend", out.Backend, "message", r.cfg.Message)
	}
	return out, nil
}
