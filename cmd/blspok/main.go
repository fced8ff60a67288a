// Command blspok runs the rogue-key attack against a proof-of-knowledge
// registry, or generates an honest registry to attack.
//
// Usage:
//
//	blspok [attack] [flags]
//	blspok gen [flags]
//
// Attack flags:
//
//	--registry            Registry file (default: public_keys.bin)
//	--secret              Attacker secret, decimal or 0x-hex (default: 100)
//	--message             Message to forge a signature on (default: intldds)
//	--seed                Generator seed (default: 20399)
//	--dst                 Message tag, 0x-hex (default: 0x01030307)
//	--validate-subgroups  Reject registry points outside the subgroup
//	--backend             Signature verifier: go, blst (default: go)
//	--verbosity           Log level 0-5 (default: 3)
//	--log.format          Log format: json, text (default: json)
//	--metrics             Print metrics on exit
//	--version             Print version and exit
//
// Gen flags:
//
//	--out        Output file (default: public_keys.bin)
//	--secrets    Comma separated honest secrets (default: 2,3,5)
//	--seed       Generator seed (default: 20399)
//	--verbosity  Log level 0-5 (default: 3)
//
// Exit status is 0 when the run completes, whether or not the final
// signature check passed, 1 on a fatal error and 2 on a usage error.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/eth2030/blspok/crypto"
	"github.com/eth2030/blspok/log"
	"github.com/eth2030/blspok/metrics"
	"github.com/eth2030/blspok/registry"
	"github.com/eth2030/blspok/scenario"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0 -X main.commit=abc1234"
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) so it can be tested in isolation.
func run(args []string) int {
	return runIO(args, os.Stdout, os.Stderr)
}

func runIO(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "attack":
			return runAttack(args[1:], stdout, stderr)
		case "gen":
			return runGen(args[1:], stdout, stderr)
		}
	}
	return runAttack(args, stdout, stderr)
}

func runAttack(args []string, stdout, stderr io.Writer) int {
	cfg, exit, code := parseAttackFlags(args, stdout, stderr)
	if exit {
		return code
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 2
	}
	logger := cfg.Logger(stderr)
	log.SetDefault(logger)
	logger.Debug("blspok starting",
		"version", version,
		"registry", cfg.RegistryPath,
		"seed", cfg.Seed,
		"backend", cfg.Backend,
		"validate_subgroups", cfg.ValidateSubgroups,
	)
	if cfg.Metrics {
		defer func() {
			if err := metrics.WriteText(stderr, metrics.DefaultRegistry); err != nil {
				logger.Error("metrics export failed", "err", err)
			}
		}()
	}

	r, err := scenario.New(cfg, logger)
	if err != nil {
		logger.Error("setup failed", "err", err)
		return 1
	}
	out, err := r.Run()
	if err != nil {
		logger.Error("attack aborted", "err", err)
		return 1
	}
	fmt.Fprintln(stdout, out.Status())
	return 0
}

// parseAttackFlags parses CLI arguments into a Config. Returns the config,
// whether the caller should exit immediately, and the exit code.
func parseAttackFlags(args []string, stdout, stderr io.Writer) (scenario.Config, bool, int) {
	cfg := scenario.DefaultConfig()
	fs := newAttackFlagSet(&cfg, stderr)

	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, true, 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments %v\n", fs.Args())
		return cfg, true, 2
	}
	if *showVersion {
		fmt.Fprintf(stdout, "blspok %s (commit %s)\n", version, commit)
		return cfg, true, 0
	}
	return cfg, false, 0
}

// newAttackFlagSet creates a flagSet that binds the attack flags to cfg.
func newAttackFlagSet(cfg *scenario.Config, w io.Writer) *flagSet {
	fs := newCustomFlagSet("blspok", w)
	fs.StringVar(&cfg.RegistryPath, "registry", cfg.RegistryPath, "registry file")
	fs.StringVar(&cfg.Secret, "secret", cfg.Secret, "attacker secret, decimal or 0x-hex")
	fs.StringVar(&cfg.Message, "message", cfg.Message, "message to forge a signature on")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "proof-of-knowledge generator seed")
	fs.StringVar(&cfg.DST, "dst", cfg.DST, "message domain separation tag, 0x-hex")
	fs.BoolVar(&cfg.ValidateSubgroups, "validate-subgroups", cfg.ValidateSubgroups, "reject registry points outside the subgroup")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, fmt.Sprintf("signature verifier %v", crypto.BackendNames()))
	fs.IntVar(&cfg.Verbosity, "verbosity", cfg.Verbosity, "log level 0-5 (0=silent, 5=debug)")
	fs.StringVar(&cfg.LogFormat, "log.format", cfg.LogFormat, "log format (json, text)")
	fs.BoolVar(&cfg.Metrics, "metrics", cfg.Metrics, "print metrics on exit")
	return fs
}

// genConfig holds the gen subcommand flags.
type genConfig struct {
	Out       string
	Secrets   string
	Seed      uint64
	Verbosity int
}

func runGen(args []string, stdout, stderr io.Writer) int {
	gc := genConfig{
		Out:       "public_keys.bin",
		Secrets:   "2,3,5",
		Seed:      crypto.DefaultGeneratorSeed,
		Verbosity: 3,
	}
	fs := newCustomFlagSet("blspok gen", stderr)
	fs.StringVar(&gc.Out, "out", gc.Out, "output registry file")
	fs.StringVar(&gc.Secrets, "secrets", gc.Secrets, "comma separated honest secrets")
	fs.Uint64Var(&gc.Seed, "seed", gc.Seed, "proof-of-knowledge generator seed")
	fs.IntVar(&gc.Verbosity, "verbosity", gc.Verbosity, "log level 0-5 (0=silent, 5=debug)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments %v\n", fs.Args())
		return 2
	}
	secrets, err := parseSecrets(gc.Secrets)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 2
	}
	if gc.Out == "" {
		fmt.Fprintln(stderr, "Invalid configuration: config: output path must not be empty")
		return 2
	}

	logger := log.NewWriter(stderr, log.FormatJSON, log.LevelFromVerbosity(gc.Verbosity)).Module("gen")
	gens, err := crypto.NewCollinearGenerators(gc.Seed)
	if err != nil {
		logger.Error("generator setup failed", "err", err)
		return 1
	}
	reg := registry.Build(secrets, gens)
	if err := reg.Save(gc.Out); err != nil {
		logger.Error("write failed", "path", gc.Out, "err", err)
		return 1
	}
	fp, err := reg.Fingerprint()
	if err != nil {
		logger.Error("fingerprint failed", "err", err)
		return 1
	}
	logger.Info("registry written", "path", gc.Out, "entries", reg.Len(), "fingerprint", fp.Hex())
	fmt.Fprintln(stdout, fp.Hex())
	return 0
}

// parseSecrets parses a comma separated list of non-zero scalars.
func parseSecrets(s string) ([]crypto.Scalar, error) {
	var out []crypto.Scalar
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sk, err := crypto.ParseScalar(part)
		if err != nil {
			return nil, fmt.Errorf("config: invalid secret %q: %w", part, err)
		}
		if sk.IsZero() {
			return nil, fmt.Errorf("config: secret %q is zero", part)
		}
		out = append(out, sk)
	}
	if len(out) == 0 {
		return nil, errors.New("config: no secrets given")
	}
	return out, nil
}
