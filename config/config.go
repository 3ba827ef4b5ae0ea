// Package config holds the settings a host program needs to assemble
// sealberry engines: logging, the header hasher, proof-of-work search
// bounds, the authority roster, and the fork height.
//
// Values come from defaults, then SEALBERRY_* environment variables,
// then command-line flags, each overriding the one before.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/blockberries/sealberry/authority"
	"github.com/blockberries/sealberry/logging"
	"github.com/blockberries/sealberry/pow"
	"github.com/blockberries/sealberry/types"
)

// Config is the runtime configuration of a sealberry node.
type Config struct {
	Log logging.Config

	// Header hash function: blake2b or pm256.
	Hash string

	PoW pow.Config

	// Authority names, in schedule order.
	Authorities []string

	// Last height governed by the engine before a fork.
	ForkHeight uint64
}

// Default returns the configuration used when no flag or environment
// variable overrides a field.
func Default() Config {
	return Config{
		Log:         logging.DefaultConfig(),
		Hash:        types.DefaultHasher.Name(),
		PoW:         pow.DefaultConfig(),
		Authorities: []string{"Alice", "Bob", "Charlie"},
		ForkHeight:  10,
	}
}

// FromEnv returns the defaults overridden by the environment.
func FromEnv() (Config, error) {
	return Parse(nil)
}

// Parse layers the environment and then args over the defaults and
// validates the result. Unsigned values accept decimal or 0x-hex.
func Parse(args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("sealberry", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		logLevel  = fs.String("log.level", envOr("SEALBERRY_LOG_LEVEL", cfg.Log.Level), "Log level: debug|info|warn|error")
		logFormat = fs.String("log.format", envOr("SEALBERRY_LOG_FORMAT", cfg.Log.Format), "Log format: json|text")
		hash      = fs.String("hash", envOr("SEALBERRY_HASH", cfg.Hash), "Header hash: blake2b|pm256")

		threshold  = fs.String("pow.threshold", envOr("SEALBERRY_POW_THRESHOLD", types.FormatHash(cfg.PoW.Threshold)), "Proof-of-work threshold (exclusive)")
		maxIter    = fs.String("pow.maxIterations", envOr("SEALBERRY_POW_MAX_ITERATIONS", fmt.Sprint(cfg.PoW.MaxIterations)), "Nonces tried per seal")
		startNonce = fs.String("pow.startNonce", envOr("SEALBERRY_POW_START_NONCE", fmt.Sprint(cfg.PoW.StartNonce)), "First nonce tried")

		authorities = fs.String("authorities", envOr("SEALBERRY_AUTHORITIES", strings.Join(cfg.Authorities, ",")), "Comma-separated authority roster")
		forkHeight  = fs.String("fork.height", envOr("SEALBERRY_FORK_HEIGHT", fmt.Sprint(cfg.ForkHeight)), "Last height before a fork")
	)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Log.Level = strings.TrimSpace(*logLevel)
	cfg.Log.Format = strings.TrimSpace(*logFormat)
	cfg.Hash = strings.TrimSpace(*hash)
	cfg.Authorities = splitCSV(*authorities)

	for _, u := range []struct {
		name string
		raw  string
		dst  *uint64
	}{
		{"pow.threshold", *threshold, &cfg.PoW.Threshold},
		{"pow.maxIterations", *maxIter, &cfg.PoW.MaxIterations},
		{"pow.startNonce", *startNonce, &cfg.PoW.StartNonce},
		{"fork.height", *forkHeight, &cfg.ForkHeight},
	} {
		v, err := types.ParseUint(u.raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", u.name, u.raw, err)
		}
		*u.dst = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (cfg Config) Validate() error {
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level: %q", cfg.Log.Level)
	}

	switch strings.ToLower(cfg.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log.format: %q", cfg.Log.Format)
	}

	if _, err := types.HasherByName(cfg.Hash); err != nil {
		return fmt.Errorf("invalid hash: %w", err)
	}
	if err := cfg.PoW.ValidateBasic(); err != nil {
		return err
	}
	if len(cfg.Authorities) == 0 {
		return errors.New("authorities must not be empty")
	}
	if _, err := authority.ParseRoster(cfg.Authorities); err != nil {
		return fmt.Errorf("invalid authorities: %w", err)
	}
	return nil
}

// Hasher returns the configured hash function.
func (cfg Config) Hasher() (types.Hasher, error) {
	return types.HasherByName(cfg.Hash)
}

// Roster returns the configured authority roster.
func (cfg Config) Roster() (authority.Roster, error) {
	return authority.ParseRoster(cfg.Authorities)
}

// Logger builds the configured logger writing to out.
func (cfg Config) Logger(out io.Writer) *logrus.Logger {
	return logging.New(cfg.Log, out)
}

// PoWEngine builds a proof-of-work engine from the configuration.
func (cfg Config) PoWEngine(log logrus.FieldLogger) (*pow.PoW, error) {
	hasher, err := cfg.Hasher()
	if err != nil {
		return nil, err
	}
	return pow.NewWithConfig(cfg.PoW, pow.WithHasher(hasher), pow.WithLogger(log))
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func splitCSV(s string) []string {
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		t := strings.TrimSpace(r)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
