// This file maps the CLI context to the launcher config struct.

package launcher

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-opera-aura/logger"
)

// stdinPath selects standard input instead of a file.
const stdinPath = "-"

// Config aggregates everything a command needs.
type Config struct {
	Logging logger.Config
	Spec    SpecConfig
}

// SpecConfig locates the input document.
type SpecConfig struct {
	Path     string     // file path, or "-" for stdin
	Embedded bool       // input is a whole chain spec, not just the engine section
	At       *idx.Block // optional block to resolve schedules at
}

// MakeAllConfigs merges defaults and CLI overrides into a single config struct.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := DefaultConfig()
	applyCLIOverrides(ctx, &cfg)

	if ctx.NArg() != 1 {
		return cfg, errors.New("expected exactly one spec file argument (use - for stdin)")
	}
	cfg.Spec.Path = ctx.Args().First()
	if cfg.Spec.Path != stdinPath {
		cfg.Spec.Path = resolvePath(cfg.Spec.Path)
	}
	return cfg, nil
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet("log.format") {
		cfg.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Logging.Color = ctx.Bool("log.color")
	}
	if dsn := ctx.String("sentry.dsn"); dsn != "" {
		cfg.Logging.SentryDSN = dsn
	}

	if ctx.IsSet("embedded") {
		cfg.Spec.Embedded = ctx.Bool("embedded")
	}
	if ctx.IsSet("at") {
		at := idx.Block(ctx.Uint64("at"))
		cfg.Spec.At = &at
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
