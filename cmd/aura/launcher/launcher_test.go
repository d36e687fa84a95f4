package launcher

import (
	"bytes"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-opera-aura/flags"
	"github.com/rony4d/go-opera-aura/opera/aura"
)

const testSpec = `{
	"params": {
		"stepDuration": "0x02",
		"validators": {
			"multi": {
				"0": {"list": ["0xc6d9d2cd449a754c494264e1809c50e34d64562b"]},
				"100": {"contract": "0xc6d9d2cd449a754c494264e1809c50e34d64562b"}
			}
		},
		"blockReward": {"0": 5000000, "100": 150},
		"blockRewardContractAddress": "0x0000000000000000000000000000000000000042"
	}
}`

// writeSpec stores doc in a temporary file and returns its path.
func writeSpec(t *testing.T, doc string) string {
	t.Helper()

	dir, err := ioutil.TempDir("", "aura-launcher")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "spec.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(doc), 0o644))
	return path
}

// runApp executes the CLI with args and returns stdout and stderr.
func runApp(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := newApp(strings.NewReader(stdin), &stdout, &stderr)
	err := app.Run(append([]string{"aura"}, args...))
	return stdout.String(), stderr.String(), err
}

// TestMakeAllConfigs_flagOverrides verifies that each flag overrides the
// matching field of the aggregated Config.
func TestMakeAllConfigs_flagOverrides(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want func(t *testing.T, cfg Config)
	}{
		{
			name: "defaults",
			args: []string{"/tmp/spec.json"},
			want: func(t *testing.T, cfg Config) {
				require.Equal(t, DefaultConfig().Logging, cfg.Logging)
				require.Equal(t, "/tmp/spec.json", cfg.Spec.Path)
				require.False(t, cfg.Spec.Embedded)
				require.Nil(t, cfg.Spec.At)
			},
		},
		{
			name: "logging",
			args: []string{"--log.format", "json", "--log.verbosity", "5", "--log.color", "--sentry.dsn", "https://key@sentry.example/1", "spec.json"},
			want: func(t *testing.T, cfg Config) {
				require.Equal(t, "json", cfg.Logging.Format)
				require.Equal(t, 5, cfg.Logging.Verbosity)
				require.True(t, cfg.Logging.Color)
				require.Equal(t, "https://key@sentry.example/1", cfg.Logging.SentryDSN)
				// Relative paths resolve against the working directory.
				require.Equal(t, filepath.Join(GuessWorkDir(), "spec.json"), cfg.Spec.Path)
			},
		},
		{
			name: "spec options",
			args: []string{"--embedded", "--at", "150", "-"},
			want: func(t *testing.T, cfg Config) {
				require.True(t, cfg.Spec.Embedded)
				require.NotNil(t, cfg.Spec.At)
				require.Equal(t, idx.Block(150), *cfg.Spec.At)
				require.Equal(t, stdinPath, cfg.Spec.Path)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			set := flag.NewFlagSet("check", flag.ContinueOnError)
			for _, f := range append(flags.CommonFlags(), flags.SpecFlags()...) {
				f.Apply(set)
			}
			require.NoError(t, set.Parse(test.args))

			cfg, err := MakeAllConfigs(cli.NewContext(cli.NewApp(), set, nil))
			require.NoError(t, err)
			test.want(t, cfg)
		})
	}
}

// TestMakeAllConfigs_needsOneFile rejects a missing or extra spec argument.
func TestMakeAllConfigs_needsOneFile(t *testing.T) {
	for _, args := range [][]string{{}, {"a.json", "b.json"}} {
		set := flag.NewFlagSet("check", flag.ContinueOnError)
		require.NoError(t, set.Parse(args))
		_, err := MakeAllConfigs(cli.NewContext(cli.NewApp(), set, nil))
		require.Error(t, err)
	}
}

// TestCheckCommand runs the check command against valid and invalid files.
func TestCheckCommand(t *testing.T) {
	require := require.New(t)

	// Case 1: valid document, summary and schedule are logged.
	{
		path := writeSpec(t, testSpec)
		_, logs, err := runApp(t, "", "check", "--at", "150", path)
		require.NoError(err)
		require.Contains(logs, "AuthorityRound parameters are valid")
		require.Contains(logs, "validators=multi")
		require.Contains(logs, "rewardSteps=2")
		require.Contains(logs, "rewardContract=0x0000000000000000000000000000000000000042")
		require.Contains(logs, "blockReward=150")
		require.Contains(logs, "validators=contract")
	}

	// Case 2: unknown field, the error carries the document path.
	{
		path := writeSpec(t, `{"params": {"stepDuration": 2, "validators": {"list": []}, "foo": 1}}`)
		_, logs, err := runApp(t, "", "check", "--log.format", "json", path)
		require.Error(err)
		require.True(errors.Is(err, aura.ErrUnknownField))
		require.Contains(logs, `"path":"params"`)
		require.Contains(logs, `"level":"error"`)
	}

	// Case 3: missing file.
	{
		_, _, err := runApp(t, "", "check", filepath.Join(os.TempDir(), "does-not-exist.json"))
		require.Error(err)
	}

	// Case 4: document read from stdin.
	{
		_, logs, err := runApp(t, testSpec, "check", "-")
		require.NoError(err)
		require.Contains(logs, "stepDuration=2")
	}
}

// TestCheckEmbedded decodes the engine section of a full chain spec.
func TestCheckEmbedded(t *testing.T) {
	require := require.New(t)

	path := writeSpec(t, `{"name": "dev", "engine": {"authorityRound": `+testSpec+`}}`)
	_, logs, err := runApp(t, "", "check", "--embedded", path)
	require.NoError(err)
	require.Contains(logs, "validators=multi")

	path = writeSpec(t, `{"name": "dev", "engine": {"ethash": {}}}`)
	_, _, err = runApp(t, "", "check", "--embedded", path)
	require.Error(err)

	path = writeSpec(t, `{"engine": {"authorityRound": {"params": {"stepDuration": 1}}}}`)
	_, _, err = runApp(t, "", "check", "--embedded", path)
	require.True(errors.Is(err, aura.ErrMissingField), "got %v", err)
}

// TestDumpCommand prints the decoded structure.
func TestDumpCommand(t *testing.T) {
	require := require.New(t)

	out, _, err := runApp(t, testSpec, "dump", "-")
	require.NoError(err)
	require.Contains(out, "AuthorityRound")
	require.Contains(out, "MultiValidators")
	require.Contains(out, "RewardStep")
}
