package launcher

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-opera-aura/flags"
	"github.com/rony4d/go-opera-aura/logger"
	"github.com/rony4d/go-opera-aura/opera/aura"
)

// Launch runs the command line tool with the process arguments.
func Launch(args []string) error {
	return newApp(os.Stdin, os.Stdout, os.Stderr).Run(args)
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	app := flags.NewApp()
	app.Writer = stdout

	commandFlags := append(flags.CommonFlags(), flags.SpecFlags()...)
	app.Commands = []cli.Command{
		{
			Name:      "check",
			Usage:     "Parse an AuthorityRound document and report a summary",
			ArgsUsage: "<spec.json|->",
			Flags:     commandFlags,
			Action: func(ctx *cli.Context) error {
				return run(ctx, stdin, stderr, func(log *logrus.Logger, cfg Config, engine *aura.AuthorityRound) error {
					log.WithFields(summary(engine)).Info("AuthorityRound parameters are valid")
					if cfg.Spec.At != nil {
						log.WithFields(scheduleAt(engine, *cfg.Spec.At)).Info("Schedule resolved")
					}
					return nil
				})
			},
		},
		{
			Name:      "dump",
			Usage:     "Parse an AuthorityRound document and print the decoded structure",
			ArgsUsage: "<spec.json|->",
			Flags:     commandFlags,
			Action: func(ctx *cli.Context) error {
				return run(ctx, stdin, stderr, func(log *logrus.Logger, cfg Config, engine *aura.AuthorityRound) error {
					spew.Fdump(ctx.App.Writer, engine)
					return nil
				})
			},
		},
	}
	return app
}

// run builds the config and logger, loads the document and hands it to fn.
func run(ctx *cli.Context, stdin io.Reader, stderr io.Writer, fn func(*logrus.Logger, Config, *aura.AuthorityRound) error) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Logging, stderr)
	if err != nil {
		return err
	}

	engine, err := loadEngine(cfg.Spec, stdin)
	if err != nil {
		entry := log.WithField("file", cfg.Spec.Path)
		var de *aura.DecodeError
		if errors.As(err, &de) {
			entry = entry.WithField("path", de.Path)
		}
		entry.WithError(err).Error("Invalid AuthorityRound parameters")
		return err
	}
	log.WithField("file", cfg.Spec.Path).Debug("Loaded AuthorityRound parameters")
	return fn(log, cfg, engine)
}

// chainSpec is the part of a full chain specification the tool cares about.
type chainSpec struct {
	Engine struct {
		AuthorityRound *aura.AuthorityRound `json:"authorityRound"`
	} `json:"engine"`
}

func loadEngine(cfg SpecConfig, stdin io.Reader) (*aura.AuthorityRound, error) {
	var (
		data []byte
		err  error
	)
	if cfg.Path == stdinPath {
		data, err = ioutil.ReadAll(stdin)
	} else {
		data, err = ioutil.ReadFile(cfg.Path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "read spec")
	}

	if !cfg.Embedded {
		return aura.Parse(data)
	}
	var spec chainSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	if spec.Engine.AuthorityRound == nil {
		return nil, errors.New("chain spec has no engine.authorityRound section")
	}
	return spec.Engine.AuthorityRound, nil
}

// summary flattens the parameters into log fields.
func summary(engine *aura.AuthorityRound) logrus.Fields {
	p := engine.Params
	fields := logrus.Fields{
		"stepDuration": p.StepDuration.String(),
		"validators":   p.Validators.Kind(),
	}
	switch v := p.Validators.(type) {
	case aura.ListValidators:
		fields["authorities"] = v.Len()
	case aura.ContractValidators:
		fields["contract"] = v.Address.Hex()
	case aura.SafeContractValidators:
		fields["contract"] = v.Address.Hex()
	case aura.MultiValidators:
		fields["transitions"] = len(v.Transitions())
	}
	switch r := p.BlockReward.(type) {
	case aura.SingleReward:
		fields["blockReward"] = r.Reward.String()
	case aura.MultiReward:
		fields["rewardSteps"] = r.Len()
	}
	switch {
	case p.BlockRewardContractCode != nil:
		fields["rewardContract"] = fmt.Sprintf("code (%d bytes)", len(*p.BlockRewardContractCode))
	case p.BlockRewardContractAddress != nil:
		fields["rewardContract"] = p.BlockRewardContractAddress.Hex()
	}
	return fields
}

// scheduleAt reports the validator set and reward in force at block n.
func scheduleAt(engine *aura.AuthorityRound, n idx.Block) logrus.Fields {
	p := engine.Params
	fields := logrus.Fields{"block": uint64(n)}

	set := p.Validators
	if multi, ok := set.(aura.MultiValidators); ok {
		set, _ = multi.At(n)
	}
	if set != nil {
		fields["validators"] = set.Kind()
	} else {
		fields["validators"] = "none"
	}

	if p.BlockReward != nil {
		if reward, ok := p.BlockReward.At(n); ok {
			fields["blockReward"] = reward.String()
		}
	}
	return fields
}
