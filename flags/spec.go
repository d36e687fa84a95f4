package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// SpecFlags controls how the input document is located and inspected.

func SpecFlags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{
			Name:  "embedded",
			Usage: "Input is a full chain spec; decode its engine.authorityRound section",
		},
		cli.Uint64Flag{
			Name:  "at",
			Usage: "Also report the validator set and block reward in force at this block",
		},
	}
}
