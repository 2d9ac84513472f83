// Package flag defines the flags shared by every actup command.
package flag

import "github.com/urfave/cli/v3"

// GlobalFlags is bound to the root command and read by every subcommand.
type GlobalFlags struct {
	LogLevel string
	Config   string
}

func (gf *GlobalFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (trace, debug, info, warn, error)",
			Sources:     cli.EnvVars("ACTUP_LOG_LEVEL"),
			Destination: &gf.LogLevel,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "configuration file path. By default .actup.yaml or .github/actup.yaml is used",
			Sources:     cli.EnvVars("ACTUP_CONFIG"),
			Destination: &gf.Config,
		},
	}
}
