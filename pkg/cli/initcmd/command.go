// Package initcmd implements the 'actup init' command.
package initcmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/actup/pkg/cli/flag"
	"github.com/suzuki-shunsuke/actup/pkg/controller/initcmd"
	"github.com/suzuki-shunsuke/actup/pkg/log"
	"github.com/urfave/cli/v3"
)

func New(logE *logrus.Entry, globalFlags *flag.GlobalFlags) *cli.Command {
	r := &runner{
		logE:        logE,
		globalFlags: globalFlags,
	}
	return r.Command()
}

type runner struct {
	logE        *logrus.Entry
	globalFlags *flag.GlobalFlags
}

func (r *runner) Command() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create .actup.yaml if it doesn't exist",
		Description: `Create .actup.yaml if it doesn't exist

$ actup init

You can also pass configuration file path.

e.g.

$ actup init .github/actup.yaml
`,
		Action: r.action,
	}
}

func (r *runner) action(_ context.Context, c *cli.Command) error {
	log.SetLevel(r.globalFlags.LogLevel, r.logE)
	configFilePath := c.Args().First()
	if configFilePath == "" {
		configFilePath = r.globalFlags.Config
	}
	if configFilePath == "" {
		configFilePath = ".actup.yaml"
	}
	return initcmd.New(afero.NewOsFs(), r.logE).Init(configFilePath) //nolint:wrapcheck
}
