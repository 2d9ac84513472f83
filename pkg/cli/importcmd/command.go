// Package importcmd implements the 'actup catalog import' and 'actup repos import' commands.
package importcmd

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actup/pkg/cli/env"
	"github.com/suzuki-shunsuke/actup/pkg/cli/flag"
	"github.com/suzuki-shunsuke/actup/pkg/controller/importer"
	"github.com/urfave/cli/v3"
)

var errFileRequired = errors.New("a file path is required")

type runner struct {
	logE        *logrus.Entry
	globalFlags *flag.GlobalFlags
}

// New returns the catalog and repos commands.
func New(logE *logrus.Entry, globalFlags *flag.GlobalFlags) []*cli.Command {
	r := &runner{
		logE:        logE,
		globalFlags: globalFlags,
	}
	return []*cli.Command{
		{
			Name:  "catalog",
			Usage: "Manage the catalog of tracked actions",
			Commands: []*cli.Command{
				{
					Name:      "import",
					Usage:     "Import actions from a YAML file",
					ArgsUsage: "<file>",
					Description: `Import actions from a YAML file.

$ actup catalog import actions.yaml

actions.yaml:

- name: actions/checkout
  stars: 7000
  latest_version: v4.2.2
`,
					Action: r.importActions,
				},
			},
		},
		{
			Name:  "repos",
			Usage: "Manage the repositories to scan",
			Commands: []*cli.Command{
				{
					Name:      "import",
					Usage:     "Import repositories from a YAML file",
					ArgsUsage: "<file>",
					Description: `Import repositories from a YAML file.
Archived and forked repositories are skipped.

$ actup repos import repos.yaml

repos.yaml:

- full_name: suzuki-shunsuke/actup
  clone_url: https://github.com/suzuki-shunsuke/actup.git
  stars: 10
  archived: false
  fork: false
`,
					Action: r.importRepositories,
				},
			},
		},
	}
}

func (r *runner) importActions(ctx context.Context, c *cli.Command) error {
	p := c.Args().First()
	if p == "" {
		return errFileRequired
	}
	e, err := env.Load(ctx, r.logE, r.globalFlags)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer e.Close(r.logE)
	_, err = importer.New(e.Fs, e.Store).ImportActions(ctx, r.logE, p)
	return err //nolint:wrapcheck
}

func (r *runner) importRepositories(ctx context.Context, c *cli.Command) error {
	p := c.Args().First()
	if p == "" {
		return errFileRequired
	}
	e, err := env.Load(ctx, r.logE, r.globalFlags)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer e.Close(r.logE)
	_, err = importer.New(e.Fs, e.Store).ImportRepositories(ctx, r.logE, p)
	return err //nolint:wrapcheck
}
