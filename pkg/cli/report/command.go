// Package report implements the 'actup report' command.
package report

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actup/pkg/cli/env"
	"github.com/suzuki-shunsuke/actup/pkg/cli/flag"
	"github.com/suzuki-shunsuke/actup/pkg/controller/report"
	"github.com/urfave/cli/v3"
)

func New(logE *logrus.Entry, globalFlags *flag.GlobalFlags) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Update the status of created pull requests",
		Description: `Fetch every created pull request, save whether it is open, closed, or merged,
and output the table of pull requests.

$ actup report
`,
		Action: func(ctx context.Context, _ *cli.Command) error {
			e, err := env.Load(ctx, logE, globalFlags)
			if err != nil {
				return err //nolint:wrapcheck
			}
			defer e.Close(logE)
			gh, _, err := e.GitHub(ctx, logE, false)
			if err != nil {
				return err //nolint:wrapcheck
			}
			return report.New(gh.PullRequests, e.Store, os.Stdout).Report(ctx, logE) //nolint:wrapcheck
		},
	}
}
