// Package tagresolve implements the 'actup find-action-shas' command.
package tagresolve

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actup/pkg/cli/env"
	"github.com/suzuki-shunsuke/actup/pkg/cli/flag"
	"github.com/suzuki-shunsuke/actup/pkg/controller/tagresolve"
	"github.com/urfave/cli/v3"
)

func New(logE *logrus.Entry, globalFlags *flag.GlobalFlags) *cli.Command {
	return &cli.Command{
		Name:  "find-action-shas",
		Usage: "Resolve the tags of catalog actions to commit SHAs",
		Description: `List the tags of every catalog action and save the commit SHA of each tag.
Actions whose tags were already resolved are skipped.

$ actup find-action-shas
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
			_, err = tagresolve.New(gh.Repositories, e.Store).Resolve(ctx, logE)
			return err //nolint:wrapcheck
		},
	}
}
