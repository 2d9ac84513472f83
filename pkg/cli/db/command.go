// Package db implements the 'actup init-db' command.
package db

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actup/pkg/cli/env"
	"github.com/suzuki-shunsuke/actup/pkg/cli/flag"
	"github.com/urfave/cli/v3"
)

func New(logE *logrus.Entry, globalFlags *flag.GlobalFlags) *cli.Command {
	return &cli.Command{
		Name:  "init-db",
		Usage: "Create or migrate the database tables",
		Description: `Create or migrate the database tables.
Other commands also migrate tables before they run, so this command is optional.

$ actup init-db
`,
		Action: func(ctx context.Context, _ *cli.Command) error {
			e, err := env.Load(ctx, logE, globalFlags)
			if err != nil {
				return err //nolint:wrapcheck
			}
			defer e.Close(logE)
			logE.WithField("driver", e.Config.Database.Driver).Info("migrated the database")
			return nil
		},
	}
}
