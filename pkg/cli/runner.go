// Package cli builds the actup command tree.
package cli

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actup/pkg/cli/classify"
	"github.com/suzuki-shunsuke/actup/pkg/cli/db"
	"github.com/suzuki-shunsuke/actup/pkg/cli/flag"
	"github.com/suzuki-shunsuke/actup/pkg/cli/importcmd"
	"github.com/suzuki-shunsuke/actup/pkg/cli/initcmd"
	"github.com/suzuki-shunsuke/actup/pkg/cli/remediate"
	"github.com/suzuki-shunsuke/actup/pkg/cli/report"
	"github.com/suzuki-shunsuke/actup/pkg/cli/scan"
	"github.com/suzuki-shunsuke/actup/pkg/cli/tagresolve"
	"github.com/suzuki-shunsuke/actup/pkg/cli/token"
	"github.com/suzuki-shunsuke/urfave-cli-v3-util/urfave"
	"github.com/urfave/cli/v3"
)

// Run parses args and runs the matched command.
// Every log entry of one invocation carries the same run_id.
func Run(ctx context.Context, logE *logrus.Entry, ldFlags *urfave.LDFlags, args ...string) error {
	logE = logE.WithField("run_id", uuid.NewString())
	globalFlags := &flag.GlobalFlags{}
	commands := []*cli.Command{
		initcmd.New(logE, globalFlags),
		db.New(logE, globalFlags),
	}
	commands = append(commands, importcmd.New(logE, globalFlags)...)
	commands = append(commands, scan.New(logE, globalFlags)...)
	commands = append(commands, classify.New(logE, globalFlags)...)
	commands = append(commands,
		tagresolve.New(logE, globalFlags),
		remediate.New(logE, globalFlags),
		report.New(logE, globalFlags),
		token.New(),
		newVersionCommand(),
	)
	cmd := &cli.Command{
		Name:                  "actup",
		Usage:                 "Find outdated GitHub Actions across repositories and open pull requests updating them",
		Version:               ldFlags.Version + " (" + ldFlags.Commit + ")",
		Flags:                 globalFlags.Flags(),
		EnableShellCompletion: true,
		Commands:              commands,
	}
	return cmd.Run(ctx, args) //nolint:wrapcheck
}
