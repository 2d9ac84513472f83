// Package classify implements the 'actup find-outdated-actions' and 'actup list-outdated' commands.
package classify

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actup/pkg/cli/env"
	"github.com/suzuki-shunsuke/actup/pkg/cli/flag"
	"github.com/suzuki-shunsuke/actup/pkg/controller/classify"
	"github.com/suzuki-shunsuke/actup/pkg/policy"
	"github.com/urfave/cli/v3"
)

type runner struct {
	logE        *logrus.Entry
	globalFlags *flag.GlobalFlags
}

// New returns the find-outdated-actions and list-outdated commands.
func New(logE *logrus.Entry, globalFlags *flag.GlobalFlags) []*cli.Command {
	r := &runner{
		logE:        logE,
		globalFlags: globalFlags,
	}
	return []*cli.Command{
		{
			Name:  "find-outdated-actions",
			Usage: "Classify used actions against the catalog",
			Description: `Join the used actions with the catalog and the tag index,
and save which references are behind the latest major version.

$ actup find-outdated-actions
`,
			Action: r.classify,
		},
		{
			Name:  "list-outdated",
			Usage: "List the outdated references that may be remediated",
			Description: `Output the outdated references that create-prs would remediate as CSV.
Excluded repositories and denied repositories and actions are omitted.

$ actup list-outdated

Output format:
repo,file,line,action,detected,latest
`,
			Action: r.list,
		},
	}
}

func (r *runner) classify(ctx context.Context, _ *cli.Command) error {
	e, err := env.Load(ctx, r.logE, r.globalFlags)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer e.Close(r.logE)
	result, err := classify.New(e.Store, policy.Default(), os.Stdout).Classify(ctx, r.logE)
	if err != nil {
		return err //nolint:wrapcheck
	}
	fmt.Fprintf(os.Stdout, "mentions: %d\noutdated: %d\n", result.Mentions, result.Outdated)
	return nil
}

func (r *runner) list(ctx context.Context, _ *cli.Command) error {
	e, err := env.Load(ctx, r.logE, r.globalFlags)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer e.Close(r.logE)
	return classify.New(e.Store, policy.Default(), os.Stdout).ListOutdated(ctx, r.logE) //nolint:wrapcheck
}
