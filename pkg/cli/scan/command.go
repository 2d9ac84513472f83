// Package scan implements the 'actup fetch-repos' and 'actup scan-repos' commands.
package scan

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actup/pkg/cli/env"
	"github.com/suzuki-shunsuke/actup/pkg/cli/flag"
	"github.com/suzuki-shunsuke/actup/pkg/controller/scan"
	"github.com/suzuki-shunsuke/actup/pkg/git"
	"github.com/suzuki-shunsuke/actup/pkg/github"
	"github.com/urfave/cli/v3"
)

const (
	cloneAttempts = 2
	cloneDelay    = 3 * time.Second
)

type runner struct {
	logE        *logrus.Entry
	globalFlags *flag.GlobalFlags
}

// New returns the fetch-repos and scan-repos commands.
func New(logE *logrus.Entry, globalFlags *flag.GlobalFlags) []*cli.Command {
	r := &runner{
		logE:        logE,
		globalFlags: globalFlags,
	}
	return []*cli.Command{
		{
			Name:  "fetch-repos",
			Usage: "Check out the .github directory of every repository",
			Description: `Sparse clone the .github directory of every imported repository in parallel.
A repository is tried twice, then skipped.

$ actup fetch-repos
`,
			Action: r.fetch,
		},
		{
			Name:  "scan-repos",
			Usage: "Extract the actions used by checked out repositories",
			Description: `Extract the actions used by the workflows of checked out repositories.
A usage batch is written per repository, then every batch is loaded into the database.

$ actup scan-repos
`,
			Action: r.scan,
		},
	}
}

func (r *runner) controller(e *env.Env) *scan.Controller {
	return scan.New(e.Fs, e.Store, git.New(), github.NewRetrier(r.logE, cloneAttempts, cloneDelay), &scan.Param{
		CheckoutDir: e.Config.CheckoutDir(),
		UsageDir:    e.Config.UsageDir(),
	})
}

func (r *runner) fetch(ctx context.Context, _ *cli.Command) error {
	e, err := env.Load(ctx, r.logE, r.globalFlags)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer e.Close(r.logE)
	_, err = r.controller(e).Fetch(ctx, r.logE)
	return err //nolint:wrapcheck
}

func (r *runner) scan(ctx context.Context, _ *cli.Command) error {
	e, err := env.Load(ctx, r.logE, r.globalFlags)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer e.Close(r.logE)
	_, err = r.controller(e).Extract(ctx, r.logE)
	return err //nolint:wrapcheck
}
