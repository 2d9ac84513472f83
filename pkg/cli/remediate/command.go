// Package remediate implements the 'actup create-prs' command.
package remediate

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actup/pkg/cli/env"
	"github.com/suzuki-shunsuke/actup/pkg/cli/flag"
	"github.com/suzuki-shunsuke/actup/pkg/controller/classify"
	"github.com/suzuki-shunsuke/actup/pkg/controller/remediate"
	"github.com/suzuki-shunsuke/actup/pkg/git"
	"github.com/suzuki-shunsuke/actup/pkg/metrics"
	"github.com/suzuki-shunsuke/actup/pkg/policy"
	"github.com/suzuki-shunsuke/actup/pkg/prtemplate"
	"github.com/suzuki-shunsuke/actup/pkg/tracker"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
	"github.com/urfave/cli/v3"
)

const mergeTimeout = 5 * time.Minute

type Flags struct {
	PinToSHA bool
	Yes      bool
	DryRun   bool
}

type runner struct {
	logE        *logrus.Entry
	globalFlags *flag.GlobalFlags
}

func New(logE *logrus.Entry, globalFlags *flag.GlobalFlags) *cli.Command {
	r := &runner{
		logE:        logE,
		globalFlags: globalFlags,
	}
	return r.Command()
}

func (r *runner) Command() *cli.Command {
	flags := &Flags{}
	return &cli.Command{
		Name:  "create-prs",
		Usage: "Create draft pull requests updating outdated actions",
		Description: `Fork every repository with outdated actions, rewrite its workflows, and create a draft pull request.
A repository is never processed again once a pull request was created, the change was empty,
an open pull request already covered the change, or the creation was declined.

$ actup create-prs

Pin actions to the commit SHAs of their current tags instead of updating them:

$ actup create-prs --pin-to-sha

Show the changes without pushing them:

$ actup create-prs --dry-run
`,
		Action: func(ctx context.Context, c *cli.Command) error {
			return r.action(ctx, flags, int(c.Int("limit")))
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "pin-to-sha",
				Usage:       "Pin actions to commit SHAs instead of updating them to the latest major version",
				Destination: &flags.PinToSHA,
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "Create pull requests without confirmation",
				Destination: &flags.Yes,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Stop after rewriting workflows and show the changes",
				Destination: &flags.DryRun,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "The maximum number of repositories to process. 0 means no limit",
			},
		},
	}
}

func (r *runner) action(ctx context.Context, flags *Flags, limit int) error {
	e, err := env.Load(ctx, r.logE, r.globalFlags)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer e.Close(r.logE)
	cfg := e.Config

	gh, token, err := e.GitHub(ctx, r.logE, true)
	if err != nil {
		return err //nolint:wrapcheck
	}
	mentions, err := classify.New(e.Store, policy.Default(), os.Stdout).Eligible(ctx, r.logE)
	if err != nil {
		return err //nolint:wrapcheck
	}

	var merger remediate.TemplateMerger
	if cfg.TemplateMerge.Enabled {
		merger = prtemplate.NewMerger(&http.Client{Timeout: mergeTimeout}, cfg.TemplateMerge.OllamaURL, cfg.TemplateMerge.Model)
	}
	collector := metrics.New()
	ctrl := remediate.New(&remediate.Input{
		Fs:           e.Fs,
		Repositories: gh.Repositories,
		PullRequests: gh.PullRequests,
		Users:        gh.Users,
		Git:          git.New(token),
		Store:        e.Store,
		Tracker:      tracker.New(e.Fs, cfg.TrackerFile),
		Merger:       merger,
		Prompter:     remediate.NewStdinPrompter(os.Stdin, os.Stderr),
		Metrics:      collector,
		Stderr:       os.Stderr,
		Param: &remediate.Param{
			PinToSHA:    flags.PinToSHA,
			Yes:         flags.Yes,
			DryRun:      flags.DryRun,
			Limit:       limit,
			Token:       token,
			Identity:    cfg.GitHub.Identity,
			PRDir:       cfg.PRDir(),
			SettleDelay: cfg.Fork.SettleDelay,
		},
	})
	result, err := ctrl.Run(ctx, r.logE, mentions)
	if cfg.MetricsFile != "" {
		if err := collector.WriteTextfile(cfg.MetricsFile); err != nil {
			logerr.WithError(r.logE, err).Warn("write metrics")
		}
	}
	if result != nil {
		for outcome, n := range result.Outcomes {
			fmt.Fprintf(os.Stderr, "%s: %d\n", outcome, n)
		}
	}
	return err //nolint:wrapcheck
}
