package remediate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actup/pkg/github"
	"github.com/suzuki-shunsuke/actup/pkg/metrics"
	"github.com/suzuki-shunsuke/actup/pkg/prtemplate"
	"github.com/suzuki-shunsuke/actup/pkg/store"
	"github.com/suzuki-shunsuke/actup/pkg/tracker"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

const confirmMessage = "Happy for PR to be created (Y/N)?"

type Result struct {
	Outcomes     map[metrics.Outcome]int
	PullRequests []*store.PullRequest
}

type target struct {
	RepoFullName string
	Owner        string
	Repo         string
	Mentions     []*store.Mention
}

// group groups mentions by repository, keeping the order in which repositories first appear.
func group(mentions []*store.Mention) []*target {
	var targets []*target
	m := map[string]*target{}
	for _, mention := range mentions {
		t, ok := m[mention.RepoFullName]
		if !ok {
			owner, repo, _ := strings.Cut(mention.RepoFullName, "/")
			t = &target{
				RepoFullName: mention.RepoFullName,
				Owner:        owner,
				Repo:         repo,
			}
			m[mention.RepoFullName] = t
			targets = append(targets, t)
		}
		t.Mentions = append(t.Mentions, mention)
	}
	return targets
}

// Run remediates repositories one by one.
// A failure in a repository is logged and the next repository is processed.
// Failing to write the exclusion ledger or the pull request record stops the run.
// No mentions is a normal state once every outdated repository has been handled.
func (c *Controller) Run(ctx context.Context, logE *logrus.Entry, mentions []*store.Mention) (*Result, error) {
	result := &Result{
		Outcomes: map[metrics.Outcome]int{},
	}
	if len(mentions) == 0 {
		logE.Info("no eligible mentions")
		return result, nil
	}
	strategy := NewStrategy(c.param.PinToSHA)
	logE = logE.WithField("strategy", strategy.String())

	login, err := c.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	identity := c.param.Identity
	if identity == "" {
		identity = login
	}

	targets := group(mentions)
	if c.param.Limit > 0 && len(targets) > c.param.Limit {
		targets = targets[:c.param.Limit]
	}
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return result, err //nolint:wrapcheck
		}
		logE := logE.WithField("repo", t.RepoFullName)
		outcome, pr, err := c.remediate(ctx, logE, t, strategy, login, identity)
		if err != nil {
			logerr.WithError(logE, err).Error("remediate a repository")
			outcome = metrics.OutcomeFailed
		}
		if err := c.settle(ctx, logE, t, outcome, pr); err != nil {
			return result, err
		}
		result.Outcomes[outcome]++
		if pr != nil {
			result.PullRequests = append(result.PullRequests, pr)
		}
		if c.metrics != nil {
			c.metrics.Observe(outcome)
		}
	}
	return result, nil
}

func (c *Controller) currentUser(ctx context.Context) (string, error) {
	user, _, err := c.users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("get the authenticated user: %w", err)
	}
	login := user.GetLogin()
	if login == "" {
		return "", errors.New("the login of the authenticated user is empty")
	}
	return login, nil
}

// settle writes the ledgers for the outcome of a repository.
func (c *Controller) settle(ctx context.Context, logE *logrus.Entry, t *target, outcome metrics.Outcome, pr *store.PullRequest) error {
	switch outcome {
	case metrics.OutcomeFailed, metrics.OutcomeDryRun:
		return nil
	case metrics.OutcomeCreated:
		if err := c.store.UpsertPullRequest(ctx, pr); err != nil {
			return fmt.Errorf("record a pull request: %w", err)
		}
		if err := c.tracker.Append(&tracker.Entry{
			Date:         pr.CreatedAt,
			RepoFullName: pr.RepoFullName,
			URL:          pr.URL,
			Status:       pr.Status,
		}); err != nil {
			return fmt.Errorf("append a pull request to the tracker: %w", err)
		}
	}
	if err := c.store.Exclude(ctx, t.RepoFullName); err != nil {
		return fmt.Errorf("exclude a repository: %w", err)
	}
	logE.WithField("outcome", string(outcome)).Info("excluded the repository from later runs")
	return nil
}

func (c *Controller) remediate(ctx context.Context, logE *logrus.Entry, t *target, strategy Strategy, login, identity string) (metrics.Outcome, *store.PullRequest, error) { //nolint:cyclop,funlen
	logE.WithField("mentions", len(t.Mentions)).Info("processing updates for a repository")
	if t.Owner == "" || t.Repo == "" {
		return "", nil, fmt.Errorf("repository name must be owner/repo: %s", t.RepoFullName)
	}

	defaultBranch, err := c.prepareFork(ctx, logE, t, login)
	if err != nil {
		return "", nil, err
	}

	repoDir := filepath.Join(c.param.PRDir, strings.ReplaceAll(t.RepoFullName, "/", "_"))
	defer func() {
		if err := c.fs.RemoveAll(repoDir); err != nil {
			logerr.WithError(logE, err).Warn("remove a checkout")
		}
	}()
	if err := c.clone(ctx, logE, t, login, repoDir); err != nil {
		return "", nil, err
	}

	branch := strategy.branchPrefix() + "-" + strconv.FormatInt(c.now().Unix(), 10)
	if err := c.git.CheckoutNewBranch(ctx, repoDir, branch); err != nil {
		return "", nil, fmt.Errorf("create a branch: %w", err)
	}

	rewritten, err := rewrite(c.fs, repoDir, t.Mentions, strategy)
	if err != nil {
		return "", nil, err
	}
	for _, change := range rewritten.Changes {
		c.logger.Diff(t.RepoFullName, change)
	}
	if len(rewritten.Files) == 0 {
		logE.Info("no files changed")
		return metrics.OutcomeNoChange, nil, nil
	}
	if c.param.DryRun {
		logE.WithField("files", len(rewritten.Files)).Info("dry run: stop before pushing changes")
		return metrics.OutcomeDryRun, nil, nil
	}

	if err := c.git.Add(ctx, repoDir, rewritten.Files...); err != nil {
		return "", nil, fmt.Errorf("stage changes: %w", err)
	}
	if err := c.git.Commit(ctx, repoDir, strategy.commitMessage()); err != nil {
		return "", nil, fmt.Errorf("commit changes: %w", err)
	}
	logE.WithField("branch", branch).Info("pushing a branch")
	if err := c.git.Push(ctx, repoDir, branch); err != nil {
		return "", nil, fmt.Errorf("push a branch: %w", err)
	}

	title := strategy.title(t.Mentions)
	body := strategy.body(t.Mentions)
	logE.WithField("url", fmt.Sprintf("https://github.com/%s/compare/%s...%s:%s:%s?expand=1",
		t.RepoFullName, defaultBranch, login, t.Repo, branch)).Info("check the pull request before creation")

	prs, err := c.listWorkflowPRs(ctx, t.Owner, t.Repo)
	if err != nil {
		return "", nil, err
	}
	if pr := c.findConflict(logE, prs, strategy, identity); pr != nil {
		logE.WithFields(logrus.Fields{
			"pr_url":   pr.GetHTMLURL(),
			"pr_title": pr.GetTitle(),
		}).Info("an open pull request already covers the change, so no pull request is created")
		return metrics.OutcomeExistingPR, nil, nil
	}

	body = c.mergeTemplate(ctx, logE, repoDir, body)

	if !c.param.Yes {
		ok, err := c.prompter.Confirm(confirmMessage)
		if err != nil {
			return "", nil, fmt.Errorf("confirm the creation of a pull request: %w", err)
		}
		if !ok {
			logE.Info("the creation of the pull request was declined")
			return metrics.OutcomeDeclined, nil, nil
		}
	}

	created, _, err := c.pullRequests.Create(ctx, t.Owner, t.Repo, &github.NewPullRequest{
		Title: github.Ptr(title),
		Body:  github.Ptr(body),
		Head:  github.Ptr(login + ":" + branch),
		Base:  github.Ptr(defaultBranch),
		Draft: github.Ptr(true),
	})
	if err != nil {
		return "", nil, fmt.Errorf("create a pull request: %w", err)
	}
	logE.WithField("pr_url", created.GetHTMLURL()).Info("created a draft pull request")
	return metrics.OutcomeCreated, &store.PullRequest{
		URL:          created.GetHTMLURL(),
		RepoFullName: t.RepoFullName,
		BranchName:   branch,
		CreatedAt:    c.now(),
		Status:       created.GetState(),
	}, nil
}

// prepareFork forks a repository and syncs the fork with the upstream.
// It returns the default branch of the upstream.
func (c *Controller) prepareFork(ctx context.Context, logE *logrus.Entry, t *target, login string) (string, error) {
	upstream, _, err := c.repositories.Get(ctx, t.Owner, t.Repo)
	if err != nil {
		return "", fmt.Errorf("get a repository: %w", err)
	}
	defaultBranch := upstream.GetDefaultBranch()
	if defaultBranch == "" {
		defaultBranch = "main"
	}

	logE.Info("forking a repository")
	if _, _, err := c.repositories.CreateFork(ctx, t.Owner, t.Repo, &github.RepositoryCreateForkOptions{}); err != nil {
		logerr.WithError(logE, err).Info("the fork already exists or can't be created, proceeding")
	}
	if err := wait(ctx, c.param.SettleDelay); err != nil {
		return "", err
	}
	if _, _, err := c.repositories.MergeUpstream(ctx, login, t.Repo, &github.RepoMergeUpstreamRequest{
		Branch: github.Ptr(defaultBranch),
	}); err != nil {
		logerr.WithError(logE, err).Warn("sync a fork with the upstream")
	}
	return defaultBranch, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	case <-timer.C:
		return nil
	}
}

func (c *Controller) clone(ctx context.Context, logE *logrus.Entry, t *target, login, repoDir string) error {
	if err := c.fs.RemoveAll(repoDir); err != nil {
		return fmt.Errorf("remove an old checkout: %w", err)
	}
	url := fmt.Sprintf("https://github.com/%s/%s.git", login, t.Repo)
	if c.param.Token != "" {
		url = fmt.Sprintf("https://x-access-token:%s@github.com/%s/%s.git", c.param.Token, login, t.Repo)
	}
	logE.WithField("fork", login+"/"+t.Repo).Info("cloning a fork")
	if err := c.git.ShallowClone(ctx, url, repoDir); err != nil {
		return fmt.Errorf("clone a fork: %w", err)
	}
	return nil
}

// mergeTemplate fills the pull request template of the repository with body.
// body is returned as is if there is no template or the merge fails.
func (c *Controller) mergeTemplate(ctx context.Context, logE *logrus.Entry, repoDir, body string) string {
	if c.merger == nil {
		return body
	}
	tpl, err := prtemplate.Find(c.fs, repoDir)
	if err != nil {
		logerr.WithError(logE, err).Warn("find a pull request template")
		return body
	}
	if tpl == "" {
		return body
	}
	logE.Info("found a pull request template, merging changes into the template")
	merged, err := c.merger.Merge(ctx, body, tpl)
	if err != nil {
		logerr.WithError(logE, err).Warn("merge the pull request body into the template")
		return body
	}
	logE.WithField("body", merged).Info("the pull request body was merged into the template")
	return merged
}
