package scan

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actup/pkg/store"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
	"golang.org/x/sync/errgroup"
)

const sparseDir = ".github"

type FetchResult struct {
	Fetched int
	Failed  int
}

// Fetch sparse clones the .github directory of every repository in parallel.
// A repository that can't be cloned is logged and skipped.
func (c *Controller) Fetch(ctx context.Context, logE *logrus.Entry) (*FetchResult, error) {
	repos, err := c.store.Repositories(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if len(repos) == 0 {
		return nil, ErrNoRepositories
	}
	if err := c.fs.MkdirAll(c.param.CheckoutDir, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("create a directory for checkouts: %w", err)
	}

	var fetched, failed atomic.Int64
	eg := &errgroup.Group{}
	eg.SetLimit(c.param.Concurrency)
	for _, repo := range repos {
		eg.Go(func() error {
			logE := logE.WithField("repo", repo.FullName)
			if err := c.fetch(ctx, logE, repo); err != nil {
				logerr.WithError(logE, err).Warn("fetch a repository")
				failed.Add(1)
				return nil
			}
			fetched.Add(1)
			return nil
		})
	}
	_ = eg.Wait()

	result := &FetchResult{
		Fetched: int(fetched.Load()),
		Failed:  int(failed.Load()),
	}
	logE.WithFields(logrus.Fields{
		"fetched": result.Fetched,
		"failed":  result.Failed,
	}).Info("fetched repositories")
	return result, nil
}

func cloneURL(repo *store.Repository) string {
	if repo.CloneURL != "" {
		return repo.CloneURL
	}
	return "https://github.com/" + repo.FullName + ".git"
}

func (c *Controller) fetch(ctx context.Context, logE *logrus.Entry, repo *store.Repository) error {
	dir := c.CheckoutPath(repo.FullName)
	logE.Debug("cloning a repository")
	return c.retrier.Do(ctx, "clone a repository", func() error { //nolint:wrapcheck
		if err := c.fs.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove an old checkout: %w", err)
		}
		if err := c.git.SparseClone(ctx, cloneURL(repo), dir, sparseDir); err != nil {
			return fmt.Errorf("clone a repository: %w", err)
		}
		return nil
	})
}
