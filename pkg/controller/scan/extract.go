package scan

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/actup/pkg/store"
	"github.com/suzuki-shunsuke/actup/pkg/usage"
	"github.com/suzuki-shunsuke/actup/pkg/workflow"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
	"golang.org/x/sync/errgroup"
)

type ExtractResult struct {
	Scanned    int
	Missing    int
	Failed     int
	UsedAction int
}

// Extract scans the checkout of every repository in parallel and writes a usage batch per repository.
// Then every batch is loaded into the used_actions table, replacing its rows.
func (c *Controller) Extract(ctx context.Context, logE *logrus.Entry) (*ExtractResult, error) {
	repos, err := c.checkPreconditions(ctx)
	if err != nil {
		return nil, err
	}

	extractor := workflow.NewExtractor(c.fs)
	batches := usage.NewStore(c.fs, c.param.UsageDir)
	var scanned, missing, failed atomic.Int64
	eg := &errgroup.Group{}
	eg.SetLimit(c.param.Concurrency)
	for _, repo := range repos {
		eg.Go(func() error {
			logE := logE.WithField("repo", repo.FullName)
			dir := c.CheckoutPath(repo.FullName)
			f, err := afero.DirExists(c.fs, dir)
			if err != nil {
				logerr.WithError(logE, err).Warn("check if a checkout exists")
				failed.Add(1)
				return nil
			}
			if !f {
				logE.WithField("dir", dir).Warn("the checkout doesn't exist")
				missing.Add(1)
				return nil
			}
			if err := extractRepo(logE, extractor, batches, repo.FullName, dir); err != nil {
				logerr.WithError(logE, err).Warn("scan a repository")
				failed.Add(1)
				return nil
			}
			scanned.Add(1)
			return nil
		})
	}
	_ = eg.Wait()

	records, err := batches.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read usage batches: %w", err)
	}
	rows := usedActions(records)
	if err := c.store.ReplaceUsedActions(ctx, rows); err != nil {
		return nil, fmt.Errorf("save used actions: %w", err)
	}

	result := &ExtractResult{
		Scanned:    int(scanned.Load()),
		Missing:    int(missing.Load()),
		Failed:     int(failed.Load()),
		UsedAction: len(rows),
	}
	logE.WithFields(logrus.Fields{
		"scanned":      result.Scanned,
		"missing":      result.Missing,
		"failed":       result.Failed,
		"used_actions": result.UsedAction,
	}).Info("scanned repositories")
	return result, nil
}

func (c *Controller) checkPreconditions(ctx context.Context) ([]*store.Repository, error) {
	actions, err := c.store.Actions(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if len(actions) == 0 {
		return nil, ErrNoActions
	}
	repos, err := c.store.Repositories(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if len(repos) == 0 {
		return nil, ErrNoRepositories
	}
	f, err := afero.DirExists(c.fs, c.param.CheckoutDir)
	if err != nil {
		return nil, fmt.Errorf("check if the checkout directory exists: %w", err)
	}
	if !f {
		return nil, ErrNoCheckouts
	}
	return repos, nil
}

func extractRepo(logE *logrus.Entry, extractor *workflow.Extractor, batches *usage.Store, repoFullName, dir string) error {
	refs, err := workflow.Collect(extractor.References(logE, dir))
	if err != nil {
		return fmt.Errorf("extract action references: %w", err)
	}
	if err := batches.Write(repoFullName, usage.NewRecords(repoFullName, refs)); err != nil {
		return fmt.Errorf("write a usage batch: %w", err)
	}
	logE.WithField("references", len(refs)).Debug("scanned a repository")
	return nil
}

func usedActions(records []*usage.Record) []*store.UsedAction {
	rows := make([]*store.UsedAction, len(records))
	for i, r := range records {
		rows[i] = &store.UsedAction{
			RepoFullName:  r.RepoFullName,
			FilePath:      r.FilePath,
			LineNumber:    r.LineNumber,
			ActionName:    r.ActionName,
			ActionRaw:     r.ActionRaw,
			ActionVersion: r.ActionVersion,
		}
	}
	return rows
}
