package tagresolve

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actup/pkg/controller/classify"
	"github.com/suzuki-shunsuke/actup/pkg/github"
	"github.com/suzuki-shunsuke/actup/pkg/store"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

type Result struct {
	Resolved int
	Skipped  int
	Failed   int
}

// Resolve indexes the tags of every catalog action that has no tag row yet.
// A failure on one action is logged and doesn't stop the others.
func (c *Controller) Resolve(ctx context.Context, logE *logrus.Entry) (*Result, error) {
	actions, err := c.store.Actions(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if len(actions) == 0 {
		return nil, ErrNoActions
	}
	result := &Result{}
	for _, action := range actions {
		if err := ctx.Err(); err != nil {
			return result, err //nolint:wrapcheck
		}
		logE := logE.WithField("action", action.Name)
		resolved, err := c.store.HasActionTags(ctx, action.Name)
		if err != nil {
			return result, err //nolint:wrapcheck
		}
		if resolved {
			logE.Debug("skip the action because its tags were already resolved")
			result.Skipped++
			continue
		}
		if err := c.resolve(ctx, logE, action); err != nil {
			logerr.WithError(logE, err).Warn("resolve tags of an action")
			result.Failed++
			continue
		}
		result.Resolved++
	}
	logE.WithFields(logrus.Fields{
		"resolved": result.Resolved,
		"skipped":  result.Skipped,
		"failed":   result.Failed,
	}).Info("resolved commit SHAs of action tags")
	return result, nil
}

func (c *Controller) resolve(ctx context.Context, logE *logrus.Entry, action *store.Action) error {
	owner, repo, ok := strings.Cut(action.Name, "/")
	if !ok {
		return fmt.Errorf("action name must be owner/repo: %s", action.Name)
	}
	if action.Owner != "" && action.Repo != "" {
		owner, repo = action.Owner, action.Repo
	}
	tags, err := c.listTags(ctx, owner, repo)
	if err != nil {
		return err
	}
	rows := make([]*store.ActionTag, 0, len(tags))
	for _, tag := range tags {
		name := tag.GetName()
		sha := tag.GetCommit().GetSHA()
		if name == "" || sha == "" {
			continue
		}
		rows = append(rows, &store.ActionTag{Action: action.Name, Tag: name, CommitSHA: sha})
	}
	if updated := fillLatest(action, rows); updated {
		action.CheckedAt = time.Now()
		if err := c.store.UpsertActions(ctx, []*store.Action{action}); err != nil {
			return fmt.Errorf("update the latest version: %w", err)
		}
		logE.WithField("latest_version", action.LatestVersion).Info("updated the latest version from tags")
	}
	if err := c.store.UpsertActionTags(ctx, rows); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	logE.WithField("tags", len(rows)).Debug("resolved tags")
	return nil
}

func (c *Controller) listTags(ctx context.Context, owner, repo string) ([]*github.RepositoryTag, error) {
	opts := &github.ListOptions{
		PerPage: 100, //nolint:mnd
	}
	var all []*github.RepositoryTag
	for {
		tags, resp, err := c.repositoriesService.ListTags(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list tags: %w", err)
		}
		all = append(all, tags...)
		if resp == nil || resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
}

// fillLatest sets the latest version, major version and commit of action from tags
// if they are unknown. It reports whether action was changed.
func fillLatest(action *store.Action, tags []*store.ActionTag) bool {
	updated := false
	if action.LatestVersion == "" {
		latest := latestTag(tags)
		if latest == "" {
			return false
		}
		action.LatestVersion = latest
		action.LatestMajorVersion = classify.ExtractMajorVersion(latest)
		updated = true
	}
	if action.LatestCommitSHA != nil {
		return updated
	}
	for _, tag := range tags {
		if tag.Tag == action.LatestVersion {
			sha := tag.CommitSHA
			action.LatestCommitSHA = &sha
			return true
		}
	}
	return updated
}

// latestTag returns the greatest tag parsed as a version, preferring stable versions.
// Tags that aren't versions are ignored.
func latestTag(tags []*store.ActionTag) string {
	var stable, pre *version.Version
	for _, tag := range tags {
		v, err := version.NewVersion(tag.Tag)
		if err != nil {
			continue
		}
		if v.Prerelease() != "" {
			if pre == nil || v.GreaterThan(pre) {
				pre = v
			}
			continue
		}
		if stable == nil || v.GreaterThan(stable) {
			stable = v
		}
	}
	if stable != nil {
		return stable.Original()
	}
	if pre != nil {
		return pre.Original()
	}
	return ""
}
