package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actup/pkg/store"
)

type Result struct {
	Mentions int
	Outdated int
}

type tagKey struct {
	action string
	tag    string
}

// Classify classifies every used action and persists the mentions.
func (c *Controller) Classify(ctx context.Context, logE *logrus.Entry) (*Result, error) {
	actions, err := c.store.Actions(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if len(actions) == 0 {
		return nil, ErrNoActions
	}
	rows, err := c.store.UsedActions(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if len(rows) == 0 {
		return nil, ErrNoUsedActions
	}
	tags, err := c.store.ActionTags(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	repos, err := c.store.Repositories(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	stars := make(map[string]int, len(repos))
	for _, repo := range repos {
		stars[repo.FullName] = repo.Stars
	}
	mentions := Classify(rows, actions, tags, stars)
	if err := c.store.UpsertMentions(ctx, mentions); err != nil {
		return nil, fmt.Errorf("save mentions: %w", err)
	}
	result := &Result{Mentions: len(mentions)}
	for _, m := range mentions {
		if m.IsOutdated {
			result.Outdated++
		}
	}
	logE.WithFields(logrus.Fields{
		"mentions": result.Mentions,
		"outdated": result.Outdated,
	}).Info("classified used actions")
	return result, nil
}

// Classify returns a mention for each usage record referencing a catalog action by a version tag.
// Records without a resolved line, records whose ref doesn't start with v, and
// actions whose latest major version is unknown are skipped.
// The latest version of a mention is the latest major version of the action, and
// the commit SHA is the commit of the tag the repository uses.
func Classify(rows []*store.UsedAction, actions []*store.Action, tags []*store.ActionTag, stars map[string]int) []*store.Mention {
	latest := make(map[string]string, len(actions))
	for _, action := range actions {
		if action.LatestMajorVersion == nil {
			continue
		}
		latest[action.Name] = *action.LatestMajorVersion
	}
	shas := make(map[tagKey]string, len(tags))
	for _, tag := range tags {
		shas[tagKey{action: tag.Action, tag: tag.Tag}] = tag.CommitSHA
	}
	type mentionKey struct {
		repo string
		file string
		line int
	}
	seen := map[mentionKey]struct{}{}
	mentions := []*store.Mention{}
	for _, row := range rows {
		if row.LineNumber == -1 || !strings.HasPrefix(row.ActionVersion, "v") {
			continue
		}
		latestVersion, ok := latest[row.ActionName]
		if !ok {
			continue
		}
		key := mentionKey{repo: row.RepoFullName, file: row.FilePath, line: row.LineNumber}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		m := &store.Mention{
			RepoFullName:    row.RepoFullName,
			FilePath:        row.FilePath,
			LineNumber:      row.LineNumber,
			Action:          row.ActionName,
			DetectedVersion: row.ActionVersion,
			LatestVersion:   latestVersion,
			IsOutdated:      IsOutdated(row.ActionVersion, latestVersion),
			Stars:           stars[row.RepoFullName],
		}
		if sha, ok := shas[tagKey{action: row.ActionName, tag: row.ActionVersion}]; ok {
			m.CommitSHA = &sha
		}
		mentions = append(mentions, m)
	}
	return mentions
}
