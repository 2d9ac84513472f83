package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actup/pkg/controller/classify"
	"github.com/suzuki-shunsuke/actup/pkg/store"
	"gopkg.in/yaml.v3"
)

// ActionEntry is an element of a catalog file.
type ActionEntry struct {
	Name          string `yaml:"name"`
	Stars         int    `yaml:"stars"`
	LatestVersion string `yaml:"latest_version"`
}

// RepositoryEntry is an element of a repository list file.
type RepositoryEntry struct {
	FullName string `yaml:"full_name"`
	CloneURL string `yaml:"clone_url"`
	Stars    int    `yaml:"stars"`
	Archived bool   `yaml:"archived"`
	Fork     bool   `yaml:"fork"`
}

func (c *Controller) readList(path string, dest any) error {
	f, err := c.fs.Open(path)
	if err != nil {
		return fmt.Errorf("open a file: %w", err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(dest); err != nil {
		return fmt.Errorf("decode a file as YAML: %w", err)
	}
	return nil
}

func splitName(name string) (string, string, bool) {
	owner, repo, ok := strings.Cut(name, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", false
	}
	return owner, repo, true
}

// ImportActions upserts the catalog entries in path and returns the number of imported entries.
// The latest major version is derived from the latest version.
// Entries whose name isn't owner/repo are skipped.
func (c *Controller) ImportActions(ctx context.Context, logE *logrus.Entry, path string) (int, error) {
	var entries []*ActionEntry
	if err := c.readList(path, &entries); err != nil {
		return 0, err
	}
	now := c.now()
	actions := make([]*store.Action, 0, len(entries))
	for _, entry := range entries {
		owner, repo, ok := splitName(entry.Name)
		if !ok {
			logE.WithField("action", entry.Name).Warn("skip an action because its name isn't owner/repo")
			continue
		}
		major := classify.ExtractMajorVersion(entry.LatestVersion)
		if major == nil && entry.LatestVersion != "" {
			logE.WithFields(logrus.Fields{
				"action":         entry.Name,
				"latest_version": entry.LatestVersion,
			}).Warn("the latest version isn't a semantic version, so the action is never classified")
		}
		actions = append(actions, &store.Action{
			Name:               entry.Name,
			Owner:              owner,
			Repo:               repo,
			Stars:              entry.Stars,
			LatestVersion:      entry.LatestVersion,
			LatestMajorVersion: major,
			CheckedAt:          now,
		})
	}
	if err := c.store.UpsertActions(ctx, actions); err != nil {
		return 0, fmt.Errorf("save actions: %w", err)
	}
	logE.WithField("actions", len(actions)).Info("imported actions")
	return len(actions), nil
}

// ImportRepositories upserts the repositories in path and returns the number of imported repositories.
// Archived and forked repositories are skipped.
func (c *Controller) ImportRepositories(ctx context.Context, logE *logrus.Entry, path string) (int, error) {
	var entries []*RepositoryEntry
	if err := c.readList(path, &entries); err != nil {
		return 0, err
	}
	now := c.now()
	repos := make([]*store.Repository, 0, len(entries))
	for _, entry := range entries {
		logE := logE.WithField("repo", entry.FullName)
		if _, _, ok := splitName(entry.FullName); !ok {
			logE.Warn("skip a repository because its name isn't owner/repo")
			continue
		}
		if entry.Archived || entry.Fork {
			logE.WithFields(logrus.Fields{
				"archived": entry.Archived,
				"fork":     entry.Fork,
			}).Debug("skip an archived or forked repository")
			continue
		}
		cloneURL := entry.CloneURL
		if cloneURL == "" {
			cloneURL = "https://github.com/" + entry.FullName + ".git"
		}
		repos = append(repos, &store.Repository{
			FullName:  entry.FullName,
			CloneURL:  cloneURL,
			Stars:     entry.Stars,
			CheckedAt: now,
		})
	}
	if err := c.store.UpsertRepositories(ctx, repos); err != nil {
		return 0, fmt.Errorf("save repositories: %w", err)
	}
	logE.WithField("repositories", len(repos)).Info("imported repositories")
	return len(repos), nil
}
