package report

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actup/pkg/github"
	"github.com/suzuki-shunsuke/actup/pkg/tracker"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
	StatusMerged = "merged"
)

type pullRequestRef struct {
	Owner  string
	Repo   string
	Number int
}

// parseURL parses a pull request URL like https://github.com/owner/repo/pull/1.
func parseURL(s string) (*pullRequestRef, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parse a pull request URL: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 4 || parts[2] != "pull" { //nolint:mnd
		return nil, logerr.WithFields(errInvalidURL, logrus.Fields{"pr_url": s}) //nolint:wrapcheck
	}
	number, err := strconv.Atoi(parts[3])
	if err != nil {
		return nil, fmt.Errorf("parse a pull request number: %w", err)
	}
	return &pullRequestRef{Owner: parts[0], Repo: parts[1], Number: number}, nil
}

func status(pr *github.PullRequest) string {
	if pr.GetMerged() || pr.MergedAt != nil {
		return StatusMerged
	}
	if pr.GetState() == StatusClosed {
		return StatusClosed
	}
	return StatusOpen
}

// Report fetches every recorded pull request and updates its status.
// Pull requests that can't be fetched keep their status.
// Failing to save a status stops the report.
// Then the table of all pull requests is written to stdout.
func (c *Controller) Report(ctx context.Context, logE *logrus.Entry) error {
	prs, err := c.store.PullRequests(ctx)
	if err != nil {
		return err //nolint:wrapcheck
	}
	entries := make([]*tracker.Entry, 0, len(prs))
	for _, pr := range prs {
		logE := logE.WithField("pr_url", pr.URL)
		s, err := c.fetchStatus(ctx, pr.URL)
		if err != nil {
			logerr.WithError(logE, err).Warn("get the status of a pull request")
		} else if s != pr.Status {
			logE.WithFields(logrus.Fields{
				"old_status": pr.Status,
				"new_status": s,
			}).Info("the status of a pull request was changed")
			pr.Status = s
			if err := c.store.UpsertPullRequest(ctx, pr); err != nil {
				return fmt.Errorf("save the status of a pull request: %w", err)
			}
		}
		entries = append(entries, &tracker.Entry{
			Date:         pr.CreatedAt,
			RepoFullName: pr.RepoFullName,
			URL:          pr.URL,
			Status:       pr.Status,
		})
	}
	return tracker.Render(c.stdout, entries) //nolint:wrapcheck
}

func (c *Controller) fetchStatus(ctx context.Context, prURL string) (string, error) {
	ref, err := parseURL(prURL)
	if err != nil {
		return "", err
	}
	remote, _, err := c.pullRequests.Get(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return "", fmt.Errorf("get a pull request: %w", err)
	}
	return status(remote), nil
}
