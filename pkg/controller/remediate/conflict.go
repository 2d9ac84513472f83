package remediate

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actup/pkg/github"
)

const workflowDir = ".github/workflows"

// listWorkflowPRs returns the open pull requests of a repository that change a workflow file.
func (c *Controller) listWorkflowPRs(ctx context.Context, owner, repo string) ([]*github.PullRequest, error) {
	opts := &github.PullRequestListOptions{
		State: "open",
		ListOptions: github.ListOptions{
			PerPage: 100, //nolint:mnd
		},
	}
	var prs []*github.PullRequest
	for {
		page, resp, err := c.pullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list open pull requests: %w", err)
		}
		for _, pr := range page {
			f, err := c.changesWorkflow(ctx, owner, repo, pr.GetNumber())
			if err != nil {
				return nil, err
			}
			if f {
				prs = append(prs, pr)
			}
		}
		if resp == nil || resp.NextPage == 0 {
			return prs, nil
		}
		opts.Page = resp.NextPage
	}
}

func (c *Controller) changesWorkflow(ctx context.Context, owner, repo string, number int) (bool, error) {
	opts := &github.ListOptions{
		PerPage: 100, //nolint:mnd
	}
	for {
		files, resp, err := c.pullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return false, fmt.Errorf("list files of a pull request #%d: %w", number, err)
		}
		for _, file := range files {
			if strings.HasPrefix(file.GetFilename(), workflowDir+"/") {
				return true, nil
			}
		}
		if resp == nil || resp.NextPage == 0 {
			return false, nil
		}
		opts.Page = resp.NextPage
	}
}

// findConflict returns the first open pull request that already covers the change.
func (c *Controller) findConflict(logE *logrus.Entry, prs []*github.PullRequest, strategy Strategy, identity string) *github.PullRequest {
	if len(prs) > 0 {
		logE.Info("the following pull requests change .github/workflows, please take a look prior to creating a pull request")
		for _, pr := range prs {
			logE.WithFields(logrus.Fields{
				"pr_url":   pr.GetHTMLURL(),
				"pr_title": pr.GetTitle(),
			}).Info("an open pull request changes workflows")
		}
	}
	for _, pr := range prs {
		if strategy.conflicts(pr.GetTitle(), pr.GetUser().GetLogin(), identity) {
			return pr
		}
	}
	return nil
}
