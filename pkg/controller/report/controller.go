// Package report reconciles the status of created pull requests with GitHub.
package report

import (
	"context"
	"io"

	"github.com/suzuki-shunsuke/actup/pkg/github"
	"github.com/suzuki-shunsuke/actup/pkg/store"
)

type PullRequestsService interface {
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
}

type Store interface {
	PullRequests(ctx context.Context) ([]*store.PullRequest, error)
	UpsertPullRequest(ctx context.Context, pr *store.PullRequest) error
}

type Controller struct {
	pullRequests PullRequestsService
	store        Store
	stdout       io.Writer
}

func New(pullRequests PullRequestsService, st Store, stdout io.Writer) *Controller {
	return &Controller{
		pullRequests: pullRequests,
		store:        st,
		stdout:       stdout,
	}
}
