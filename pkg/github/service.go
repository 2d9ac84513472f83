package github

import (
	"context"
)

type RepositoriesService interface {
	Get(ctx context.Context, owner, repo string) (*Repository, *Response, error)
	CreateFork(ctx context.Context, owner, repo string, opts *RepositoryCreateForkOptions) (*Repository, *Response, error)
	MergeUpstream(ctx context.Context, owner, repo string, request *RepoMergeUpstreamRequest) (*RepoMergeUpstreamResult, *Response, error)
	ListTags(ctx context.Context, owner, repo string, opts *ListOptions) ([]*RepositoryTag, *Response, error)
}

type PullRequestsService interface {
	List(ctx context.Context, owner, repo string, opts *PullRequestListOptions) ([]*PullRequest, *Response, error)
	ListFiles(ctx context.Context, owner, repo string, number int, opts *ListOptions) ([]*CommitFile, *Response, error)
	Get(ctx context.Context, owner, repo string, number int) (*PullRequest, *Response, error)
	Create(ctx context.Context, owner, repo string, pull *NewPullRequest) (*PullRequest, *Response, error)
}

type UsersService interface {
	Get(ctx context.Context, user string) (*User, *Response, error)
}

// RepositoriesServiceImpl retries calls to RepositoriesService.
type RepositoriesServiceImpl struct {
	RepositoriesService RepositoriesService
	Retrier             *Retrier
}

func (r *RepositoriesServiceImpl) Get(ctx context.Context, owner, repo string) (*Repository, *Response, error) {
	return retry(ctx, r.Retrier, "get a repository", func() (*Repository, *Response, error) {
		return r.RepositoriesService.Get(ctx, owner, repo)
	})
}

// CreateFork is retried because creating an existing fork returns the fork.
func (r *RepositoriesServiceImpl) CreateFork(ctx context.Context, owner, repo string, opts *RepositoryCreateForkOptions) (*Repository, *Response, error) {
	return retry(ctx, r.Retrier, "create a fork", func() (*Repository, *Response, error) {
		return r.RepositoriesService.CreateFork(ctx, owner, repo, opts)
	})
}

func (r *RepositoriesServiceImpl) MergeUpstream(ctx context.Context, owner, repo string, request *RepoMergeUpstreamRequest) (*RepoMergeUpstreamResult, *Response, error) {
	return retry(ctx, r.Retrier, "sync a fork", func() (*RepoMergeUpstreamResult, *Response, error) {
		return r.RepositoriesService.MergeUpstream(ctx, owner, repo, request)
	})
}

func (r *RepositoriesServiceImpl) ListTags(ctx context.Context, owner, repo string, opts *ListOptions) ([]*RepositoryTag, *Response, error) {
	return retry(ctx, r.Retrier, "list tags", func() ([]*RepositoryTag, *Response, error) {
		return r.RepositoriesService.ListTags(ctx, owner, repo, opts)
	})
}

// PullRequestsServiceImpl retries calls to PullRequestsService except Create.
type PullRequestsServiceImpl struct {
	PullRequestsService PullRequestsService
	Retrier             *Retrier
}

func (p *PullRequestsServiceImpl) List(ctx context.Context, owner, repo string, opts *PullRequestListOptions) ([]*PullRequest, *Response, error) {
	return retry(ctx, p.Retrier, "list pull requests", func() ([]*PullRequest, *Response, error) {
		return p.PullRequestsService.List(ctx, owner, repo, opts)
	})
}

func (p *PullRequestsServiceImpl) ListFiles(ctx context.Context, owner, repo string, number int, opts *ListOptions) ([]*CommitFile, *Response, error) {
	return retry(ctx, p.Retrier, "list files of a pull request", func() ([]*CommitFile, *Response, error) {
		return p.PullRequestsService.ListFiles(ctx, owner, repo, number, opts)
	})
}

func (p *PullRequestsServiceImpl) Get(ctx context.Context, owner, repo string, number int) (*PullRequest, *Response, error) {
	return retry(ctx, p.Retrier, "get a pull request", func() (*PullRequest, *Response, error) {
		return p.PullRequestsService.Get(ctx, owner, repo, number)
	})
}

// Create isn't retried. A retried request could open a second pull request.
func (p *PullRequestsServiceImpl) Create(ctx context.Context, owner, repo string, pull *NewPullRequest) (*PullRequest, *Response, error) {
	return p.PullRequestsService.Create(ctx, owner, repo, pull) //nolint:wrapcheck
}

type UsersServiceImpl struct {
	UsersService UsersService
	Retrier      *Retrier
}

func (u *UsersServiceImpl) Get(ctx context.Context, user string) (*User, *Response, error) {
	return retry(ctx, u.Retrier, "get a user", func() (*User, *Response, error) {
		return u.UsersService.Get(ctx, user)
	})
}

// Services bundles the retrying services of a client.
type Services struct {
	Repositories *RepositoriesServiceImpl
	PullRequests *PullRequestsServiceImpl
	Users        *UsersServiceImpl
}

func NewServices(client *Client, retrier *Retrier) *Services {
	return &Services{
		Repositories: &RepositoriesServiceImpl{RepositoriesService: client.Repositories, Retrier: retrier},
		PullRequests: &PullRequestsServiceImpl{PullRequestsService: client.PullRequests, Retrier: retrier},
		Users:        &UsersServiceImpl{UsersService: client.Users, Retrier: retrier},
	}
}
