// Package remediate forks repositories with outdated actions, rewrites their workflows,
// and opens draft pull requests.
//
// Every repository ends in exactly one outcome. Outcomes other than a failure or a dry run
// exclude the repository from later runs, so a fix is never submitted twice.
package remediate

import (
	"context"
	"io"
	"time"

	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/actup/pkg/github"
	"github.com/suzuki-shunsuke/actup/pkg/metrics"
	"github.com/suzuki-shunsuke/actup/pkg/store"
	"github.com/suzuki-shunsuke/actup/pkg/tracker"
)

type RepositoriesService interface {
	Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error)
	CreateFork(ctx context.Context, owner, repo string, opts *github.RepositoryCreateForkOptions) (*github.Repository, *github.Response, error)
	MergeUpstream(ctx context.Context, owner, repo string, request *github.RepoMergeUpstreamRequest) (*github.RepoMergeUpstreamResult, *github.Response, error)
}

type PullRequestsService interface {
	List(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error)
	ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error)
	Create(ctx context.Context, owner, repo string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error)
}

type UsersService interface {
	Get(ctx context.Context, user string) (*github.User, *github.Response, error)
}

type Git interface {
	ShallowClone(ctx context.Context, url, dir string) error
	CheckoutNewBranch(ctx context.Context, dir, branch string) error
	Add(ctx context.Context, dir string, paths ...string) error
	Commit(ctx context.Context, dir, message string) error
	Push(ctx context.Context, dir, branch string) error
}

type Store interface {
	Exclude(ctx context.Context, repoFullName string) error
	UpsertPullRequest(ctx context.Context, pr *store.PullRequest) error
}

type Tracker interface {
	Append(entry *tracker.Entry) error
}

// TemplateMerger fills a pull request template with a generated body.
type TemplateMerger interface {
	Merge(ctx context.Context, body, template string) (string, error)
}

type Prompter interface {
	Confirm(message string) (bool, error)
}

type Param struct {
	PinToSHA bool
	// Yes skips the confirmation prompt.
	Yes    bool
	DryRun bool
	// Limit caps the number of repositories attempted. Zero means no limit.
	Limit       int
	Token       string
	Identity    string
	PRDir       string
	SettleDelay time.Duration
}

type Controller struct {
	fs           afero.Fs
	repositories RepositoriesService
	pullRequests PullRequestsService
	users        UsersService
	git          Git
	store        Store
	tracker      Tracker
	merger       TemplateMerger
	prompter     Prompter
	metrics      *metrics.Collector
	logger       *Logger
	param        *Param
	now          func() time.Time
}

type Input struct {
	Fs           afero.Fs
	Repositories RepositoriesService
	PullRequests PullRequestsService
	Users        UsersService
	Git          Git
	Store        Store
	Tracker      Tracker
	// Merger is nil if template merging is disabled.
	Merger   TemplateMerger
	Prompter Prompter
	Metrics  *metrics.Collector
	Stderr   io.Writer
	Param    *Param
}

func New(input *Input) *Controller {
	return &Controller{
		fs:           input.Fs,
		repositories: input.Repositories,
		pullRequests: input.PullRequests,
		users:        input.Users,
		git:          input.Git,
		store:        input.Store,
		tracker:      input.Tracker,
		merger:       input.Merger,
		prompter:     input.Prompter,
		metrics:      input.Metrics,
		logger:       NewLogger(input.Stderr),
		param:        input.Param,
		now:          time.Now,
	}
}
