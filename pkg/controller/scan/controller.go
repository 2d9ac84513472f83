// Package scan checks out the .github directory of every known repository
// and extracts the action references into usage batches and the used_actions table.
package scan

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/actup/pkg/store"
)

var (
	ErrNoActions      = errors.New("no actions are registered. Run `actup catalog import` first")
	ErrNoRepositories = errors.New("no repositories are registered. Run `actup repos import` first")
	ErrNoCheckouts    = errors.New("no checkouts are found. Run `actup fetch-repos` first")
)

type Store interface {
	Actions(ctx context.Context) ([]*store.Action, error)
	Repositories(ctx context.Context) ([]*store.Repository, error)
	ReplaceUsedActions(ctx context.Context, rows []*store.UsedAction) error
}

type Git interface {
	SparseClone(ctx context.Context, url, dir, sparseDir string) error
}

type Retrier interface {
	Do(ctx context.Context, operation string, fn func() error) error
}

type Param struct {
	CheckoutDir string
	UsageDir    string
	// Concurrency is the number of repositories processed at once.
	// Zero means the number of CPUs.
	Concurrency int
}

type Controller struct {
	fs      afero.Fs
	store   Store
	git     Git
	retrier Retrier
	param   *Param
}

func New(fs afero.Fs, st Store, gitClient Git, retrier Retrier, param *Param) *Controller {
	if param.Concurrency < 1 {
		param.Concurrency = runtime.NumCPU()
	}
	return &Controller{
		fs:      fs,
		store:   st,
		git:     gitClient,
		retrier: retrier,
		param:   param,
	}
}

// CheckoutPath returns the checkout directory of a repository.
func (c *Controller) CheckoutPath(repoFullName string) string {
	return filepath.Join(c.param.CheckoutDir, strings.ReplaceAll(repoFullName, "/", "_"))
}
