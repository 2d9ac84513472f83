// Package tagresolve indexes the tags of catalog actions and their commit SHAs.
// An action is resolved once. Later runs skip every action that already has a tag row.
package tagresolve

import (
	"context"
	"errors"

	"github.com/suzuki-shunsuke/actup/pkg/github"
	"github.com/suzuki-shunsuke/actup/pkg/store"
)

var ErrNoActions = errors.New("no actions are registered. Run `actup catalog import` first")

type RepositoriesService interface {
	ListTags(ctx context.Context, owner, repo string, opts *github.ListOptions) ([]*github.RepositoryTag, *github.Response, error)
}

type Store interface {
	Actions(ctx context.Context) ([]*store.Action, error)
	UpsertActions(ctx context.Context, actions []*store.Action) error
	HasActionTags(ctx context.Context, action string) (bool, error)
	UpsertActionTags(ctx context.Context, tags []*store.ActionTag) error
}

type Controller struct {
	repositoriesService RepositoriesService
	store               Store
}

func New(repositoriesService RepositoriesService, st Store) *Controller {
	return &Controller{
		repositoriesService: repositoriesService,
		store:               st,
	}
}
