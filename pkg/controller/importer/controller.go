// Package importer loads externally supplied lists of catalog actions and repositories into the store.
package importer

import (
	"context"
	"time"

	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/actup/pkg/store"
)

type Store interface {
	UpsertActions(ctx context.Context, actions []*store.Action) error
	UpsertRepositories(ctx context.Context, repos []*store.Repository) error
}

type Controller struct {
	fs    afero.Fs
	store Store
	now   func() time.Time
}

func New(fs afero.Fs, st Store) *Controller {
	return &Controller{
		fs:    fs,
		store: st,
		now:   time.Now,
	}
}
