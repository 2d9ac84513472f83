// Package classify joins usage records with the release catalog and the tag index,
// persists the classified mentions, and selects the mentions eligible for remediation.
package classify

import (
	"context"
	"errors"
	"io"

	"github.com/suzuki-shunsuke/actup/pkg/policy"
	"github.com/suzuki-shunsuke/actup/pkg/store"
)

var (
	ErrNoActions     = errors.New("no actions are registered. Run `actup catalog import` first")
	ErrNoUsedActions = errors.New("no used actions are found. Run `actup scan-repos` first")
)

type Store interface {
	Actions(ctx context.Context) ([]*store.Action, error)
	ActionTags(ctx context.Context) ([]*store.ActionTag, error)
	Repositories(ctx context.Context) ([]*store.Repository, error)
	UsedActions(ctx context.Context) ([]*store.UsedAction, error)
	UpsertMentions(ctx context.Context, mentions []*store.Mention) error
	OutdatedMentions(ctx context.Context) ([]*store.Mention, error)
	Exclusions(ctx context.Context) (map[string]struct{}, error)
}

type Controller struct {
	store  Store
	policy *policy.Policy
	stdout io.Writer
}

func New(st Store, pol *policy.Policy, stdout io.Writer) *Controller {
	return &Controller{
		store:  st,
		policy: pol,
		stdout: stdout,
	}
}
