package importer_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/actup/pkg/controller/importer"
	"github.com/suzuki-shunsuke/actup/pkg/store"
)

type fakeStore struct {
	actions []*store.Action
	repos   []*store.Repository
}

func (s *fakeStore) UpsertActions(_ context.Context, actions []*store.Action) error {
	s.actions = actions
	return nil
}

func (s *fakeStore) UpsertRepositories(_ context.Context, repos []*store.Repository) error {
	s.repos = repos
	return nil
}

func strP(s string) *string {
	return &s
}

func TestController_ImportActions(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "actions.yaml", []byte(`- name: actions/checkout
  stars: 7000
  latest_version: v4.2.2
- name: actions/cache
  stars: 4000
  latest_version: nightly
- name: invalid
  stars: 1
`), 0o644); err != nil {
		t.Fatal(err)
	}
	st := &fakeStore{}
	n, err := importer.New(fs, st).ImportActions(t.Context(), logrus.NewEntry(logrus.New()), "actions.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("wanted 2, got %d", n)
	}
	exp := []*store.Action{
		{Name: "actions/checkout", Owner: "actions", Repo: "checkout", Stars: 7000, LatestVersion: "v4.2.2", LatestMajorVersion: strP("v4")},
		{Name: "actions/cache", Owner: "actions", Repo: "cache", Stars: 4000, LatestVersion: "nightly"},
	}
	if diff := cmp.Diff(exp, st.actions, cmpopts.IgnoreFields(store.Action{}, "CheckedAt")); diff != "" {
		t.Fatal(diff)
	}
}

func TestController_ImportRepositories(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "repos.yaml", []byte(`- full_name: foo/app
  clone_url: https://github.com/foo/app.git
  stars: 10
- full_name: foo/old
  archived: true
- full_name: bar/app
  fork: true
- full_name: foo/no-url
  stars: 3
`), 0o644); err != nil {
		t.Fatal(err)
	}
	st := &fakeStore{}
	n, err := importer.New(fs, st).ImportRepositories(t.Context(), logrus.NewEntry(logrus.New()), "repos.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("wanted 2, got %d", n)
	}
	exp := []*store.Repository{
		{FullName: "foo/app", CloneURL: "https://github.com/foo/app.git", Stars: 10},
		{FullName: "foo/no-url", CloneURL: "https://github.com/foo/no-url.git", Stars: 3},
	}
	if diff := cmp.Diff(exp, st.repos, cmpopts.IgnoreFields(store.Repository{}, "CheckedAt")); diff != "" {
		t.Fatal(diff)
	}
}

func TestController_ImportActions_notFound(t *testing.T) {
	t.Parallel()
	if _, err := importer.New(afero.NewMemMapFs(), &fakeStore{}).ImportActions(t.Context(), logrus.NewEntry(logrus.New()), "actions.yaml"); err == nil {
		t.Fatal("error must be returned")
	}
}
