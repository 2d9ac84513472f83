package report_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suzuki-shunsuke/actup/pkg/controller/report"
	"github.com/suzuki-shunsuke/actup/pkg/github"
	"github.com/suzuki-shunsuke/actup/pkg/store"
)

type pullRequestsService struct {
	prs map[string]*github.PullRequest
}

func (p *pullRequestsService) Get(_ context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error) {
	pr, ok := p.prs[fmt.Sprintf("%s/%s#%d", owner, repo, number)]
	if !ok {
		return nil, nil, errors.New("not found")
	}
	return pr, nil, nil
}

func TestController_Report(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	logE := logrus.NewEntry(logrus.New())
	st, err := store.Open(logE, store.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, st.Close())
	})
	require.NoError(t, st.Migrate(ctx))

	created := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	for i, pr := range []*store.PullRequest{
		{URL: "https://github.com/foo/merged/pull/1", RepoFullName: "foo/merged", Status: "open"},
		{URL: "https://github.com/foo/closed/pull/2", RepoFullName: "foo/closed", Status: "open"},
		{URL: "https://github.com/foo/open/pull/3", RepoFullName: "foo/open", Status: "open"},
		{URL: "https://github.com/foo/gone/pull/4", RepoFullName: "foo/gone", Status: "open"},
		{URL: "https://example.com/invalid", RepoFullName: "foo/invalid", Status: "open"},
	} {
		pr.CreatedAt = created.Add(time.Duration(i) * time.Hour)
		pr.BranchName = "actup/update-actions-1741082400"
		require.NoError(t, st.UpsertPullRequest(ctx, pr))
	}
	svc := &pullRequestsService{
		prs: map[string]*github.PullRequest{
			"foo/merged#1": {State: github.Ptr("closed"), Merged: github.Ptr(true)},
			"foo/closed#2": {State: github.Ptr("closed")},
			"foo/open#3":   {State: github.Ptr("open")},
		},
	}
	stdout := &bytes.Buffer{}
	require.NoError(t, report.New(svc, st, stdout).Report(ctx, logE))

	prs, err := st.PullRequests(ctx)
	require.NoError(t, err)
	statuses := map[string]string{}
	for _, pr := range prs {
		statuses[pr.RepoFullName] = pr.Status
	}
	assert.Equal(t, map[string]string{
		"foo/merged":  report.StatusMerged,
		"foo/closed":  report.StatusClosed,
		"foo/open":    report.StatusOpen,
		"foo/gone":    "open",
		"foo/invalid": "open",
	}, statuses)
	assert.Contains(t, stdout.String(), "| 2025-03-04 | foo/merged | [https://github.com/foo/merged/pull/1](https://github.com/foo/merged/pull/1) | merged |\n")
	assert.Contains(t, stdout.String(), "# Pull Request Tracker\n")
}
