// Package github creates the GitHub API client used by actup.
// Tokens are read from an environment variable or, if enabled, the OS keyring.
// Idempotent API calls are retried by the services in service.go.
package github

import (
	"context"
	"net/http"
	"os"

	"github.com/google/go-github/v74/github"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
	"golang.org/x/oauth2"
)

type (
	ListOptions                 = github.ListOptions
	Response                    = github.Response
	Repository                  = github.Repository
	RepositoryTag               = github.RepositoryTag
	Commit                      = github.Commit
	RepositoryCreateForkOptions = github.RepositoryCreateForkOptions
	RepoMergeUpstreamRequest    = github.RepoMergeUpstreamRequest
	RepoMergeUpstreamResult     = github.RepoMergeUpstreamResult
	PullRequest                 = github.PullRequest
	PullRequestListOptions      = github.PullRequestListOptions
	NewPullRequest              = github.NewPullRequest
	CommitFile                  = github.CommitFile
	User                        = github.User
	Client                      = github.Client
	ErrorResponse               = github.ErrorResponse
)

const keyringEnabledEnv = "ACTUP_KEYRING_ENABLED"

// New creates a GitHub API client. If token is empty, requests are unauthenticated.
func New(ctx context.Context, token string) *Client {
	return github.NewClient(getHTTPClientForGitHub(ctx, token))
}

func Ptr[T any](v T) *T {
	return github.Ptr(v)
}

func checkKeyringEnabled() bool {
	return os.Getenv(keyringEnabledEnv) == "true"
}

// GetToken reads a GitHub access token from the environment variable envName.
// If the variable is empty and the keyring is enabled, the token is read from the keyring.
func GetToken(logE *logrus.Entry, envName string) string {
	if token := os.Getenv(envName); token != "" {
		return token
	}
	if !checkKeyringEnabled() {
		return ""
	}
	token, err := NewTokenManager().GetToken()
	if err != nil {
		logerr.WithError(logE, err).Warn("get a GitHub access token from the keyring")
		return ""
	}
	return token
}

func getHTTPClientForGitHub(ctx context.Context, token string) *http.Client {
	if token == "" {
		return http.DefaultClient
	}
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	))
}
