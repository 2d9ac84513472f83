// Package env builds the dependencies shared by actup commands from the configuration.
package env

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/actup/pkg/cli/flag"
	"github.com/suzuki-shunsuke/actup/pkg/config"
	"github.com/suzuki-shunsuke/actup/pkg/github"
	"github.com/suzuki-shunsuke/actup/pkg/log"
	"github.com/suzuki-shunsuke/actup/pkg/store"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

var ErrNoToken = errors.New("a GitHub access token is required. Set the environment variable or run `actup token set`")

type Env struct {
	Fs     afero.Fs
	Config *config.Config
	Store  *store.Store
}

// Load sets the log level, reads the configuration, and opens and migrates the store.
// Call Close when the command finishes.
func Load(ctx context.Context, logE *logrus.Entry, gf *flag.GlobalFlags) (*Env, error) {
	log.SetLevel(gf.LogLevel, logE)
	fs := afero.NewOsFs()
	cfg, err := ReadConfig(fs, gf.Config)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(logE, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open the store: %w", err)
	}
	if err := st.Migrate(ctx); err != nil {
		if err := st.Close(); err != nil {
			logerr.WithError(logE, err).Warn("close the store")
		}
		return nil, fmt.Errorf("migrate the store: %w", err)
	}
	return &Env{
		Fs:     fs,
		Config: cfg,
		Store:  st,
	}, nil
}

func (e *Env) Close(logE *logrus.Entry) {
	if err := e.Store.Close(); err != nil {
		logerr.WithError(logE, err).Warn("close the store")
	}
}

func ReadConfig(fs afero.Fs, configFilePath string) (*config.Config, error) {
	p, err := config.NewFinder(fs).Find(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("find a configuration file: %w", err)
	}
	cfg := &config.Config{}
	if err := config.NewReader(fs).Read(cfg, p); err != nil {
		return nil, fmt.Errorf("read a configuration file: %w", err)
	}
	return cfg, nil
}

// Retrier returns a Retrier configured with retry.attempts and retry.delay.
func (e *Env) Retrier(logE *logrus.Entry) *github.Retrier {
	return github.NewRetrier(logE, e.Config.Retry.Attempts, e.Config.Retry.Delay)
}

// GitHub returns the retrying GitHub services and the access token.
// If requireToken is true and no token is found, ErrNoToken is returned.
func (e *Env) GitHub(ctx context.Context, logE *logrus.Entry, requireToken bool) (*github.Services, string, error) {
	token := github.GetToken(logE, e.Config.GitHub.TokenEnv)
	if token == "" {
		if requireToken {
			return nil, "", ErrNoToken
		}
		logE.Warn("no GitHub access token is found, so requests are sent without authentication")
	}
	return github.NewServices(github.New(ctx, token), e.Retrier(logE)), token, nil
}
