package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actup/pkg/cli"
	"github.com/suzuki-shunsuke/actup/pkg/controller/classify"
	"github.com/suzuki-shunsuke/actup/pkg/controller/scan"
	"github.com/suzuki-shunsuke/actup/pkg/controller/tagresolve"
	"github.com/suzuki-shunsuke/actup/pkg/log"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
	"github.com/suzuki-shunsuke/urfave-cli-v3-util/urfave"
)

var (
	version = "" //nolint:gochecknoglobals
	commit  = "" //nolint:gochecknoglobals
	date    = "" //nolint:gochecknoglobals
)

const exitCodePrecondition = 2

var preconditionErrors = []error{ //nolint:gochecknoglobals
	classify.ErrNoActions,
	classify.ErrNoUsedActions,
	scan.ErrNoActions,
	scan.ErrNoRepositories,
	scan.ErrNoCheckouts,
	tagresolve.ErrNoActions,
}

func main() {
	logE := log.New(version)
	if err := core(logE); err != nil {
		if isPrecondition(err) {
			logE.Error(err.Error())
			os.Exit(exitCodePrecondition)
		}
		logerr.WithError(logE, err).Fatal("actup failed")
	}
}

func isPrecondition(err error) bool {
	for _, e := range preconditionErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func core(logE *logrus.Entry) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logerr.WithError(logE, err).Warn("load .env")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cli.Run(ctx, logE, &urfave.LDFlags{ //nolint:wrapcheck
		Version: version,
		Commit:  commit,
		Date:    date,
	}, os.Args...)
}
