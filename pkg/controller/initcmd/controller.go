// Package initcmd writes a commented actup configuration template.
package initcmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

type Controller struct {
	fs   afero.Fs
	logE *logrus.Entry
}

func New(fs afero.Fs, logE *logrus.Entry) *Controller {
	return &Controller{fs: fs, logE: logE}
}
