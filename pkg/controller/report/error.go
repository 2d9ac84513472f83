package report

import "errors"

var errInvalidURL = errors.New("a pull request URL must be https://github.com/<owner>/<repo>/pull/<number>")
