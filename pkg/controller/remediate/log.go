package remediate

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

type colorFunc func(a ...any) string

// Logger prints rewritten lines as a colored diff.
type Logger struct {
	stderr io.Writer
	red    colorFunc
	green  colorFunc
}

func NewLogger(stderr io.Writer) *Logger {
	return &Logger{
		red:    color.New(color.FgRed).SprintFunc(),
		green:  color.New(color.FgGreen).SprintFunc(),
		stderr: stderr,
	}
}

func (l *Logger) Diff(repoFullName string, change *lineChange) {
	fmt.Fprintf(l.stderr, `%s %s:%d
%s
%s
`, repoFullName, change.File, change.Number, l.red("- "+change.Old), l.green("+ "+change.New))
}
