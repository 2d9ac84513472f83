package remediate

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// StdinPrompter asks a yes/no question on a terminal.
type StdinPrompter struct {
	scanner *bufio.Scanner
	stderr  io.Writer
}

func NewStdinPrompter(stdin io.Reader, stderr io.Writer) *StdinPrompter {
	return &StdinPrompter{
		scanner: bufio.NewScanner(stdin),
		stderr:  stderr,
	}
}

// Confirm reports whether the answer is y or Y. Any other answer, including EOF, declines.
func (p *StdinPrompter) Confirm(message string) (bool, error) {
	fmt.Fprint(p.stderr, message)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return false, fmt.Errorf("read an answer: %w", err)
		}
		return false, nil
	}
	return strings.EqualFold(strings.TrimSpace(p.scanner.Text()), "y"), nil
}
