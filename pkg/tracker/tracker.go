// Package tracker appends created pull requests to a markdown table.
package tracker

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"
)

const header = "# Pull Request Tracker\n\n| Date | Repo | PR | Status |\n|---|---|---|---|\n"

type Entry struct {
	Date         time.Time
	RepoFullName string
	URL          string
	Status       string
}

func (e *Entry) row() string {
	return fmt.Sprintf("| %s | %s | [%s](%s) | %s |\n", e.Date.Format(time.DateOnly), e.RepoFullName, e.URL, e.URL, e.Status)
}

type Tracker struct {
	fs   afero.Fs
	path string
}

func New(fs afero.Fs, path string) *Tracker {
	return &Tracker{fs: fs, path: path}
}

// Append adds a row, writing the table header first if the file doesn't exist.
func (t *Tracker) Append(entry *Entry) error {
	exist, err := afero.Exists(t.fs, t.path)
	if err != nil {
		return fmt.Errorf("check if the tracker file exists: %w", err)
	}
	f, err := t.fs.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:mnd
	if err != nil {
		return fmt.Errorf("open the tracker file: %w", err)
	}
	defer f.Close()
	s := entry.row()
	if !exist {
		s = header + s
	}
	if _, err := f.WriteString(s); err != nil {
		return fmt.Errorf("write the tracker file: %w", err)
	}
	return nil
}

// Render writes a whole table of entries to w.
func Render(w io.Writer, entries []*Entry) error {
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("write a table header: %w", err)
	}
	for _, entry := range entries {
		if _, err := io.WriteString(w, entry.row()); err != nil {
			return fmt.Errorf("write a table row: %w", err)
		}
	}
	return nil
}
