// Package usage reads and writes per-repository usage batches.
// A batch is a JSON array of the action references found in one repository.
package usage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/actup/pkg/workflow"
)

const fileName = "actions_used.json"

type Record struct {
	ActionRaw     string `json:"action_raw"`
	FilePath      string `json:"filepath"`
	RepoFullName  string `json:"repo_full_name"`
	ActionName    string `json:"action_name"`
	ActionVersion string `json:"action_version"`
	LineNumber    int    `json:"line_number"`
}

func NewRecords(repoFullName string, refs []*workflow.Reference) []*Record {
	records := make([]*Record, len(refs))
	for i, ref := range refs {
		records[i] = &Record{
			ActionRaw:     ref.Raw,
			FilePath:      ref.File,
			RepoFullName:  repoFullName,
			ActionName:    ref.Action,
			ActionVersion: ref.Version,
			LineNumber:    ref.Line,
		}
	}
	return records
}

type Store struct {
	fs  afero.Fs
	dir string
}

func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Path returns the batch file path of a repository.
func (s *Store) Path(repoFullName string) string {
	return filepath.Join(s.dir, filepath.FromSlash(repoFullName), fileName)
}

func (s *Store) Write(repoFullName string, records []*Record) error {
	p := s.Path(repoFullName)
	if err := s.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("create a directory for a usage batch: %w", err)
	}
	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode a usage batch as JSON: %w", err)
	}
	if err := afero.WriteFile(s.fs, p, b, 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("write a usage batch: %w", err)
	}
	return nil
}

func (s *Store) Read(repoFullName string) ([]*Record, error) {
	return s.read(s.Path(repoFullName))
}

func (s *Store) read(p string) ([]*Record, error) {
	b, err := afero.ReadFile(s.fs, p)
	if err != nil {
		return nil, fmt.Errorf("read a usage batch: %w", err)
	}
	records := []*Record{}
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("decode a usage batch as JSON: %w", err)
	}
	return records, nil
}

// ReadAll reads every batch under the directory.
// It returns no records if the directory doesn't exist.
func (s *Store) ReadAll() ([]*Record, error) {
	var records []*Record
	err := afero.Walk(s.fs, s.dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || info.Name() != fileName {
			return nil
		}
		rs, err := s.read(p)
		if err != nil {
			return fmt.Errorf("%s: %w", strings.TrimPrefix(p, s.dir), err)
		}
		records = append(records, rs...)
		return nil
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("walk usage batches: %w", err)
	}
	return records, nil
}
