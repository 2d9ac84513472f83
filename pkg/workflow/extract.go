// Package workflow extracts GitHub Actions references from workflow files.
//
// Workflow files are decoded into a small tagged union of jobs and steps,
// and each referenced action is then located in the raw text so that the exact
// line and the literal ref are recorded.
package workflow

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

// Reference is one occurrence of an action in a workflow file.
// Line is -1 and Version is Unresolved if no uses: owner/repo@ref line was found.
type Reference struct {
	Raw     string
	Action  string
	Version string
	File    string
	Line    int
}

func (r *Reference) Resolved() bool {
	return r.Line != -1
}

type Extractor struct {
	fs afero.Fs
}

func NewExtractor(fs afero.Fs) *Extractor {
	return &Extractor{fs: fs}
}

func isWorkflowFile(p string) bool {
	ext := filepath.Ext(p)
	return ext == ".yml" || ext == ".yaml"
}

func (e *Extractor) listFiles(root string) ([]string, error) {
	var files []string
	if err := afero.Walk(e.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if isWorkflowFile(p) {
			files = append(files, p)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("walk a checkout: %w", err)
	}
	return files, nil
}

// References returns the references found in workflow files under root.
// Files are read one at a time while the sequence is consumed.
// File paths are relative to root and slash separated.
// Files that can't be read or parsed are logged and skipped.
func (e *Extractor) References(logE *logrus.Entry, root string) iter.Seq2[*Reference, error] {
	return func(yield func(*Reference, error) bool) {
		files, err := e.listFiles(root)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, p := range files {
			rel, err := filepath.Rel(root, p)
			if err != nil {
				yield(nil, fmt.Errorf("get a relative path: %w", err))
				return
			}
			rel = filepath.ToSlash(rel)
			refs, err := e.extractFile(p, rel)
			if err != nil {
				logerr.WithError(logE, err).WithField("file", rel).Warn("skip a workflow file")
				continue
			}
			for _, ref := range refs {
				if !yield(ref, nil) {
					return
				}
			}
		}
	}
}

func (e *Extractor) extractFile(p, rel string) ([]*Reference, error) {
	b, err := afero.ReadFile(e.fs, p)
	if err != nil {
		return nil, fmt.Errorf("read a workflow file: %w", err)
	}
	wf, err := Decode(b)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, nil
	}
	return Extract(wf, string(b), rel), nil
}

// Extract locates every target of wf in content.
// The raw text is scanned once per distinct action, and each matching line yields a Reference,
// so an action found on two lines yields two.
func Extract(wf *Workflow, content, file string) []*Reference {
	var refs []*Reference
	scanned := map[string]struct{}{}
	for _, uses := range wf.Targets() {
		name := targetName(uses)
		if _, ok := scanned[name]; ok {
			continue
		}
		scanned[name] = struct{}{}
		matches := scanLines(content, name)
		if len(matches) == 0 {
			refs = append(refs, &Reference{
				Raw:     uses,
				Action:  name,
				Version: Unresolved,
				File:    file,
				Line:    -1,
			})
			continue
		}
		for _, m := range matches {
			refs = append(refs, &Reference{
				Raw:     m.Action + "@" + m.Version,
				Action:  m.Action,
				Version: m.Version,
				File:    file,
				Line:    m.Number,
			})
		}
	}
	return refs
}

// Collect drains seq and removes duplicated references, keeping the first occurrence.
func Collect(seq iter.Seq2[*Reference, error]) ([]*Reference, error) {
	seen := map[Reference]struct{}{}
	refs := []*Reference{}
	for ref, err := range seq {
		if err != nil {
			return nil, err
		}
		if _, ok := seen[*ref]; ok {
			continue
		}
		seen[*ref] = struct{}{}
		refs = append(refs, ref)
	}
	return refs, nil
}
