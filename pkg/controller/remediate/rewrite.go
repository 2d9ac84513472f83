package remediate

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/actup/pkg/store"
)

type lineChange struct {
	File   string
	Number int
	Old    string
	New    string
}

// replaceRef replaces every `uses: action@oldRef` in content with `uses: action@newRef`.
// The literal must not be followed by a character of a ref, so @v3 never matches @v3.1.0.
func replaceRef(content, action, oldRef, newRef string) string {
	literal := "uses: " + action + "@" + oldRef
	pattern := regexp.MustCompile(`(?m)` + regexp.QuoteMeta(literal) + `([^A-Za-z0-9_.-]|$)`)
	replacement := "uses: " + action + "@" + newRef
	return pattern.ReplaceAllStringFunc(content, func(s string) string {
		return replacement + s[len(literal):]
	})
}

// diffLines returns the lines that differ between two contents with the same number of lines.
func diffLines(file, before, after string) []*lineChange {
	oldLines := strings.Split(before, "\n")
	newLines := strings.Split(after, "\n")
	if len(oldLines) != len(newLines) {
		return nil
	}
	var changes []*lineChange
	for i, line := range oldLines {
		if line == newLines[i] {
			continue
		}
		changes = append(changes, &lineChange{
			File:   file,
			Number: i + 1,
			Old:    line,
			New:    newLines[i],
		})
	}
	return changes
}

type rewriteResult struct {
	// Files are the modified files relative to the repository root, in the order of mentions.
	Files   []string
	Changes []*lineChange
}

// rewrite applies the strategy to every mention and writes the files whose content changed.
func rewrite(fs afero.Fs, repoDir string, mentions []*store.Mention, strategy Strategy) (*rewriteResult, error) {
	var files []string
	contents := map[string]string{}
	originals := map[string]string{}
	for _, m := range mentions {
		newRef, ok := strategy.replacement(m)
		if !ok {
			continue
		}
		content, ok := contents[m.FilePath]
		if !ok {
			b, err := afero.ReadFile(fs, filepath.Join(repoDir, filepath.FromSlash(m.FilePath)))
			if err != nil {
				return nil, fmt.Errorf("read a workflow file %s: %w", m.FilePath, err)
			}
			content = string(b)
			originals[m.FilePath] = content
			files = append(files, m.FilePath)
		}
		contents[m.FilePath] = replaceRef(content, m.Action, m.DetectedVersion, newRef)
	}

	result := &rewriteResult{}
	for _, file := range files {
		before := originals[file]
		after := contents[file]
		if before == after {
			continue
		}
		p := filepath.Join(repoDir, filepath.FromSlash(file))
		if err := afero.WriteFile(fs, p, []byte(after), 0o644); err != nil { //nolint:mnd
			return nil, fmt.Errorf("write a workflow file %s: %w", file, err)
		}
		result.Files = append(result.Files, file)
		result.Changes = append(result.Changes, diffLines(file, before, after)...)
	}
	return result, nil
}
