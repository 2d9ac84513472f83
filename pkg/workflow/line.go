package workflow

import (
	"regexp"
	"strings"
)

// Unresolved is the version of a reference whose target wasn't found in the raw text.
const Unresolved = "Unknown"

var usesPattern = regexp.MustCompile(`uses:\s+([a-zA-Z0-9_\-]+/[a-zA-Z0-9_\-]+)@([a-zA-Z0-9_\-\.]+)`)

type lineMatch struct {
	Number  int
	Action  string
	Version string
}

// parseLine returns the owner/repo and ref of the first uses: owner/repo@ref on the line.
func parseLine(line string) (string, string, bool) {
	m := usesPattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// scanLines returns every line of content referencing action, with 1-based line numbers.
func scanLines(content, action string) []*lineMatch {
	var matches []*lineMatch
	for i, line := range strings.Split(content, "\n") {
		name, version, ok := parseLine(strings.TrimSuffix(line, "\r"))
		if !ok || name != action {
			continue
		}
		matches = append(matches, &lineMatch{
			Number:  i + 1,
			Action:  name,
			Version: version,
		})
	}
	return matches
}

// targetName strips the ref from a uses value.
func targetName(uses string) string {
	name, _, _ := strings.Cut(uses, "@")
	return name
}
