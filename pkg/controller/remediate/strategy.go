package remediate

import (
	"fmt"
	"strings"

	"github.com/suzuki-shunsuke/actup/pkg/store"
)

// Strategy decides how an outdated reference is rewritten.
type Strategy int

const (
	// StrategyVersion retags a reference to the latest major version.
	StrategyVersion Strategy = iota
	// StrategyPin pins a reference to the commit of its current tag and keeps the tag as a comment.
	StrategyPin
)

func NewStrategy(pinToSHA bool) Strategy {
	if pinToSHA {
		return StrategyPin
	}
	return StrategyVersion
}

func (s Strategy) String() string {
	if s == StrategyPin {
		return "pin_to_sha"
	}
	return "latest_version"
}

func (s Strategy) branchPrefix() string {
	if s == StrategyPin {
		return "actup/pin-actions-to-sha"
	}
	return "actup/update-actions"
}

func (s Strategy) commitMessage() string {
	if s == StrategyPin {
		return "chore: Pin GitHub Actions to commit SHAs"
	}
	return "chore: Update outdated GitHub Actions versions"
}

// replacement returns the new ref of m. It returns false if m can't be rewritten.
func (s Strategy) replacement(m *store.Mention) (string, bool) {
	if s == StrategyPin {
		if m.CommitSHA == nil || *m.CommitSHA == "" {
			return "", false
		}
		return *m.CommitSHA + " #" + m.DetectedVersion, true
	}
	if m.LatestVersion == "" {
		return "", false
	}
	return m.LatestVersion, true
}

func (s Strategy) title(mentions []*store.Mention) string {
	plural := len(mentions) > 1
	switch {
	case s == StrategyPin && plural:
		return "chore: Pin GitHub Actions to commit SHAs"
	case s == StrategyPin:
		return "chore: Pin GitHub Action to commit SHA"
	case plural:
		return "chore: Update outdated GitHub Actions versions"
	default:
		return "chore: Update outdated GitHub Actions version"
	}
}

func shortSHA(sha *string) string {
	if sha == nil || *sha == "" {
		return "unknown"
	}
	if len(*sha) < 7 { //nolint:mnd
		return *sha
	}
	return (*sha)[:7]
}

func (s Strategy) body(mentions []*store.Mention) string {
	b := &strings.Builder{}
	if s == StrategyPin {
		b.WriteString("This PR pins GitHub Actions to exact commit SHAs for more reproducible builds.\n\n")
		for _, m := range mentions {
			fmt.Fprintf(b, "- Pinned `%s` from `%s` to `%s` in `%s`\n", m.Action, m.DetectedVersion, shortSHA(m.CommitSHA), m.FilePath)
		}
		return b.String()
	}
	b.WriteString("This PR updates outdated GitHub Action versions.\n\n")
	for _, m := range mentions {
		fmt.Fprintf(b, "- Updated `%s` from `%s` to `%s` in `%s`\n", m.Action, m.DetectedVersion, m.LatestVersion, m.FilePath)
	}
	return b.String()
}

var versionConflictPhrases = []string{
	"(deps): bump actions/",
	"build: bump ",
	"bump ",
	"chore(deps): bump ",
	"chore(deps): update ",
	"ci: bump ",
}

// conflicts reports whether an open pull request already covers the change.
// identity is the login whose pull requests count as created by actup.
func (s Strategy) conflicts(title, author, identity string) bool {
	if identity != "" && author == identity {
		return true
	}
	t := strings.ToLower(strings.TrimSpace(title))
	if s == StrategyPin {
		return (strings.Contains(t, "pin") && strings.Contains(t, "sha")) || strings.Contains(t, "commit sha")
	}
	if strings.HasPrefix(t, "bump the github-actions group") {
		return true
	}
	for _, phrase := range versionConflictPhrases {
		if strings.Contains(t, phrase) {
			return true
		}
	}
	return false
}
