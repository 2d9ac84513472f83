// Package policy holds the fixed denylists applied before remediation.
// A repository or an action matching a rule never receives a pull request,
// regardless of how outdated its workflows are.
package policy

import (
	"errors"
	"fmt"
	"path"
	"regexp"
)

const (
	FormatFixedString = "fixed_string"
	FormatGlob        = "glob"
	FormatRegexp      = "regexp"
)

// Rule matches a name such as "owner/repo" in one of three formats.
type Rule struct {
	Name   string
	Format string
	Reason string
	re     *regexp.Regexp
}

func (r *Rule) Init() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	switch r.Format {
	case FormatFixedString:
		return nil
	case FormatGlob:
		if _, err := path.Match(r.Name, "a"); err != nil {
			return fmt.Errorf("parse as a glob: %w", err)
		}
		return nil
	case FormatRegexp:
		re, err := regexp.Compile(r.Name)
		if err != nil {
			return fmt.Errorf("compile as a regular expression: %w", err)
		}
		r.re = re
		return nil
	default:
		return errors.New("format must be fixed_string, glob, or regexp")
	}
}

func (r *Rule) Match(name string) (bool, error) {
	switch r.Format {
	case FormatFixedString:
		return name == r.Name, nil
	case FormatGlob:
		f, err := path.Match(r.Name, name)
		if err != nil {
			return false, fmt.Errorf("match as a glob: %w", err)
		}
		return f, nil
	case FormatRegexp:
		return r.re.MatchString(name), nil
	default:
		return false, errors.New("unexpected format: " + r.Format)
	}
}

type Policy struct {
	repos   []*Rule
	actions []*Rule
}

// New validates the rules and returns a Policy.
func New(repos, actions []*Rule) (*Policy, error) {
	for _, r := range repos {
		if err := r.Init(); err != nil {
			return nil, fmt.Errorf("initialize a repository rule %s: %w", r.Name, err)
		}
	}
	for _, r := range actions {
		if err := r.Init(); err != nil {
			return nil, fmt.Errorf("initialize an action rule %s: %w", r.Name, err)
		}
	}
	return &Policy{repos: repos, actions: actions}, nil
}

// Default returns the built-in denylists.
func Default() *Policy {
	p, err := New(defaultRepos(), defaultActions())
	if err != nil {
		panic(err)
	}
	return p
}

func defaultRepos() []*Rule {
	return []*Rule{
		{Name: "torvalds/linux", Format: FormatFixedString, Reason: "pull requests on GitHub are not accepted"},
		{Name: "golang/go", Format: FormatFixedString, Reason: "changes go through Gerrit"},
		{Name: "chromium/chromium", Format: FormatFixedString, Reason: "read-only mirror"},
		{Name: "mozilla/gecko-dev", Format: FormatFixedString, Reason: "read-only mirror"},
		{Name: "apache/*", Format: FormatGlob, Reason: "workflow changes require infrastructure approval"},
		{Name: "kubernetes/kubernetes", Format: FormatFixedString, Reason: "automated pull requests are closed by bots"},
		{Name: "^[^/]+/awesome-", Format: FormatRegexp, Reason: "curated lists that reject automated changes"},
	}
}

func defaultActions() []*Rule {
	return []*Rule{
		{Name: "actions/upload-artifact", Format: FormatFixedString, Reason: "v4 is not compatible with v3 artifacts"},
		{Name: "actions/download-artifact", Format: FormatFixedString, Reason: "v4 is not compatible with v3 artifacts"},
	}
}

func match(rules []*Rule, name string) (*Rule, error) {
	for _, r := range rules {
		f, err := r.Match(name)
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", r.Name, err)
		}
		if f {
			return r, nil
		}
	}
	return nil, nil //nolint:nilnil
}

// DenyRepo returns the first repository rule matching repoFullName, or nil.
func (p *Policy) DenyRepo(repoFullName string) (*Rule, error) {
	return match(p.repos, repoFullName)
}

// DenyAction returns the first action rule matching action, or nil.
func (p *Policy) DenyAction(action string) (*Rule, error) {
	return match(p.actions, action)
}
