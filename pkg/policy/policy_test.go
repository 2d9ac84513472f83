package policy_test

import (
	"testing"

	"github.com/suzuki-shunsuke/actup/pkg/policy"
)

func TestRule_Match(t *testing.T) {
	t.Parallel()
	data := []struct {
		name  string
		rule  *policy.Rule
		input string
		exp   bool
	}{
		{
			name:  "fixed string",
			rule:  &policy.Rule{Name: "golang/go", Format: policy.FormatFixedString},
			input: "golang/go",
			exp:   true,
		},
		{
			name:  "fixed string does not match a prefix",
			rule:  &policy.Rule{Name: "golang/go", Format: policy.FormatFixedString},
			input: "golang/gofrontend",
		},
		{
			name:  "glob",
			rule:  &policy.Rule{Name: "apache/*", Format: policy.FormatGlob},
			input: "apache/kafka",
			exp:   true,
		},
		{
			name:  "glob does not cross owners",
			rule:  &policy.Rule{Name: "apache/*", Format: policy.FormatGlob},
			input: "apachecn/kafka",
		},
		{
			name:  "regexp",
			rule:  &policy.Rule{Name: "^[^/]+/awesome-", Format: policy.FormatRegexp},
			input: "sindresorhus/awesome-nodejs",
			exp:   true,
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			if err := d.rule.Init(); err != nil {
				t.Fatal(err)
			}
			f, err := d.rule.Match(d.input)
			if err != nil {
				t.Fatal(err)
			}
			if f != d.exp {
				t.Fatalf("wanted %v, got %v", d.exp, f)
			}
		})
	}
}

func TestRule_Init(t *testing.T) {
	t.Parallel()
	data := []struct {
		name string
		rule *policy.Rule
	}{
		{name: "empty name", rule: &policy.Rule{Format: policy.FormatFixedString}},
		{name: "unknown format", rule: &policy.Rule{Name: "a/b", Format: "prefix"}},
		{name: "invalid glob", rule: &policy.Rule{Name: "[a", Format: policy.FormatGlob}},
		{name: "invalid regexp", rule: &policy.Rule{Name: "(", Format: policy.FormatRegexp}},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			if err := d.rule.Init(); err == nil {
				t.Fatal("error must be returned")
			}
		})
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()
	p := policy.Default()
	r, err := p.DenyRepo("torvalds/linux")
	if err != nil {
		t.Fatal(err)
	}
	if r == nil {
		t.Fatal("torvalds/linux must be denied")
	}
	r, err = p.DenyRepo("suzuki-shunsuke/pinact")
	if err != nil {
		t.Fatal(err)
	}
	if r != nil {
		t.Fatalf("unexpected rule %s", r.Name)
	}
	r, err = p.DenyAction("actions/upload-artifact")
	if err != nil {
		t.Fatal(err)
	}
	if r == nil {
		t.Fatal("actions/upload-artifact must be denied")
	}
	r, err = p.DenyAction("actions/checkout")
	if err != nil {
		t.Fatal(err)
	}
	if r != nil {
		t.Fatalf("unexpected rule %s", r.Name)
	}
}
