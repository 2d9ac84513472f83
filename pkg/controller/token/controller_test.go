package token_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/suzuki-shunsuke/actup/pkg/controller/token"
)

type fakeTokenManager struct {
	token string
	err   error
}

func (f *fakeTokenManager) SetToken(token string) error {
	if f.err != nil {
		return f.err
	}
	f.token = token
	return nil
}

func (f *fakeTokenManager) RemoveToken() error {
	if f.err != nil {
		return f.err
	}
	f.token = ""
	return nil
}

func TestController_Set(t *testing.T) {
	t.Parallel()
	data := []struct {
		name  string
		stdin string
		err   error
		exp   string
		isErr bool
	}{
		{name: "trailing newline", stdin: "ghp_xxx\n", exp: "ghp_xxx"},
		{name: "no newline", stdin: "  ghp_yyy  ", exp: "ghp_yyy"},
		{name: "only the first line", stdin: "ghp_zzz\nfoo\n", exp: "ghp_zzz"},
		{name: "empty", stdin: "\n", isErr: true},
		{name: "keyring error", stdin: "ghp_xxx\n", err: errors.New("keyring is locked"), isErr: true},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			tm := &fakeTokenManager{err: d.err}
			err := token.New(strings.NewReader(d.stdin), tm).Set()
			if err != nil {
				if d.isErr {
					return
				}
				t.Fatal(err)
			}
			if d.isErr {
				t.Fatal("error must be returned")
			}
			if tm.token != d.exp {
				t.Fatalf("wanted %s, got %s", d.exp, tm.token)
			}
		})
	}
}

func TestController_Remove(t *testing.T) {
	t.Parallel()
	tm := &fakeTokenManager{token: "ghp_xxx"}
	if err := token.New(strings.NewReader(""), tm).Remove(); err != nil {
		t.Fatal(err)
	}
	if tm.token != "" {
		t.Fatalf("token must be removed: %s", tm.token)
	}
	tm.err = errors.New("not found")
	if err := token.New(strings.NewReader(""), tm).Remove(); err == nil {
		t.Fatal("error must be returned")
	}
}
