package config

import (
	"testing"

	"github.com/spf13/afero"
)

func Test_getConfigPath(t *testing.T) {
	t.Parallel()
	data := []struct {
		name  string
		files []string
		exp   string
	}{
		{name: "no file", exp: ""},
		{name: "root", files: []string{".actup.yaml"}, exp: ".actup.yaml"},
		{name: "github directory", files: []string{".github/actup.yaml"}, exp: ".github/actup.yaml"},
		{name: "root wins", files: []string{".github/actup.yaml", ".actup.yaml"}, exp: ".actup.yaml"},
		{name: "yml", files: []string{".actup.yml"}, exp: ".actup.yml"},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			fs := afero.NewMemMapFs()
			for _, f := range d.files {
				if err := afero.WriteFile(fs, f, []byte("version: 1\n"), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			p, err := getConfigPath(fs)
			if err != nil {
				t.Fatal(err)
			}
			if p != d.exp {
				t.Fatalf("wanted %q, got %q", d.exp, p)
			}
		})
	}
}
