package prtemplate_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/actup/pkg/prtemplate"
)

func TestFind(t *testing.T) {
	t.Parallel()
	data := []struct {
		name  string
		files map[string]string
		exp   string
	}{
		{name: "no .github"},
		{name: "no template", files: map[string]string{"repo/.github/workflows/test.yaml": "jobs: {}"}},
		{name: "template", files: map[string]string{"repo/.github/pull_request_template.md": "## Summary"}, exp: "## Summary"},
		{name: "upper case", files: map[string]string{"repo/.github/PULL_REQUEST_TEMPLATE.md": "## Check"}, exp: "## Check"},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			fs := afero.NewMemMapFs()
			for p, s := range d.files {
				if err := afero.WriteFile(fs, p, []byte(s), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			s, err := prtemplate.Find(fs, "repo")
			if err != nil {
				t.Fatal(err)
			}
			if s != d.exp {
				t.Fatalf("wanted %q, got %q", d.exp, s)
			}
		})
	}
}

func TestMerger_Merge(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/pull":
			_, _ = w.Write([]byte(`{"status":"success"}`))
		case "/api/generate":
			req := map[string]any{}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			prompt, _ := req["prompt"].(string)
			if req["model"] != "qwen3:1.7b" || !strings.Contains(prompt, "## Checklist") || !strings.Contains(prompt, "Updated `actions/checkout`") {
				http.Error(w, "unexpected request", http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"response":"<think>fill the boxes</think>\n## Checklist\n- [x] Updated actions/checkout"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	m := prtemplate.NewMerger(srv.Client(), srv.URL+"/", "qwen3:1.7b")
	s, err := m.Merge(t.Context(), "- Updated `actions/checkout` from `v3` to `v4`", "## Checklist\n- [ ] Updated")
	if err != nil {
		t.Fatal(err)
	}
	if s != "## Checklist\n- [x] Updated actions/checkout" {
		t.Fatalf("unexpected body %q", s)
	}
}

func TestMerger_Merge_serverError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	if _, err := prtemplate.NewMerger(srv.Client(), srv.URL, "qwen3:1.7b").Merge(t.Context(), "body", "template"); err == nil {
		t.Fatal("error must be returned")
	}
}
