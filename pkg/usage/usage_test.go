package usage_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/actup/pkg/usage"
	"github.com/suzuki-shunsuke/actup/pkg/workflow"
)

func TestStore(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	store := usage.NewStore(fs, "tmp/action_usage")
	refs := []*workflow.Reference{
		{Raw: "actions/checkout@v3", Action: "actions/checkout", Version: "v3", File: ".github/workflows/test.yaml", Line: 10},
		{Raw: "./.github/actions/foo", Action: "./.github/actions/foo", Version: workflow.Unresolved, File: ".github/workflows/test.yaml", Line: -1},
	}
	if err := store.Write("suzuki-shunsuke/pinact", usage.NewRecords("suzuki-shunsuke/pinact", refs)); err != nil {
		t.Fatal(err)
	}
	if err := store.Write("suzuki-shunsuke/tfcmt", usage.NewRecords("suzuki-shunsuke/tfcmt", refs[:1])); err != nil {
		t.Fatal(err)
	}
	if s := store.Path("suzuki-shunsuke/pinact"); s != "tmp/action_usage/suzuki-shunsuke/pinact/actions_used.json" {
		t.Fatalf("unexpected path %s", s)
	}
	records, err := store.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	exp := []*usage.Record{
		{ActionRaw: "actions/checkout@v3", FilePath: ".github/workflows/test.yaml", RepoFullName: "suzuki-shunsuke/pinact", ActionName: "actions/checkout", ActionVersion: "v3", LineNumber: 10},
		{ActionRaw: "./.github/actions/foo", FilePath: ".github/workflows/test.yaml", RepoFullName: "suzuki-shunsuke/pinact", ActionName: "./.github/actions/foo", ActionVersion: "Unknown", LineNumber: -1},
		{ActionRaw: "actions/checkout@v3", FilePath: ".github/workflows/test.yaml", RepoFullName: "suzuki-shunsuke/tfcmt", ActionName: "actions/checkout", ActionVersion: "v3", LineNumber: 10},
	}
	if diff := cmp.Diff(exp, records); diff != "" {
		t.Fatal(diff)
	}
}

func TestStore_ReadAll_noDirectory(t *testing.T) {
	t.Parallel()
	records, err := usage.NewStore(afero.NewMemMapFs(), "tmp/action_usage").ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("wanted no records, got %d", len(records))
	}
}
