package deploy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avon-lang/avon/internal/deploy"
	"github.com/avon-lang/avon/internal/eval"
)

func fileTemplate(path string, content string) *eval.FileTemplateValue {
	return &eval.FileTemplateValue{
		Path:    &eval.PathValue{Segments: []string{path}},
		Content: eval.Str(content),
	}
}

func TestDiscoverFindsSingleFileTemplate(t *testing.T) {
	plan, err := deploy.Discover(fileTemplate("a.txt", "A"))
	if err != nil {
		t.Fatalf("discover: %s", err.Error())
	}
	if len(plan.Entries) != 1 || plan.Entries[0].RelPath != "a.txt" {
		t.Fatalf("plan = %+v", plan)
	}
}

func TestDiscoverWalksListInOrder(t *testing.T) {
	root := &eval.ListValue{Elements: []eval.Value{
		fileTemplate("a.txt", "A"),
		fileTemplate("b.txt", "B"),
		fileTemplate("c.txt", "C"),
	}}
	plan, err := deploy.Discover(root)
	if err != nil {
		t.Fatalf("discover: %s", err.Error())
	}
	if len(plan.Entries) != 3 {
		t.Fatalf("entries = %d", len(plan.Entries))
	}
	want := []string{"a.txt", "b.txt", "c.txt"}
	for i, w := range want {
		if plan.Entries[i].RelPath != w {
			t.Fatalf("entry %d = %s, want %s", i, plan.Entries[i].RelPath, w)
		}
	}
}

func TestDiscoverWalksDictInInsertionOrder(t *testing.T) {
	d := eval.NewDict()
	d.Set("second", fileTemplate("b.txt", "B"))
	d.Set("first", fileTemplate("a.txt", "A"))
	plan, err := deploy.Discover(d)
	if err != nil {
		t.Fatalf("discover: %s", err.Error())
	}
	if len(plan.Entries) != 2 || plan.Entries[0].RelPath != "b.txt" || plan.Entries[1].RelPath != "a.txt" {
		t.Fatalf("plan = %+v, want dict insertion order (second, first)", plan)
	}
}

func TestDiscoverNothingToDeployAtRoot(t *testing.T) {
	_, err := deploy.Discover(eval.Int(5))
	if err == nil || err.Kind != "NothingToDeploy" {
		t.Fatalf("err = %v", err)
	}
}

func TestDiscoverSkipsNonFileTemplateInsideContainer(t *testing.T) {
	root := &eval.ListValue{Elements: []eval.Value{
		eval.Int(5),
		fileTemplate("a.txt", "A"),
	}}
	plan, err := deploy.Discover(root)
	if err != nil {
		t.Fatalf("discover: %s", err.Error())
	}
	if len(plan.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(plan.Entries))
	}
}

func TestWriteForceOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	plan := deploy.Plan{Entries: []deploy.PlanEntry{{RelPath: "a.txt", Content: eval.Str("new")}}}
	result, err := deploy.Write(plan, deploy.Policy{Root: dir, WriteMode: deploy.Force})
	if err != nil {
		t.Fatalf("write: %s", err.Error())
	}
	if len(result.Written) != 1 {
		t.Fatalf("written = %v", result.Written)
	}
	content, _ := os.ReadFile(target)
	if string(content) != "new" {
		t.Fatalf("content = %q", content)
	}
}

func TestWriteFailIfExistsReportsFileExists(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	plan := deploy.Plan{Entries: []deploy.PlanEntry{{RelPath: "a.txt", Content: eval.Str("new")}}}
	_, err := deploy.Write(plan, deploy.Policy{Root: dir, WriteMode: deploy.FailIfExists})
	if err == nil || err.Kind != "FileExists" {
		t.Fatalf("err = %v", err)
	}
}

func TestWriteIfNotExistsSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	plan := deploy.Plan{Entries: []deploy.PlanEntry{{RelPath: "a.txt", Content: eval.Str("new")}}}
	_, err := deploy.Write(plan, deploy.Policy{Root: dir, WriteMode: deploy.IfNotExists})
	if err != nil {
		t.Fatalf("write: %s", err.Error())
	}
	content, _ := os.ReadFile(target)
	if string(content) != "old" {
		t.Fatalf("content = %q, want untouched", content)
	}
}

func TestWriteAppendConcatenates(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	plan := deploy.Plan{Entries: []deploy.PlanEntry{{RelPath: "a.txt", Content: eval.Str("new")}}}
	_, err := deploy.Write(plan, deploy.Policy{Root: dir, WriteMode: deploy.Append})
	if err != nil {
		t.Fatalf("write: %s", err.Error())
	}
	content, _ := os.ReadFile(target)
	if string(content) != "oldnew" {
		t.Fatalf("content = %q", content)
	}
}

func TestWriteStopsAndReportsPartialOnFailure(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	plan := deploy.Plan{Entries: []deploy.PlanEntry{
		{RelPath: "a.txt", Content: eval.Str("A")},
		{RelPath: "b.txt", Content: eval.Str("B")},
	}}
	result, err := deploy.Write(plan, deploy.Policy{Root: dir, WriteMode: deploy.FailIfExists})
	if err == nil {
		t.Fatalf("expected an error from the second, pre-existing entry")
	}
	if !result.Partial {
		t.Fatalf("expected Partial = true")
	}
	if len(result.Written) != 1 {
		t.Fatalf("written = %v, want exactly a.txt", result.Written)
	}
}

func TestPreviewAggregatesEveryPathEscapeViolation(t *testing.T) {
	root := t.TempDir()
	// Simulate two plan entries whose relative paths would escape root;
	// ordinary FileTemplate Paths can never contain "..", so this exercises
	// Preview's own reaffirming containment check directly against a
	// hand-built Plan rather than through a parsed program.
	plan := deploy.Plan{Entries: []deploy.PlanEntry{
		{RelPath: "../escape1.txt", Content: eval.Str("x")},
		{RelPath: "../escape2.txt", Content: eval.Str("y")},
	}}
	_, err := deploy.Preview(plan, deploy.Policy{Root: root, WriteMode: deploy.Force})
	if err == nil || err.Kind != "PathEscape" {
		t.Fatalf("err = %v", err)
	}
}

func TestPreviewRendersContentWithoutWriting(t *testing.T) {
	root := t.TempDir()
	plan := deploy.Plan{Entries: []deploy.PlanEntry{{RelPath: "a.txt", Content: eval.Str("hello")}}}
	entries, err := deploy.Preview(plan, deploy.Policy{Root: root, WriteMode: deploy.Force})
	if err != nil {
		t.Fatalf("preview: %s", err.Error())
	}
	if len(entries) != 1 || entries[0].Content != "hello" {
		t.Fatalf("entries = %+v", entries)
	}
	if _, statErr := os.Stat(filepath.Join(root, "a.txt")); !os.IsNotExist(statErr) {
		t.Fatalf("preview must not write to disk")
	}
}
