package avon_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avon-lang/avon/internal/deploy"
	"github.com/avon-lang/avon/internal/eval"
	"github.com/avon-lang/avon/pkg/avon"
)

func mustEval(t *testing.T, e *avon.Engine, src string) eval.Value {
	t.Helper()
	v, err := e.Eval(src)
	if err != nil {
		t.Fatalf("eval %q: %s", src, err.Error())
	}
	return v
}

func TestMapBuiltinOverLambda(t *testing.T) {
	e := avon.New()
	v := mustEval(t, e, `map (\x x * 2) [1, 2, 3]`)
	if v.Display() != "[2, 4, 6]" {
		t.Fatalf("got %s", v.Display())
	}
}

func TestFilterAndFold(t *testing.T) {
	e := avon.New()
	v := mustEval(t, e, `filter (\x x > 1) [1, 2, 3]`)
	if v.Display() != "[2, 3]" {
		t.Fatalf("filter: got %s", v.Display())
	}

	v = mustEval(t, e, `fold (\acc \x acc + x) 0 [1, 2, 3, 4]`)
	if v.Display() != "10" {
		t.Fatalf("fold: got %s", v.Display())
	}
}

func TestStringBuiltins(t *testing.T) {
	e := avon.New()
	if v := mustEval(t, e, `upper "hello"`); v.Display() != "HELLO" {
		t.Fatalf("upper: got %s", v.Display())
	}
	if v := mustEval(t, e, `split "," "a,b,c"`); v.Display() != "[a, b, c]" {
		t.Fatalf("split: got %s", v.Display())
	}
	if v := mustEval(t, e, `join "-" ["a", "b", "c"]`); v.Display() != "a-b-c" {
		t.Fatalf("join: got %s", v.Display())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	e := avon.New()
	v := mustEval(t, e, `from_json (to_json {name: "x", count: 3})`)
	d, ok := v.(*eval.DictValue)
	if !ok {
		t.Fatalf("got %T", v)
	}
	name, _ := d.Get("name")
	if name.Display() != "x" {
		t.Fatalf("name = %s", name.Display())
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	e := avon.New()
	v := mustEval(t, e, `from_yaml (to_yaml [1, 2, 3])`)
	if v.Display() != "[1, 2, 3]" {
		t.Fatalf("got %s", v.Display())
	}
}

func TestOSBuiltinIsZeroArityValue(t *testing.T) {
	// os is arity-0: it must be bound directly as a String value, not as a
	// callable Function, since Avon's App always supplies exactly one arg.
	e := avon.New()
	v := mustEval(t, e, `os`)
	if _, ok := v.(*eval.StringValue); !ok {
		t.Fatalf("os = %T, want *eval.StringValue", v)
	}
}

func TestFileTemplateBuiltinConstructsFileTemplateValue(t *testing.T) {
	e := avon.New()
	v := mustEval(t, e, `file_template @app.conf "port=8080"`)
	ft, ok := v.(*eval.FileTemplateValue)
	if !ok {
		t.Fatalf("got %T", v)
	}
	if ft.Path.Display() != "app.conf" {
		t.Fatalf("path = %s", ft.Path.Display())
	}
}

func TestDeployWritesFileTemplate(t *testing.T) {
	dir := t.TempDir()
	e := avon.New(avon.WithBaseDir(dir))
	result, err := e.Deploy(
		`file_template @app.conf {"port: {8080}"}`,
		deploy.Policy{Root: dir, WriteMode: deploy.Force},
	)
	if err != nil {
		t.Fatalf("deploy: %s", err.Error())
	}
	if len(result.Written) != 1 {
		t.Fatalf("written = %v", result.Written)
	}
	content, rerr := os.ReadFile(filepath.Join(dir, "app.conf"))
	if rerr != nil {
		t.Fatalf("read: %v", rerr)
	}
	if string(content) != "port: 8080" {
		t.Fatalf("content = %q", string(content))
	}
}

func TestDeployMultipleFilesInListOrder(t *testing.T) {
	dir := t.TempDir()
	e := avon.New(avon.WithBaseDir(dir))
	src := `[file_template @a.txt "A", file_template @b.txt "B"]`
	result, err := e.Deploy(src, deploy.Policy{Root: dir, WriteMode: deploy.Force})
	if err != nil {
		t.Fatalf("deploy: %s", err.Error())
	}
	if len(result.Written) != 2 {
		t.Fatalf("written = %v", result.Written)
	}
	if filepath.Base(result.Written[0]) != "a.txt" || filepath.Base(result.Written[1]) != "b.txt" {
		t.Fatalf("written out of list order: %v", result.Written)
	}
}

func TestDeployNothingToDeployWhenNoFileTemplate(t *testing.T) {
	dir := t.TempDir()
	e := avon.New(avon.WithBaseDir(dir))
	_, err := e.Deploy(`1 + 1`, deploy.Policy{Root: dir, WriteMode: deploy.Force})
	if err == nil {
		t.Fatalf("expected NothingToDeploy error")
	}
	if err.Kind != "NothingToDeploy" {
		t.Fatalf("kind = %s", err.Kind)
	}
}

func TestDeployBackupModeRenamesExistingFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "app.conf")
	if werr := os.WriteFile(target, []byte("old"), 0o644); werr != nil {
		t.Fatalf("setup: %v", werr)
	}
	e := avon.New(avon.WithBaseDir(dir))
	_, err := e.Deploy(
		`file_template @app.conf "new"`,
		deploy.Policy{Root: dir, WriteMode: deploy.Backup},
	)
	if err != nil {
		t.Fatalf("deploy: %s", err.Error())
	}
	content, rerr := os.ReadFile(target)
	if rerr != nil {
		t.Fatalf("read: %v", rerr)
	}
	if string(content) != "new" {
		t.Fatalf("content = %q, want new", string(content))
	}
	entries, rerr := os.ReadDir(dir)
	if rerr != nil {
		t.Fatalf("readdir: %v", rerr)
	}
	foundBackup := false
	for _, ent := range entries {
		if ent.Name() != "app.conf" {
			foundBackup = true
		}
	}
	if !foundBackup {
		t.Fatalf("expected a .bak sibling file, dir has: %v", entries)
	}
}

func TestDeployWritesUnderNestedRoot(t *testing.T) {
	dir := t.TempDir()
	e := avon.New(avon.WithBaseDir(dir))
	// A FileTemplate path is always a syntactically relative Path literal,
	// so this exercises containment at a nested deploy root rather than the
	// lexer's own absolute/traversal checks.
	nested := filepath.Join(dir, "sub")
	if merr := os.MkdirAll(nested, 0o755); merr != nil {
		t.Fatalf("setup: %v", merr)
	}
	_, err := e.Deploy(
		`file_template @config.yaml "x"`,
		deploy.Policy{Root: nested, WriteMode: deploy.Force},
	)
	if err != nil {
		t.Fatalf("expected a normal write within root, got: %s", err.Error())
	}
	if _, serr := os.Stat(filepath.Join(nested, "config.yaml")); serr != nil {
		t.Fatalf("expected config.yaml under nested root: %v", serr)
	}
}

func TestPreviewDeployDoesNotTouchDisk(t *testing.T) {
	dir := t.TempDir()
	e := avon.New(avon.WithBaseDir(dir))
	entries, err := e.PreviewDeploy(
		`file_template @app.conf "hello"`,
		deploy.Policy{Root: dir, WriteMode: deploy.Force},
	)
	if err != nil {
		t.Fatalf("preview: %s", err.Error())
	}
	if len(entries) != 1 || filepath.Base(entries[0].Path) != "app.conf" {
		t.Fatalf("entries = %+v", entries)
	}
	if _, serr := os.Stat(filepath.Join(dir, "app.conf")); !os.IsNotExist(serr) {
		t.Fatalf("preview must not write to disk")
	}
}

func TestWithGlobalInjectsDeployParameter(t *testing.T) {
	e := avon.New(avon.WithGlobal("env", eval.Str("prod")))
	v := mustEval(t, e, `env`)
	if v.Display() != "prod" {
		t.Fatalf("got %s", v.Display())
	}
}

func TestReadfileAndExistsAreBaseDirRelative(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "greeting.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	e := avon.New(avon.WithBaseDir(dir))

	v := mustEval(t, e, `readfile @greeting.txt`)
	if v.Display() != "hi" {
		t.Fatalf("readfile = %q", v.Display())
	}

	v = mustEval(t, e, `exists @greeting.txt`)
	if !v.(*eval.BoolValue).Value {
		t.Fatalf("exists = %s, want true", v.Display())
	}

	v = mustEval(t, e, `exists @missing.txt`)
	if v.(*eval.BoolValue).Value {
		t.Fatalf("exists = %s, want false", v.Display())
	}
}

func TestImportEvaluatesAnotherFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lib.avon"), []byte("40 + 2"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	e := avon.New(avon.WithBaseDir(dir))
	v := mustEval(t, e, `import @lib.avon`)
	if v.Display() != "42" {
		t.Fatalf("import result = %s", v.Display())
	}
}
