package pathsafe

import (
	"path/filepath"
	"testing"
)

func TestValidateReadStringRejectsTraversal(t *testing.T) {
	_, err := Validate(ReadString, "../secret", "/base")
	if err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
	pe := err.(*Error)
	if pe.Kind != "PathTraversal" {
		t.Fatalf("kind = %s", pe.Kind)
	}
}

func TestValidateReadStringAllowsAbsolute(t *testing.T) {
	out, err := Validate(ReadString, "/etc/hosts", "/base")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "/etc/hosts" {
		t.Fatalf("got %q", out)
	}
}

func TestValidateReadStringJoinsRelative(t *testing.T) {
	out, err := Validate(ReadString, "data/x.txt", "/base")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != filepath.Join("/base", "data/x.txt") {
		t.Fatalf("got %q", out)
	}
}

func TestValidateReadStringRejectsNUL(t *testing.T) {
	_, err := Validate(ReadString, "a\x00b", "/base")
	if err == nil {
		t.Fatalf("expected NUL byte to be rejected")
	}
}

func TestValidateDeployPathStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	out, err := Validate(DeployPath, "sub/app.conf", root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	absRoot, _ := filepath.Abs(root)
	rel, rerr := filepath.Rel(absRoot, out)
	if rerr != nil || rel == ".." {
		t.Fatalf("resolved %q escapes root %q", out, absRoot)
	}
}

func TestValidatePathValueJoinsSegments(t *testing.T) {
	root := t.TempDir()
	out, err := ValidatePathValue([]string{"a", "b", "c.txt"}, root, DeployPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(root, "a", "b", "c.txt")
	absWant, _ := filepath.Abs(want)
	if out != absWant {
		t.Fatalf("got %q, want %q", out, absWant)
	}
}
