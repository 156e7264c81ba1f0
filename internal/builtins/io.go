package builtins

import (
	"os"
	"path/filepath"
	"strings"

	avonerrors "github.com/avon-lang/avon/internal/errors"
	"github.com/avon-lang/avon/internal/eval"
	"github.com/avon-lang/avon/internal/pathsafe"
)

// RegisterIOFunctions registers the path-guarded I/O built-ins spec.md
// §4.4 names: readfile, readlines, import, exists, walkdir, fill_template.
// Every one of them resolves its path argument through pathsafe (Validate
// for a String, ValidatePathValue for a Path) before touching the filesystem — no other route to os.Open exists in
// this package.
func RegisterIOFunctions(r *Registry) {
	r.Register("readfile", 1, CategoryIO, "readfile path: file contents as a String", biReadfile)
	r.Register("readlines", 1, CategoryIO, "readlines path: file contents as a List of Strings", biReadlines)
	r.Register("import", 1, CategoryIO, "import path: evaluate another source file and return its value", biImport)
	r.Register("exists", 1, CategoryIO, "exists path: whether a filesystem entry is present", biExists)
	r.Register("walkdir", 1, CategoryIO, "walkdir path: List of relative file Paths under a directory", biWalkdir)
	r.Register("fill_template", 2, CategoryIO, "fill_template path bindings: readfile path, then replace each {key} with the display of bindings.key", biFillTemplate)
}

func resolveGuarded(ctx *eval.Context, fnName string, v eval.Value) (string, *eval.EvalError) {
	switch t := v.(type) {
	case *eval.PathValue:
		resolved, perr := pathsafe.ValidatePathValue(t.Segments, ctx.BaseDir, pathsafe.ReadPath)
		if perr != nil {
			return "", wrapPathErr(perr)
		}
		return resolved, nil
	case *eval.StringValue:
		resolved, perr := pathsafe.Validate(pathsafe.ReadString, t.Value, ctx.BaseDir)
		if perr != nil {
			return "", wrapPathErr(perr)
		}
		return resolved, nil
	}
	return "", typeErr(fnName, "Path or String", v)
}

func wrapPathErr(perr error) *eval.EvalError {
	pe, ok := perr.(*pathsafe.Error)
	if !ok {
		return ioErr("%v", perr)
	}
	switch pe.Kind {
	case "PathTraversal":
		return avonerrors.New(avonerrors.PathTraversal, zeroPos, "%s", pe.Message)
	case "PathEscape":
		return avonerrors.New(avonerrors.PathEscape, zeroPos, "%s", pe.Message)
	default:
		return ioErr("%s", pe.Message)
	}
}

func biReadfile(ctx *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	path, err := resolveGuarded(ctx, "readfile", args[0])
	if err != nil {
		return nil, err
	}
	data, rerr := os.ReadFile(path)
	if rerr != nil {
		return nil, ioErr("readfile %q: %v", path, rerr)
	}
	return eval.Str(string(data)), nil
}

func biReadlines(ctx *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	path, err := resolveGuarded(ctx, "readlines", args[0])
	if err != nil {
		return nil, err
	}
	data, rerr := os.ReadFile(path)
	if rerr != nil {
		return nil, ioErr("readlines %q: %v", path, rerr)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	out := make([]eval.Value, len(lines))
	for i, l := range lines {
		out[i] = eval.Str(l)
	}
	return &eval.ListValue{Elements: out}, nil
}

func biExists(ctx *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	path, err := resolveGuarded(ctx, "exists", args[0])
	if err != nil {
		return nil, err
	}
	_, serr := os.Stat(path)
	return eval.Bool(serr == nil), nil
}

func biWalkdir(ctx *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	root, err := resolveGuarded(ctx, "walkdir", args[0])
	if err != nil {
		return nil, err
	}
	var out []eval.Value
	werr := filepath.WalkDir(root, func(p string, d os.DirEntry, werr error) error {
		if werr != nil {
			return werr
		}
		if d.IsDir() {
			return nil
		}
		rel, rerr := filepath.Rel(root, p)
		if rerr != nil {
			return rerr
		}
		out = append(out, &eval.PathValue{Segments: strings.Split(filepath.ToSlash(rel), "/")})
		return nil
	})
	if werr != nil {
		return nil, ioErr("walkdir %q: %v", root, werr)
	}
	return &eval.ListValue{Elements: out}, nil
}

// biImport evaluates another Avon source file in a fresh root environment
// and returns its result; parsing/evaluation are supplied by the host
// through SetImportEvaluator, since internal/builtins does not import
// internal/parser.
var importEvaluator func(ctx *eval.Context, src string, path string) (eval.Value, *eval.EvalError)

// SetImportEvaluator installs the function import uses to evaluate an
// imported file's source. Hosts wire this once at startup (pkg/avon does
// so in its init); until it is set, import fails with an IoError.
func SetImportEvaluator(fn func(ctx *eval.Context, src string, path string) (eval.Value, *eval.EvalError)) {
	importEvaluator = fn
}

func biImport(ctx *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	path, err := resolveGuarded(ctx, "import", args[0])
	if err != nil {
		return nil, err
	}
	data, rerr := os.ReadFile(path)
	if rerr != nil {
		return nil, ioErr("import %q: %v", path, rerr)
	}
	if importEvaluator == nil {
		return nil, ioErr("import %q: no import evaluator installed", path)
	}
	childCtx := &eval.Context{Output: ctx.Output, BaseDir: filepath.Dir(path)}
	return importEvaluator(childCtx, string(data), path)
}

func biFillTemplate(ctx *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	path, err := resolveGuarded(ctx, "fill_template", args[0])
	if err != nil {
		return nil, err
	}
	bindings, err := asDict("fill_template", args[1])
	if err != nil {
		return nil, err
	}
	data, rerr := os.ReadFile(path)
	if rerr != nil {
		return nil, ioErr("fill_template %q: %v", path, rerr)
	}
	out := string(data)
	for _, k := range bindings.Keys {
		v, _ := bindings.Get(k)
		out = strings.ReplaceAll(out, "{"+k+"}", v.Display())
	}
	return eval.Str(out), nil
}
