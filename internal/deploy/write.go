package deploy

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	hashierrors "github.com/hashicorp/go-multierror"

	avonerrors "github.com/avon-lang/avon/internal/errors"
	"github.com/avon-lang/avon/internal/eval"
	"github.com/avon-lang/avon/internal/lexer"
	"github.com/avon-lang/avon/internal/pathsafe"
)

// Result records what Write actually did, for a host that wants to report
// it (or just check Partial).
type Result struct {
	// Written holds the absolute paths of the entries Write handled without
	// error, in plan order; the entry whose step failed is not included. An
	// entry skipped under IfNotExists because its file already exists is
	// listed too.
	Written []string
	// Partial is true when an error stopped Write before every plan entry
	// was handled; nothing that already succeeded is rolled back.
	Partial bool
}

// Write resolves every plan entry under policy.Root (reaffirming
// containment per spec.md §4.5/§4.6), then writes each one according to
// policy.WriteMode. It does not roll back on failure. Once at least one
// entry has been written, a failure is reported as a DeployPartial error
// naming the count written, the failing entry and the cause; a failure at
// the first entry keeps its own kind (FileExists, IoError, PathEscape, ...).
// Result.Written shows exactly how far it got.
func Write(plan Plan, policy Policy) (Result, *eval.EvalError) {
	var res Result

	if policy.Exclusive {
		lock := flock.New(filepath.Join(policy.Root, ".avon-deploy.lock"))
		locked, lerr := lock.TryLock()
		if lerr != nil || !locked {
			return res, avonerrors.New(avonerrors.IoError, lexer.Position{}, "deploy: could not acquire exclusive lock on %q", policy.Root)
		}
		defer lock.Unlock()
	}

	for _, entry := range plan.Entries {
		resolved, perr := pathsafe.Validate(pathsafe.DeployPath, entry.RelPath, policy.Root)
		if perr != nil {
			res.Partial = true
			return res, partialErr(res, entry.RelPath, wrapDeployPathErr(perr))
		}
		body, berr := renderBody(entry.Content)
		if berr != nil {
			res.Partial = true
			return res, partialErr(res, entry.RelPath, berr)
		}
		if err := writeOne(resolved, body, policy.WriteMode); err != nil {
			res.Partial = true
			return res, partialErr(res, entry.RelPath, err)
		}
		res.Written = append(res.Written, resolved)
	}
	return res, nil
}

// partialErr wraps cause in a DeployPartial error once res records at least
// one written entry; a failure at the first entry is returned unchanged.
func partialErr(res Result, relPath string, cause *eval.EvalError) *eval.EvalError {
	if len(res.Written) == 0 {
		return cause
	}
	return avonerrors.New(avonerrors.DeployPartial, cause.Pos, "%d file(s) written before %q failed: %s: %s", len(res.Written), relPath, cause.Kind, cause.Message)
}

func wrapDeployPathErr(perr error) *eval.EvalError {
	pe, ok := perr.(*pathsafe.Error)
	if !ok {
		return avonerrors.New(avonerrors.IoError, lexer.Position{}, "%v", perr)
	}
	switch pe.Kind {
	case "PathEscape":
		return avonerrors.New(avonerrors.PathEscape, lexer.Position{}, "%s", pe.Message)
	case "PathTraversal":
		return avonerrors.New(avonerrors.PathTraversal, lexer.Position{}, "%s", pe.Message)
	default:
		return avonerrors.New(avonerrors.IoError, lexer.Position{}, "%s", pe.Message)
	}
}

func renderBody(content eval.Value) (string, *eval.EvalError) {
	switch c := content.(type) {
	case *eval.StringValue:
		return c.Value, nil
	case *eval.TemplateValue:
		s, err := c.Force()
		if err != nil {
			return "", err
		}
		return s.Value, nil
	}
	return "", avonerrors.New(avonerrors.TypeMismatch, lexer.Position{}, "FileTemplate content: expected String or Template, found %s", content.Type())
}

// writeOne applies write_mode at dest, writing through a uuid-suffixed
// temp file in dest's own directory and an atomic os.Rename into place, so
// a reader never observes a partially written file.
func writeOne(dest, body string, mode WriteMode) *eval.EvalError {
	exists := false
	if _, err := os.Stat(dest); err == nil {
		exists = true
	}

	switch mode {
	case FailIfExists:
		if exists {
			return avonerrors.New(avonerrors.FileExists, lexer.Position{}, "%q already exists", dest)
		}
	case IfNotExists:
		if exists {
			return nil
		}
	case Backup:
		if exists {
			if err := backupExisting(dest); err != nil {
				return avonerrors.New(avonerrors.IoError, lexer.Position{}, "backing up %q: %v", dest, err)
			}
		}
	case Append:
		if exists {
			prior, rerr := os.ReadFile(dest)
			if rerr != nil {
				return avonerrors.New(avonerrors.IoError, lexer.Position{}, "reading %q for append: %v", dest, rerr)
			}
			body = string(prior) + body
		}
	case Force:
		// unconditional overwrite, nothing to check first.
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return avonerrors.New(avonerrors.IoError, lexer.Position{}, "creating directory for %q: %v", dest, err)
	}
	if err := atomicWrite(dest, body); err != nil {
		return avonerrors.New(avonerrors.IoError, lexer.Position{}, "writing %q: %v", dest, err)
	}
	return nil
}

// backupExisting renames dest to "<name>.bak.<timestamp>" per the documented
// Backup write mode (spec.md scenario #7). Nanosecond precision keeps
// successive backups of the same file within one process distinct.
func backupExisting(dest string) error {
	backup := fmt.Sprintf("%s.bak.%s", dest, time.Now().UTC().Format("20060102150405.000000000"))
	return os.Rename(dest, backup)
}

// atomicWrite writes body to a sibling temp file and renames it over dest,
// so dest is either absent, the old content, or the new content — never a
// truncated partial write.
func atomicWrite(dest, body string) error {
	tmp := filepath.Join(filepath.Dir(dest), "."+filepath.Base(dest)+".tmp."+uuid.NewString())
	if err := os.WriteFile(tmp, []byte(body), 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// aggregateErrors is used by Preview's pre-scan (see preview.go) to
// collect every containment violation instead of stopping at the first,
// grounded on the pack's hashicorp/go-multierror usage pattern.
func aggregateErrors(errs []error) error {
	var merr *hashierrors.Error
	for _, e := range errs {
		merr = hashierrors.Append(merr, e)
	}
	return merr.ErrorOrNil()
}
