package deploy

import (
	yaml "github.com/goccy/go-yaml"

	avonerrors "github.com/avon-lang/avon/internal/errors"
	"github.com/avon-lang/avon/internal/eval"
	"github.com/avon-lang/avon/internal/lexer"
	"github.com/avon-lang/avon/internal/pathsafe"
)

// PreviewEntry is one file as Preview would have written it, without
// anything touching disk.
type PreviewEntry struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
}

// Preview resolves and renders every plan entry exactly as Write would,
// but performs no filesystem writes. Unlike Write, which stops at the
// first containment violation, Preview scans every entry and aggregates
// every violation it finds (via hashicorp/go-multierror, through
// aggregateErrors in write.go) so a host can report them all in one pass
// before a real deploy is attempted.
func Preview(plan Plan, policy Policy) ([]PreviewEntry, *eval.EvalError) {
	var entries []PreviewEntry
	var pathErrs []error

	for _, entry := range plan.Entries {
		resolved, perr := pathsafe.Validate(pathsafe.DeployPath, entry.RelPath, policy.Root)
		if perr != nil {
			pathErrs = append(pathErrs, perr)
			continue
		}
		body, berr := renderBody(entry.Content)
		if berr != nil {
			return nil, berr
		}
		entries = append(entries, PreviewEntry{Path: resolved, Content: body})
	}

	if agg := aggregateErrors(pathErrs); agg != nil {
		return nil, avonerrors.New(avonerrors.PathEscape, lexer.Position{}, "%v", agg)
	}
	return entries, nil
}

// PreviewYAML renders Preview's result as a YAML document (domain-stack
// wiring for goccy/go-yaml, per the deploy preview path): a list of
// {path, content} mappings in plan order.
func PreviewYAML(plan Plan, policy Policy) (string, *eval.EvalError) {
	entries, err := Preview(plan, policy)
	if err != nil {
		return "", err
	}
	out, merr := yaml.Marshal(entries)
	if merr != nil {
		return "", avonerrors.New(avonerrors.IoError, lexer.Position{}, "rendering preview: %v", merr)
	}
	return string(out), nil
}
