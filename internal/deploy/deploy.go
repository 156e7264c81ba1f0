// Package deploy implements Avon's deployment engine (spec.md §4.5): the
// walk that discovers FileTemplate values inside an evaluated program
// result, the containment-checked path resolution, and the write protocol
// that materializes a Plan to disk.
package deploy

import (
	"github.com/avon-lang/avon/internal/eval"
)

// WriteMode selects how an existing file at a planned path is handled.
type WriteMode int

const (
	// Force overwrites an existing file unconditionally.
	Force WriteMode = iota
	// Backup renames an existing file aside before writing the new one.
	Backup
	// Append writes the new content after the existing file's contents.
	Append
	// IfNotExists writes only when no file currently exists at the path.
	IfNotExists
	// FailIfExists raises FileExists when a file already occupies the path.
	FailIfExists
)

func (m WriteMode) String() string {
	switch m {
	case Force:
		return "Force"
	case Backup:
		return "Backup"
	case Append:
		return "Append"
	case IfNotExists:
		return "IfNotExists"
	case FailIfExists:
		return "FailIfExists"
	}
	return "Unknown"
}

// Policy is spec.md §4.5's DeployPolicy: `{ root, write_mode, debug,
// bindings }`. Exclusive is an additive, default-off extension (not named
// by the spec) that takes an advisory gofrs/flock lock on root for the
// duration of Write, for hosts that deploy concurrently into the same
// root from more than one process.
type Policy struct {
	Root      string
	WriteMode WriteMode
	Debug     bool
	Bindings  map[string]eval.Value
	Exclusive bool
}

// PlanEntry is one file the discovery walk found: its Path as written in
// the program and its content. Resolution under the deploy root and the
// containment check happen later, in Write and Preview.
type PlanEntry struct {
	// RelPath is the FileTemplate's own Path value, "/"-joined.
	RelPath string
	Content eval.Value // *eval.StringValue or *eval.TemplateValue
}

// Plan is the ordered, fully discovered set of files to write. Order is
// discovery order: List elements in order, Dict fields in insertion
// order, pre-order traversal overall (spec.md §4.5 "Ordering guarantees").
type Plan struct {
	Entries []PlanEntry
}
