package cmd

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/avon-lang/avon/internal/parser"
)

// Snapshot-tests the --dump-ast rendering the way the teacher snapshots
// deterministic interpreter text output: fixed source in, rendered tree
// text compared against a committed .snap fixture.
func TestDumpASTSnapshots(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"let_binding", `let x = 1 in x + 2`},
		{"curried_lambda", `\x \y x + y`},
		{"match_list_pattern", `match xs { [] => 0, [h, ..t] => h }`},
		{"dict_field_access", `{port: 8080}.port`},
		{"application_chain", `f x y`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			expr, err := parser.ParseExpr(c.src)
			if err != nil {
				t.Fatalf("parse %q: %v", c.src, err)
			}
			var buf bytes.Buffer
			dumpExpr(&buf, expr, 0)
			snaps.MatchSnapshot(t, c.name, buf.String())
		})
	}
}
