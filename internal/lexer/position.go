package lexer

import "fmt"

// Position identifies a location in Avon source text. Columns count runes,
// not bytes, so multi-byte UTF-8 sequences each advance the column by one.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
