package errors

import "strings"

// FormatErrors renders a batch of errors (e.g. every lex error collected in
// one pass) separated by blank lines, matching the CLI's batch diagnostic
// output.
func FormatErrors(errs []*AvonError, color bool) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Format(color))
	}
	return strings.Join(parts, "\n\n")
}
