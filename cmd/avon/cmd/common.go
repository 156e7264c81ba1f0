package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// readSource resolves a command's source input from either an inline
// expression, a file argument, or stdin, and reports the directory I/O
// built-ins and the deploy engine should resolve relative paths against:
// the invoking file's own directory, or the current working directory for
// inline/stdin input.
func readSource(inlineExpr string, args []string) (input, baseDir, filename string, err error) {
	if inlineExpr != "" {
		wd, _ := os.Getwd()
		return inlineExpr, wd, "<eval>", nil
	}
	if len(args) == 1 {
		filename = args[0]
		content, rerr := os.ReadFile(filename)
		if rerr != nil {
			return "", "", "", fmt.Errorf("failed to read file %s: %w", filename, rerr)
		}
		abs, aerr := filepath.Abs(filename)
		if aerr != nil {
			abs = filename
		}
		return string(content), filepath.Dir(abs), filename, nil
	}

	data, rerr := io.ReadAll(os.Stdin)
	if rerr != nil {
		return "", "", "", fmt.Errorf("failed to read stdin: %w", rerr)
	}
	wd, _ := os.Getwd()
	return string(data), wd, "<stdin>", nil
}
