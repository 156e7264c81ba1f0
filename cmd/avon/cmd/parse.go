package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avon-lang/avon/internal/ast"
	"github.com/avon-lang/avon/internal/parser"
)

var (
	parseExpression bool
	parseDumpAST    bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse Avon source and display its expression tree",
	Long: `Parse Avon source code and display the resulting expression tree.

If no file is provided, reads from stdin. Use -e to parse a single
expression from the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVarP(&parseExpression, "expression", "e", false, "parse an expression from the command line")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full expression tree structure")
}

func runParse(_ *cobra.Command, args []string) error {
	var input string
	if parseExpression {
		if len(args) == 0 {
			return fmt.Errorf("no expression provided")
		}
		input = args[0]
	} else {
		var err error
		input, _, _, err = readSource("", args)
		if err != nil {
			return err
		}
	}

	expr, err := parser.ParseExpr(input)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if parseDumpAST {
		dumpExpr(os.Stdout, expr, 0)
	} else {
		fmt.Printf("%T at %s\n", expr, expr.Pos())
	}
	return nil
}

// dumpExpr writes the expression tree structure to w, one node per line,
// indented by nesting depth. Factored out of runParse so the --dump-ast
// rendering can be snapshot-tested without going through stdout.
func dumpExpr(w io.Writer, node ast.Expr, indent int) {
	pad := strings.Repeat("  ", indent)
	switch n := node.(type) {
	case *ast.NumberLit:
		if n.IsInt {
			fmt.Fprintf(w, "%sNumberLit: %s\n", pad, n.IntVal.String())
		} else {
			fmt.Fprintf(w, "%sNumberLit: %g\n", pad, n.FloatVal)
		}
	case *ast.StringLit:
		fmt.Fprintf(w, "%sStringLit: %q\n", pad, n.Value)
	case *ast.BoolLit:
		fmt.Fprintf(w, "%sBoolLit: %v\n", pad, n.Value)
	case *ast.NoneLit:
		fmt.Fprintf(w, "%sNoneLit\n", pad)
	case *ast.Ident:
		fmt.Fprintf(w, "%sIdent: %s\n", pad, n.Name)
	case *ast.Let:
		fmt.Fprintf(w, "%sLet %s\n", pad, n.Name)
		fmt.Fprintf(w, "%s  value:\n", pad)
		dumpExpr(w, n.Value, indent+2)
		fmt.Fprintf(w, "%s  body:\n", pad)
		dumpExpr(w, n.Body, indent+2)
	case *ast.Lambda:
		fmt.Fprintf(w, "%sLambda \\%s\n", pad, n.Param)
		dumpExpr(w, n.Body, indent+1)
	case *ast.App:
		fmt.Fprintf(w, "%sApp\n", pad)
		dumpExpr(w, n.Fn, indent+1)
		dumpExpr(w, n.Arg, indent+1)
	case *ast.BinaryOp:
		fmt.Fprintf(w, "%sBinaryOp %q\n", pad, n.Op)
		dumpExpr(w, n.Left, indent+1)
		dumpExpr(w, n.Right, indent+1)
	case *ast.UnaryOp:
		fmt.Fprintf(w, "%sUnaryOp %q\n", pad, n.Op)
		dumpExpr(w, n.Expr, indent+1)
	case *ast.If:
		fmt.Fprintf(w, "%sIf\n", pad)
		dumpExpr(w, n.Cond, indent+1)
		dumpExpr(w, n.Then, indent+1)
		dumpExpr(w, n.Else, indent+1)
	case *ast.Match:
		fmt.Fprintf(w, "%sMatch (%d arms)\n", pad, len(n.Arms))
		dumpExpr(w, n.Subject, indent+1)
	case *ast.ListLit:
		fmt.Fprintf(w, "%sListLit (%d elements)\n", pad, len(n.Elements))
		for _, el := range n.Elements {
			dumpExpr(w, el, indent+1)
		}
	case *ast.DictLit:
		fmt.Fprintf(w, "%sDictLit (%d keys)\n", pad, len(n.Keys))
	case *ast.PathLit:
		fmt.Fprintf(w, "%sPathLit: %s\n", pad, strings.Join(n.Segments, "/"))
	case *ast.TemplateLit:
		fmt.Fprintf(w, "%sTemplateLit (%d chunks)\n", pad, len(n.Chunks))
	case *ast.FieldAccess:
		fmt.Fprintf(w, "%sFieldAccess .%s\n", pad, n.Field)
		dumpExpr(w, n.Target, indent+1)
	case *ast.Index:
		fmt.Fprintf(w, "%sIndex\n", pad)
		dumpExpr(w, n.Target, indent+1)
		dumpExpr(w, n.Index, indent+1)
	default:
		fmt.Fprintf(w, "%s%T\n", pad, node)
	}
}
