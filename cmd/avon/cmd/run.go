package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avon-lang/avon/pkg/avon"
)

var (
	evalExpr string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Evaluate an Avon program and print its resulting value",
	Long: `Evaluate an Avon file or inline expression and print the resulting value's
canonical display form.

Examples:
  # Run a source file
  avon run site.avon

  # Evaluate an inline expression
  avon run -e "let port = 8080 in {\"port: {port}\"}"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
}

func runScript(_ *cobra.Command, args []string) error {
	input, baseDir, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	engine := avon.New(avon.WithBaseDir(baseDir))
	v, everr := engine.Eval(input)
	if everr != nil {
		fmt.Fprintln(os.Stderr, everr.Format(true))
		return fmt.Errorf("evaluation of %s failed", filename)
	}

	fmt.Println(v.Display())
	return nil
}
