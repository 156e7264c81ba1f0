package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avon-lang/avon/internal/deploy"
	"github.com/avon-lang/avon/pkg/avon"
)

var (
	deployRoot      string
	deployWriteMode string
	deployPreview   bool
	deployExclusive bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy [file]",
	Short: "Evaluate an Avon program and write its file templates to disk",
	Long: `Evaluate an Avon file or inline expression and deploy every FileTemplate
it produces to a root directory.

Examples:
  # Deploy to the current directory, overwriting existing files
  avon deploy --root . --write-mode force site.avon

  # See what would be written without touching disk
  avon deploy --preview site.avon`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeploy,
}

func init() {
	rootCmd.AddCommand(deployCmd)

	deployCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	deployCmd.Flags().StringVar(&deployRoot, "root", ".", "deploy root directory")
	deployCmd.Flags().StringVar(&deployWriteMode, "write-mode", "force", "force|backup|append|if-not-exists|fail-if-exists")
	deployCmd.Flags().BoolVar(&deployPreview, "preview", false, "render the deploy plan as YAML instead of writing")
	deployCmd.Flags().BoolVar(&deployExclusive, "exclusive", false, "hold an advisory lock on root for the duration of the deploy")
}

func parseWriteMode(s string) (deploy.WriteMode, error) {
	switch strings.ToLower(s) {
	case "force":
		return deploy.Force, nil
	case "backup":
		return deploy.Backup, nil
	case "append":
		return deploy.Append, nil
	case "if-not-exists":
		return deploy.IfNotExists, nil
	case "fail-if-exists":
		return deploy.FailIfExists, nil
	}
	return deploy.Force, fmt.Errorf("unknown write mode %q", s)
}

func runDeploy(_ *cobra.Command, args []string) error {
	input, baseDir, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	mode, err := parseWriteMode(deployWriteMode)
	if err != nil {
		return err
	}

	root := deployRoot
	if root == "." {
		root = baseDir
	}

	policy := deploy.Policy{Root: root, WriteMode: mode, Exclusive: deployExclusive}
	engine := avon.New(avon.WithBaseDir(baseDir))

	if deployPreview {
		v, everr := engine.Eval(input)
		var plan deploy.Plan
		if everr == nil {
			plan, everr = deploy.Discover(v)
		}
		var doc string
		if everr == nil {
			doc, everr = deploy.PreviewYAML(plan, policy)
		}
		if everr != nil {
			fmt.Fprintln(os.Stderr, everr.Format(true))
			return fmt.Errorf("preview of %s failed", filename)
		}
		fmt.Print(doc)
		return nil
	}

	result, everr := engine.Deploy(input, policy)
	if everr != nil {
		fmt.Fprintln(os.Stderr, everr.Format(true))
		if result.Partial {
			exitWithError("deploy partially completed: %d file(s) written before failure", len(result.Written))
		}
		return fmt.Errorf("deploy of %s failed", filename)
	}

	for _, w := range result.Written {
		fmt.Println(w)
	}
	return nil
}
