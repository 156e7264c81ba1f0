// Command avon runs and deploys Avon programs.
package main

import (
	"fmt"
	"os"

	"github.com/avon-lang/avon/cmd/avon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
