package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/arthur-debert/scaffup/cmd/scaffup"
	"github.com/arthur-debert/scaffup/pkg/errors"
	"github.com/arthur-debert/scaffup/pkg/output"
)

func main() {
	rootCmd := scaffup.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// The failed update has already been rendered
		if !stderrors.Is(err, scaffup.ErrUpdateFailed) {
			fmt.Fprintln(os.Stderr, output.ErrorStyle.Render("Error: "+errors.Diagnostic(err)))
		}
		os.Exit(1)
	}
}
