package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/scaffup/cmd/scaffup"
	"github.com/arthur-debert/scaffup/internal/version"
)

func main() {
	rootCmd := scaffup.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "SCAFFUP",
		Section: "1",
		Source:  "scaffup " + version.Version,
		Manual:  "scaffup manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
