package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/addonc/cmd/addonc"
	"github.com/arthur-debert/addonc/internal/version"
)

func main() {
	rootCmd := addonc.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "ADDONC",
		Section: "1",
		Source:  "addonc " + version.Version,
		Manual:  "addonc manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
