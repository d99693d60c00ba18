package main

import (
	"fmt"
	"os"

	"github.com/dotrig/dotrig/cmd/dotrig"
	"github.com/dotrig/dotrig/internal/version"
	"github.com/spf13/cobra/doc"
)

func main() {
	header := &doc.GenManHeader{
		Title:   "DOTRIG",
		Section: "1",
		Source:  "dotrig " + version.Version,
		Manual:  "dotrig manual",
	}

	if err := doc.GenMan(dotrig.NewRootCmd(), header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
