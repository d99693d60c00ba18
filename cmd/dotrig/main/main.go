package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dotrig/dotrig/cmd/dotrig"
	"github.com/dotrig/dotrig/pkg/style"
)

func main() {
	rootCmd := dotrig.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		var failed *dotrig.ErrTargetsFailed
		if !errors.As(err, &failed) {
			fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		}
		os.Exit(1)
	}
}
