package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/handrail/internal/cli"
	"github.com/arthur-debert/handrail/pkg/style"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		renderer := style.ForWriter(os.Stderr)
		fmt.Fprintln(os.Stderr, renderer.RenderError(err))
		os.Exit(1)
	}
}
