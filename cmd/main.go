package main

import (
	"fmt"
	"os"

	"github.com/rony4d/go-opera-aura/cmd/aura/launcher"
)

func main() {

	// Hand the full list of command-line arguments to the launcher
	if err := launcher.Launch(os.Args); err != nil {

		// Report the issue so the user sees it, and fail the process
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
