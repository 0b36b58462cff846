package main

import (
	"fmt"
	"os"

	"github.com/jief123/agenthub/cmd/agenthub/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cmd.PrintErrorHints(os.Stderr, err)
		os.Exit(1)
	}
}
