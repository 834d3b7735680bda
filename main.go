package main

import (
	"fmt"
	"os"

	"github.com/ciwebgroup/cli-tools/cmd/cli"
)

// main hands control to the ciweb root command.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintln(os.Stderr, executionError)
		os.Exit(1)
	}
}
