// Package main provides the ladisasm command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/sarchlab/ladisasm/cmd/ladisasm/cmds"
)

func main() {
	if err := cmds.New().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
