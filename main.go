// Package main is the entry point for the rtpfixture capture generator.
package main

import (
	"fmt"
	"os"

	"firestige.xyz/rtpfixture/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
