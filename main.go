// ABOUTME: Entry point for the docmatch CLI
// ABOUTME: Command-line client for the credit-based document matching service

package main

import (
	"fmt"
	"os"

	"github.com/the-sauravkumar/credit-based-document-matching/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
