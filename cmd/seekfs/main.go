// Package main provides the seekfs server and CLI.
//
// Usage:
//
//	seekfs [flags] <command> [args]
//
// Commands:
//
//	serve    - run the HTTP API server
//	index    - index a directory into the search corpus
//	search   - query the search corpus
//	list     - list indexed files
//	version  - print the version
//
// Configuration is read from a YAML file passed via --config; every
// setting has a working default, so seekfs runs without one.
package main

import (
	"fmt"
	"os"

	"github.com/seekfs/seekfs/cmd/seekfs/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
