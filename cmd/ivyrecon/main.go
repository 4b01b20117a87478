// Package main provides the entry point for the ivyrecon CLI tool.
package main

import (
	"github.com/ivyrecon/ivyrecon/cmd/ivyrecon/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cmd.Execute(version, commit, date, builtBy)
}
