// Package sopsguard provides the command-line interface for the sopsguard
// tool. It configures subcommands (check, baseline, install-hook), parses
// flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/sopsguard/sopsguard/cmd/sopsguard"
//	func main() { sopsguard.Execute() }
package sopsguard
