// Package main provides the entry point for the manbook CLI.
//
// Manbook harvests the manual pages of every installable OS package and
// assembles them into one paginated document (PDF or Markdown).
//
// Usage:
//
//	manbook build
//	manbook build bash coreutils grep
//
// See --help for all available options.
package main

// main is the entry point for manbook.
func main() {
	Execute()
}
