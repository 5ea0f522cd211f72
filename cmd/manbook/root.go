// Package main provides the entry point for the manbook CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for manbook.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manbook",
		Short: "Collect OS package manual pages into one document",
		Long: `Manbook discovers every installable package on the system, renders each
package's manual pages to plain text via the man command, and assembles
the result into a single paginated document (PDF or Markdown).

By default, manbook harvests all packages reported by the OS package
manager. Pass package names as arguments to restrict the harvest.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewBuildCmd())
	cmd.AddCommand(NewPackagesCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
