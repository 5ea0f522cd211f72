package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgdoc/manbook/internal/config"
	"github.com/pkgdoc/manbook/internal/syspkg"
)

// NewPackagesCmd creates the packages command.
// This command runs discovery only, so users can preview what a full
// build would harvest and tune their skip globs.
func NewPackagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packages",
		Short: "List the packages a build would harvest",
		Long: `Packages runs the package discovery step and prints every package name
a build would process, after skip globs are applied. No manual pages
are fetched and no document is written.

Examples:
  # List all discoverable packages
  manbook packages

  # Use a different package query
  manbook packages --list-command "apt list"

  # Apply the skip globs from a config file
  manbook packages -c myconfig.yaml`,
		Args: cobra.NoArgs,
		RunE: runPackagesCmd,
	}

	cmd.Flags().String("list-command", config.DefaultListCommand,
		"Command that enumerates installable packages")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .manbook in current or home directory)")
	cmd.Flags().Bool("count", false,
		"Print only the package count")

	return cmd
}

// runPackagesCmd executes the packages command.
func runPackagesCmd(cmd *cobra.Command, _ []string) error {
	listCommand, err := cmd.Flags().GetString("list-command")
	if err != nil {
		return err
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	countOnly, err := cmd.Flags().GetBool("count")
	if err != nil {
		return err
	}

	// Pick up skip globs and a list command override from the config file
	var skip []string
	if found := config.FindConfigFile(configPath); found != "" {
		cf, err := config.LoadConfigFile(found)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		skip = cf.Skip
		if !cmd.Flags().Changed("list-command") && cf.Defaults.ListCommand != "" {
			listCommand = cf.Defaults.ListCommand
		}
	} else if configPath != "" {
		return fmt.Errorf("configuration file not found: %s", configPath)
	}

	logger := setupLogger(getVerboseFlag(cmd))
	lister := syspkg.NewLister(listCommand,
		syspkg.WithListerLogger(logger),
		syspkg.WithSkipPatterns(skip),
	)

	names, err := lister.ListPackages(context.Background())
	if err != nil {
		return err
	}

	if countOnly {
		fmt.Fprintln(cmd.OutOrStdout(), len(names))
		return nil
	}

	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	logger.Debug("discovery complete", "packages", len(names))

	return nil
}
