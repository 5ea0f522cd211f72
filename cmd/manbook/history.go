package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkgdoc/manbook/internal/config"
	"github.com/pkgdoc/manbook/internal/database"
)

// NewHistoryCmd creates the history command.
// This command reads past run summaries from the database so coverage
// can be compared across builds without keeping the documents around.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past build runs",
		Long: `History lists past build runs recorded in the local database.

Every completed build saves its summary: when it ran, how long it took,
how many packages were processed, and how many manual pages were
written. Use this to track documentation coverage over time.

Examples:
  # Show the most recent runs
  manbook history

  # Show the last 5 runs
  manbook history --limit 5

  # Output run history as JSON
  manbook history --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 10,
		"Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output run history in JSON format")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// Open without creating so an empty history is reported, not silently
	// materialized as an empty database.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No run history found.")
		fmt.Fprintln(cmd.OutOrStdout(), "\nUse 'manbook build' to run a harvest and record it.")
		return nil
	}
	defer db.Close()

	records, err := db.ListRuns(context.Background(), limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}

	return printHistory(cmd, records)
}

// printHistory renders run records as an aligned text table.
func printHistory(cmd *cobra.Command, records []database.RunRecord) error {
	out := cmd.OutOrStdout()

	if len(records) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out, "\nUse 'manbook build' to run a harvest and record it.")
		return nil
	}

	fmt.Fprintf(out, "Run history (%d runs):\n\n", len(records))
	fmt.Fprintf(out, "  %-6s  %-20s  %-10s  %-10s  %-10s  %-8s  %s\n",
		"ID", "Date", "Duration", "Processed", "With docs", "Pages", "Failures")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 84))

	for _, rec := range records {
		s := rec.Summary
		fmt.Fprintf(out, "  %-6d  %-20s  %-10s  %-10d  %-10d  %-8d  %d\n",
			rec.ID,
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			s.Duration.Round(time.Second),
			s.Processed,
			s.PackagesWithDocs,
			s.TotalPages,
			len(s.Failures),
		)
	}

	fmt.Fprintln(out, "\nUse 'manbook history --json' for full details including failures.")
	return nil
}
