package cmd

import (
	"clientsplit/config"
	"clientsplit/storage"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	historyDBPath     string
	historyLimit      int
	historyDeleteFile bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded split runs",
	Long: `List the split runs recorded in the SQLite history database, newest first.

Runs are recorded by "split" and "serve" when --history is given or history.enabled is set.`,
	Example: `
  # List the last 20 runs
  clientsplit history --limit 20

  # Show one run with all generated sheets
  clientsplit history show 3f0c9a4e-6f0e-4b8e-9b55-1f1f7c3c2d10

  # Clear the history (requires interactive confirmation)
  clientsplit history delete
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}
		return writeRuns(os.Stdout, runs)
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.GetRun(strings.TrimSpace(args[0]))
		if err != nil {
			return err
		}
		return writeRunDetail(os.Stdout, run)
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete all recorded runs",
	Long: `Destructive history cleanup command.

Deletes every recorded run, or with --file the complete SQLite database file.
Before deletion, an interactive security prompt requires typing exactly "Y".`,
	Example: `
  # Delete all runs (requires interactive confirmation)
  clientsplit history delete --db ./clientsplit.db

  # Delete the complete SQLite file
  clientsplit history delete --file
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := historyPath()
		if err != nil {
			return err
		}

		question := fmt.Sprintf("Delete all runs recorded in %q?", path)
		if historyDeleteFile {
			question = fmt.Sprintf("Delete database file %q?", path)
		}
		confirmed, err := confirmPrompt(promptInput, promptOutput, question)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		if historyDeleteFile {
			if err := removeDatabaseFile(path); err != nil {
				return err
			}
			fmt.Printf("Deleted database file: %s\n", path)
			return nil
		}

		store, err := storage.OpenSQLite(path)
		if err != nil {
			return err
		}
		defer store.Close()

		deleted, err := store.DeleteAllRuns()
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d run(s) from %s\n", deleted, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	historyCmd.PersistentFlags().StringVar(&historyDBPath, "db", "", "Path to the SQLite history database (default history.db from config)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "Maximum number of runs to list, 0 for all")
	historyDeleteCmd.Flags().BoolVar(&historyDeleteFile, "file", false, "Delete the complete database file instead of its rows")
}

func historyPath() (string, error) {
	if strings.TrimSpace(historyDBPath) != "" {
		return historyDBPath, nil
	}
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(cfg.History.DB) == "" {
		return "", fmt.Errorf("no history database configured (use --db)")
	}
	return cfg.History.DB, nil
}

// openHistory opens an existing history database; listing never creates one.
func openHistory() (*storage.SQLiteStore, error) {
	path, err := historyPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("history database not found: %s", path)
		}
		return nil, fmt.Errorf("stat history database: %w", err)
	}
	return storage.OpenSQLite(path)
}

func writeRuns(out io.Writer, runs []storage.Run) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tORIGIN\tINPUT\tCOLUMN\tSHEETS\tROWS\tWARNINGS")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.Origin,
			run.Input,
			run.GroupColumn,
			len(run.Sheets),
			run.RowsWritten,
			run.Warnings,
		)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write runs: %w", err)
	}
	return nil
}

func writeRunDetail(out io.Writer, run storage.Run) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", run.ID)
	fmt.Fprintf(tw, "Created:\t%s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(tw, "Origin:\t%s\n", run.Origin)
	fmt.Fprintf(tw, "Input:\t%s\n", run.Input)
	fmt.Fprintf(tw, "Template:\t%s\n", run.Template)
	fmt.Fprintf(tw, "Output:\t%s\n", run.Output)
	fmt.Fprintf(tw, "Grouping column:\t%s\n", run.GroupColumn)
	fmt.Fprintf(tw, "Template sheet:\t%s\n", run.TemplateSheet)
	fmt.Fprintf(tw, "Rows written:\t%d\n", run.RowsWritten)
	fmt.Fprintf(tw, "Warnings:\t%d\n", run.Warnings)
	fmt.Fprintf(tw, "Sheets:\t%d\n", len(run.Sheets))
	for _, sheet := range run.Sheets {
		fmt.Fprintf(tw, "\t%s\n", sheet)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

func removeDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	return nil
}
