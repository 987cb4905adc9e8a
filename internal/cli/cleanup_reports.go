package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/fintrack/internal/config"
	"github.com/mrlokans/fintrack/internal/database"
	"github.com/mrlokans/fintrack/internal/database/audit"
	"github.com/mrlokans/fintrack/internal/database/reports"
	"github.com/mrlokans/fintrack/internal/logging"
	"github.com/mrlokans/fintrack/internal/tasks"
)

// CleanupReportsCommand deletes stored AI reports and activity events older
// than the retention without going through the task queue.
type CleanupReportsCommand struct {
	DatabasePath  string
	RetentionDays int
	Verbose       bool

	out io.Writer
	now func() time.Time
}

func NewCleanupReportsCommand() *CleanupReportsCommand {
	return &CleanupReportsCommand{out: os.Stdout, now: time.Now}
}

func (cmd *CleanupReportsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("cleanup-reports", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.IntVar(&cmd.RetentionDays, "days", tasks.DefaultReportRetentionDays, "Delete reports older than this many days")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s cleanup-reports [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete saved AI suggestion reports past their retention.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s cleanup-reports -days 30\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s cleanup-reports -db ./fintrack.db -days 7\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.RetentionDays < 1 {
		fs.Usage()
		return fmt.Errorf("days must be at least 1")
	}

	return nil
}

func (cmd *CleanupReportsCommand) Run() error {
	if _, err := os.Stat(cmd.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("database does not exist: %s", cmd.DatabasePath)
	}

	level := "warn"
	if cmd.Verbose {
		level = "debug"
	}
	logger := logging.New(logging.Config{Level: level, Output: os.Stderr})

	db, err := database.NewDatabase(cmd.DatabasePath, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database", "error", err)
		}
	}()

	cutoff := tasks.CleanupReportsTask{RetentionDays: cmd.RetentionDays}.Cutoff(cmd.now())
	ctx := context.Background()
	deleted, err := reports.NewRepository(db.DB).DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete reports: %w", err)
	}
	events, err := audit.NewRepository(db.DB).DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	fmt.Fprintf(cmd.out, "Deleted %d report(s) and %d activity event(s) created before %s\n", deleted, events, cutoff.Format(time.DateOnly))
	return nil
}
