package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/synqtech/synq-site/internal/config"
	"github.com/synqtech/synq-site/internal/database"
	"github.com/synqtech/synq-site/internal/logging"
	"github.com/synqtech/synq-site/internal/migration"
	"github.com/synqtech/synq-site/internal/models"
)

type runOptions struct {
	dryRun      bool
	sequential  bool
	snapshotDir string
	jsonOutput  bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "synq-migrate",
		Short:        "Move locally saved site data into the database",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newRunCommand())
	return rootCmd
}

func newRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Seed empty tables from the local snapshot or bundled defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runMigration(ctx, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Load and normalize records without writing to the database")
	cmd.Flags().BoolVar(&opts.sequential, "sequential", false, "Migrate one kind at a time")
	cmd.Flags().StringVar(&opts.snapshotDir, "snapshot-dir", "", "Directory holding the local snapshot (defaults to SNAPSHOT_DIR)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the report as JSON")
	return cmd
}

func runMigration(ctx context.Context, opts runOptions, out io.Writer) error {
	cfg := config.Load()
	if opts.snapshotDir != "" {
		cfg.SnapshotDir = opts.snapshotDir
	}
	if opts.sequential {
		cfg.MigrationConcurrent = false
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if opts.dryRun {
		loader := migration.NewLoader(migration.NewFileSnapshotStore(cfg.SnapshotDir), migration.BundledDefaults(), logger)
		rows, err := dryRun(ctx, loader, migration.NewNormalizer(), models.AllKinds())
		if err != nil {
			return err
		}
		return printDryRun(out, rows, opts.jsonOutput)
	}

	db, err := database.Initialize(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}

	migrator, closeMigrator, err := migration.FromConfig(cfg, db, logger)
	if err != nil {
		return err
	}
	defer closeMigrator()

	report := <-migrator.Start(ctx)
	if err := printReport(out, report, opts.jsonOutput); err != nil {
		return err
	}

	if report.Skipped {
		return fmt.Errorf("migration skipped: %s", report.SkipReason)
	}
	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("migration failed for %v", failed)
	}
	return nil
}

// dryRunRow is what a run would try to insert for one kind.
type dryRunRow struct {
	Kind    models.Kind      `json:"kind"`
	Source  migration.Source `json:"source"`
	Loaded  int              `json:"loaded"`
	Valid   int              `json:"valid"`
	Dropped []string         `json:"dropped,omitempty"`
}

func dryRun(ctx context.Context, loader *migration.Loader, normalizer *migration.Normalizer, kinds []models.Kind) ([]dryRunRow, error) {
	rows := make([]dryRunRow, 0, len(kinds))
	for _, kind := range kinds {
		loaded, err := loader.Load(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", kind, err)
		}

		records, dropped := normalizer.NormalizeBatch(kind, loaded.Records)
		row := dryRunRow{
			Kind:   kind,
			Source: loaded.Source,
			Loaded: len(loaded.Records),
			Valid:  len(records),
		}
		for _, verr := range dropped {
			row.Dropped = append(row.Dropped, verr.Error())
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func printDryRun(out io.Writer, rows []dryRunRow, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tSOURCE\tLOADED\tVALID\tDROPPED")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", row.Kind, row.Source, row.Loaded, row.Valid, len(row.Dropped))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, row := range rows {
		for _, reason := range row.Dropped {
			fmt.Fprintf(out, "dropped %s: %s\n", row.Kind, reason)
		}
	}
	return nil
}

func printReport(out io.Writer, report migration.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	if report.Skipped {
		_, err := fmt.Fprintf(out, "skipped: %s\n", report.SkipReason)
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tSTATE\tSOURCE\tLOADED\tDROPPED\tINSERTED\tSEED\tERROR")
	for _, o := range report.Outcomes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			o.Kind, o.State, o.Source, o.Loaded, o.Dropped, o.Inserted, o.SeedStatus, o.Error)
	}
	fmt.Fprintf(tw, "\ntook %s\n", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	return tw.Flush()
}
