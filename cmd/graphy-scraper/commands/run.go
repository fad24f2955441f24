package commands

import (
	"log/slog"

	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/serviceutil"
	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/sinks/supabase"
	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/services/export"
	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/services/reconcile"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

// run is the whole pipeline in one shot: scrape submissions and
// metadata, then merge and upload unless the configured mode stops
// after scraping.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrapes, merges and uploads according to the configured mode.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		ctx := cmd.Context()

		ids := cfg.Graphy.AssignmentIds
		if len(ids) == 0 {
			slog.Error("no assignment ids configured")
			return
		}

		client := login(ctx, cfg)
		exporter, err := export.NewExporter(client, cfg.OutputDir)
		if err != nil {
			serviceutil.Fatal("initialize exporter", err)
		}
		_, err = exporter.ScrapeMany(ctx, ids)
		if err != nil {
			serviceutil.Fatal("scrape submissions", err)
		}
		_, err = exporter.ExportMetadata(ctx)
		if err != nil {
			serviceutil.Fatal("export metadata", err)
		}

		if cfg.Mode == "scrape-only" {
			slog.Info("scrape-only mode, skipping merge and upload")
			return
		}

		table, err := reconcile.Merge(reconcile.Options{
			OutputDir:  cfg.OutputDir,
			RosterPath: cfg.RosterPath,
		})
		if err != nil {
			serviceutil.Fatal("merge", err)
		}

		sink := supabase.NewClient(supabase.ClientOptions{
			Url:    cfg.Supabase.Url,
			Key:    cfg.Supabase.Key,
			Schema: cfg.Supabase.Schema,
		})
		results := sink.UploadTable(ctx, cfg.Supabase.Table, table, cfg.BatchSize)

		failed := 0
		for _, res := range results {
			if res.Err != nil {
				failed++
			}
		}
		slog.Info("upload finished", "batches", len(results), "failed", failed)
	},
}
