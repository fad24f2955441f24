package commands

import (
	"context"
	"log/slog"

	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/serviceutil"
	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/services/export"

	"github.com/spf13/cobra"
)

var scrapeIds *[]string

func init() {
	scrapeIds = scrapeCmd.Flags().StringSlice("ids", nil, "Assignment ids to scrape, overriding the config. Pass 'meta' to export assignment metadata instead.")
	rootCmd.AddCommand(scrapeCmd)
}

// scrape runs the export side only and leaves artifacts behind; merge
// and upload are separate commands.
var scrapeCmd = &cobra.Command{
	Use:   "scrape [--ids id,...]",
	Short: "Logs in and exports assignment submissions to timestamped CSV artifacts.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		ids := cfg.Graphy.AssignmentIds
		if len(*scrapeIds) > 0 {
			ids = *scrapeIds
		}
		if len(ids) == 0 {
			slog.Error("no assignment ids configured")
			cmd.Usage()
			return
		}

		runScrape(cmd.Context(), cfg, ids)
	},
}

func runScrape(ctx context.Context, cfg Config, ids []string) string {
	client := login(ctx, cfg)
	exporter, err := export.NewExporter(client, cfg.OutputDir)
	if err != nil {
		serviceutil.Fatal("initialize exporter", err)
	}

	if len(ids) == 1 && ids[0] == metaSentinel {
		path, err := exporter.ExportMetadata(ctx)
		if err != nil {
			serviceutil.Fatal("export metadata", err)
		}
		return path
	}

	var path string
	if len(ids) == 1 {
		path, err = exporter.ScrapeOne(ctx, ids[0])
	} else {
		path, err = exporter.ScrapeMany(ctx, ids)
	}
	if err != nil {
		serviceutil.Fatal("scrape submissions", err)
	}
	return path
}
