package commands

import (
	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/serviceutil"
	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/services/export"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(metaCmd)
}

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Exports metadata for every assignment the account can see.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		ctx := cmd.Context()

		client := login(ctx, cfg)
		exporter, err := export.NewExporter(client, cfg.OutputDir)
		if err != nil {
			serviceutil.Fatal("initialize exporter", err)
		}
		_, err = exporter.ExportMetadata(ctx)
		if err != nil {
			serviceutil.Fatal("export metadata", err)
		}
	},
}
