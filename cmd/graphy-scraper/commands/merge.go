package commands

import (
	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/serviceutil"
	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/services/reconcile"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merges the latest scrape with assignment metadata and the roster, without uploading.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		_, err := reconcile.Merge(reconcile.Options{
			OutputDir:  cfg.OutputDir,
			RosterPath: cfg.RosterPath,
		})
		if err != nil {
			serviceutil.Fatal("merge", err)
		}
	},
}
