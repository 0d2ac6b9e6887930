package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index new documents from the documents folder",
	Long: `Scans the documents folder and indexes every document that is not in
the index yet. Already-indexed documents are skipped.`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if err := bootstrap(); err != nil {
		return err
	}

	report, err := ingestService.ProcessFolder(context.Background())
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Printf("Run %s: %d processed, %d skipped, %d failed\n",
		report.RunID, report.Processed, report.Skipped, report.Failed)
	return nil
}
