package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index statistics",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := bootstrap(); err != nil {
		return err
	}

	stats, err := vectorIndex.Stats(context.Background())
	if err != nil {
		return err
	}

	cmd.Printf("Documents: %d\n", stats.DocumentCount)
	cmd.Printf("Chunks:    %d\n", stats.ChunkCount)
	return nil
}
