package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List indexed documents",
	RunE:  runDocuments,
}

func init() {
	rootCmd.AddCommand(documentsCmd)
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	if err := bootstrap(); err != nil {
		return err
	}

	sources, err := vectorIndex.ListSources(context.Background())
	if err != nil {
		return err
	}

	if len(sources) == 0 {
		cmd.Println("No documents indexed.")
		return nil
	}
	for _, source := range sources {
		cmd.Println(source)
	}
	return nil
}
