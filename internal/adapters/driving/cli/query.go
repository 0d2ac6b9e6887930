package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claimsight/claimsight/internal/core/domain"
)

var queryJSON bool

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Adjudicate a claim query against the indexed documents",
	Long: `Answers a natural-language claim query with a structured decision and
citations drawn from the indexed policy documents.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the decision as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if err := bootstrap(); err != nil {
		return err
	}

	result, err := queryService.Answer(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputDecisionJSON(cmd, result)
	}
	return outputDecisionText(cmd, result)
}

func outputDecisionJSON(cmd *cobra.Command, result *domain.DecisionResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputDecisionText(cmd *cobra.Command, result *domain.DecisionResult) error {
	cmd.Printf("Decision: %s\n", result.Decision)
	if result.Amount != "" {
		cmd.Printf("Amount:   %s\n", result.Amount)
	}

	cmd.Println()
	cmd.Println("Justification:")
	for _, citation := range result.Justification {
		cmd.Printf("  - [%s, %s] %s\n", citation.Source, citation.Clause, citation.Text)
	}

	if len(result.Alternatives) > 0 {
		cmd.Println()
		cmd.Println("Open questions:")
		for _, alt := range result.Alternatives {
			cmd.Printf("  - %s\n", alt.Text)
		}
	}
	return nil
}
