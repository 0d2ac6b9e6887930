// Package cli provides the claimsight command line interface.
package cli

import (
	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags.
var version = "dev"

var (
	configPath  string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "claimsight",
	Short: "Answer insurance claim queries from policy PDFs",
	Long: `Claimsight indexes a folder of policy PDFs and answers natural-language
claim queries with a structured, cited decision (Approved, Rejected or
Uncertain). Documents are chunked, embedded and searched by cosine
similarity; a language model adjudicates against the retrieved clauses.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command and tears down wired services.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}
