// Package cli wires the folio commands.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Portfolio chat server and terminal client",
	Long:  "folio answers questions about a portfolio as its owner, calling spreadsheet and archive tools and driving a document workspace.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; production sets the environment directly.
		_ = godotenv.Load()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sheetCmd)
	rootCmd.AddCommand(modelsCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
