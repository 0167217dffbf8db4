package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"folio/internal/config"
	"folio/internal/service/llm/tools/external"
)

var sheetCmd = &cobra.Command{
	Use:   "sheet <spreadsheet-id>",
	Short: "Print the snapshot the read_google_sheet tool would see",
	Args:  cobra.ExactArgs(1),
	RunE:  runSheet,
}

func runSheet(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	reader := external.NewGoogleSheetsClient(cfg.GoogleClientEmail, cfg.GooglePrivateKey)

	snapshot, err := reader.Snapshot(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", args[0], err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(snapshot)
}
