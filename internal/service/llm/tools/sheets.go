package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"folio/internal/domain/services/llm"
	"folio/internal/service/llm/tools/external"
)

// Tool names offered to the model.
const (
	ReadGoogleSheet     = "read_google_sheet"
	SearchKnowledgeBase = "search_knowledge_base"
)

// SheetTool implements the 'read_google_sheet' tool.
type SheetTool struct {
	reader external.SheetsReader
}

// NewSheetTool creates a new SheetTool instance.
func NewSheetTool(reader external.SheetsReader) *SheetTool {
	return &SheetTool{reader: reader}
}

// Execute implements ToolExecutor interface.
// Input parameters:
//   - sheetId (string, required): spreadsheet id from the sheet URL
//
// Returns the *external.Spreadsheet snapshot.
func (t *SheetTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	sheetID, ok := input["sheetId"].(string)
	if !ok || strings.TrimSpace(sheetID) == "" {
		return nil, errors.New("missing required parameter: sheetId (string)")
	}

	snapshot, err := t.reader.Snapshot(ctx, strings.TrimSpace(sheetID))
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// SheetToolDescriptor builds the registry entry for the sheet tool.
func SheetToolDescriptor(reader external.SheetsReader, config *ToolConfig) *Tool {
	if config == nil {
		config = DefaultToolConfig()
	}
	return &Tool{
		Definition: llm.ToolDefinition{
			Name:        ReadGoogleSheet,
			Description: "Fetch data from a Google Sheet. Use this when the user asks about specific numbers, financial models, or spreadsheets.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"sheetId": map[string]any{
						"type":        "string",
						"description": "The ID of the Google Sheet (from the URL)",
					},
				},
				"required": []string{"sheetId"},
			},
		},
		Executor: NewSheetTool(reader),
		StartThought: func(input map[string]interface{}) string {
			return fmt.Sprintf("Reading Google Sheet (%s)...", stringArg(input, "sheetId"))
		},
		DoneThought:    "Synthesizing Financial Data...",
		ErrorPrefix:    "Error: ",
		MaxResultChars: config.SheetMaxResultChars,
	}
}

// stringArg reads a string input, rendering anything else with %v.
func stringArg(input map[string]interface{}, key string) string {
	v, ok := input[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
