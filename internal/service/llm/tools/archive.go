package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"folio/internal/domain/services/llm"
	"folio/internal/service/llm/tools/external"
)

// ArchiveTool implements the 'search_knowledge_base' tool against the
// offline document archive.
type ArchiveTool struct {
	client external.ArchiveSearcher
	config *ToolConfig
}

// NewArchiveTool creates a new ArchiveTool instance.
func NewArchiveTool(client external.ArchiveSearcher, config *ToolConfig) *ArchiveTool {
	if config == nil {
		config = DefaultToolConfig()
	}
	return &ArchiveTool{client: client, config: config}
}

// Execute implements ToolExecutor interface.
// Input parameters:
//   - query (string, required): search query
//
// Returns the archive's result list.
func (t *ArchiveTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	query, ok := input["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return nil, errors.New("missing required parameter: query (string)")
	}

	response, err := t.client.Search(ctx, external.ArchiveQuery{
		Query: query,
		Limit: t.config.ArchiveResultLimit,
	})
	if err != nil {
		return nil, err
	}
	return response.Results, nil
}

// ArchiveToolDescriptor builds the registry entry for the archive tool.
func ArchiveToolDescriptor(client external.ArchiveSearcher, config *ToolConfig) *Tool {
	return &Tool{
		Definition: llm.ToolDefinition{
			Name:        SearchKnowledgeBase,
			Description: "Search the offline 'Archive' (Vector Database). Use this for questions about specific documents, PDFs, historical records, or unstructured knowledge not in your active memory.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The search query to send to the Archive.",
					},
				},
				"required": []string{"query"},
			},
		},
		Executor: NewArchiveTool(client, config),
		StartThought: func(input map[string]interface{}) string {
			return fmt.Sprintf("Searching Archive for \"%s\"...", stringArg(input, "query"))
		},
		DoneThought: "Analyzing Archived Documents...",
		ErrorPrefix: "Archive Error: ",
	}
}
