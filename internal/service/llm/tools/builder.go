package tools

import (
	"folio/internal/service/llm/tools/external"
)

// ToolRegistryBuilder provides a fluent API for building tool registries.
type ToolRegistryBuilder struct {
	registry *ToolRegistry
	config   *ToolConfig
}

// NewToolRegistryBuilder creates a new builder with a fresh registry.
func NewToolRegistryBuilder() *ToolRegistryBuilder {
	return &ToolRegistryBuilder{
		registry: NewToolRegistry(),
		config:   DefaultToolConfig(),
	}
}

// WithConfig sets custom tool configuration.
// If not called, defaults will be used.
func (b *ToolRegistryBuilder) WithConfig(config *ToolConfig) *ToolRegistryBuilder {
	if config != nil {
		b.config = config
	}
	return b
}

// WithSheets registers read_google_sheet.
func (b *ToolRegistryBuilder) WithSheets(reader external.SheetsReader) *ToolRegistryBuilder {
	if reader != nil {
		b.registry.Register(SheetToolDescriptor(reader, b.config))
	}
	return b
}

// WithArchive registers search_knowledge_base.
func (b *ToolRegistryBuilder) WithArchive(client external.ArchiveSearcher) *ToolRegistryBuilder {
	if client != nil {
		b.registry.Register(ArchiveToolDescriptor(client, b.config))
	}
	return b
}

// Build returns the constructed tool registry.
func (b *ToolRegistryBuilder) Build() *ToolRegistry {
	return b.registry
}
