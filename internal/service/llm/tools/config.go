package tools

// ToolConfig centralizes configuration for all tools.
type ToolConfig struct {
	// Sheet tool configuration
	SheetMaxResultChars int // Cap on the serialized spreadsheet handed back to the model

	// Archive tool configuration
	ArchiveResultLimit int // Number of documents requested from the archive
}

// DefaultToolConfig returns the default tool configuration.
func DefaultToolConfig() *ToolConfig {
	return &ToolConfig{
		SheetMaxResultChars: 100000,
		ArchiveResultLimit:  3,
	}
}
