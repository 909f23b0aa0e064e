package ir

// Version constants for the normalized model and the tool.
const (
	// SchemaVersion is the NormalizedProgram schema version.
	SchemaVersion = "1.0"

	// ToolVersion is the stylusport version.
	ToolVersion = "0.1.0"
)
