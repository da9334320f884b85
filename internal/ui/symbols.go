package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Step completed
	SymbolFail    = "✗" // Step failed
	SymbolWarn    = "!" // Non-fatal problem
	SymbolPending = "○" // Not yet known
	SymbolSkipped = "⊘" // Target skipped
	SymbolCommand = ">" // Command about to run
)
