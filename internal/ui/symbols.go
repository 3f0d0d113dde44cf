package ui

// Status glyphs shared by the CLI and the dashboard.
const (
	SymbolSuccess  = "✓" // action succeeded
	SymbolFail     = "✗" // action or check failed
	SymbolComplete = "●" // device online, check passed
	SymbolWarning  = "⚠" // warning notification, panel error
	SymbolInfo     = "ℹ"
	SymbolOffline  = "◌" // device offline, backend unreachable
)

// IconSymbol returns the glyph for a notification icon name.
func IconSymbol(icon string) string {
	switch icon {
	case "check":
		return SymbolSuccess
	case "warning-triangle":
		return SymbolWarning
	default:
		return SymbolInfo
	}
}
