// Package common keeps enums shared by configuration and domain packages, so
// that tree and window code does not have to depend on configuration.
package common

//go:generate go tool go-enum --marshal --names

// Specification of speculative child window folding.
// ENUM(none, firstRow)
type FoldMode int

// Enabled reports if resolver should attach child windows to responses.
func (f FoldMode) Enabled() bool {
	return f == FoldModeFirstRow
}

// Specification of tree dump output.
// ENUM(text, json)
type DumpFmt int

func (d DumpFmt) Ext() string {
	switch d {
	case DumpFmtText:
		return ".txt"
	case DumpFmtJson:
		return ".json"
	default:
		// this should never happen
		panic("unsupported dump format requested")
	}
}
