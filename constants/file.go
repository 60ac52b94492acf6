package constants

import "strings"

// Document formats accepted at the decoder boundary.
const (
	FormatText   = "TEXT"   // plain UTF-8 text dump
	FormatLayout = "LAYOUT" // decoded-layout interchange JSON (pages + tables)
)

// AllowedExtensions holds the default allowed file extensions for ingestion.
var AllowedExtensions = map[string]struct{}{
	"txt":  {},
	"json": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether a normalized extension is ingestible.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// MapExtToFormat maps a normalized extension to a document format.
// Returns "" for unsupported extensions.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "txt":
		return FormatText
	case "json":
		return FormatLayout
	default:
		return ""
	}
}
