package constants

import "strings"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsPDFExt reports whether ext (with or without dot, any case) names a PDF.
func IsPDFExt(ext string) bool {
	return NormalizeExt(ext) == "pdf"
}
