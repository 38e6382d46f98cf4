package constants

import "strings"

// AllowedExtensions holds the file extensions accepted by the upload layer.
// The pipeline itself only consumes PDFs; spreadsheets pass through untouched.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"xlsx": {},
	"xls":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsPDFExt reports whether ext names a PDF file.
func IsPDFExt(ext string) bool {
	return NormalizeExt(ext) == "pdf"
}
