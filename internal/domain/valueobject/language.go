package valueobject

import (
	"path/filepath"
	"strings"
)

// Language identifies the source language of an analyzed file.
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageJSX        Language = "jsx"
	LanguageTSX        Language = "tsx"
	LanguageUnknown    Language = "unknown"
)

// String returns the language name.
func (l Language) String() string {
	return string(l)
}

// LanguageFromPath infers the language from a file extension.
func LanguageFromPath(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".mjs", ".cjs":
		return LanguageJavaScript
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript
	case ".jsx":
		return LanguageJSX
	case ".tsx":
		return LanguageTSX
	default:
		return LanguageUnknown
	}
}

// IsAnalyzable reports whether the language is handled by the analysis engine.
func (l Language) IsAnalyzable() bool {
	return l != LanguageUnknown
}
