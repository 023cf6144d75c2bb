package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"src/index.js", LanguageJavaScript},
		{"lib/worker.mjs", LanguageJavaScript},
		{"legacy/util.cjs", LanguageJavaScript},
		{"src/api/client.ts", LanguageTypeScript},
		{"src/config.mts", LanguageTypeScript},
		{"src/config.cts", LanguageTypeScript},
		{"src/components/Button.jsx", LanguageJSX},
		{"src/components/App.tsx", LanguageTSX},
		{"SRC/APP.TSX", LanguageTSX},
		{"README.md", LanguageUnknown},
		{"Makefile", LanguageUnknown},
		{"styles.css", LanguageUnknown},
		{"", LanguageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, LanguageFromPath(tt.path))
		})
	}
}

func TestLanguage_IsAnalyzable(t *testing.T) {
	for _, lang := range []Language{LanguageJavaScript, LanguageTypeScript, LanguageJSX, LanguageTSX} {
		assert.True(t, lang.IsAnalyzable(), lang.String())
	}
	assert.False(t, LanguageUnknown.IsAnalyzable())
}
