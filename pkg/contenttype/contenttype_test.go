package contenttype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		url         string
		want        Category
	}{
		// Documents
		{"text/html", "text/html", "", Document},
		{"html with charset", "text/html; charset=utf-8", "", Document},
		{"xhtml", "application/xhtml+xml", "", Document},

		// Code
		{"text/css", "text/css", "", Stylesheet},
		{"application/javascript", "application/javascript", "", Script},
		{"text/javascript", "text/javascript; charset=utf-8", "", Script},

		// Data
		{"application/json", "application/json", "", XHR},
		{"vendor json", "application/vnd.api+json", "", XHR},
		{"xml", "application/xml", "", XHR},
		{"text/plain", "text/plain", "", XHR},
		{"form", "application/x-www-form-urlencoded", "", XHR},
		{"manifest", "application/manifest+json", "", Manifest},
		{"vtt", "text/vtt", "", TextTrack},

		// Binary
		{"image/png", "image/png", "", Image},
		{"svg", "image/svg+xml", "", Image},
		{"video", "video/mp4", "", Media},
		{"font", "font/woff2", "", Font},
		{"wasm", "application/wasm", "", WASM},
		{"octet-stream", "application/octet-stream", "", Other},

		// URL fallback
		{"empty with js url", "", "https://cdn.example.com/app.min.js?v=3", Script},
		{"unknown with css url", "application/octet-stream", "https://example.com/site.css", Stylesheet},
		{"empty with png url", "", "https://example.com/logo.PNG", Image},
		{"empty without extension", "", "https://example.com/api/users", Other},
		{"empty everything", "", "", Other},
		{"uppercase content type", "TEXT/HTML", "", Document},
		{"manifest url", "", "https://example.com/app.webmanifest", Manifest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.contentType, tt.url))
		})
	}
}

func TestCategory_IsTextType(t *testing.T) {
	text := []Category{Document, Stylesheet, Script, XHR, Manifest, TextTrack}
	for _, c := range text {
		assert.True(t, c.IsTextType(), string(c))
	}

	binary := []Category{Image, Media, Font, WASM, Other}
	for _, c := range binary {
		assert.False(t, c.IsTextType(), string(c))
	}
}
