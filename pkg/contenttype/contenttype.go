// Package contenttype classifies network resources into broad resource categories.
package contenttype

import (
	"mime"
	"net/url"
	"path"
	"strings"
)

// Category represents the resource type of a network request.
type Category string

const (
	Document   Category = "document"
	Stylesheet Category = "stylesheet"
	Script     Category = "script"
	Image      Category = "image"
	Media      Category = "media"
	Font       Category = "font"
	Manifest   Category = "manifest"
	WASM       Category = "wasm"
	XHR        Category = "xhr"
	TextTrack  Category = "texttrack"
	Other      Category = "other"
)

// IsTextType reports whether resources of this category carry textual content
// that can be searched line by line.
func (c Category) IsTextType() bool {
	switch c {
	case Document, Stylesheet, Script, XHR, Manifest, TextTrack:
		return true
	default:
		return false
	}
}

// Classify returns the category for a response MIME type, falling back to the
// file extension of rawURL when the MIME type is empty or unrecognized.
// Parameters such as charset are stripped with mime.ParseMediaType.
func Classify(contentType, rawURL string) Category {
	if c := fromMIMEType(contentType); c != Other {
		return c
	}
	return fromURL(rawURL)
}

func fromMIMEType(contentType string) Category {
	if contentType == "" {
		return Other
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch {
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return Document
	case mediaType == "text/css":
		return Stylesheet
	case strings.Contains(mediaType, "javascript") || strings.Contains(mediaType, "ecmascript"):
		return Script
	case mediaType == "application/manifest+json":
		return Manifest
	case mediaType == "text/vtt":
		return TextTrack
	case mediaType == "application/wasm":
		return WASM
	case strings.HasPrefix(mediaType, "image/"):
		return Image
	case strings.HasPrefix(mediaType, "audio/") || strings.HasPrefix(mediaType, "video/"):
		return Media
	case strings.HasPrefix(mediaType, "font/") || strings.Contains(mediaType, "font"):
		return Font
	case strings.Contains(mediaType, "json") ||
		strings.Contains(mediaType, "xml") ||
		strings.Contains(mediaType, "yaml") ||
		mediaType == "application/x-www-form-urlencoded" ||
		strings.HasPrefix(mediaType, "text/"):
		return XHR
	}

	return Other
}

var extensionCategories = map[string]Category{
	".html":  Document,
	".htm":   Document,
	".css":   Stylesheet,
	".js":    Script,
	".mjs":   Script,
	".cjs":   Script,
	".ts":    Script,
	".json":  XHR,
	".xml":   XHR,
	".txt":   XHR,
	".map":   XHR,
	".vtt":   TextTrack,
	".wasm":  WASM,
	".png":   Image,
	".jpg":   Image,
	".jpeg":  Image,
	".gif":   Image,
	".webp":  Image,
	".avif":  Image,
	".svg":   Image,
	".ico":   Image,
	".mp3":   Media,
	".mp4":   Media,
	".webm":  Media,
	".ogg":   Media,
	".woff":  Font,
	".woff2": Font,
	".ttf":   Font,
	".otf":   Font,
}

func fromURL(rawURL string) Category {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Other
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if ext == ".webmanifest" {
		return Manifest
	}
	if c, ok := extensionCategories[ext]; ok {
		return c
	}
	return Other
}
