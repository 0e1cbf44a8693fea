package client

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Session represents a powhttp capture session.
type Session struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	EntryIDs []string `json:"entryIds"`
}

// Headers is a slice of header key-value pairs in wire order.
type Headers [][]string

// Get returns the first value for the given header name (case-insensitive).
// Returns an empty string if the header is not found.
func (h Headers) Get(name string) string {
	name = strings.ToLower(name)
	for _, pair := range h {
		if len(pair) >= 2 && strings.ToLower(pair[0]) == name {
			return pair[1]
		}
	}
	return ""
}

// Values returns all values for the given header name (case-insensitive).
func (h Headers) Values(name string) []string {
	name = strings.ToLower(name)
	var values []string
	for _, pair := range h {
		if len(pair) >= 2 && strings.ToLower(pair[0]) == name {
			values = append(values, pair[1])
		}
	}
	return values
}

// Pairs calls fn for every well-formed name/value pair, preserving order.
// Malformed pairs (fewer than two elements) are skipped.
func (h Headers) Pairs(fn func(name, value string)) {
	for _, pair := range h {
		if len(pair) >= 2 {
			fn(pair[0], pair[1])
		}
	}
}

// Request represents the request half of a captured transaction.
type Request struct {
	Method      *string `json:"method"`
	Path        *string `json:"path"`
	HTTPVersion *string `json:"httpVersion"`
	Headers     Headers `json:"headers"`
	Body        *string `json:"body"` // Base64-encoded
}

// Response represents the response half of a captured transaction.
type Response struct {
	HTTPVersion *string `json:"httpVersion"`
	StatusCode  *int    `json:"statusCode"`
	StatusText  *string `json:"statusText"`
	Headers     Headers `json:"headers"`
	Body        *string `json:"body"` // Base64-encoded
}

// Timings contains timing information for a transaction.
type Timings struct {
	StartedAt int64 `json:"startedAt"` // Unix timestamp in milliseconds
}

// ProcessInfo identifies the process that made the request.
type ProcessInfo struct {
	PID  int     `json:"pid"`
	Name *string `json:"name"`
}

// SessionEntry is a single captured HTTP transaction.
type SessionEntry struct {
	ID          string       `json:"id"`
	URL         string       `json:"url"`
	HTTPVersion string       `json:"httpVersion"`
	Request     Request      `json:"request"`
	Response    *Response    `json:"response"`
	IsWebSocket bool         `json:"isWebSocket"`
	Timings     Timings      `json:"timings"`
	Process     *ProcessInfo `json:"process"`
}

// ResponseHeaders returns the response headers, or nil when the entry has no response.
func (e *SessionEntry) ResponseHeaders() Headers {
	if e.Response == nil {
		return nil
	}
	return e.Response.Headers
}

// APIError represents an error response from the powhttp API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("powhttp API error %d: %s", e.StatusCode, e.Message)
}

// errorResponse is the JSON structure for API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// DecodeBody decodes a base64-encoded body.
// Returns nil if the input is nil.
func DecodeBody(encoded *string) ([]byte, error) {
	if encoded == nil {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(*encoded)
}
