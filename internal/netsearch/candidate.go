// Package netsearch implements the network search scope: a multi-token query
// is matched against the URL, headers and text bodies of captured requests,
// and the per-request results are sorted and streamed to a caller.
package netsearch

import (
	"context"

	"github.com/usestring/netsearch/pkg/textsearch"
)

// Header is a single header name/value pair.
type Header struct {
	Name  string
	Value string
}

// Candidate is a searchable network request. Candidates are owned by the
// request log; the search scope only reads them.
type Candidate interface {
	URL() string
	DisplayName() string
	IsTextType() bool
	RequestHeaders() []Header
	ResponseHeaders() []Header
	SearchInContent(ctx context.Context, query string, caseSensitive, isRegex bool) ([]textsearch.Match, error)
}

// RequestSource yields the current set of searchable requests.
type RequestSource interface {
	Candidates() []Candidate
}

// SearchScope is the interface a host search UI drives.
type SearchScope interface {
	PerformIndexing(progress Progress)
	PerformSearch(ctx context.Context, q Query, progress Progress, onResult func(*Result), onFinished func(finished bool))
	StopSearch()
}
