// Package netlog keeps the per-session set of captured requests that network
// search runs over, and keeps it in sync with the powhttp Data API.
package netlog

import (
	"context"
	"net/url"
	"strings"

	"github.com/usestring/netsearch/internal/cache"
	"github.com/usestring/netsearch/internal/netsearch"
	"github.com/usestring/netsearch/pkg/client"
	"github.com/usestring/netsearch/pkg/contenttype"
	"github.com/usestring/netsearch/pkg/textsearch"
)

// Request is a captured transaction as seen by the search scope.
type Request struct {
	entry       *client.SessionEntry
	host        string
	name        string
	category    contenttype.Category
	reqHeaders  []netsearch.Header
	respHeaders []netsearch.Header
	content     *cache.ContentCache
}

var _ netsearch.Candidate = (*Request)(nil)

// NewRequest wraps entry. Decoded bodies are kept in content when it is non-nil.
func NewRequest(entry *client.SessionEntry, content *cache.ContentCache) *Request {
	r := &Request{
		entry:       entry,
		name:        DisplayName(entry.URL),
		category:    contenttype.Classify(entry.ResponseHeaders().Get("content-type"), entry.URL),
		reqHeaders:  convertHeaders(entry.Request.Headers),
		respHeaders: convertHeaders(entry.ResponseHeaders()),
		content:     content,
	}
	if u, err := url.Parse(entry.URL); err == nil {
		r.host = strings.ToLower(u.Hostname())
	}
	return r
}

func convertHeaders(h client.Headers) []netsearch.Header {
	if len(h) == 0 {
		return nil
	}
	out := make([]netsearch.Header, 0, len(h))
	h.Pairs(func(name, value string) {
		out = append(out, netsearch.Header{Name: name, Value: value})
	})
	return out
}

// ID returns the powhttp entry ID.
func (r *Request) ID() string { return r.entry.ID }

// Entry returns the underlying session entry.
func (r *Request) Entry() *client.SessionEntry { return r.entry }

// Host returns the lowercased host name, or "" when the URL has none.
func (r *Request) Host() string { return r.host }

// Category returns the resource category of the response.
func (r *Request) Category() contenttype.Category { return r.category }

func (r *Request) URL() string                         { return r.entry.URL }
func (r *Request) DisplayName() string                 { return r.name }
func (r *Request) IsTextType() bool                    { return r.category.IsTextType() }
func (r *Request) RequestHeaders() []netsearch.Header  { return r.reqHeaders }
func (r *Request) ResponseHeaders() []netsearch.Header { return r.respHeaders }

// Content returns the decoded response body. Entries without a response or
// body yield nil content.
func (r *Request) Content() ([]byte, error) {
	if r.content != nil {
		if cached, ok := r.content.Get(r.entry.ID); ok {
			return cached, nil
		}
	}

	if r.entry.Response == nil {
		return nil, nil
	}
	decoded, err := client.DecodeBody(r.entry.Response.Body)
	if err != nil {
		return nil, err
	}

	if r.content != nil && decoded != nil {
		r.content.Put(r.entry.ID, decoded)
	}
	return decoded, nil
}

// SearchInContent searches the decoded response body line by line.
func (r *Request) SearchInContent(ctx context.Context, query string, caseSensitive, isRegex bool) ([]textsearch.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := r.Content()
	if err != nil {
		return nil, err
	}
	return textsearch.SearchInContent(string(content), query, caseSensitive, isRegex), nil
}
