package netsearch

import (
	"github.com/usestring/netsearch/pkg/textsearch"
)

// Location kinds.
const (
	KindURL            = "url"
	KindRequestHeader  = "request_header"
	KindResponseHeader = "response_header"
	KindBody           = "body"
)

// Location is one point where a query matched a request. It is exactly one of
// URLMatch, RequestHeaderMatch, ResponseHeaderMatch or BodyMatch.
type Location interface {
	Request() Candidate
	Kind() string
	isLocation()
}

// URLMatch is a match on the request URL.
type URLMatch struct {
	request Candidate
}

func (m URLMatch) Request() Candidate { return m.request }
func (m URLMatch) Kind() string       { return KindURL }
func (URLMatch) isLocation()          {}

// RequestHeaderMatch is a match on a request header.
type RequestHeaderMatch struct {
	request Candidate
	header  Header
}

func (m RequestHeaderMatch) Request() Candidate { return m.request }
func (m RequestHeaderMatch) Kind() string       { return KindRequestHeader }
func (m RequestHeaderMatch) Header() Header     { return m.header }
func (RequestHeaderMatch) isLocation()          {}

// ResponseHeaderMatch is a match on a response header.
type ResponseHeaderMatch struct {
	request Candidate
	header  Header
}

func (m ResponseHeaderMatch) Request() Candidate { return m.request }
func (m ResponseHeaderMatch) Kind() string       { return KindResponseHeader }
func (m ResponseHeaderMatch) Header() Header     { return m.header }
func (ResponseHeaderMatch) isLocation()          {}

// BodyMatch is a matching line of the response body.
type BodyMatch struct {
	request Candidate
	match   textsearch.Match
}

func (m BodyMatch) Request() Candidate      { return m.request }
func (m BodyMatch) Kind() string            { return KindBody }
func (m BodyMatch) Match() textsearch.Match { return m.match }
func (BodyMatch) isLocation()               {}
