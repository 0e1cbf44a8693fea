package netsearch

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Result holds every match location found in one request, in discovery
// order: URL, request headers, response headers, then body lines.
type Result struct {
	request   Candidate
	locations []Location
	locale    language.Tag
}

// Request returns the request the result belongs to.
func (r *Result) Request() Candidate {
	return r.request
}

// Locations returns the match locations in discovery order.
func (r *Result) Locations() []Location {
	return r.locations
}

// MatchesCount returns the number of match locations.
func (r *Result) MatchesCount() int {
	return len(r.locations)
}

// Label is the request's display name; results are sorted by it.
func (r *Result) Label() string {
	return r.request.DisplayName()
}

// Description is the request URL without its scheme. URLs that do not parse
// or carry no scheme are returned unchanged.
func (r *Result) Description() string {
	raw := r.request.URL()
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return raw
	}
	prefix := u.Scheme + "://"
	if strings.HasPrefix(raw, prefix) {
		return raw[len(prefix):]
	}
	return raw
}

// MatchLineContent returns the text shown for the match at index: the full URL,
// the header value, or the matched body line.
func (r *Result) MatchLineContent(index int) string {
	switch loc := r.locations[index].(type) {
	case URLMatch:
		return loc.request.URL()
	case RequestHeaderMatch:
		return loc.header.Value
	case ResponseHeaderMatch:
		return loc.header.Value
	case BodyMatch:
		return loc.match.LineContent
	}
	return ""
}

// MatchLabel returns the gutter label for the match at index: a localized
// "URL", the header name followed by a colon, or the 1-based line number.
func (r *Result) MatchLabel(index int) string {
	switch loc := r.locations[index].(type) {
	case URLMatch:
		return printer(r.locale).Sprintf(msgURL)
	case RequestHeaderMatch:
		return loc.header.Name + ":"
	case ResponseHeaderMatch:
		return loc.header.Name + ":"
	case BodyMatch:
		return strconv.Itoa(loc.match.LineNumber + 1)
	}
	return ""
}

// MatchRevealable returns the location at index for the presentation layer
// to reveal.
func (r *Result) MatchRevealable(index int) Location {
	return r.locations[index]
}
