package netsearch

import (
	"context"
	"log/slog"

	"github.com/usestring/netsearch/pkg/textsearch"
)

// searchRequest matches one request. It returns nil when the run was canceled
// while the body search was in flight; otherwise it records one unit of work
// and returns a result, which may hold no locations.
func (s *Scope) searchRequest(ctx context.Context, q Query, m *matcher, req Candidate, progress Progress, logger *slog.Logger) *Result {
	var bodyMatches []textsearch.Match
	if req.IsTextType() {
		matches, err := req.SearchInContent(ctx, q.Text(), !q.IgnoreCase(), q.IsRegex())
		if err != nil {
			logger.Debug("body search failed, treating as no matches",
				slog.String("url", req.URL()),
				slog.String("error", err.Error()),
			)
		} else {
			bodyMatches = matches
		}
	}

	if progress.IsCanceled() {
		return nil
	}

	var locations []Location
	if m.matches(req.URL()) {
		locations = append(locations, URLMatch{request: req})
	}
	for _, h := range req.RequestHeaders() {
		if m.matchesHeader(h) {
			locations = append(locations, RequestHeaderMatch{request: req, header: h})
		}
	}
	for _, h := range req.ResponseHeaders() {
		if m.matchesHeader(h) {
			locations = append(locations, ResponseHeaderMatch{request: req, header: h})
		}
	}
	for _, match := range bodyMatches {
		locations = append(locations, BodyMatch{request: req, match: match})
	}

	progress.Worked()
	return &Result{request: req, locations: locations, locale: s.locale}
}
