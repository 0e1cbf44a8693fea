package tools

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/netsearch/internal/netlog"
	"github.com/usestring/netsearch/internal/netsearch"
	"github.com/usestring/netsearch/pkg/textsearch"
)

// SearchInput is the input for netsearch_search.
type SearchInput struct {
	SessionID      string `json:"session_id,omitempty" jsonschema:"Session ID (default: active)"`
	Query          string `json:"query" jsonschema:"Search text. Unquoted words form one token, quoted phrases are separate tokens matched in order. file:GLOB, f:GLOB and -file:GLOB filter request URLs."`
	IgnoreCase     bool   `json:"ignore_case,omitempty" jsonschema:"Match case-insensitively. Default: false"`
	IsRegex        bool   `json:"is_regex,omitempty" jsonschema:"Treat tokens as regular expressions (RE2 syntax). Default: false"`
	Host           string `json:"host,omitempty" jsonschema:"Only search requests to this host. Prefix with '*.' to include subdomains: '*.example.com' matches example.com and api.example.com."`
	Limit          int    `json:"limit,omitempty" jsonschema:"Max results (default: 20)"`
	IncludeMatches bool   `json:"include_matches,omitempty" jsonschema:"Include every match location of each result. Default: false"`
}

// SearchOutput is the output for netsearch_search.
type SearchOutput struct {
	Results      []SearchResult `json:"results,omitzero"`
	TotalResults int            `json:"total_results"`
	TotalMatches int            `json:"total_matches"`
	Summary      string         `json:"summary"`
	SyncedAtMs   int64          `json:"synced_at_ms"`
	Hint         string         `json:"hint,omitempty"`
}

// SearchResult is one request with at least one match.
type SearchResult struct {
	EntryID     string      `json:"entry_id,omitempty"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
	MatchCount  int         `json:"match_count"`
	Matches     []MatchView `json:"matches,omitzero"`
}

// MatchView is one match location inside a result.
type MatchView struct {
	Kind    string `json:"kind"`
	Label   string `json:"label"`
	Content string `json:"content"`
	Line    int    `json:"line,omitempty"`   // 1-based, body matches only
	Column  int    `json:"column,omitempty"` // 1-based byte column, body matches only
}

// ToolSearch runs a network search over a session.
func ToolSearch(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchInput) (*sdkmcp.CallToolResult, SearchOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchInput) (*sdkmcp.CallToolResult, SearchOutput, error) {
		q := netsearch.NewConfig(input.Query, input.IgnoreCase, input.IsRegex)
		if input.IsRegex {
			for _, token := range q.Queries() {
				if err := textsearch.ValidateRegex(token); err != nil {
					return nil, SearchOutput{}, ErrInvalidInput(fmt.Sprintf("invalid regular expression %q: %v", token, err))
				}
			}
		}

		limit := input.Limit
		if limit <= 0 {
			limit = d.Config.DefaultSearchLimit
		}
		if d.Config.MaxSearchResults > 0 && limit > d.Config.MaxSearchResults {
			limit = d.Config.MaxSearchResults
		}

		sessionID := d.ResolveSessionID(input.SessionID)
		if err := d.Syncer.RefreshIfStale(ctx, sessionID); err != nil {
			return nil, SearchOutput{}, WrapPowHTTPError(err)
		}

		var source netsearch.RequestSource = d.Syncer.Log(sessionID)
		if input.Host != "" {
			source = d.Syncer.Log(sessionID).ForHost(input.Host)
		}

		var results []*netsearch.Result
		finished := false
		tracker := netsearch.NewTracker(ctx)
		scope := d.NewScope(source)
		scope.PerformSearch(ctx, q, tracker,
			func(r *netsearch.Result) { results = append(results, r) },
			func(f bool) { finished = f },
		)
		if !finished {
			return nil, SearchOutput{}, ErrCanceled(ctx.Err())
		}

		output := SearchOutput{
			TotalResults: len(results),
			SyncedAtMs:   d.Syncer.LastSyncTime(sessionID).UnixMilli(),
		}
		for _, r := range results {
			output.TotalMatches += r.MatchesCount()
		}
		output.Summary = netsearch.Summary(scope.Locale(), output.TotalMatches, output.TotalResults)

		shown := results
		if len(shown) > limit {
			shown = shown[:limit]
		}
		output.Results = make([]SearchResult, len(shown))
		for i, r := range shown {
			output.Results[i] = buildSearchResult(r, input.IncludeMatches)
		}

		switch {
		case len(results) == 0:
			output.Hint = "No matches. Tokens must occur in order and not at the very start of a URL or header line; try ignore_case or fewer tokens."
		case len(results) > limit:
			output.Hint = fmt.Sprintf("Showing %d of %d results. Raise limit or narrow the query with file: or host to see the rest.", limit, len(results))
		}

		slog.Debug("network search completed",
			slog.String("session_id", sessionID),
			slog.Int("results", output.TotalResults),
			slog.Int("matches", output.TotalMatches),
		)

		return nil, output, nil
	}
}

func buildSearchResult(r *netsearch.Result, includeMatches bool) SearchResult {
	out := SearchResult{
		Label:       r.Label(),
		Description: r.Description(),
		MatchCount:  r.MatchesCount(),
	}
	if req, ok := r.Request().(*netlog.Request); ok {
		out.EntryID = req.ID()
	}
	if !includeMatches {
		return out
	}

	out.Matches = make([]MatchView, r.MatchesCount())
	for i, loc := range r.Locations() {
		view := MatchView{
			Kind:    loc.Kind(),
			Label:   r.MatchLabel(i),
			Content: r.MatchLineContent(i),
		}
		if body, ok := loc.(netsearch.BodyMatch); ok {
			view.Line = body.Match().LineNumber + 1
			view.Column = body.Match().Column + 1
		}
		out.Matches[i] = view
	}
	return out
}
