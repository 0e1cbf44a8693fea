package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// ListEntriesOptions narrows ListEntries to the entries a user marked in the
// app. Filters combine.
type ListEntriesOptions struct {
	// Selected keeps the rows selected in the request list.
	Selected bool
	// Bookmarked keeps bookmarked entries.
	Bookmarked bool
	// Highlighted keeps entries with one of the highlight colors ("red", "green", ...).
	Highlighted []string
}

// ListEntries returns the entries of a session with their bodies in one call.
// A nil opts lists every entry.
func (c *Client) ListEntries(ctx context.Context, sessionID string, opts *ListEntriesOptions) ([]SessionEntry, error) {
	path := "/sessions/" + url.PathEscape(sessionID) + "/entries"

	var query url.Values
	if opts != nil {
		query = make(url.Values)
		if opts.Selected {
			query.Set("selected", "")
		}
		if opts.Bookmarked {
			query.Set("bookmarked", "")
		}
		if len(opts.Highlighted) > 0 {
			query.Set("highlighted", strings.Join(opts.Highlighted, ","))
		}
	}

	var entries []SessionEntry
	if err := c.get(ctx, path, query, &entries); err != nil {
		return nil, fmt.Errorf("listing entries for session %q: %w", sessionID, err)
	}
	return entries, nil
}

// GetEntry returns one entry with its base64 body.
func (c *Client) GetEntry(ctx context.Context, sessionID, entryID string) (*SessionEntry, error) {
	path := "/sessions/" + url.PathEscape(sessionID) + "/entries/" + url.PathEscape(entryID)
	var entry SessionEntry
	if err := c.get(ctx, path, nil, &entry); err != nil {
		return nil, fmt.Errorf("getting entry %q in session %q: %w", entryID, sessionID, err)
	}
	return &entry, nil
}
