package client

import (
	"context"
	"fmt"
	"net/url"
)

// ListSessions returns the capture sessions open in powhttp. Each session
// carries the ordered entry IDs the syncer compares between refreshes.
func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	var sessions []Session
	if err := c.get(ctx, "/sessions", nil, &sessions); err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

// GetSession returns one capture session. The sessionID "active" resolves to
// the session open in the app.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	path := "/sessions/" + url.PathEscape(sessionID)
	var session Session
	if err := c.get(ctx, path, nil, &session); err != nil {
		return nil, fmt.Errorf("getting session %q: %w", sessionID, err)
	}
	return &session, nil
}
