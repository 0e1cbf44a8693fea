package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// SessionsListInput is the input for netsearch_sessions_list.
type SessionsListInput struct{}

// SessionsListOutput is the output for netsearch_sessions_list.
type SessionsListOutput struct {
	Sessions []SessionInfo `json:"sessions,omitzero"`
}

// SessionInfo is a summary of a session.
type SessionInfo struct {
	SessionID   string `json:"session_id"`
	Name        string `json:"name"`
	EntryCount  int    `json:"entry_count"`
	LoadedCount int    `json:"loaded_count"`
	SyncedAtMs  int64  `json:"synced_at_ms,omitempty"`
}

// ToolSessionsList lists all sessions.
func ToolSessionsList(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SessionsListInput) (*sdkmcp.CallToolResult, SessionsListOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SessionsListInput) (*sdkmcp.CallToolResult, SessionsListOutput, error) {
		sessions, err := d.Syncer.Source().ListSessions(ctx)
		if err != nil {
			return nil, SessionsListOutput{}, WrapPowHTTPError(err)
		}

		output := SessionsListOutput{
			Sessions: make([]SessionInfo, len(sessions)),
		}
		for i, sess := range sessions {
			info := SessionInfo{
				SessionID:   sess.ID,
				Name:        sess.Name,
				EntryCount:  len(sess.EntryIDs),
				LoadedCount: d.Syncer.Log(sess.ID).Len(),
			}
			if synced := d.Syncer.LastSyncTime(sess.ID); !synced.IsZero() {
				info.SyncedAtMs = synced.UnixMilli()
			}
			output.Sessions[i] = info
		}

		return nil, output, nil
	}
}
