package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/netsearch/internal/mcp/tools"
)

// AddTool registers a tool with the server after checking that the zero value
// of its output type passes the output schema the SDK infers for it. A nil
// slice without omitzero marshals as null and fails that schema, so the check
// panics at registration instead of failing the first tool call.
//
// Use this instead of [sdkmcp.AddTool] to get the additional check.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}
