package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	AddTool(srv, &sdkmcp.Tool{
		Name:        "netsearch_sessions_list",
		Description: "List powhttp capture sessions with their entry counts and how many requests are loaded for search",
	}, ToolSessionsList(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "netsearch_search",
		Description: "Search captured requests the way a browser's network search does. The query is matched against each request URL, every request and response header (as \"name: value\"), and the lines of text response bodies. Unquoted words form one token; quote phrases to make several tokens, which must appear in order. Prefix with file:, f: or -file: to include or exclude URLs by glob (e.g. file:*.js). Results are sorted by request name and list each matching location.",
	}, ToolSearch(d))
}
