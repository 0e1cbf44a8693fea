// Package mcpsrv provides an extensible MCP server for searching captured
// network traffic.
//
// The server keeps the request log of every powhttp session in memory and
// exposes a network search over URLs, headers and text response bodies.
//
// # Basic Usage
//
//	server, err := mcpsrv.NewServer(client.New())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly with [WithTool], or with
// access to the request logs and search scopes through [WithDepsTool].
//
// # Configuration
//
//	server, err := mcpsrv.NewServer(
//	    client.New(),
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/netsearch.log"),
//	    mcpsrv.WithLocale("de"),
//	)
package mcpsrv
