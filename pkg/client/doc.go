// Package client provides a Go SDK for the parts of the powhttp Data API that
// netsearch reads: sessions and their captured entries.
//
// Create a client and fetch the active session:
//
//	c := client.New(
//	    client.WithBaseURL("http://localhost:7777"),
//	    client.WithTimeout(10*time.Second),
//	)
//	session, err := c.GetSession(ctx, "active")
//
// "active" may be used as a session or entry ID to reference whatever is
// currently selected in the powhttp interface.
//
// Bodies are base64-encoded; use DecodeBody to decode them. Headers keep their
// wire order, which search results rely on:
//
//	entry.Request.Headers.Pairs(func(name, value string) {
//	    fmt.Printf("%s: %s\n", name, value)
//	})
package client
