package client

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(WithBaseURL(srv.URL+"/"), WithTimeout(5*time.Second))
}

func TestGetSession(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sessions/active", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"id":"s1","name":"Capture","entryIds":["e1","e2"]}`))
	})

	session, err := c.GetSession(context.Background(), "active")
	require.NoError(t, err)
	assert.Equal(t, "s1", session.ID)
	assert.Equal(t, []string{"e1", "e2"}, session.EntryIDs)
}

func TestGetEntry(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sessions/s1/entries/e1", r.URL.Path)
		w.Write([]byte(`{
			"id": "e1",
			"url": "https://example.com/app.js",
			"request": {"method": "GET", "headers": [["Accept", "*/*"]]},
			"response": {"statusCode": 200, "headers": [["Content-Type", "text/javascript"]], "body": "Y29uc29sZS5sb2coMSk="}
		}`))
	})

	entry, err := c.GetEntry(context.Background(), "s1", "e1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/app.js", entry.URL)
	assert.Equal(t, "text/javascript", entry.ResponseHeaders().Get("content-type"))

	body, err := DecodeBody(entry.Response.Body)
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)", string(body))
}

func TestListSessions_APIError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"no such session"}`))
	})

	_, err := c.ListSessions(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "no such session", apiErr.Message)
}

func TestHeaders(t *testing.T) {
	h := Headers{
		{"Set-Cookie", "a=1"},
		{"Content-Type", "text/html"},
		{"broken"},
		{"set-cookie", "b=2"},
	}

	assert.Equal(t, "text/html", h.Get("content-type"))
	assert.Equal(t, "", h.Get("x-missing"))
	assert.Equal(t, []string{"a=1", "b=2"}, h.Values("SET-COOKIE"))

	var names []string
	h.Pairs(func(name, value string) {
		names = append(names, name)
	})
	assert.Equal(t, []string{"Set-Cookie", "Content-Type", "set-cookie"}, names)
}

func TestDecodeBody(t *testing.T) {
	body, err := DecodeBody(nil)
	require.NoError(t, err)
	assert.Nil(t, body)

	encoded := base64.StdEncoding.EncodeToString([]byte("hello"))
	body, err = DecodeBody(&encoded)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), body)
}

func TestListEntries(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sessions/s1/entries", r.URL.Path)
		q := r.URL.Query()
		assert.True(t, q.Has("selected"))
		assert.False(t, q.Has("bookmarked"))
		assert.Equal(t, "red,green", q.Get("highlighted"))
		w.Write([]byte(`[{"id":"e1","url":"https://example.com/a"},{"id":"e2","url":"https://example.com/b"}]`))
	})

	entries, err := c.ListEntries(context.Background(), "s1", &ListEntriesOptions{
		Selected:    true,
		Highlighted: []string{"red", "green"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "e2", entries[1].ID)
}
