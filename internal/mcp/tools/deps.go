package tools

import (
	"golang.org/x/text/language"

	"github.com/usestring/netsearch/internal/cache"
	"github.com/usestring/netsearch/internal/config"
	"github.com/usestring/netsearch/internal/netlog"
	"github.com/usestring/netsearch/internal/netsearch"
)

// activeSession is the session ID the powhttp API resolves to the session
// currently open in the app.
const activeSession = "active"

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Syncer *netlog.Syncer
	Cache  *cache.ContentCache
	Config *config.Config
	Locale language.Tag
}

// ResolveSessionID returns sessionID, or the active session when it is empty.
func (d *Deps) ResolveSessionID(sessionID string) string {
	if sessionID == "" {
		return activeSession
	}
	return sessionID
}

// NewScope creates a search scope over source using the configured worker
// cap and locale.
func (d *Deps) NewScope(source netsearch.RequestSource) *netsearch.Scope {
	return netsearch.NewScope(source,
		netsearch.WithMaxWorkers(d.Config.SearchMaxWorkers),
		netsearch.WithLocale(d.Locale),
	)
}
