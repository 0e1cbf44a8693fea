package mcpsrv

import (
	"golang.org/x/text/language"

	"github.com/usestring/netsearch/internal/cache"
	"github.com/usestring/netsearch/internal/config"
	"github.com/usestring/netsearch/internal/netlog"
	"github.com/usestring/netsearch/internal/netsearch"
	"github.com/usestring/netsearch/pkg/client"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Client *client.Client
	Syncer *netlog.Syncer
	Cache  *cache.ContentCache
	Config *config.Config
	Locale language.Tag
}

// NewScope creates a search scope over source with the server's worker cap
// and locale.
func (d *Deps) NewScope(source netsearch.RequestSource) *netsearch.Scope {
	return netsearch.NewScope(source,
		netsearch.WithMaxWorkers(d.Config.SearchMaxWorkers),
		netsearch.WithLocale(d.Locale),
	)
}
