package netsearch

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Scope searches the requests of a RequestSource.
type Scope struct {
	source     RequestSource
	maxWorkers int
	locale     language.Tag
}

var _ SearchScope = (*Scope)(nil)

// Option configures a Scope.
type Option func(*Scope)

// WithMaxWorkers caps the number of requests searched concurrently.
// Zero or a negative value searches every request at once.
func WithMaxWorkers(n int) Option {
	return func(s *Scope) {
		s.maxWorkers = n
	}
}

// WithLocale sets the locale used to sort result labels and to localize
// match labels.
func WithLocale(tag language.Tag) Option {
	return func(s *Scope) {
		s.locale = tag
	}
}

// NewScope creates a search scope over source.
func NewScope(source RequestSource, opts ...Option) *Scope {
	s := &Scope{
		source: source,
		locale: language.English,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Locale returns the locale the scope sorts and labels with.
func (s *Scope) Locale() language.Tag {
	return s.locale
}

// PerformIndexing completes immediately: requests need no index. Done is
// still reported from another goroutine, never before PerformIndexing returns.
func (s *Scope) PerformIndexing(progress Progress) {
	go progress.Done()
}

// PerformSearch searches every request whose URL passes the query's file
// filter. Each request is searched on its own goroutine. Once all of them have
// finished, onResult receives every result with at least one match, sorted by
// label, followed by onFinished(true). If progress was canceled by then, no
// result is delivered and onFinished(false) is called instead.
func (s *Scope) PerformSearch(ctx context.Context, q Query, progress Progress, onResult func(*Result), onFinished func(finished bool)) {
	start := time.Now()
	logger := slog.With(slog.String("search_id", uuid.NewString()))

	var candidates []Candidate
	for _, req := range s.source.Candidates() {
		if q.FilePathMatchesFileQuery(req.URL()) {
			candidates = append(candidates, req)
		}
	}
	progress.SetTotalWork(len(candidates))

	m := newMatcher(q)
	results := make([]*Result, len(candidates))

	var g errgroup.Group
	if s.maxWorkers > 0 {
		g.SetLimit(s.maxWorkers)
	}
	for i, req := range candidates {
		g.Go(func() error {
			results[i] = s.searchRequest(ctx, q, m, req, progress, logger)
			return nil
		})
	}
	_ = g.Wait()

	if progress.IsCanceled() {
		logger.Debug("search canceled",
			slog.Int("candidates", len(candidates)),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		onFinished(false)
		return
	}

	completed := results[:0]
	for _, r := range results {
		if r != nil {
			completed = append(completed, r)
		}
	}

	col := collate.New(s.locale)
	sort.SliceStable(completed, func(i, j int) bool {
		return col.CompareString(completed[i].Label(), completed[j].Label()) < 0
	})

	emitted := 0
	for _, r := range completed {
		if r.MatchesCount() > 0 {
			emitted++
			if onResult != nil {
				onResult(r)
			}
		}
	}

	logger.Debug("search finished",
		slog.Int("candidates", len(candidates)),
		slog.Int("results", emitted),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	progress.Done()
	onFinished(true)
}

// StopSearch is a no-op; searches stop through their Progress.
func (s *Scope) StopSearch() {}
