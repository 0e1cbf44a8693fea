package netlog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/usestring/netsearch/internal/cache"
	"github.com/usestring/netsearch/internal/config"
	"github.com/usestring/netsearch/pkg/client"
)

// EntrySource is the part of the powhttp Data API the syncer reads from.
// *client.Client satisfies it.
type EntrySource interface {
	ListSessions(ctx context.Context) ([]client.Session, error)
	GetSession(ctx context.Context, sessionID string) (*client.Session, error)
	GetEntry(ctx context.Context, sessionID, entryID string) (*client.SessionEntry, error)
}

var _ EntrySource = (*client.Client)(nil)

// refreshStrategy indicates how to handle a session refresh.
type refreshStrategy int

const (
	strategyAppendOnly refreshStrategy = iota
	strategyRebuild
)

func (s refreshStrategy) String() string {
	if s == strategyRebuild {
		return "rebuild"
	}
	return "append_only"
}

// sessionState tracks refresh state for a single session.
type sessionState struct {
	lastEntryIDsLen int
	lastTailEntryID string
	lastSyncAt      time.Time
}

// Syncer owns the request log of every session and keeps them in sync with an
// EntrySource.
type Syncer struct {
	mu       sync.RWMutex
	logs     map[string]*Log
	sessions map[string]*sessionState

	// group deduplicates concurrent refreshes of the same session.
	group singleflight.Group

	source  EntrySource
	content *cache.ContentCache
	config  *config.Config
}

// NewSyncer creates a Syncer reading from source.
func NewSyncer(source EntrySource, content *cache.ContentCache, cfg *config.Config) *Syncer {
	return &Syncer{
		logs:     make(map[string]*Log),
		sessions: make(map[string]*sessionState),
		source:   source,
		content:  content,
		config:   cfg,
	}
}

// Source returns the entry source the syncer reads from.
func (s *Syncer) Source() EntrySource {
	return s.source
}

// Log returns the request log of a session, creating an empty one if needed.
func (s *Syncer) Log(sessionID string) *Log {
	s.mu.RLock()
	l, ok := s.logs[sessionID]
	s.mu.RUnlock()
	if ok {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.logs[sessionID]; ok {
		return l
	}
	l = NewLog(s.content)
	s.logs[sessionID] = l
	return l
}

// RefreshSession performs incremental or full refresh of a session's log.
// Concurrent refreshes of the same session share one run, which is bounded by
// the configured refresh timeout.
func (s *Syncer) RefreshSession(ctx context.Context, sessionID string) error {
	refreshCtx, cancel := context.WithTimeout(ctx, s.config.RefreshTimeout)
	defer cancel()

	_, err, _ := s.group.Do(sessionID, func() (any, error) {
		return nil, s.doRefresh(refreshCtx, sessionID)
	})
	return err
}

// RefreshIfStale refreshes a session that was never synced or was last synced
// longer ago than the freshness threshold.
func (s *Syncer) RefreshIfStale(ctx context.Context, sessionID string) error {
	state := s.getSessionStateCopy(sessionID)
	if state == nil || state.lastSyncAt.IsZero() {
		return s.RefreshSession(ctx, sessionID)
	}
	if time.Since(state.lastSyncAt) > s.config.FreshnessThreshold {
		return s.RefreshSession(ctx, sessionID)
	}
	return nil
}

// StartBackgroundRefresh starts a goroutine that periodically refreshes all
// sessions until ctx is done.
func (s *Syncer) StartBackgroundRefresh(ctx context.Context) {
	slog.Info("starting background refresh for all sessions",
		slog.Duration("interval", s.config.RefreshInterval),
	)

	go func() {
		ticker := time.NewTicker(s.config.RefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("stopping background refresh")
				return
			case <-ticker.C:
				s.refreshAllSessions(ctx)
			}
		}
	}()
}

func (s *Syncer) refreshAllSessions(ctx context.Context) {
	sessions, err := s.source.ListSessions(ctx)
	if err != nil {
		slog.Warn("failed to list sessions for background refresh",
			slog.String("error", err.Error()),
		)
		return
	}

	for _, session := range sessions {
		if err := s.RefreshSession(ctx, session.ID); err != nil {
			slog.Warn("background refresh failed",
				slog.String("session_id", session.ID),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *Syncer) doRefresh(ctx context.Context, sessionID string) error {
	start := time.Now()

	session, err := s.source.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("fetching session: %w", err)
	}

	currentEntryIDs := session.EntryIDs
	state := s.getSessionStateCopy(sessionID)
	strategy := detectRefreshStrategy(currentEntryIDs, state)

	var entriesToFetch []string
	switch strategy {
	case strategyAppendOnly:
		if state != nil && state.lastEntryIDsLen < len(currentEntryIDs) {
			entriesToFetch = currentEntryIDs[state.lastEntryIDsLen:]
		}
	case strategyRebuild:
		limit := s.config.BootstrapTailLimit
		if limit <= 0 || len(currentEntryIDs) <= limit {
			entriesToFetch = currentEntryIDs
		} else {
			entriesToFetch = currentEntryIDs[len(currentEntryIDs)-limit:]
		}
	}

	entries, err := s.fetchEntriesConcurrently(ctx, sessionID, entriesToFetch)
	if err != nil {
		return fmt.Errorf("fetching entries: %w", err)
	}

	added := 0
	for _, entry := range entries {
		if entry != nil {
			added++
		}
	}

	log := s.Log(sessionID)
	if strategy == strategyRebuild {
		log.Replace(entries)
	} else {
		for _, entry := range entries {
			if entry != nil {
				log.Add(entry)
			}
		}
	}

	s.updateSessionState(sessionID, currentEntryIDs)

	slog.Debug("refresh completed",
		slog.String("session_id", sessionID),
		slog.String("strategy", strategy.String()),
		slog.Int("fetched", len(entriesToFetch)),
		slog.Int("added", added),
		slog.Int("total_entries", len(currentEntryIDs)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}

// detectRefreshStrategy determines append-only vs rebuild based on entry ID comparison.
func detectRefreshStrategy(currentEntryIDs []string, state *sessionState) refreshStrategy {
	// First sync always rebuilds
	if state == nil || state.lastSyncAt.IsZero() {
		return strategyRebuild
	}

	// Entries were deleted
	if len(currentEntryIDs) < state.lastEntryIDsLen {
		return strategyRebuild
	}

	// Previous tail moved, so earlier entries changed
	if state.lastEntryIDsLen > 0 && currentEntryIDs[state.lastEntryIDsLen-1] != state.lastTailEntryID {
		return strategyRebuild
	}

	return strategyAppendOnly
}

// fetchEntriesConcurrently fetches entries with at most FetchWorkers requests
// in flight. Entries that fail to load are left nil.
func (s *Syncer) fetchEntriesConcurrently(ctx context.Context, sessionID string, entryIDs []string) ([]*client.SessionEntry, error) {
	entries := make([]*client.SessionEntry, len(entryIDs))
	if len(entryIDs) == 0 {
		return entries, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	if s.config.FetchWorkers > 0 {
		g.SetLimit(s.config.FetchWorkers)
	}

	for i, entryID := range entryIDs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			entry, err := s.source.GetEntry(ctx, sessionID, entryID)
			if err != nil {
				// One missing entry should not fail the batch; it may have
				// been deleted since the session was listed.
				slog.Debug("failed to fetch entry",
					slog.String("session_id", sessionID),
					slog.String("entry_id", entryID),
					slog.String("error", err.Error()),
				)
				return nil
			}

			entries[i] = entry
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// LastSyncTime returns the last sync time for a session, or the zero time.
func (s *Syncer) LastSyncTime(sessionID string) time.Time {
	state := s.getSessionStateCopy(sessionID)
	if state == nil {
		return time.Time{}
	}
	return state.lastSyncAt
}

func (s *Syncer) updateSessionState(sessionID string, entryIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		state = &sessionState{}
		s.sessions[sessionID] = state
	}
	state.lastEntryIDsLen = len(entryIDs)
	state.lastTailEntryID = ""
	if len(entryIDs) > 0 {
		state.lastTailEntryID = entryIDs[len(entryIDs)-1]
	}
	state.lastSyncAt = time.Now()
}

func (s *Syncer) getSessionStateCopy(sessionID string) *sessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	cp := *state
	return &cp
}
