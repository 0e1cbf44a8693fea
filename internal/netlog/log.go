package netlog

import (
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/usestring/netsearch/internal/cache"
	"github.com/usestring/netsearch/internal/netsearch"
	"github.com/usestring/netsearch/pkg/client"
)

// Log is the ordered set of requests captured in one session. Requests are
// numbered in insertion order and stay in that order when listed.
type Log struct {
	mu sync.RWMutex

	// ID mappings
	idToDoc map[string]uint32
	docs    []*Request

	// Live documents and the host index (both Roaring bitmaps)
	live    *roaring.Bitmap
	idxHost map[string]*roaring.Bitmap

	content *cache.ContentCache
}

var _ netsearch.RequestSource = (*Log)(nil)

// NewLog creates an empty log. Decoded bodies of its requests are cached in
// content when it is non-nil.
func NewLog(content *cache.ContentCache) *Log {
	return &Log{
		idToDoc: make(map[string]uint32),
		docs:    make([]*Request, 0, 1024),
		live:    roaring.New(),
		idxHost: make(map[string]*roaring.Bitmap),
		content: content,
	}
}

// Add inserts entry, or replaces the request already stored under its ID.
// Returns the entry's document ID.
func (l *Log) Add(entry *client.SessionEntry) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()

	req := NewRequest(entry, l.content)

	docID, exists := l.idToDoc[entry.ID]
	if exists {
		if prev := l.docs[docID]; prev.host != req.host {
			l.unindexHost(prev.host, docID)
		}
		l.docs[docID] = req
	} else {
		docID = uint32(len(l.docs))
		l.idToDoc[entry.ID] = docID
		l.docs = append(l.docs, req)
	}
	l.live.Add(docID)
	l.indexHost(req.host, docID)

	return docID
}

// Replace swaps the log's contents for entries, in the given order. Readers
// see either the previous requests or the new ones, never a mix. Cached
// bodies of entries that are no longer present are evicted.
func (l *Log) Replace(entries []*client.SessionEntry) {
	idToDoc := make(map[string]uint32, len(entries))
	docs := make([]*Request, 0, len(entries))
	live := roaring.New()
	idxHost := make(map[string]*roaring.Bitmap)

	for _, entry := range entries {
		if entry == nil {
			continue
		}
		req := NewRequest(entry, l.content)
		docID, exists := idToDoc[entry.ID]
		if exists {
			docs[docID] = req
		} else {
			docID = uint32(len(docs))
			idToDoc[entry.ID] = docID
			docs = append(docs, req)
		}
		live.Add(docID)
	}
	for docID, req := range docs {
		if req.host == "" {
			continue
		}
		bm, ok := idxHost[req.host]
		if !ok {
			bm = roaring.New()
			idxHost[req.host] = bm
		}
		bm.Add(uint32(docID))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.content != nil {
		for id := range l.idToDoc {
			if _, kept := idToDoc[id]; !kept {
				l.content.Remove(id)
			}
		}
	}
	l.idToDoc = idToDoc
	l.docs = docs
	l.live = live
	l.idxHost = idxHost
}

// Len returns the number of requests in the log.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return int(l.live.GetCardinality())
}

// Requests returns the requests in insertion order.
func (l *Log) Requests() []*Request {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.collect(l.live)
}

// Candidates returns the requests in insertion order as search candidates.
func (l *Log) Candidates() []netsearch.Candidate {
	return toCandidates(l.Requests())
}

// ForHost returns a view of the log restricted to host. A "*.example.com"
// pattern matches "example.com" and all of its subdomains; any other pattern
// matches exactly. The view follows later changes to the log.
func (l *Log) ForHost(host string) netsearch.RequestSource {
	return hostView{log: l, host: strings.ToLower(host)}
}

// RequestsForHost returns the requests whose host matches the pattern, in
// insertion order.
func (l *Log) RequestsForHost(host string) []*Request {
	l.mu.RLock()
	defer l.mu.RUnlock()

	bm := l.bitmapForHost(strings.ToLower(host))
	if bm == nil {
		return nil
	}
	return l.collect(roaring.And(bm, l.live))
}

// bitmapForHost returns the host index bitmap for a host pattern.
// Callers must hold l.mu.
func (l *Log) bitmapForHost(host string) *roaring.Bitmap {
	if !strings.HasPrefix(host, "*.") {
		return l.idxHost[host]
	}

	baseDomain := host[2:]
	if baseDomain == "" {
		return nil
	}

	suffix := "." + baseDomain
	result := roaring.New()
	for key, bm := range l.idxHost {
		if key == baseDomain || strings.HasSuffix(key, suffix) {
			result.Or(bm)
		}
	}
	if result.IsEmpty() {
		return nil
	}
	return result
}

// indexHost adds docID to host's bitmap. Callers must hold l.mu.
func (l *Log) indexHost(host string, docID uint32) {
	if host == "" {
		return
	}
	bm, ok := l.idxHost[host]
	if !ok {
		bm = roaring.New()
		l.idxHost[host] = bm
	}
	bm.Add(docID)
}

// unindexHost removes docID from host's bitmap. Callers must hold l.mu.
func (l *Log) unindexHost(host string, docID uint32) {
	bm, ok := l.idxHost[host]
	if !ok {
		return
	}
	bm.Remove(docID)
	if bm.IsEmpty() {
		delete(l.idxHost, host)
	}
}

// collect resolves document IDs to requests. Callers must hold l.mu.
func (l *Log) collect(bm *roaring.Bitmap) []*Request {
	out := make([]*Request, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, l.docs[it.Next()])
	}
	return out
}

func toCandidates(reqs []*Request) []netsearch.Candidate {
	out := make([]netsearch.Candidate, len(reqs))
	for i, r := range reqs {
		out[i] = r
	}
	return out
}

type hostView struct {
	log  *Log
	host string
}

func (v hostView) Candidates() []netsearch.Candidate {
	return toCandidates(v.log.RequestsForHost(v.host))
}
