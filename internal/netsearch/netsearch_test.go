package netsearch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/usestring/netsearch/pkg/textsearch"
)

// --- helpers ---

type fakeRequest struct {
	url       string
	name      string
	text      bool
	reqH      []Header
	respH     []Header
	body      string
	bodyErr   error
	onSearch  func()
	lastQuery string
	searched  atomic.Int32
}

func (r *fakeRequest) URL() string               { return r.url }
func (r *fakeRequest) DisplayName() string       { return r.name }
func (r *fakeRequest) IsTextType() bool          { return r.text }
func (r *fakeRequest) RequestHeaders() []Header  { return r.reqH }
func (r *fakeRequest) ResponseHeaders() []Header { return r.respH }

func (r *fakeRequest) SearchInContent(_ context.Context, query string, caseSensitive, isRegex bool) ([]textsearch.Match, error) {
	r.searched.Add(1)
	r.lastQuery = query
	if r.onSearch != nil {
		r.onSearch()
	}
	if r.bodyErr != nil {
		return nil, r.bodyErr
	}
	return textsearch.SearchInContent(r.body, query, caseSensitive, isRegex), nil
}

type fakeSource []*fakeRequest

func (s fakeSource) Candidates() []Candidate {
	out := make([]Candidate, len(s))
	for i, r := range s {
		out[i] = r
	}
	return out
}

type run struct {
	results  []*Result
	finished []bool
	doneSeen bool
}

func runSearch(t *testing.T, scope *Scope, q Query, tracker *Tracker) *run {
	t.Helper()
	r := &run{}
	scope.PerformSearch(context.Background(), q, tracker,
		func(res *Result) { r.results = append(r.results, res) },
		func(finished bool) {
			r.finished = append(r.finished, finished)
			select {
			case <-tracker.Finished():
				r.doneSeen = true
			default:
			}
		},
	)
	return r
}

func labels(results []*Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Label()
	}
	return out
}

// --- query parsing ---

func TestNewConfig_Tokens(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		isRegex bool
		want    []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "whitespace only", text: "   ", want: nil},
		{name: "single word", text: "api", want: []string{"api"}},
		{name: "word run is one token", text: "foo bar", want: []string{"foo bar"}},
		{name: "surrounding whitespace trimmed", text: "  foo  ", want: []string{"foo"}},
		{name: "quoted phrase keeps spaces", text: `" foo "`, want: []string{" foo "}},
		{name: "quoted phrase", text: `"hello world" api`, want: []string{"hello world", "api"}},
		{name: "escaped quote", text: `foo\"bar`, want: []string{`foo"bar`}},
		{name: "unterminated quote dropped", text: `"abc`, want: nil},
		{name: "file filter removed", text: "file:*.js token", want: []string{"token"}},
		{name: "regex kept verbatim", text: `a\.c`, isRegex: true, want: []string{`a\.c`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfig(tt.text, false, tt.isRegex)
			assert.Equal(t, tt.want, c.Queries())
			assert.Equal(t, tt.text, c.Text())
		})
	}
}

func TestNewConfig_FileFilters(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		ignoreCase bool
		path       string
		want       bool
	}{
		{name: "no filter", text: "foo", path: "https://a.test/x.css", want: true},
		{name: "glob match", text: "file:*.js", path: "https://a.test/app.js", want: true},
		{name: "glob miss", text: "file:*.js", path: "https://a.test/app.css", want: false},
		{name: "short form", text: "f:api", path: "https://a.test/api/v1", want: true},
		{name: "negative match", text: "-file:min.js", path: "https://a.test/app.min.js", want: false},
		{name: "negative miss", text: "-file:min.js", path: "https://a.test/app.js", want: true},
		{name: "case sensitive", text: "file:APP", path: "https://a.test/app.js", want: false},
		{name: "ignore case", text: "file:APP", ignoreCase: true, path: "https://a.test/app.js", want: true},
		{name: "dot is literal", text: "file:a.js", path: "https://a.test/abjs", want: false},
		{name: "escaped space", text: `file:my\ file`, path: "https://a.test/my file.txt", want: true},
		{name: "both filters", text: "file:*.js -f:vendor", path: "https://a.test/vendor/lib.js", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfig(tt.text, tt.ignoreCase, false)
			assert.Equal(t, tt.want, c.FilePathMatchesFileQuery(tt.path))
		})
	}
}

// --- matcher ---

func TestMatcher(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		ignoreCase bool
		isRegex    bool
		subject    string
		want       bool
	}{
		{name: "no tokens matches anything", text: "", subject: "anything", want: true},
		{name: "no tokens matches empty", text: "", subject: "", want: true},
		{name: "single token", text: "api", subject: "https://a.test/api", want: true},
		{name: "missing token", text: "nope", subject: "https://a.test/api", want: false},
		{name: "match at start does not count", text: "https", subject: "https://a.test/", want: false},
		{name: "tokens in order", text: `"a.test" "v1"`, subject: "https://a.test/api/v1", want: true},
		{name: "tokens out of order", text: `"v1" "a.test"`, subject: "https://a.test/api/v1", want: false},
		{name: "second token directly after first", text: `"api" "/v1"`, subject: "https://a.test/api/v1", want: false},
		{name: "case sensitive", text: "API", subject: "https://a.test/api", want: false},
		{name: "ignore case", text: "API", ignoreCase: true, subject: "https://a.test/api", want: true},
		{name: "regex", text: `v\d+`, isRegex: true, subject: "https://a.test/api/v12", want: true},
		{name: "invalid regex is literal", text: `a(b`, isRegex: true, subject: "xa(b", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMatcher(NewConfig(tt.text, tt.ignoreCase, tt.isRegex))
			assert.Equal(t, tt.want, m.matches(tt.subject))
		})
	}
}

func TestMatcher_Header(t *testing.T) {
	m := newMatcher(NewConfig("json", false, false))
	assert.True(t, m.matchesHeader(Header{Name: "Content-Type", Value: "application/json"}))

	m = newMatcher(NewConfig("Content", false, false))
	assert.False(t, m.matchesHeader(Header{Name: "Content-Type", Value: "text/html"}))

	m = newMatcher(NewConfig(`"Type: text"`, false, false))
	assert.True(t, m.matchesHeader(Header{Name: "Content-Type", Value: "text/html"}))
}

// --- scope ---

func TestPerformSearch_SortsAndFilters(t *testing.T) {
	source := fakeSource{
		{url: "https://cdn.test/static/c.js", name: "c.js"},
		{url: "https://cdn.test/other/x.js", name: "x.js"},
		{url: "https://cdn.test/static/a.js", name: "a.js"},
		{url: "https://cdn.test/static/B.js", name: "B.js"},
	}
	tracker := NewTracker(context.Background())

	r := runSearch(t, NewScope(source), NewConfig("static", false, false), tracker)

	assert.Equal(t, []string{"a.js", "B.js", "c.js"}, labels(r.results))
	assert.Equal(t, []bool{true}, r.finished)
	assert.True(t, r.doneSeen, "Done must be reported before onFinished")
	assert.Equal(t, 4, tracker.Total())
	assert.Equal(t, 4, tracker.WorkedCount())
}

func TestPerformSearch_SortIgnoresCompletionOrder(t *testing.T) {
	var mu sync.Mutex
	var completed []string
	record := func(name string) {
		mu.Lock()
		completed = append(completed, name)
		mu.Unlock()
	}

	cDone := make(chan struct{})
	bDone := make(chan struct{})
	source := fakeSource{
		{url: "https://cdn.test/static/a.js", name: "a.js", text: true, onSearch: func() {
			<-bDone
			record("a.js")
		}},
		{url: "https://cdn.test/static/b.js", name: "b.js", text: true, onSearch: func() {
			<-cDone
			record("b.js")
			close(bDone)
		}},
		{url: "https://cdn.test/static/c.js", name: "c.js", text: true, onSearch: func() {
			record("c.js")
			close(cDone)
		}},
	}
	tracker := NewTracker(context.Background())

	r := runSearch(t, NewScope(source), NewConfig("static", false, false), tracker)

	assert.Equal(t, []string{"c.js", "b.js", "a.js"}, completed)
	assert.Equal(t, []string{"a.js", "b.js", "c.js"}, labels(r.results))
	assert.Equal(t, []bool{true}, r.finished)
}

func TestPerformSearch_LocationOrder(t *testing.T) {
	req := &fakeRequest{
		url:   "https://a.test/token",
		name:  "token",
		text:  true,
		reqH:  []Header{{Name: "X-Req", Value: "token-1"}, {Name: "Accept", Value: "*/*"}},
		respH: []Header{{Name: "X-Resp", Value: "token-2"}},
		body:  "first\nhas token\nlast token here",
	}
	tracker := NewTracker(context.Background())

	r := runSearch(t, NewScope(fakeSource{req}), NewConfig("token", false, false), tracker)

	require.Len(t, r.results, 1)
	res := r.results[0]
	require.Equal(t, 5, res.MatchesCount())

	kinds := make([]string, 0, res.MatchesCount())
	for _, loc := range res.Locations() {
		kinds = append(kinds, loc.Kind())
		assert.Same(t, req, loc.Request())
	}
	assert.Equal(t, []string{KindURL, KindRequestHeader, KindResponseHeader, KindBody, KindBody}, kinds)

	assert.Equal(t, "URL", res.MatchLabel(0))
	assert.Equal(t, "https://a.test/token", res.MatchLineContent(0))
	assert.Equal(t, "X-Req:", res.MatchLabel(1))
	assert.Equal(t, "token-1", res.MatchLineContent(1))
	assert.Equal(t, "X-Resp:", res.MatchLabel(2))
	assert.Equal(t, "token-2", res.MatchLineContent(2))
	assert.Equal(t, "2", res.MatchLabel(3))
	assert.Equal(t, "has token", res.MatchLineContent(3))
	assert.Equal(t, "3", res.MatchLabel(4))

	body, ok := res.MatchRevealable(4).(BodyMatch)
	require.True(t, ok)
	assert.Equal(t, 2, body.Match().LineNumber)
	assert.Equal(t, 5, body.Match().Column)
}

func TestPerformSearch_BodyOnlyForTextTypes(t *testing.T) {
	binary := &fakeRequest{url: "https://a.test/img.png", name: "img.png", body: "needle"}
	text := &fakeRequest{url: "https://a.test/app.js", name: "app.js", text: true, body: "needle"}
	tracker := NewTracker(context.Background())

	r := runSearch(t, NewScope(fakeSource{binary, text}), NewConfig("needle", false, false), tracker)

	assert.Equal(t, []string{"app.js"}, labels(r.results))
	assert.Zero(t, binary.searched.Load())
	assert.Equal(t, int32(1), text.searched.Load())
}

func TestPerformSearch_BodyReceivesRawQuery(t *testing.T) {
	req := &fakeRequest{url: "https://a.test/app.js", name: "app.js", text: true}
	tracker := NewTracker(context.Background())

	runSearch(t, NewScope(fakeSource{req}), NewConfig(`file:*.js "a b"`, false, false), tracker)

	assert.Equal(t, `file:*.js "a b"`, req.lastQuery)
}

func TestPerformSearch_BodyErrorIsNoMatch(t *testing.T) {
	req := &fakeRequest{
		url:     "https://a.test/api",
		name:    "api",
		text:    true,
		body:    "api",
		bodyErr: errors.New("fetch failed"),
	}
	tracker := NewTracker(context.Background())

	r := runSearch(t, NewScope(fakeSource{req}), NewConfig("api", false, false), tracker)

	require.Len(t, r.results, 1)
	require.Equal(t, 1, r.results[0].MatchesCount())
	assert.Equal(t, KindURL, r.results[0].Locations()[0].Kind())
	assert.Equal(t, []bool{true}, r.finished)
}

func TestPerformSearch_FileFilterLimitsWork(t *testing.T) {
	source := fakeSource{
		{url: "https://a.test/app.js", name: "app.js"},
		{url: "https://a.test/style.css", name: "style.css"},
	}
	tracker := NewTracker(context.Background())

	r := runSearch(t, NewScope(source), NewConfig("file:*.js a.test", false, false), tracker)

	assert.Equal(t, []string{"app.js"}, labels(r.results))
	assert.Equal(t, 1, tracker.Total())
	assert.Equal(t, 1, tracker.WorkedCount())
}

func TestPerformSearch_NoMatches(t *testing.T) {
	source := fakeSource{{url: "https://a.test/x", name: "x"}}
	tracker := NewTracker(context.Background())

	r := runSearch(t, NewScope(source), NewConfig("absent", false, false), tracker)

	assert.Empty(t, r.results)
	assert.Equal(t, []bool{true}, r.finished)
	assert.True(t, r.doneSeen)
}

func TestPerformSearch_EmptySource(t *testing.T) {
	tracker := NewTracker(context.Background())

	r := runSearch(t, NewScope(fakeSource{}), NewConfig("x", false, false), tracker)

	assert.Empty(t, r.results)
	assert.Equal(t, []bool{true}, r.finished)
	assert.Zero(t, tracker.Total())
}

func TestPerformSearch_CanceledBeforeStart(t *testing.T) {
	source := fakeSource{{url: "https://a.test/api", name: "api"}}
	tracker := NewTracker(context.Background())
	tracker.Cancel()

	r := runSearch(t, NewScope(source), NewConfig("api", false, false), tracker)

	assert.Empty(t, r.results)
	assert.Equal(t, []bool{false}, r.finished)
	assert.False(t, r.doneSeen)
}

func TestPerformSearch_CanceledDuringBodySearch(t *testing.T) {
	tracker := NewTracker(context.Background())
	source := fakeSource{
		{url: "https://a.test/one", name: "one", text: true, onSearch: tracker.Cancel},
		{url: "https://a.test/two", name: "two", text: true},
	}

	r := runSearch(t, NewScope(source, WithMaxWorkers(1)), NewConfig("a.test", false, false), tracker)

	assert.Empty(t, r.results)
	assert.Equal(t, []bool{false}, r.finished)
	assert.False(t, r.doneSeen)
	assert.Equal(t, 2, tracker.Total())
	assert.Zero(t, tracker.WorkedCount(), "requests finishing after cancel must not count as worked")
}

func TestPerformSearch_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tracker := NewTracker(ctx)

	r := runSearch(t, NewScope(fakeSource{{url: "https://a.test/api", name: "api"}}), NewConfig("api", false, false), tracker)

	assert.Empty(t, r.results)
	assert.Equal(t, []bool{false}, r.finished)
}

func TestPerformSearch_MaxWorkers(t *testing.T) {
	var source fakeSource
	for _, name := range []string{"e", "d", "c", "b", "a"} {
		source = append(source, &fakeRequest{url: "https://a.test/" + name, name: name, text: true, body: "x a.test"})
	}
	tracker := NewTracker(context.Background())

	r := runSearch(t, NewScope(source, WithMaxWorkers(2)), NewConfig("a.test", false, false), tracker)

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, labels(r.results))
	for _, res := range r.results {
		assert.Equal(t, 2, res.MatchesCount())
	}
}

func TestPerformSearch_NoTokensMatchesEverything(t *testing.T) {
	source := fakeSource{
		{url: "https://a.test/1", name: "1", reqH: []Header{{Name: "Host", Value: "a.test"}}},
		{url: "https://a.test/2", name: "2"},
	}
	tracker := NewTracker(context.Background())

	r := runSearch(t, NewScope(source), NewConfig("", false, false), tracker)

	require.Len(t, r.results, 2)
	assert.Equal(t, 2, r.results[0].MatchesCount())
	assert.Equal(t, 1, r.results[1].MatchesCount())
}

func TestScope_Locale(t *testing.T) {
	assert.Equal(t, language.English, NewScope(fakeSource{}).Locale())
	assert.Equal(t, language.German, NewScope(fakeSource{}, WithLocale(language.German)).Locale())
}

func TestPerformIndexing(t *testing.T) {
	tracker := NewTracker(context.Background())
	NewScope(fakeSource{}).PerformIndexing(tracker)

	select {
	case <-tracker.Finished():
	case <-time.After(time.Second):
		t.Fatal("indexing never reported done")
	}
}

func TestStopSearch(t *testing.T) {
	scope := NewScope(fakeSource{{url: "https://a.test/api", name: "api"}})
	scope.StopSearch()

	r := runSearch(t, scope, NewConfig("api", false, false), NewTracker(context.Background()))
	assert.Len(t, r.results, 1)
}

// --- result ---

func TestResult_Description(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://a.test/path?q=1", want: "a.test/path?q=1"},
		{url: "http://a.test", want: "a.test"},
		{url: "data:text/plain,hi", want: "data:text/plain,hi"},
		{url: "no-scheme", want: "no-scheme"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			res := &Result{request: &fakeRequest{url: tt.url}}
			assert.Equal(t, tt.want, res.Description())
		})
	}
}

func TestResult_LocalizedURLLabel(t *testing.T) {
	req := &fakeRequest{url: "https://a.test/x"}
	res := &Result{request: req, locations: []Location{URLMatch{request: req}}, locale: language.German}
	assert.Equal(t, "URL", res.MatchLabel(0))
}

// --- progress ---

func TestTracker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tracker := NewTracker(ctx)

	tracker.SetTotalWork(3)
	tracker.Worked()
	tracker.Worked()
	assert.Equal(t, 3, tracker.Total())
	assert.Equal(t, 2, tracker.WorkedCount())

	assert.False(t, tracker.IsCanceled())
	cancel()
	assert.True(t, tracker.IsCanceled())

	tracker.Done()
	tracker.Done()
	select {
	case <-tracker.Finished():
	default:
		t.Fatal("expected finished channel to be closed")
	}
}

// --- messages ---

func TestSummary(t *testing.T) {
	assert.Equal(t, "Found 3 matching lines in 2 files.", Summary(language.English, 3, 2))
	assert.Equal(t, "Found 1 matching line in 1 file.", Summary(language.English, 1, 1))
	assert.Equal(t, "3 übereinstimmende Zeilen in 2 Dateien gefunden.", Summary(language.German, 3, 2))
}

func TestInterrupted(t *testing.T) {
	assert.Equal(t, "Search interrupted.", Interrupted(language.English))
	assert.Equal(t, "Suche unterbrochen.", Interrupted(language.German))
}

func TestParseLocale(t *testing.T) {
	assert.Equal(t, language.English, ParseLocale(""))
	assert.Equal(t, language.English, ParseLocale("!!"))
	assert.Equal(t, language.German, ParseLocale("de"))
}
