package netsearch

import (
	"regexp"

	"github.com/usestring/netsearch/pkg/textsearch"
)

// matcher applies the query tokens in sequence to a single string.
type matcher struct {
	patterns []*regexp.Regexp
}

func newMatcher(q Query) *matcher {
	tokens := q.Queries()
	m := &matcher{patterns: make([]*regexp.Regexp, 0, len(tokens))}
	for _, token := range tokens {
		m.patterns = append(m.patterns, textsearch.CreateSearchRegex(token, !q.IgnoreCase(), q.IsRegex()))
	}
	return m
}

// matches reports whether every token occurs in s, each after the end of the
// previous one. An occurrence at offset 0 of the remaining string does not
// count, so a token that matches only at the start of what is left fails.
// With no tokens every string matches.
func (m *matcher) matches(s string) bool {
	pos := 0
	for _, re := range m.patterns {
		loc := re.FindStringIndex(s[pos:])
		if loc == nil || loc[0] == 0 {
			return false
		}
		pos += loc[1]
	}
	return true
}

func (m *matcher) matchesHeader(h Header) bool {
	return m.matches(h.Name + ": " + h.Value)
}
