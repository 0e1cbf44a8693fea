package textsearch

import (
	"strings"
)

// Match is a single line of content that matched a query.
type Match struct {
	LineNumber  int    `json:"line_number"` // 0-based
	LineContent string `json:"line_content"`
	Column      int    `json:"column"` // byte offset of the first match in the line
	Length      int    `json:"length"`
}

// SearchInContent returns one Match per line of content that matches query.
// Lines are split on "\n"; a trailing "\r" is not part of the line.
func SearchInContent(content, query string, caseSensitive, isRegex bool) []Match {
	if content == "" {
		return nil
	}

	re := CreateSearchRegex(query, caseSensitive, isRegex)

	var matches []Match
	for i, line := range splitLines(content) {
		loc := re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		matches = append(matches, Match{
			LineNumber:  i,
			LineContent: line,
			Column:      loc[0],
			Length:      loc[1] - loc[0],
		})
	}

	return matches
}

func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
