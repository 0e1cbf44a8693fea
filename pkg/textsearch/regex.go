// Package textsearch provides line-oriented text search used for request bodies.
package textsearch

import (
	"regexp"
)

// CreateSearchRegex compiles a search pattern for query.
// When isRegex is set the query is compiled as a regular expression; if that
// fails, or isRegex is false, the query is matched literally.
// Matching ignores case unless caseSensitive is true.
func CreateSearchRegex(query string, caseSensitive, isRegex bool) *regexp.Regexp {
	flags := ""
	if !caseSensitive {
		flags = "(?i)"
	}

	if isRegex {
		if re, err := regexp.Compile(flags + query); err == nil {
			return re
		}
	}

	return regexp.MustCompile(flags + regexp.QuoteMeta(query))
}

// ValidateRegex reports whether query compiles as a regular expression.
func ValidateRegex(query string) error {
	_, err := regexp.Compile(query)
	return err
}
