package netsearch

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Query is the search configuration consumed by the scope.
type Query interface {
	// Text is the raw query text. Body searches receive it unchanged.
	Text() string
	// Queries returns the ordered tokens matched against URLs and headers.
	Queries() []string
	IgnoreCase() bool
	IsRegex() bool
	// FilePathMatchesFileQuery is the cheap candidate pre-filter.
	FilePathMatchesFileQuery(path string) bool
}

type fileQuery struct {
	re       *regexp.Regexp
	negative bool
}

// Config is a Query parsed from user input. Besides plain tokens the input may
// carry file filters ("file:*.js", "f:api", "-file:min.js") that restrict
// which request URLs are searched, and double-quoted phrases.
type Config struct {
	text        string
	ignoreCase  bool
	isRegex     bool
	queries     []string
	fileQueries []fileQuery
}

var _ Query = (*Config)(nil)

var escapedChar = regexp.MustCompile(`\\(.)`)

// NewConfig parses text into tokens and file filters. Whitespace between
// parts is a separator and never part of a token, so leading and trailing
// spaces of an unquoted run are dropped; quote a phrase to keep them.
func NewConfig(text string, ignoreCase, isRegex bool) *Config {
	c := &Config{
		text:       text,
		ignoreCase: ignoreCase,
		isRegex:    isRegex,
	}
	c.parse()
	return c
}

func (c *Config) Text() string      { return c.text }
func (c *Config) Queries() []string { return c.queries }
func (c *Config) IgnoreCase() bool  { return c.ignoreCase }
func (c *Config) IsRegex() bool     { return c.isRegex }

// FilePathMatchesFileQuery reports whether path passes every file filter.
// A path is rejected when a positive filter does not match it or a negative
// filter does.
func (c *Config) FilePathMatchesFileQuery(path string) bool {
	for _, fq := range c.fileQueries {
		if fq.re.MatchString(path) == fq.negative {
			return false
		}
	}
	return true
}

func (c *Config) parse() {
	s := c.text
	pos := 0
	for pos < len(s) {
		for pos < len(s) && isSpace(s[pos]) {
			pos++
		}
		if pos >= len(s) {
			break
		}
		rest := s[pos:]

		if n, value, negative, ok := scanFileQuery(rest); ok {
			c.addFileQuery(value, negative)
			pos += n
			continue
		}

		if rest[0] == '"' {
			if n := scanQuoted(rest); n > 0 {
				c.addPart(rest[:n])
				pos += n
				continue
			}
		}

		n := scanUnquoted(rest)
		if n == 0 {
			// A lone trailing backslash belongs to no part.
			pos++
			continue
		}
		c.addPart(rest[:n])
		pos += n
	}
}

func (c *Config) addPart(part string) {
	switch {
	case c.isRegex:
		c.queries = append(c.queries, part)
	case strings.HasPrefix(part, `"`):
		// Unterminated quotes are dropped.
		if len(part) < 2 || !strings.HasSuffix(part, `"`) {
			return
		}
		c.queries = append(c.queries, unescape(part[1:len(part)-1]))
	default:
		c.queries = append(c.queries, unescape(part))
	}
}

func (c *Config) addFileQuery(value string, negative bool) {
	var b strings.Builder
	for i := 0; i < len(value); {
		r, size := utf8.DecodeRuneInString(value[i:])
		i += size
		switch r {
		case '*':
			b.WriteString(".*")
		case '\\':
			// Only an escaped space survives; other escapes are dropped.
			if i < len(value) {
				next, nextSize := utf8.DecodeRuneInString(value[i:])
				if next == ' ' {
					b.WriteByte(' ')
				}
				i += nextSize
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	pattern := b.String()
	if c.ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		slog.Debug("ignoring invalid file filter",
			slog.String("filter", value),
			slog.String("error", err.Error()),
		)
		return
	}
	c.fileQueries = append(c.fileQueries, fileQuery{re: re, negative: negative})
}

// scanFileQuery recognizes "-?f(ile)?:value" at the start of s. The value runs
// to the first unescaped space and must not be empty.
func scanFileQuery(s string) (n int, value string, negative bool, ok bool) {
	i := 0
	if strings.HasPrefix(s, "-") {
		negative = true
		i = 1
	}
	switch {
	case strings.HasPrefix(s[i:], "file:"):
		i += len("file:")
	case strings.HasPrefix(s[i:], "f:"):
		i += len("f:")
	default:
		return 0, "", false, false
	}

	start := i
	for i < len(s) && s[i] != ' ' {
		if s[i] == '\\' {
			if i+1 >= len(s) {
				break
			}
			i += 2
			continue
		}
		i++
	}
	if i == start {
		return 0, "", false, false
	}
	return i, s[start:i], negative, true
}

// scanQuoted returns the length of a terminated, non-empty quoted phrase at
// the start of s, or 0.
func scanQuoted(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			if i == 1 {
				return 0
			}
			return i + 1
		}
	}
	return 0
}

// scanUnquoted returns the length of a run of words at the start of s. The
// run stops before trailing whitespace and before a file filter.
func scanUnquoted(s string) int {
	end := 0
	i := 0
	for i < len(s) {
		j := i
		for j < len(s) && isSpace(s[j]) {
			j++
		}
		if j >= len(s) || isFileQueryStart(s[j:]) {
			break
		}
		if s[j] == '\\' {
			if j+1 >= len(s) {
				break
			}
			_, size := utf8.DecodeRuneInString(s[j+1:])
			i = j + 1 + size
		} else {
			_, size := utf8.DecodeRuneInString(s[j:])
			i = j + size
		}
		end = i
	}
	return end
}

func isFileQueryStart(s string) bool {
	_, _, _, ok := scanFileQuery(s)
	return ok
}

func isSpace(b byte) bool {
	return b < utf8.RuneSelf && unicode.IsSpace(rune(b))
}

func unescape(s string) string {
	return escapedChar.ReplaceAllString(s, "$1")
}
