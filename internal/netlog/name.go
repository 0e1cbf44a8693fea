package netlog

import (
	"net/url"
	"strings"
)

// maxDataURLName is the number of characters of a data URL kept in its name.
const maxDataURLName = 20

// DisplayName returns the short name a request is listed under. Data URLs are
// truncated, blob URLs are shown whole, other URLs show their last path
// component and query. A URL whose path ends in "/" shows its last folder, and
// one with an empty path shows its host.
func DisplayName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	switch strings.ToLower(u.Scheme) {
	case "data":
		if len(rawURL) > maxDataURLName {
			return rawURL[:maxDataURLName] + "…"
		}
		return rawURL
	case "blob":
		return rawURL
	}

	path := u.Path
	last := path[strings.LastIndex(path, "/")+1:]
	if last != "" || u.RawQuery != "" {
		if u.RawQuery != "" {
			return last + "?" + u.RawQuery
		}
		return last
	}

	if folder := strings.TrimSuffix(path, "/"); folder != "" {
		return folder[strings.LastIndex(folder, "/")+1:] + "/"
	}

	if u.Host != "" {
		return u.Host
	}
	return rawURL
}
