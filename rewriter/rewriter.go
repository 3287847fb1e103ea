// Package rewriter rewrites HLS playlist documents so that every media
// reference points back through the relay endpoint. It is pure text
// processing with no network I/O.
package rewriter

import (
	"net/url"
	"strings"
)

// hasScheme reports whether line starts with a URI scheme ("scheme://").
func hasScheme(line string) bool {
	idx := strings.Index(line, "://")
	if idx <= 0 {
		return false
	}
	for i, c := range line[:idx] {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// directoryOf truncates a URL to and including its last path slash,
// dropping any query string first.
func directoryOf(sourceURL string) string {
	base := sourceURL
	if q := strings.Index(base, "?"); q != -1 {
		base = base[:q]
	}
	if slash := strings.LastIndex(base, "/"); slash != -1 {
		return base[:slash+1]
	}
	return base
}

// queryOf returns the query string of a URL without the leading "?",
// or "" when the URL has none.
func queryOf(sourceURL string) string {
	if q := strings.Index(sourceURL, "?"); q != -1 {
		return sourceURL[q+1:]
	}
	return ""
}

// wrap builds the relayed form of a target URL.
func wrap(proxyBase, target string) string {
	return proxyBase + "?url=" + url.QueryEscape(target)
}

// rewriteLine transforms a single playlist line. Directives and blank
// lines pass through; URI references are resolved and wrapped.
func rewriteLine(line, base, query, proxyBase string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return line
	}

	if hasScheme(line) {
		// Absolute reference: wrapped as-is, its own query (or lack of
		// one) is authoritative.
		return wrap(proxyBase, line)
	}

	// Relative reference: resolve against the source directory and carry
	// the source's access token over when the segment has no query of its
	// own. An existing query is never merged with the source's.
	target := base + line
	if query != "" && !strings.Contains(line, "?") {
		target += "?" + query
	}
	return wrap(proxyBase, target)
}

// Rewrite transforms a playlist body so every segment and nested playlist
// reference is routed through proxyBase. sourceURL must be the URL the body
// was actually fetched from (after redirects); its directory anchors
// relative references and its query string carries CDN access tokens that
// upstream segments expect.
func Rewrite(body, sourceURL, proxyBase string) string {
	base := directoryOf(sourceURL)
	query := queryOf(sourceURL)

	lines := strings.Split(body, "\n")
	var result strings.Builder
	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}
		result.WriteString(rewriteLine(line, base, query, proxyBase))
	}
	return result.String()
}
