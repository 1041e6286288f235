package fts

import "strings"

// NormalizeURL truncates a URL at the trailing slash before any embedded
// "/index.html", then ensures the result carries exactly one trailing
// slash. Idempotent.
func NormalizeURL(url string) string {
	if idx := strings.Index(url, "/index.html"); idx != -1 {
		url = url[:idx+1]
	}
	url = strings.TrimRight(url, "/")
	return url + "/"
}
