package httpapi

import (
	"net/url"
	"regexp"
)

// queryStringPattern is a fallback key=value extractor for query strings
// net/url.ParseQuery rejects outright. Grounded on
// original_source/src/queryst.rs's PAT_QUERY_STRING: it matches only
// well-formed `key=value` pairs and silently ignores everything else
// (stray `&`, bare keys, empty segments) rather than erroring, which is the
// behavior net/url.ParseQuery does not provide — ParseQuery returns an error
// for the entire string on the first malformed pair.
var queryStringPattern = regexp.MustCompile(`([a-zA-Z]+)=([^&]*)`)

// parseQueryString parses a raw query string into single-valued parameters.
// It tries net/url.ParseQuery first (which additionally percent-decodes
// values); if that fails because some segment is malformed, it falls back to
// extracting only the well-formed pairs rather than rejecting the whole
// string.
func parseQueryString(raw string) map[string]string {
	result := make(map[string]string)

	if values, err := url.ParseQuery(raw); err == nil {
		for key, vs := range values {
			if len(vs) > 0 {
				result[key] = vs[0]
			}
		}
		return result
	}

	for _, group := range queryStringPattern.FindAllStringSubmatch(raw, -1) {
		// A pair whose value can't be percent-decoded is dropped rather than
		// stored raw, so callers that require a given key (e.g. the q
		// parameter) see it as absent and can reject the request.
		if decoded, err := url.QueryUnescape(group[2]); err == nil {
			result[group[1]] = decoded
		}
	}
	return result
}
