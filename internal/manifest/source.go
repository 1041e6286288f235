package manifest

import (
	"fmt"
	"strings"
)

// ParseSource resolves a CLI source argument into a Loader, grounded on
// original_source/src/manifest.rs's parse_manifest_source: "dir:<path>"
// yields a LocalLoader, "bucket:<name>/<prefix>" a BucketLoader.
func ParseSource(source string) (Loader, error) {
	switch {
	case strings.HasPrefix(source, "dir:"):
		return NewLocalLoader(source[len("dir:"):]), nil
	case strings.HasPrefix(source, "bucket:"):
		rest := source[len("bucket:"):]
		bucket, prefix, _ := strings.Cut(rest, "/")
		return NewBucketLoader(bucket, prefix), nil
	default:
		return nil, fmt.Errorf("unknown manifest source protocol: %s", source)
	}
}
