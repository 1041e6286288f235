package manifest

import (
	"context"
	"errors"
)

// BucketLoader is a placeholder for a remote object-storage manifest source
// (`bucket:<name>/<prefix>`), grounded on original_source/src/manifest.rs's
// S3ManifestLoader — itself an explicit unimplemented stub in the original
// ("S3 manifest loader not yet implemented"). Left unimplemented here rather
// than wiring an AWS SDK integration with no grounding anywhere in the
// retrieval pack; see DESIGN.md.
type BucketLoader struct {
	bucket string
	prefix string
}

// NewBucketLoader returns a loader for the given bucket and key prefix.
func NewBucketLoader(bucket, prefix string) *BucketLoader {
	return &BucketLoader{bucket: bucket, prefix: prefix}
}

// Load implements Loader.
func (l *BucketLoader) Load(ctx context.Context) ([]Bundle, error) {
	return nil, errors.New("bucket manifest loading is not implemented")
}
