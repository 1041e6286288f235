package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Loader produces the bundles a fresh index build should ingest.
type Loader interface {
	Load(ctx context.Context) ([]Bundle, error)
}

// LocalLoader walks a directory tree and reads every *.json file as one
// manifest, grounded on original_source/src/manifest.rs's FileManifestLoader
// — generalized from its directory-walk-then-read loop to Go's io/fs idiom
// (filepath.WalkDir) in place of the `walkdir` crate.
//
// A manifest file's search property is not carried in the JSON body (the
// original leaves Manifest.search_property blank and assigns it elsewhere);
// this loader derives it from the file's path relative to root, with its
// extension stripped and path separators folded to "/", e.g.
// "guides/server/install.json" under root "guides" becomes search property
// "server/install".
type LocalLoader struct {
	root string
}

// NewLocalLoader returns a loader rooted at dir.
func NewLocalLoader(dir string) *LocalLoader {
	return &LocalLoader{root: dir}
}

// Load implements Loader.
func (l *LocalLoader) Load(ctx context.Context) ([]Bundle, error) {
	var bundles []Bundle

	err := filepath.WalkDir(l.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error scanning input directory %s: %w", l.root, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		body, err := readManifestFile(path)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			rel = path
		}
		searchProperty := strings.TrimSuffix(filepath.ToSlash(rel), ".json")

		bundles = append(bundles, Bundle{
			URL:                   body.URL,
			IncludeInGlobalSearch: body.IncludeInGlobalSearch,
			Aliases:               body.Aliases,
			SearchProperty:        searchProperty,
			Documents:             body.Documents,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return bundles, nil
}

func readManifestFile(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("failed to read manifest file %s: %w", path, err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("failed to parse manifest file %s: %w", path, err)
	}
	return data, nil
}
