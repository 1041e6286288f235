package manifest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/i80and/marian/internal/fts"
)

func TestDocumentURL(t *testing.T) {
	cases := []struct{ manifestURL, slug, want string }{
		{"https://docs.example.com/guide", "install", "https://docs.example.com/guide/install"},
		{"https://docs.example.com/guide/", "install", "https://docs.example.com/guide/install"},
		{"https://docs.example.com/guide", "install/", "https://docs.example.com/guide/install"},
	}
	for _, tt := range cases {
		if got := documentURL(tt.manifestURL, tt.slug); got != tt.want {
			t.Errorf("documentURL(%q, %q) = %q, want %q", tt.manifestURL, tt.slug, got, tt.want)
		}
	}
}

func TestToDocumentInputStripsMarkdownFromText(t *testing.T) {
	doc := Document{
		Slug:     "install",
		Title:    "Install Guide",
		Tags:     "setup onboarding",
		Headings: []string{"Prerequisites", "Steps"},
		Text:     "Run **make install** to build.",
		Preview:  "Run make install",
		Links:    []string{"https://docs.example.com/guide/next"},
	}

	stripper := fts.NewMarkdownStripper()
	input := ToDocumentInput("https://docs.example.com/guide", doc, stripper)

	if input.URL != "https://docs.example.com/guide/install" {
		t.Errorf("unexpected URL: %q", input.URL)
	}
	if input.FieldText["title"] != "Install Guide" {
		t.Errorf("unexpected title field: %q", input.FieldText["title"])
	}
	if input.FieldText["headings"] != "Prerequisites Steps" {
		t.Errorf("unexpected headings field: %q", input.FieldText["headings"])
	}
	if got := input.FieldText["text"]; got == doc.Text {
		t.Errorf("expected markdown to be stripped, got unmodified text: %q", got)
	}
}

func TestToDocumentInputWithoutStripperPassesTextThrough(t *testing.T) {
	doc := Document{Slug: "a", Text: "**bold**"}
	input := ToDocumentInput("https://x.com", doc, nil)
	if input.FieldText["text"] != "**bold**" {
		t.Errorf("expected text to pass through unmodified, got %q", input.FieldText["text"])
	}
}

func TestParseSource(t *testing.T) {
	if l, err := ParseSource("dir:/tmp/manifests"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	} else if _, ok := l.(*LocalLoader); !ok {
		t.Errorf("expected a *LocalLoader, got %T", l)
	}

	if l, err := ParseSource("bucket:my-bucket/prefix"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	} else if b, ok := l.(*BucketLoader); !ok {
		t.Errorf("expected a *BucketLoader, got %T", l)
	} else if b.bucket != "my-bucket" || b.prefix != "prefix" {
		t.Errorf("unexpected bucket/prefix: %q/%q", b.bucket, b.prefix)
	}

	if _, err := ParseSource("ftp:nope"); err == nil {
		t.Error("expected an error for an unknown source protocol")
	}
}

func TestBucketLoaderIsUnimplemented(t *testing.T) {
	l := NewBucketLoader("my-bucket", "prefix")
	if _, err := l.Load(context.Background()); err == nil {
		t.Error("expected BucketLoader.Load to return an error")
	}
}

func TestLocalLoaderReadsJSONFilesAndDerivesSearchProperty(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "guides"), 0o755); err != nil {
		t.Fatal(err)
	}

	data := Data{
		IncludeInGlobalSearch: true,
		Aliases:               []string{"guide"},
		URL:                   "https://docs.example.com/guides",
		Documents: []Document{
			{Slug: "install", Title: "Install"},
		},
	}
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}
	manifestPath := filepath.Join(dir, "guides", "server.json")
	if err := os.WriteFile(manifestPath, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	// A non-JSON file alongside the manifest must be ignored.
	if err := os.WriteFile(filepath.Join(dir, "guides", "README.md"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLocalLoader(dir)
	bundles, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bundles) != 1 {
		t.Fatalf("expected 1 bundle, got %d", len(bundles))
	}

	b := bundles[0]
	if b.SearchProperty != "guides/server" {
		t.Errorf("expected search property %q, got %q", "guides/server", b.SearchProperty)
	}
	if !b.IncludeInGlobalSearch {
		t.Error("expected IncludeInGlobalSearch to be true")
	}
	if len(b.Documents) != 1 || b.Documents[0].Title != "Install" {
		t.Errorf("unexpected documents: %+v", b.Documents)
	}
}

func TestLocalLoaderMalformedJSONReturnsError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLocalLoader(dir)
	if _, err := loader.Load(context.Background()); err == nil {
		t.Error("expected an error for malformed manifest JSON")
	}
}
