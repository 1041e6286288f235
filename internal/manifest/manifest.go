// Package manifest defines the pre-segmented document bundle format this
// engine ingests, and the loaders that produce it. A Bundle groups one
// search property's documents along with that property's
// include-in-global-search default and alias names; Document is one
// manifest entry, field-split exactly as the index builder expects.
package manifest

import (
	"strings"

	"github.com/i80and/marian/internal/fts"
)

// Document is a single manifest entry: one page or section of documentation,
// pre-segmented by the upstream documentation build into the fields the
// index cares about. Grounded on original_source/src/manifest.rs's
// ManifestDocument.
type Document struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Tags     string   `json:"tags"`
	Headings []string `json:"headings"`
	Text     string   `json:"text"`
	Preview  string   `json:"preview"`
	Links    []string `json:"links"`
}

// Data is the raw JSON shape of one manifest file, before its URL and
// search property are resolved by the loader. Grounded on
// original_source/src/manifest.rs's ManifestData.
type Data struct {
	IncludeInGlobalSearch bool       `json:"includeInGlobalSearch"`
	Aliases               []string   `json:"aliases"`
	Documents             []Document `json:"documents"`
	URL                   string     `json:"url"`
}

// Bundle is one manifest, fully resolved: its search property assigned and
// ready to feed into Index.Add for each of its documents.
type Bundle struct {
	URL                   string
	IncludeInGlobalSearch bool
	Aliases               []string
	SearchProperty        string
	Documents             []Document
}

// documentURL derives a document's canonical URL from its manifest's base
// URL and the document's slug: `manifest.url + "/" + slug`, with trailing
// slashes stripped from both parts before joining.
func documentURL(manifestURL, slug string) string {
	return strings.TrimRight(manifestURL, "/") + "/" + strings.TrimRight(slug, "/")
}

// ToDocumentInput converts a manifest document into the shape Index.Add
// expects, stripping Markdown from the text field via stripper before it is
// handed to the tokenizer.
func ToDocumentInput(bundleURL string, doc Document, stripper *fts.MarkdownStripper) fts.DocumentInput {
	text := doc.Text
	if stripper != nil {
		text = stripper.Strip(text)
	}

	return fts.DocumentInput{
		URL:     documentURL(bundleURL, doc.Slug),
		Title:   doc.Title,
		Preview: doc.Preview,
		Links:   doc.Links,
		FieldText: map[string]string{
			"title":    doc.Title,
			"text":     text,
			"headings": strings.Join(doc.Headings, " "),
			"tags":     doc.Tags,
		},
	}
}
