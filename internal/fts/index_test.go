package fts

import (
	"testing"
	"time"

	"github.com/i80and/marian/internal/stem"
)

func newTestIndex() *Index {
	return New()
}

func TestAddRegistersTermsAndTrie(t *testing.T) {
	idx := newTestIndex()
	docID := idx.Add(DocumentInput{
		URL:   "https://example.com/fox/",
		Title: "The Fox",
		FieldText: map[string]string{
			"text":  "The quick brown fox jumps over the lazy dog",
			"title": "The Fox",
		},
	}, true, "guides")

	if docID != 0 {
		t.Fatalf("expected first document ID 0, got %d", docID)
	}

	if te := idx.Term("fox"); te == nil {
		t.Fatal("expected term 'fox' to be registered")
	} else if len(te.DocIDs) != 1 || te.DocIDs[0] != docID {
		t.Errorf("expected fox's DocIDs to be [%d], got %v", docID, te.DocIDs)
	}

	matches := idx.SearchTrie("fo")
	if _, ok := matches[docID]; !ok {
		t.Errorf("expected prefix search 'fo' to find doc %d, got %v", docID, matches)
	}
}

func TestAddIsAdditiveAcrossFields(t *testing.T) {
	idx := newTestIndex()
	idx.Add(DocumentInput{
		URL: "https://example.com/a/",
		FieldText: map[string]string{
			"text":  "fox fox fox",
			"title": "fox",
		},
	}, true, "guides")

	if got := idx.DocumentTermFrequency("text", 0, "fox"); got != 3 {
		t.Errorf("expected text-field frequency 3, got %d", got)
	}
	if got := idx.DocumentTermFrequency("title", 0, "fox"); got != 1 {
		t.Errorf("expected title-field frequency 1, got %d", got)
	}
	if got := idx.DocumentFieldLength("text", 0); got != 3 {
		t.Errorf("expected text-field length 3, got %d", got)
	}
}

func TestTimesAppearedCountsDocumentsNotOccurrences(t *testing.T) {
	idx := newTestIndex()
	idx.Add(DocumentInput{
		URL:       "https://example.com/a/",
		FieldText: map[string]string{"text": "fox fox fox"},
	}, true, "guides")
	idx.Add(DocumentInput{
		URL:       "https://example.com/b/",
		FieldText: map[string]string{"text": "fox"},
	}, true, "guides")

	if got := idx.FieldTimesAppeared("text", "fox"); got != 2 {
		t.Errorf("expected fox to have appeared in 2 documents, got %d", got)
	}
}

func TestFinishComputesLengthWeight(t *testing.T) {
	idx := newTestIndex()
	idx.Add(DocumentInput{
		URL:       "https://example.com/a/",
		FieldText: map[string]string{"text": "fox dog"},
	}, true, "guides")
	idx.Add(DocumentInput{
		URL:       "https://example.com/b/",
		FieldText: map[string]string{"text": "fox"},
	}, true, "guides")

	idx.Finish(time.Unix(0, 0))

	// 2 documents in field "text", 3 unique terms total (fox, dog, fox) = 2+1
	want := 2.0 / 3.0
	if got := idx.FieldLengthWeight("text"); got != want {
		t.Errorf("expected length weight %v, got %v", want, got)
	}
	if idx.Finished().IsZero() {
		t.Error("expected Finished() to be set after Finish")
	}
}

func TestLinkGraphAdjacency(t *testing.T) {
	idx := newTestIndex()
	idx.Add(DocumentInput{
		URL:       "https://example.com/a/",
		FieldText: map[string]string{"text": "a"},
		Links:     []string{"https://example.com/b/"},
	}, true, "guides")
	bID := idx.Add(DocumentInput{
		URL:       "https://example.com/b/",
		FieldText: map[string]string{"text": "b"},
	}, true, "guides")

	idx.Finish(time.Unix(0, 0))

	out := idx.OutgoingNeighbors(0)
	if len(out) != 1 || out[0] != bID {
		t.Errorf("expected doc 0 to link to doc %d, got %v", bID, out)
	}
	in := idx.IncomingNeighbors(bID)
	if len(in) != 1 || in[0] != 0 {
		t.Errorf("expected doc %d to have incoming link from doc 0, got %v", bID, in)
	}
}

func TestNormalizeURLAppliedToLinksAndDocURLs(t *testing.T) {
	idx := newTestIndex()
	idx.Add(DocumentInput{
		URL:       "https://example.com/a/index.html",
		FieldText: map[string]string{"text": "a"},
		Links:     []string{"https://example.com/b/index.html"},
	}, true, "guides")
	idx.Add(DocumentInput{
		URL:       "https://example.com/b",
		FieldText: map[string]string{"text": "b"},
	}, true, "guides")

	idx.Finish(time.Unix(0, 0))

	if got := idx.DocumentByID(0).URL; got != "https://example.com/a/" {
		t.Errorf("expected normalized URL, got %q", got)
	}
	out := idx.OutgoingNeighbors(0)
	if len(out) != 1 || out[0] != 1 {
		t.Errorf("expected link normalization to resolve to doc 1, got %v", out)
	}
}

func TestStopWordsNotIndexed(t *testing.T) {
	idx := newTestIndex()
	idx.Add(DocumentInput{
		URL:       "https://example.com/a/",
		FieldText: map[string]string{"text": "the fox and the dog"},
	}, true, "guides")

	if idx.Term("the") != nil {
		t.Error("expected stop word 'the' to not be indexed")
	}
	if idx.Term("and") != nil {
		t.Error("expected stop word 'and' to not be indexed")
	}
	if idx.Term("fox") == nil {
		t.Error("expected 'fox' to be indexed")
	}
}

func TestCorrelationSelfRegistration(t *testing.T) {
	idx := newTestIndex()
	idx.Add(DocumentInput{
		URL:       "https://example.com/a/",
		FieldText: map[string]string{"text": "%manager $setting"},
	}, true, "guides")

	managerStem := idx.Correlations(stem.Stem("manager"))
	if len(managerStem) == 0 {
		t.Fatalf("expected a correlation to be registered for the stripped form of %%manager")
	}
	found := false
	for _, c := range managerStem {
		if c.Closeness == 0.9 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected correlation closeness 0.9, got %v", managerStem)
	}
}

func TestAliasSearchProperty(t *testing.T) {
	idx := newTestIndex()
	idx.AliasSearchProperty("guide", "guides")

	if got := idx.ResolveSearchProperty("guide"); got != "guides" {
		t.Errorf("expected alias to resolve to 'guides', got %q", got)
	}
	if got := idx.ResolveSearchProperty("unregistered"); got != "unregistered" {
		t.Errorf("expected unknown alias to pass through unchanged, got %q", got)
	}
}

func TestRequireFinished(t *testing.T) {
	idx := newTestIndex()
	if err := idx.RequireFinished(); err == nil {
		t.Error("expected RequireFinished to fail before Finish is called")
	}
	idx.Finish(time.Unix(0, 0))
	if err := idx.RequireFinished(); err != nil {
		t.Errorf("expected RequireFinished to succeed after Finish, got %v", err)
	}
}

func TestManifestErrorLedger(t *testing.T) {
	idx := newTestIndex()
	idx.RecordManifestError("bucket/source-a", errTest("boom"))
	if got := idx.ManifestErrors()["bucket/source-a"]; got != "boom" {
		t.Errorf("expected manifest error 'boom', got %q", got)
	}
	idx.RecordManifestError("bucket/source-a", nil)
	if _, ok := idx.ManifestErrors()["bucket/source-a"]; ok {
		t.Error("expected manifest error to be cleared on nil err")
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
