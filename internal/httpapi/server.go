// Package httpapi exposes the search engine over HTTP: /search, /status, and
// /refresh, matching spec §6's external interface exactly. Handlers are kept
// deliberately thin — all ranking logic lives in internal/rank, all index
// state lives in internal/fts; this package's job is request parsing,
// response shaping, and the refresh-and-swap lifecycle.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/i80and/marian/internal/fts"
	"github.com/i80and/marian/internal/manifest"
	"github.com/i80and/marian/internal/query"
	"github.com/i80and/marian/internal/rank"
)

// maxQueryBytes is the maximum accepted length of the q parameter, measured
// after percent-decoding.
const maxQueryBytes = 100

// Server owns the serving index and the loader used to rebuild it. Searches
// take a read lock; Refresh builds a new index off to the side and takes the
// write lock only to swap the pointer, per spec §5's concurrency model.
type Server struct {
	mu       sync.RWMutex
	index    *fts.Index
	loader   manifest.Loader
	stripper *fts.MarkdownStripper
	pool     *rank.Pool
}

// New returns a Server backed by loader. Call Refresh at least once before
// serving traffic; searches against an unfinished index fail fast.
func New(loader manifest.Loader) *Server {
	return &Server{
		index:    fts.New(),
		loader:   loader,
		stripper: fts.NewMarkdownStripper(),
		pool:     rank.NewPool(),
	}
}

// Handler returns the server's routed http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", s.withLogging(s.handleSearch))
	mux.HandleFunc("/status", s.withLogging(s.handleStatus))
	mux.HandleFunc("/refresh", s.withLogging(s.handleRefresh))
	return mux
}

func (s *Server) withLogging(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		handler(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("handled request")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// currentIndex returns the currently-serving index. The returned pointer is
// safe to use without holding any lock afterward: the index is an immutable
// snapshot once Finish has run, and Refresh never mutates an index in place.
func (s *Server) currentIndex() *fts.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Index returns the currently-serving index, for callers outside this
// package that need direct index access (the query and tui subcommands).
func (s *Server) Index() *fts.Index {
	return s.currentIndex()
}

// Refresh loads every bundle from the server's loader into a brand new
// index, then swaps it in. Any error from the loader, including one
// malformed manifest file, aborts the refresh and is returned; the serving
// index is then left unchanged. Refresh does not skip a malformed manifest
// and load the rest, and it records nothing in the new index's
// manifest-error ledger.
func (s *Server) Refresh(ctx context.Context) error {
	bundles, err := s.loader.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("manifest load failed")
		return err
	}

	next := fts.New()
	for _, bundle := range bundles {
		for _, alias := range bundle.Aliases {
			next.AliasSearchProperty(alias, bundle.SearchProperty)
		}
		for _, doc := range bundle.Documents {
			input := manifest.ToDocumentInput(bundle.URL, doc, s.stripper)
			next.Add(input, bundle.IncludeInGlobalSearch, bundle.SearchProperty)
		}
	}
	next.Finish(time.Now())

	s.mu.Lock()
	s.index = next
	s.mu.Unlock()

	log.Info().Int("manifests", len(bundles)).Msg("index refreshed")
	return nil
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	params := parseQueryString(r.URL.RawQuery)
	q, ok := params["q"]
	if !ok || len(q) > maxQueryBytes {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	idx := s.currentIndex()
	if err := idx.RequireFinished(); err != nil {
		http.Error(w, "index not ready", http.StatusInternalServerError)
		return
	}

	finished := idx.Finished()
	if since := r.Header.Get("If-Modified-Since"); since != "" {
		if t, err := time.Parse(http.TimeFormat, since); err == nil {
			if !finished.Truncate(time.Second).After(t) {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	var searchProperties []string
	if csv := params["searchProperties"]; csv != "" {
		searchProperties = strings.Split(csv, ",")
	}

	parsed := query.New(q, searchProperties)
	var results []rank.Result
	if err := s.pool.Dispatch(r.Context(), idx, func() {
		results = rank.Search(idx, parsed)
	}); err != nil {
		http.Error(w, "request canceled", http.StatusInternalServerError)
		return
	}

	type searchResult struct {
		Title   string `json:"title"`
		Preview string `json:"preview"`
		URL     string `json:"url"`
	}
	payload := struct {
		Results []searchResult `json:"results"`
	}{Results: make([]searchResult, len(results))}
	for i, result := range results {
		payload.Results[i] = searchResult{Title: result.Title, Preview: result.Preview, URL: result.URL}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=120, must-revalidate")
	w.Header().Set("Last-Modified", finished.UTC().Format(http.TimeFormat))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Vary", "Accept-Encoding")

	compressed, closeWriter := maybeCompress(w, r)
	defer closeWriter()
	json.NewEncoder(compressed).Encode(payload)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	idx := s.currentIndex()

	type lastSync struct {
		Finished string `json:"finished"`
	}
	payload := struct {
		LastSync  *lastSync         `json:"lastSync"`
		Manifests []string          `json:"manifests"`
		Errors    map[string]string `json:"errors"`
	}{
		Manifests: idx.SearchProperties(),
		Errors:    idx.ManifestErrors(),
	}
	if finished := idx.Finished(); !finished.IsZero() {
		payload.LastSync = &lastSync{Finished: finished.UTC().Format(time.RFC3339)}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := s.Refresh(r.Context()); err != nil {
		http.Error(w, "refresh failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
