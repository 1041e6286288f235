package httpapi

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// brotliWriter wraps a ResponseWriter, transparently Brotli-compressing
// everything written to it and announcing that in the Content-Encoding
// header. Close must be called once the handler is done writing.
type brotliWriter struct {
	http.ResponseWriter
	bw *brotli.Writer
}

func (w *brotliWriter) Write(p []byte) (int, error) {
	return w.bw.Write(p)
}

func (w *brotliWriter) Close() error {
	return w.bw.Close()
}

// acceptsBrotli reports whether the request's Accept-Encoding header lists
// "br" as an acceptable content encoding.
func acceptsBrotli(r *http.Request) bool {
	for _, encoding := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		if strings.TrimSpace(encoding) == "br" {
			return true
		}
	}
	return false
}

// maybeCompress wraps w in a Brotli-compressing writer if the request
// accepts it, setting Content-Encoding accordingly, and returns a close
// function the caller must defer. If the request does not accept Brotli,
// both the writer and the returned close function are no-ops over w.
func maybeCompress(w http.ResponseWriter, r *http.Request) (http.ResponseWriter, func()) {
	if !acceptsBrotli(r) {
		return w, func() {}
	}

	w.Header().Set("Content-Encoding", "br")
	bw := brotli.NewWriter(w)
	wrapped := &brotliWriter{ResponseWriter: w, bw: bw}
	return wrapped, func() { bw.Close() }
}
