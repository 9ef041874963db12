package htmlrewrite

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
)

// Middleware rewrites the script tags of text/html responses produced by
// next. Other content types stream through untouched. HTML responses are
// buffered in full: the rewrite changes the body length, so the response
// cannot be streamed ahead of it.
func (rw *Rewriter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hw := &htmlWriter{ResponseWriter: w}
		next.ServeHTTP(hw, r)
		if hw.buf == nil {
			return
		}

		var out bytes.Buffer
		if err := rw.Document(r.Context(), &out, bytes.NewReader(hw.buf.Bytes())); err != nil {
			rw.log.Errorf("Rewrite of %v failed: %v", r.URL.Path, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Length", strconv.Itoa(out.Len()))
		w.WriteHeader(hw.status)
		if _, err := w.Write(out.Bytes()); err != nil {
			rw.log.Debugf("Write of %v failed: %v", r.URL.Path, err)
		}
	})
}

// htmlWriter defers the header write until the content type is known.
// HTML response bodies collect in buf; everything else goes straight to
// the wrapped writer.
type htmlWriter struct {
	http.ResponseWriter
	status      int
	buf         *bytes.Buffer
	wroteHeader bool
}

func (w *htmlWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = status

	ct := w.Header().Get("Content-Type")
	if strings.HasPrefix(ct, "text/html") {
		w.buf = &bytes.Buffer{}
		// Stale after the rewrite; recomputed before the real header
		// write.
		w.Header().Del("Content-Length")
		return
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *htmlWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.buf != nil {
		return w.buf.Write(p)
	}
	return w.ResponseWriter.Write(p)
}
