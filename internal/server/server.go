// Package server serves the merged asset tree over HTTP, rewriting
// annotated script tags in HTML documents on the way out.
package server

import (
	"context"
	"encoding/json"
	"io/fs"
	"net"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tagmill/tagmill/internal/assetfs"
	"github.com/tagmill/tagmill/internal/config"
	"github.com/tagmill/tagmill/internal/htmlrewrite"
	"github.com/tagmill/tagmill/internal/logging"
	"github.com/tagmill/tagmill/internal/metrics"
)

type Server struct {
	config   *config.Root
	assets   *assetfs.Assets
	rewriter *htmlrewrite.Rewriter
	router   *http.ServeMux
	log      *logging.Logger
	excluded []glob.Glob
	exts     map[string]bool
}

func New() *Server {
	return &Server{
		config: &config.Root{},
		router: http.NewServeMux(),
		log:    logging.NewNopLogger(),
	}
}

func (s *Server) WithConfig(c *config.Root) *Server {
	s.config = c
	return s
}

func (s *Server) WithAssets(assets *assetfs.Assets) *Server {
	s.assets = assets
	return s
}

func (s *Server) WithRewriter(rw *htmlrewrite.Rewriter) *Server {
	s.rewriter = rw
	return s
}

func (s *Server) WithRouter(router *http.ServeMux) *Server {
	s.router = router
	return s
}

func (s *Server) WithLogger(log *logging.Logger) *Server {
	s.log = log
	return s
}

// Init registers the routes on the router.
func (s *Server) Init() error {
	globs, err := s.config.ExcludedDocumentGlobs()
	if err != nil {
		return err
	}
	s.excluded = globs

	s.exts = make(map[string]bool)
	for _, ext := range s.config.DocumentExtensions() {
		s.exts[strings.ToLower(ext)] = true
	}

	s.router.HandleFunc("/healthz", s.handleHealth)
	if s.config.Server.Metrics {
		s.router.Handle("/metrics", promhttp.Handler())
	}
	s.router.HandleFunc("/", s.handleAssets)
	return nil
}

// Run serves until ctx is canceled, then shuts down gracefully within
// the configured grace period.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.config.ListenAddr(),
		Handler:     s.router,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Infof("Listening on %v.", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownGrace())
	defer cancel()

	s.log.Infof("Shutting down.")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]any{"status": "ok"}

	if ok, err := s.assets.ContainsFiles(); err != nil || !ok {
		status = http.StatusServiceUnavailable
		body["status"] = "no assets"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
	defer func() {
		metrics.AssetRequests.WithLabelValues(strconv.Itoa(rec.code)).Inc()
	}()

	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	switch {
	case name == "" || name == ".":
		name = "index.html"
	case strings.HasSuffix(r.URL.Path, "/"):
		name = path.Join(name, "index.html")
	}

	fi, err := fs.Stat(s.assets, name)
	if err != nil {
		http.NotFound(rec, r)
		return
	}
	if fi.IsDir() {
		http.Redirect(rec, r, r.URL.Path+"/", http.StatusMovedPermanently)
		return
	}

	serve := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, s.assets, name)
	})

	if r.Method == http.MethodGet && s.rewritable(name) {
		// Ranges cannot survive a rewrite that changes the body length.
		r.Header.Del("Range")
		s.rewriter.Middleware(serve).ServeHTTP(rec, r)
		return
	}
	serve(rec, r)
}

// rewritable reports whether the named file is an HTML document that is
// not excluded from rewriting.
func (s *Server) rewritable(name string) bool {
	if !s.exts[strings.ToLower(path.Ext(name))] {
		return false
	}
	for _, g := range s.excluded {
		if g.Match(name) {
			return false
		}
	}
	return true
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.code = code
	rec.ResponseWriter.WriteHeader(code)
}
