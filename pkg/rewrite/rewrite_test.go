package rewrite_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tagmill/tagmill/internal/util"
	"github.com/tagmill/tagmill/pkg/rewrite"
)

var assetFiles = map[string]string{
	"js/a.js":      "var a;",
	"js/b.js":      "var b;",
	"css/site.css": "body {}",
}

func newRewriter(t *testing.T, opts ...rewrite.Option) *rewrite.Rewriter {
	t.Helper()
	rw, err := rewrite.New(append([]rewrite.Option{rewrite.WithFS(util.MapFS(assetFiles))}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return rw
}

func TestDocument(t *testing.T) {
	rw := newRewriter(t)

	var out bytes.Buffer
	doc := `<html><head><script asp-src-include="js/*.js"></script></head></html>`
	if err := rw.Document(t.Context(), &out, strings.NewReader(doc)); err != nil {
		t.Fatal(err)
	}

	exp := `<html><head><script src="/js/a.js"></script><script src="/js/b.js"></script></head></html>`
	if act := out.String(); exp != act {
		t.Fatalf("expected %q, got %q", exp, act)
	}
}

func TestDocumentPassThrough(t *testing.T) {
	rw := newRewriter(t)

	doc := `<!DOCTYPE html>
<html>
<head><script src="app.js" defer></script></head>
<body><p>&copy; 2026</p></body>
</html>`
	var out bytes.Buffer
	if err := rw.Document(t.Context(), &out, strings.NewReader(doc)); err != nil {
		t.Fatal(err)
	}
	if act := out.String(); doc != act {
		t.Fatalf("expected the document unchanged, got %q", act)
	}
}

func TestDocumentBasePath(t *testing.T) {
	rw := newRewriter(t, rewrite.WithBasePath("/site"))

	var out bytes.Buffer
	doc := `<script asp-src-include="js/*.js" asp-src-exclude="js/b.js"></script>`
	if err := rw.Document(t.Context(), &out, strings.NewReader(doc)); err != nil {
		t.Fatal(err)
	}

	if exp, act := `<script src="/site/js/a.js"></script>`, out.String(); exp != act {
		t.Fatalf("expected %q, got %q", exp, act)
	}
}

func TestTag(t *testing.T) {
	rw := newRewriter(t)

	out, handled, err := rw.Tag(t.Context(), rewrite.Tag{
		Attributes: []rewrite.Attribute{{Name: "asp-src-include", Value: "js/*.js"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !handled {
		t.Fatal("expected tag to be handled")
	}
	if exp := `<script src="/js/a.js"></script><script src="/js/b.js"></script>`; exp != out {
		t.Fatalf("expected %q, got %q", exp, out)
	}

	out, handled, err = rw.Tag(t.Context(), rewrite.Tag{
		Attributes: []rewrite.Attribute{{Name: "src", Value: "app.js"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if handled || out != "" {
		t.Fatalf("expected plain tag to pass through, got %q", out)
	}
}

func TestTagFallback(t *testing.T) {
	rw := newRewriter(t)

	out, handled, err := rw.Tag(t.Context(), rewrite.Tag{
		Attributes: []rewrite.Attribute{
			{Name: "src", Value: "https://cdn.example.com/jquery.js"},
			{Name: "asp-fallback-src", Value: "js/a.js"},
			{Name: "asp-fallback-test", Value: "window.jQuery"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !handled {
		t.Fatal("expected tag to be handled")
	}
	exp := `<script src="https://cdn.example.com/jquery.js"></script>` +
		`<script>(window.jQuery||document.write("<script src=\"js/a.js\"><\/script>"));</script>`
	if exp != out {
		t.Fatalf("expected %q, got %q", exp, out)
	}
}

func TestTagEncodesValues(t *testing.T) {
	rw := newRewriter(t)

	out, handled, err := rw.Tag(t.Context(), rewrite.Tag{
		Attributes: []rewrite.Attribute{
			{Name: "data-owner", Value: "a&b"},
			{Name: "asp-src-include", Value: "js/a.js"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !handled {
		t.Fatal("expected tag to be handled")
	}
	if exp := `<script data-owner="a&amp;b" src="/js/a.js"></script>`; exp != out {
		t.Fatalf("expected %q, got %q", exp, out)
	}
}

func TestMiddleware(t *testing.T) {
	rw := newRewriter(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<script asp-src-include="js/*.js"></script>`)
	})

	rec := httptest.NewRecorder()
	rw.Middleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	exp := `<script src="/js/a.js"></script><script src="/js/b.js"></script>`
	if act := rec.Body.String(); exp != act {
		t.Fatalf("expected %q, got %q", exp, act)
	}
}

func TestNewRequiresSource(t *testing.T) {
	if _, err := rewrite.New(); err == nil || !strings.Contains(err.Error(), "no asset source") {
		t.Fatalf("expected missing source error, got %v", err)
	}

	_, err := rewrite.New(rewrite.WithDir("."), rewrite.WithFS(util.MapFS(nil)))
	if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Fatalf("expected mutually exclusive error, got %v", err)
	}
}
