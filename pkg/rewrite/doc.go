// Package rewrite turns declarative script tag annotations into plain markup.
//
// A script tag annotated with asp-src-include glob patterns expands into one
// tag per matched asset file; a tag annotated with asp-fallback-src and
// asp-fallback-test keeps its primary form and gains a generated block that
// loads the fallback scripts client-side when the test expression is falsy.
// Tags without a recognized attribute combination pass through untouched.
//
// # Basic Usage
//
// Construct a Rewriter over the directory the patterns match against and feed
// it whole documents:
//
//	import "github.com/tagmill/tagmill/pkg/rewrite"
//
//	rw, err := rewrite.New(rewrite.WithDir("web/static"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var out bytes.Buffer
//	if err := rw.Document(ctx, &out, strings.NewReader(doc)); err != nil {
//	    log.Fatal(err)
//	}
//
// Given js/a.js and js/b.js under web/static, the document
//
//	<script asp-src-include="js/*.js"></script>
//
// comes out as
//
//	<script src="/js/a.js"></script><script src="/js/b.js"></script>
//
// Documents without annotated script tags come out byte-identical.
//
// # Single Tags
//
// Callers running their own HTML pipeline can hand over one parsed element at
// a time:
//
//	out, handled, err := rw.Tag(ctx, rewrite.Tag{
//	    Attributes: []rewrite.Attribute{
//	        {Name: "asp-src-include", Value: "js/*.js"},
//	    },
//	})
//
// handled reports whether the attributes matched a recognized combination;
// when false the caller keeps the original markup.
//
// # Asset Sources
//
// Patterns resolve against a merged view of the configured sources. Several
// directories can be combined, mounted under URL prefixes, or replaced with
// an fs.FS:
//
//	rw, err := rewrite.New(
//	    rewrite.WithDir("web/static"),
//	    rewrite.WithMountedDir("vendor/dist", "/lib/"),
//	    rewrite.WithBasePath("/site"),
//	)
//
// WithBasePath prefixes every generated URL, for applications served below
// the host root.
//
// # Serving
//
// Middleware applies the document pass to text/html responses of an existing
// handler; other content types stream through untouched:
//
//	http.ListenAndServe(addr, rw.Middleware(fileServer))
//
// # Caching
//
// Glob resolution is memoized per pattern key in a process-wide LRU cache,
// so a pattern appearing in many documents scans the filesystem once. Size
// the cache with WithCacheSize. Rewriter is safe for concurrent use.
package rewrite
