package rewrite

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"

	"github.com/tagmill/tagmill/internal/assetfs"
	"github.com/tagmill/tagmill/internal/encode"
	"github.com/tagmill/tagmill/internal/htmlrewrite"
	"github.com/tagmill/tagmill/internal/scripttag"
	"github.com/tagmill/tagmill/internal/urlglob"
)

// Attribute is one name="value" pair on a script tag. Values are plain
// text; emitted markup HTML-encodes them.
type Attribute struct {
	Name  string
	Value string
}

// Tag is one script element: its attributes in authored order and its
// body text.
type Tag struct {
	Attributes []Attribute
	Body       string
}

// Option configures a Rewriter.
type Option func(*options)

type options struct {
	roots     []assetfs.Root
	fsys      fs.FS
	basePath  string
	cacheSize int
}

// WithDir adds a directory whose files the include patterns match
// against. Repeatable; the directories merge into one tree.
func WithDir(path string) Option {
	return func(o *options) {
		o.roots = append(o.roots, assetfs.Root{Path: path})
	}
}

// WithMountedDir adds a directory whose files appear under the given URL
// prefix.
func WithMountedDir(path, mount string) Option {
	return func(o *options) {
		o.roots = append(o.roots, assetfs.Root{Path: path, Mount: mount})
	}
}

// WithFS matches include patterns against fsys instead of directories on
// disk. Mutually exclusive with WithDir and WithMountedDir.
func WithFS(fsys fs.FS) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

// WithBasePath sets the URL prefix prepended to every matched file path.
func WithBasePath(base string) Option {
	return func(o *options) {
		o.basePath = base
	}
}

// WithCacheSize bounds the glob resolution cache. Zero or negative keeps
// the default.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// Rewriter rewrites annotated script tags. Safe for concurrent use.
type Rewriter struct {
	rw     *htmlrewrite.Rewriter
	helper *scripttag.Helper
}

// New builds a Rewriter from the given options. One asset source is
// required: directories, or a filesystem.
func New(opts ...Option) (*Rewriter, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var assets *assetfs.Assets
	switch {
	case o.fsys != nil && len(o.roots) > 0:
		return nil, errors.New("directories and a filesystem are mutually exclusive")
	case o.fsys != nil:
		assets = assetfs.NewFS(o.fsys)
	case len(o.roots) > 0:
		var err error
		if assets, err = assetfs.New(o.roots...); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("no asset source configured")
	}

	resolver := urlglob.NewResolver(assets).
		WithBasePath(o.basePath).
		WithCacheSize(o.cacheSize)
	helper := scripttag.NewHelper(resolver)
	return &Rewriter{rw: htmlrewrite.New(helper), helper: helper}, nil
}

// Document rewrites the HTML document read from src into dst. Documents
// without annotated script tags come out byte-identical.
func (r *Rewriter) Document(ctx context.Context, dst io.Writer, src io.Reader) error {
	return r.rw.Document(ctx, dst, src)
}

// Tag rewrites a single script element into replacement markup for the
// whole element. handled reports whether the attributes matched a
// recognized combination; when false the caller keeps the original
// markup and out is empty.
func (r *Rewriter) Tag(ctx context.Context, tag Tag) (out string, handled bool, err error) {
	attrs := make(scripttag.Attributes, len(tag.Attributes))
	for i, a := range tag.Attributes {
		attrs[i] = scripttag.Attribute{Name: a.Name, Value: encode.HTMLAttribute(a.Value)}
	}
	return r.helper.Process(ctx, scripttag.Tag{Attributes: attrs, Body: tag.Body})
}

// Middleware rewrites the script tags of text/html responses produced by
// next. Other content types stream through untouched.
func (r *Rewriter) Middleware(next http.Handler) http.Handler {
	return r.rw.Middleware(next)
}
