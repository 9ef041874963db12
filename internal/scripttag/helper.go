// Package scripttag rewrites declarative script tags. A tag annotated
// with asp-src-include expands into one script tag per matched asset; a
// tag annotated with asp-fallback-src and asp-fallback-test keeps its
// primary form and gains a generated block that loads the fallback
// scripts client-side when the test expression is falsy. Tags carrying
// none of the recognized attribute combinations pass through untouched.
package scripttag

import (
	"context"
	"html"
	"strings"

	"github.com/tagmill/tagmill/internal/encode"
	"github.com/tagmill/tagmill/internal/logging"
	"github.com/tagmill/tagmill/internal/metrics"
)

// URLResolver expands a static src plus comma-separated include and
// exclude glob patterns into the ordered, deduplicated URL list.
type URLResolver interface {
	URLList(ctx context.Context, staticSrc, includes, excludes string) ([]string, error)
}

// Tag is one parsed script element: its ordered attribute list, values
// HTML-encoded, and its raw body text.
type Tag struct {
	Attributes Attributes
	Body       string
}

// Plan is the resolved rewrite for one tag: which mode applied and the
// URLs the emitted markup will reference. URLs holds one entry per
// primary script tag; for the single static-src form it is the authored
// src. OK false means the tag passes through and the other fields are
// empty.
type Plan struct {
	OK       bool
	Mode     Mode
	URLs     []string
	Fallback []string

	static bool
}

// Helper turns one annotated script element into its replacement markup.
// Safe for concurrent use; per-tag state lives on the stack.
type Helper struct {
	resolver URLResolver
	table    []Definition
	log      *logging.Logger
}

func NewHelper(resolver URLResolver) *Helper {
	return &Helper{resolver: resolver, table: modeTable, log: logging.NewNopLogger()}
}

func (h *Helper) WithLogger(log *logging.Logger) *Helper {
	h.log = log
	return h
}

// Resolve reports how the tag's attributes match the recognized
// combinations. Exposed for diagnostics; Process applies the result.
func (h *Helper) Resolve(attrs Attributes) Result {
	return resolveMode(attrs, h.table)
}

// Plan resolves the tag's mode and URL lists without rendering anything.
// Resolver errors propagate unchanged.
func (h *Helper) Plan(ctx context.Context, tag Tag) (Plan, error) {
	res := resolveMode(tag.Attributes, h.table)
	mode, ok := res.Mode()
	if !ok {
		if len(res.Partial) > 0 {
			h.log.Debugf("script tag matched no mode, partial match on %s", describe(res.Partial))
		}
		return Plan{}, nil
	}

	p := Plan{OK: true, Mode: mode}

	includes := directive(tag.Attributes, AttrSrcInclude)
	staticSrc, _ := tag.Attributes.Src()
	staticSrc = html.UnescapeString(staticSrc)

	if mode == ModeFallback && includes == "" {
		// Single static src: the tag survives exactly as authored.
		p.static = true
		if staticSrc != "" {
			p.URLs = []string{staticSrc}
		}
	} else {
		urls, err := h.resolver.URLList(ctx, staticSrc, includes, directive(tag.Attributes, AttrSrcExclude))
		if err != nil {
			return Plan{}, err
		}
		p.URLs = urls
	}

	if mode == ModeFallback {
		urls, err := h.resolver.URLList(ctx,
			directive(tag.Attributes, AttrFallbackSrc),
			directive(tag.Attributes, AttrFallbackSrcInclude),
			directive(tag.Attributes, AttrFallbackSrcExclude))
		if err != nil {
			return Plan{}, err
		}
		p.Fallback = urls
	}

	return p, nil
}

// Process rewrites tag into replacement markup for the whole element. ok
// reports whether a recognized attribute combination applied; when false
// the caller keeps the original markup. Resolver errors propagate
// unchanged.
func (h *Helper) Process(ctx context.Context, tag Tag) (out string, ok bool, err error) {
	p, err := h.Plan(ctx, tag)
	if err != nil {
		return "", false, err
	}
	if !p.OK {
		metrics.TagsPassedThrough.Inc()
		return "", false, nil
	}

	kept := tag.Attributes.Without(directiveAttrs...)

	var b strings.Builder
	if p.static {
		renderScriptTag(&b, kept, tag.Body)
	} else {
		for _, url := range p.URLs {
			renderScriptTag(&b, kept.withSrc(encode.HTMLAttribute(url)), "")
		}
	}

	if p.Mode == ModeFallback {
		if len(p.Fallback) > 0 {
			metrics.FallbackBlocks.Inc()
		}
		renderFallbackBlock(&b, kept, directive(tag.Attributes, AttrFallbackTest), p.Fallback)
	}

	metrics.TagsRewritten.WithLabelValues(p.Mode.String()).Inc()
	return b.String(), true, nil
}

// directive returns the authored value of a directive attribute. The list
// stores values HTML-encoded; pattern strings and the test expression are
// consumed in their decoded form.
func directive(attrs Attributes, name string) string {
	v, _ := attrs.Get(name)
	return html.UnescapeString(v)
}

func describe(defs []Definition) string {
	parts := make([]string, len(defs))
	for i, d := range defs {
		parts[i] = d.Mode.String() + "(" + strings.Join(d.Required, " ") + ")"
	}
	return strings.Join(parts, ", ")
}
