// Package htmlrewrite applies script tag rewriting to whole HTML
// documents. The pass is a single tokenizer scan; every token outside a
// rewritten script element is copied from the raw input verbatim, so
// documents without matching annotations come out byte-identical.
package htmlrewrite

import (
	"bufio"
	"context"
	"io"
	"time"

	"golang.org/x/net/html"

	"github.com/tagmill/tagmill/internal/encode"
	"github.com/tagmill/tagmill/internal/logging"
	"github.com/tagmill/tagmill/internal/metrics"
	"github.com/tagmill/tagmill/internal/scripttag"
)

// Rewriter scans HTML documents for annotated script elements and
// replaces them with the markup the helper produces.
type Rewriter struct {
	helper *scripttag.Helper
	log    *logging.Logger
}

func New(helper *scripttag.Helper) *Rewriter {
	return &Rewriter{helper: helper, log: logging.NewNopLogger()}
}

func (rw *Rewriter) WithLogger(log *logging.Logger) *Rewriter {
	rw.log = log
	return rw
}

// Document rewrites src into w. Tag processing errors abort the pass;
// whatever was flushed before the failure may already have reached w.
func (rw *Rewriter) Document(ctx context.Context, w io.Writer, src io.Reader) error {
	start := time.Now()
	bw := bufio.NewWriter(w)
	z := html.NewTokenizer(src)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return err
			}
			metrics.DocumentDone(start)
			return bw.Flush()
		case html.StartTagToken:
			if name, hasAttr := z.TagName(); hasAttr && string(name) == "script" {
				if err := rw.script(ctx, bw, z); err != nil {
					return err
				}
				continue
			}
		}
		if _, err := bw.Write(z.Raw()); err != nil {
			return err
		}
	}
}

// script handles one script start tag. Elements without directive
// attributes, and elements whose attributes match no recognized
// combination, are emitted byte-identical to the input.
func (rw *Rewriter) script(ctx context.Context, bw *bufio.Writer, z *html.Tokenizer) error {
	// Copy the raw bytes out: the tokenizer reuses its buffer on Next.
	start := append([]byte(nil), z.Raw()...)
	attrs := tagAttrs(z)
	if !scripttag.Recognized(attrs) {
		_, err := bw.Write(start)
		return err
	}

	body, endTag, closed, err := element(z)
	if err != nil {
		return err
	}
	if !closed {
		// The document ended inside the element. Nothing to rewrite;
		// the outer loop sees the same end-of-input next.
		if _, err := bw.Write(start); err != nil {
			return err
		}
		_, err := bw.Write(body)
		return err
	}

	out, ok, err := rw.helper.Process(ctx, scripttag.Tag{Attributes: attrs, Body: string(body)})
	if err != nil {
		return err
	}
	if !ok {
		if _, err := bw.Write(start); err != nil {
			return err
		}
		if _, err := bw.Write(body); err != nil {
			return err
		}
		_, err := bw.Write(endTag)
		return err
	}

	_, err = bw.WriteString(out)
	return err
}

// Report describes one annotated script element found in a document.
type Report struct {
	Index      int
	Attributes scripttag.Attributes
	Plan       scripttag.Plan
}

// Inspect scans src and reports every script element carrying directive
// attributes, in document order, without producing output.
func (rw *Rewriter) Inspect(ctx context.Context, src io.Reader) ([]Report, error) {
	var reports []Report
	z := html.NewTokenizer(src)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			return reports, nil
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if !hasAttr || string(name) != "script" {
				continue
			}
			attrs := tagAttrs(z)
			if !scripttag.Recognized(attrs) {
				continue
			}
			if _, _, _, err := element(z); err != nil {
				return nil, err
			}
			plan, err := rw.helper.Plan(ctx, scripttag.Tag{Attributes: attrs})
			if err != nil {
				return nil, err
			}
			reports = append(reports, Report{Index: len(reports), Attributes: attrs, Plan: plan})
		}
	}
}

// tagAttrs collects the attributes of the tag token just read. The
// tokenizer hands over decoded values; they are re-encoded so the
// attribute list carries HTML-safe text end to end.
func tagAttrs(z *html.Tokenizer) scripttag.Attributes {
	var attrs scripttag.Attributes
	for {
		key, val, more := z.TagAttr()
		attrs = append(attrs, scripttag.Attribute{
			Name:  string(key),
			Value: encode.HTMLAttribute(string(val)),
		})
		if !more {
			return attrs
		}
	}
}

// element reads the body and end tag of the raw-text element whose start
// tag was just consumed. closed reports whether the end tag appeared
// before the input ran out.
func element(z *html.Tokenizer) (body, endTag []byte, closed bool, err error) {
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, nil, false, err
			}
			return body, nil, false, nil
		case html.EndTagToken:
			endTag = append([]byte(nil), z.Raw()...)
			return body, endTag, true, nil
		default:
			body = append(body, z.Raw()...)
		}
	}
}
