package scripttag

import (
	"strings"

	"github.com/tagmill/tagmill/internal/encode"
)

// renderScriptTag writes one <script> element from the ordered attribute
// list and body. Values are emitted exactly as stored; callers ensure they
// are already encoded for an HTML attribute context.
func renderScriptTag(b *strings.Builder, attrs Attributes, body string) {
	b.WriteString("<script")
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(a.Value)
		b.WriteString(`"`)
	}
	b.WriteString(">")
	b.WriteString(body)
	b.WriteString("</script>")
}

// renderFallbackBlock writes the client-side test-and-inject block: a
// script element that evaluates the test expression and, if it is falsy,
// document.writes one script tag per fallback URL. The tags live inside a
// double-quoted JavaScript string literal, so attribute pairs are framed
// with literal \" quotes and names and values pass through JavaScript
// string escaping. The src value is the fallback URL, HTML-encoded,
// replacing any authored src in place or synthesized as the first
// attribute. An empty URL list writes nothing at all.
func renderFallbackBlock(b *strings.Builder, attrs Attributes, testExpr string, urls []string) {
	if len(urls) == 0 {
		return
	}

	b.WriteString("<script>(")
	b.WriteString(testExpr)
	b.WriteString(`||document.write("`)

	_, hasSrc := attrs.Src()
	for _, url := range urls {
		b.WriteString("<script")
		if !hasSrc {
			writeQuotedAttr(b, srcAttr, encode.HTMLAttribute(url))
		}
		for _, a := range attrs {
			if isSrc(a.Name) {
				writeQuotedAttr(b, encode.JSString(a.Name), encode.HTMLAttribute(url))
				continue
			}
			writeQuotedAttr(b, encode.JSString(a.Name), encode.JSString(a.Value))
		}
		b.WriteString(`><\/script>`)
	}

	b.WriteString(`"));</script>`)
}

// writeQuotedAttr writes ` name=\"value\"` with the backslashes emitted
// literally, the framing needed inside the generated string literal.
func writeQuotedAttr(b *strings.Builder, name, value string) {
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`=\"`)
	b.WriteString(value)
	b.WriteString(`\"`)
}
