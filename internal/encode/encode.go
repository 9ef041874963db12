// Package encode holds the two escaping primitives the tag rewriting code
// depends on: one for HTML attribute values, one for text embedded in
// JavaScript string literals. Both are pure string to string functions.
package encode

import (
	"fmt"
	"strings"
)

// HTMLAttribute escapes s for use inside a double-quoted HTML attribute
// value. The five characters with markup meaning become entities,
// everything else passes through unchanged.
func HTMLAttribute(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// JSString escapes s for embedding inside a JavaScript string literal that
// itself lives in inline HTML. Quotes are emitted as \u escapes rather
// than backslash-quote: the callers frame attribute values with literal
// \" pairs, and an escaped quote inside the value must not terminate that
// framing. HTML-significant characters are escaped too so the result
// cannot close the surrounding script element.
func JSString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '"', '\'', '<', '>', '&', '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
