package encode

import "testing"

func TestHTMLAttribute(t *testing.T) {
	tests := []struct {
		note string
		in   string
		exp  string
	}{
		{note: "plain", in: "js/site.js", exp: "js/site.js"},
		{note: "ampersand", in: "a.js?v=1&x=2", exp: "a.js?v=1&amp;x=2"},
		{note: "quotes", in: `he said "hi"`, exp: "he said &quot;hi&quot;"},
		{note: "single quotes", in: "it's", exp: "it&#39;s"},
		{note: "angle brackets", in: "</script>", exp: "&lt;/script&gt;"},
		{note: "empty", in: "", exp: ""},
	}
	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			if exp, act := tc.exp, HTMLAttribute(tc.in); exp != act {
				t.Fatalf("expected %q, got %q", exp, act)
			}
		})
	}
}

func TestJSString(t *testing.T) {
	tests := []struct {
		note string
		in   string
		exp  string
	}{
		{note: "plain", in: "defer", exp: "defer"},
		{note: "double quote", in: `a"b`, exp: `a\u0022b`},
		{note: "single quote", in: "a'b", exp: `a\u0027b`},
		{note: "backslash", in: `a\b`, exp: `a\\b`},
		{note: "angle brackets", in: "</script>", exp: `\u003C/script\u003E`},
		{note: "ampersand", in: "a&b", exp: `a\u0026b`},
		{note: "newline", in: "a\nb", exp: `a\nb`},
		{note: "tab", in: "a\tb", exp: `a\tb`},
		{note: "control", in: "a\x01b", exp: `a\u0001b`},
		{note: "line separator", in: "a\u2028b", exp: `a\u2028b`},
		{note: "empty", in: "", exp: ""},
	}
	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			if exp, act := tc.exp, JSString(tc.in); exp != act {
				t.Fatalf("expected %q, got %q", exp, act)
			}
		})
	}
}
