package scripttag

import (
	"testing"
)

func TestResolveMode(t *testing.T) {
	tests := []struct {
		note    string
		attrs   Attributes
		mode    Mode
		ok      bool
		partial int
	}{
		{
			note: "no attributes",
			ok:   false,
		},
		{
			note:  "src only",
			attrs: Attributes{{Name: "src", Value: "a.js"}},
			ok:    false,
		},
		{
			note:  "src include",
			attrs: Attributes{{Name: AttrSrcInclude, Value: "js/*.js"}},
			mode:  ModeGlobbedSrc,
			ok:    true,
		},
		{
			note: "src include with exclude",
			attrs: Attributes{
				{Name: AttrSrcInclude, Value: "js/**"},
				{Name: AttrSrcExclude, Value: "js/*.min.js"},
			},
			mode: ModeGlobbedSrc,
			ok:   true,
		},
		{
			// The globbed fallback row shares asp-fallback-test, so it
			// reports as a partial match alongside the full one.
			note: "static fallback",
			attrs: Attributes{
				{Name: AttrFallbackSrc, Value: "lib.min.js"},
				{Name: AttrFallbackTest, Value: "window.Lib"},
			},
			mode:    ModeFallback,
			ok:      true,
			partial: 1,
		},
		{
			note: "globbed fallback",
			attrs: Attributes{
				{Name: AttrFallbackSrcInclude, Value: "lib/**"},
				{Name: AttrFallbackSrcExclude, Value: "lib/*.map"},
				{Name: AttrFallbackTest, Value: "window.Lib"},
			},
			mode:    ModeFallback,
			ok:      true,
			partial: 1,
		},
		{
			note:    "fallback src without test",
			attrs:   Attributes{{Name: AttrFallbackSrc, Value: "lib.min.js"}},
			ok:      false,
			partial: 1,
		},
		{
			note:    "fallback test alone",
			attrs:   Attributes{{Name: AttrFallbackTest, Value: "window.Lib"}},
			ok:      false,
			partial: 2,
		},
		{
			note: "globbed src and fallback combined",
			attrs: Attributes{
				{Name: AttrSrcInclude, Value: "js/*.js"},
				{Name: AttrFallbackSrc, Value: "lib.min.js"},
				{Name: AttrFallbackTest, Value: "window.Lib"},
			},
			mode:    ModeFallback,
			ok:      true,
			partial: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			res := resolveMode(tc.attrs, modeTable)
			mode, ok := res.Mode()
			if exp, act := tc.ok, ok; exp != act {
				t.Fatalf("expected ok %v, got %v", exp, act)
			}
			if tc.ok {
				if exp, act := tc.mode, mode; exp != act {
					t.Fatalf("expected mode %v, got %v", exp, act)
				}
			}
			if exp, act := tc.partial, len(res.Partial); exp != act {
				t.Fatalf("expected %d partial matches, got %d", exp, act)
			}
		})
	}
}

func TestModeTableValidation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected overlapping table to panic")
		}
	}()

	mustValidateTable([]Definition{
		{Mode: ModeGlobbedSrc, Required: []string{AttrSrcInclude}},
		{Mode: ModeFallback, Required: []string{AttrSrcInclude, AttrFallbackTest}},
	})
}

func TestRecognized(t *testing.T) {
	if Recognized(Attributes{{Name: "src", Value: "a.js"}, {Name: "defer", Value: ""}}) {
		t.Fatal("plain tag should not be recognized")
	}
	if !Recognized(Attributes{{Name: AttrSrcExclude, Value: "js/*.min.js"}}) {
		t.Fatal("tag with a directive attribute should be recognized")
	}
}
