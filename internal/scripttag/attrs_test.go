package scripttag

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAttributesSrc(t *testing.T) {
	attrs := Attributes{{Name: "SRC", Value: "a.js"}}
	v, ok := attrs.Src()
	if !ok {
		t.Fatal("expected src match to ignore case")
	}
	if exp, act := "a.js", v; exp != act {
		t.Fatalf("expected %q, got %q", exp, act)
	}

	if _, ok := attrs.Get("src"); ok {
		t.Fatal("exact lookup must not ignore case")
	}
}

func TestAttributesWithout(t *testing.T) {
	attrs := Attributes{
		{Name: "src", Value: "a.js"},
		{Name: AttrSrcInclude, Value: "js/*.js"},
		{Name: "defer", Value: ""},
		{Name: AttrSrcExclude, Value: "js/*.min.js"},
	}

	exp := Attributes{
		{Name: "src", Value: "a.js"},
		{Name: "defer", Value: ""},
	}
	if diff := cmp.Diff(exp, attrs.Without(AttrSrcInclude, AttrSrcExclude)); diff != "" {
		t.Fatal("unexpected attributes (-want, +got):", diff)
	}
}

func TestAttributesWithSrc(t *testing.T) {
	t.Run("replaces in place", func(t *testing.T) {
		attrs := Attributes{
			{Name: "defer", Value: ""},
			{Name: "Src", Value: "a.js"},
			{Name: "data-x", Value: "1"},
		}
		exp := Attributes{
			{Name: "defer", Value: ""},
			{Name: "Src", Value: "b.js"},
			{Name: "data-x", Value: "1"},
		}
		if diff := cmp.Diff(exp, attrs.withSrc("b.js")); diff != "" {
			t.Fatal("unexpected attributes (-want, +got):", diff)
		}
	})

	t.Run("appends when absent", func(t *testing.T) {
		attrs := Attributes{{Name: "defer", Value: ""}}
		exp := Attributes{
			{Name: "defer", Value: ""},
			{Name: "src", Value: "b.js"},
		}
		if diff := cmp.Diff(exp, attrs.withSrc("b.js")); diff != "" {
			t.Fatal("unexpected attributes (-want, +got):", diff)
		}
	})

	t.Run("does not mutate the receiver", func(t *testing.T) {
		attrs := Attributes{{Name: "src", Value: "a.js"}}
		attrs.withSrc("b.js")
		if exp, act := "a.js", attrs[0].Value; exp != act {
			t.Fatalf("expected %q, got %q", exp, act)
		}
	})
}
