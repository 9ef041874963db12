package scripttag

import "fmt"

// Mode identifies which rewrite applies to a tag instance.
type Mode int

const (
	// ModeGlobbedSrc expands the asp-src-include patterns into one script
	// tag per matched file.
	ModeGlobbedSrc Mode = iota
	// ModeFallback appends a client-side test-and-inject block after the
	// primary script tag(s).
	ModeFallback
)

func (m Mode) String() string {
	switch m {
	case ModeGlobbedSrc:
		return "globbed-src"
	case ModeFallback:
		return "fallback"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Directive attribute names recognized on the wire. Matched verbatim.
const (
	AttrSrcInclude         = "asp-src-include"
	AttrSrcExclude         = "asp-src-exclude"
	AttrFallbackSrc        = "asp-fallback-src"
	AttrFallbackSrcInclude = "asp-fallback-src-include"
	AttrFallbackSrcExclude = "asp-fallback-src-exclude"
	AttrFallbackTest       = "asp-fallback-test"
)

// directiveAttrs are consumed during rewriting and never appear in output.
var directiveAttrs = []string{
	AttrSrcInclude,
	AttrSrcExclude,
	AttrFallbackSrc,
	AttrFallbackSrcInclude,
	AttrFallbackSrcExclude,
	AttrFallbackTest,
}

// Recognized reports whether any directive attribute is present. Tags
// without one are not script-helper tags at all and skip processing
// entirely.
func Recognized(attrs Attributes) bool {
	for _, name := range directiveAttrs {
		if attrs.Has(name) {
			return true
		}
	}
	return false
}

// Definition pairs a mode with the attribute names that must all be
// present for the mode to apply.
type Definition struct {
	Mode     Mode
	Required []string
}

// modeTable lists the recognized attribute combinations in priority order.
// The fallback rows come first: a tag carrying both fallback and include
// attributes resolves to fallback, and the include patterns still expand
// the primary tags.
var modeTable = []Definition{
	{Mode: ModeFallback, Required: []string{AttrFallbackSrc, AttrFallbackTest}},
	{Mode: ModeFallback, Required: []string{AttrFallbackSrcInclude, AttrFallbackTest}},
	{Mode: ModeGlobbedSrc, Required: []string{AttrSrcInclude}},
}

func init() {
	mustValidateTable(modeTable)
}

// mustValidateTable panics if the table can hand two different modes to
// one tag: a definition whose required set contains another definition's
// full required set fully matches whenever the other does.
func mustValidateTable(table []Definition) {
	for i, a := range table {
		for j, b := range table {
			if i == j || a.Mode == b.Mode {
				continue
			}
			if subset(a.Required, b.Required) {
				panic(fmt.Sprintf("mode table: %v requirements contain %v requirements but modes differ", b.Mode, a.Mode))
			}
		}
	}
}

func subset(inner, outer []string) bool {
	for _, name := range inner {
		found := false
		for _, other := range outer {
			if name == other {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Result reports which definitions fully matched a tag's attributes and
// which matched only in part. Partial matches are diagnostic only.
type Result struct {
	Full    []Definition
	Partial []Definition
}

// Mode returns the resolved mode: the first full match in table order.
func (r Result) Mode() (Mode, bool) {
	if len(r.Full) == 0 {
		return 0, false
	}
	return r.Full[0].Mode, true
}

// resolveMode matches the attribute names present on a tag against the
// definition table. Definitions with every required attribute present are
// full matches; definitions with at least one but not all are partial.
func resolveMode(attrs Attributes, table []Definition) Result {
	var res Result
	for _, def := range table {
		present := 0
		for _, name := range def.Required {
			if attrs.Has(name) {
				present++
			}
		}
		switch {
		case present == len(def.Required):
			res.Full = append(res.Full, def)
		case present > 0:
			res.Partial = append(res.Partial, def)
		}
	}
	return res
}
