package scripttag

import "strings"

// Attribute is one name/value pair from a script element. Values are held
// already HTML-encoded; the builders emit them without further escaping.
type Attribute struct {
	Name  string
	Value string
}

// Attributes is an ordered attribute list. Order is preserved through to
// serialization. The src attribute is matched case-insensitively, the way
// HTML treats attribute names; the asp- directive names are matched
// verbatim.
type Attributes []Attribute

const srcAttr = "src"

func isSrc(name string) bool {
	return strings.EqualFold(name, srcAttr)
}

// Get returns the value of the named attribute. The name is matched
// exactly.
func (as Attributes) Get(name string) (string, bool) {
	for _, a := range as {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Has reports whether the named attribute is present.
func (as Attributes) Has(name string) bool {
	_, ok := as.Get(name)
	return ok
}

// Src returns the value of the src attribute, matched case-insensitively.
func (as Attributes) Src() (string, bool) {
	for _, a := range as {
		if isSrc(a.Name) {
			return a.Value, true
		}
	}
	return "", false
}

// Names returns the attribute names in list order.
func (as Attributes) Names() []string {
	names := make([]string, len(as))
	for i, a := range as {
		names[i] = a.Name
	}
	return names
}

// Without returns a copy of the list with the named attributes removed,
// preserving the order of the rest.
func (as Attributes) Without(names ...string) Attributes {
	out := make(Attributes, 0, len(as))
	for _, a := range as {
		drop := false
		for _, name := range names {
			if a.Name == name {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, a)
		}
	}
	return out
}

// withSrc returns a copy of the list with the src attribute set to value,
// replacing it in place if present or appending it otherwise. The value is
// stored as given; callers encode it for the attribute context first.
func (as Attributes) withSrc(value string) Attributes {
	out := make(Attributes, len(as))
	copy(out, as)
	for i, a := range out {
		if isSrc(a.Name) {
			out[i].Value = value
			return out
		}
	}
	return append(out, Attribute{Name: srcAttr, Value: value})
}
