package css

import "strings"

// Declaration represents a single CSS property declaration
type Declaration struct {
	Property  string // CSS property name (normalized)
	Value     string // CSS property value
	Important bool   // !important flag
}

// String renders the declaration as it appears in a style attribute
func (d Declaration) String() string {
	value := d.Value
	if d.Important {
		value += " !important"
	}
	return d.Property + ": " + value
}

// Declarations is an ordered declaration block. Source order is kept so a
// rewritten style attribute stays stable
type Declarations []Declaration

// Get returns the declaration for property, if present
func (ds Declarations) Get(property string) (Declaration, bool) {
	property = NormalizePropertyName(property)
	for _, d := range ds {
		if d.Property == property {
			return d, true
		}
	}
	return Declaration{}, false
}

// Set replaces the declaration for d.Property in place or appends it
func (ds Declarations) Set(d Declaration) Declarations {
	d.Property = NormalizePropertyName(d.Property)
	for i := range ds {
		if ds[i].Property == d.Property {
			ds[i] = d
			return ds
		}
	}
	return append(ds, d)
}

// Remove drops the declaration for property
func (ds Declarations) Remove(property string) Declarations {
	property = NormalizePropertyName(property)
	out := ds[:0]
	for _, d := range ds {
		if d.Property != property {
			out = append(out, d)
		}
	}
	return out
}

// String formats the block for a style attribute
func (ds Declarations) String() string {
	if len(ds) == 0 {
		return ""
	}
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.String()
	}
	return strings.Join(parts, "; ")
}
