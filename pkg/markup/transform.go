package markup

import "golang.org/x/net/html"

// Invocation is the context a Transform is called with. Update is set when
// the call comes from Selection.Update or Selection.UpdateAll; Node is then
// the matched element (or the selection root) and Index/Total locate it in
// the match set. On a direct call Node holds the argument, or an []any when
// several arguments were given
type Invocation struct {
	Node   any
	Index  int
	Total  int
	Update bool
}

// Transform is a tree edit. Returning false asks a selection to remove the
// matched node; returning a different, parentless node (or markup) asks it
// to put that in the matched node's place
type Transform func(in Invocation) (any, error)

// Apply calls t outside of a selection
func (t Transform) Apply(nodes ...any) (any, error) {
	in := Invocation{Total: 1}
	switch len(nodes) {
	case 0:
	case 1:
		in.Node = nodes[0]
	default:
		in.Node = nodes
	}
	return t(in)
}

// removed reports whether a transform result asks for removal
func removed(out any) bool {
	b, ok := out.(bool)
	return ok && !b
}

// flatten expands nested []any, []string and node slices into one list
func flatten(v any) []any {
	var out []any
	var walk func(any)
	walk = func(v any) {
		switch t := v.(type) {
		case nil:
		case []any:
			for _, c := range t {
				walk(c)
			}
		case []string:
			for _, c := range t {
				out = append(out, c)
			}
		case []*html.Node:
			for _, c := range t {
				out = append(out, c)
			}
		default:
			out = append(out, v)
		}
	}
	walk(v)
	return out
}
