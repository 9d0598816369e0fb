package markup

import (
	"fmt"

	"golang.org/x/net/html"
)

// Handlers is a routing table from kind to handler. O is the output type
// of every handler
type Handlers[O any] struct {
	HTML     func(h string) (O, error)
	Text     func(t *html.Node) (O, error)
	Comment  func(c *html.Node) (O, error)
	Element  func(e *html.Node) (O, error)
	Fragment func(f *html.Node) (O, error)
	Document func(d *html.Node) (O, error)
	Node     func(n any) (O, error)
}

func (h Handlers[O]) has(k Kind) bool {
	switch k {
	case KindHTML:
		return h.HTML != nil
	case KindText:
		return h.Text != nil
	case KindComment:
		return h.Comment != nil
	case KindElement:
		return h.Element != nil
	case KindFragment:
		return h.Fragment != nil
	case KindDocument:
		return h.Document != nil
	case KindNode:
		return h.Node != nil
	}
	return false
}

// Solver classifies a value and dispatches it to the matching handler
type Solver[O any] struct {
	name     string
	handlers Handlers[O]
}

// NewSolver builds a solver named after the utility it serves. Every kind
// other than KindNode needs a handler unless it is listed in exclude; a
// missing one is a programming error and panics
func NewSolver[O any](name string, exclude []Kind, h Handlers[O]) Solver[O] {
	excluded := make(map[Kind]bool, len(exclude))
	for _, k := range exclude {
		excluded[k] = true
	}
	for _, k := range Kinds() {
		if k == KindNode || excluded[k] || h.has(k) {
			continue
		}
		panic(fmt.Sprintf("markup: solver %s has no handler for %q", name, k))
	}
	return Solver[O]{name: name, handlers: h}
}

// Name returns the utility name used in diagnostics
func (s Solver[O]) Name() string {
	return s.name
}

// Solve routes v to its handler
func (s Solver[O]) Solve(v any) (O, error) {
	var zero O
	if isNil(v) {
		return zero, mishap(ErrInvalidInput, s.name, "value passed into solver was nil")
	}

	h := s.handlers
	kind := Classify(v)
	switch {
	case kind == KindHTML && h.HTML != nil:
		return h.HTML(v.(string))
	case kind == KindText && h.Text != nil:
		return h.Text(v.(*html.Node))
	case kind == KindComment && h.Comment != nil:
		return h.Comment(v.(*html.Node))
	case kind == KindElement && h.Element != nil:
		return h.Element(v.(*html.Node))
	case kind == KindFragment && h.Fragment != nil:
		return h.Fragment(v.(*html.Node))
	case kind == KindDocument && h.Document != nil:
		return h.Document(v.(*html.Node))
	case kind == KindNode && h.Node != nil:
		return h.Node(v)
	}

	if kind == KindNode {
		if el := elementShape(v); el != nil && h.Element != nil {
			return h.Element(el)
		}
		if t := textShape(v); t != nil && h.Text != nil {
			return h.Text(t)
		}
	}

	return zero, mishap(ErrUnhandledNodeType, fmt.Sprintf("%s(%s)", s.name, kind),
		"problem finding %q in solver", kind.String()).inspect(v)
}
