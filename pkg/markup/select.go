package markup

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"markupkit/internal/dom"
)

// operation is one queued edit. done marks edits already applied to a live
// tree so they run at most once
type operation struct {
	apply func(root *html.Node) (*html.Node, error)
	done  bool
}

// rootCell is shared by every Selection derived from one live source so a
// replaced root is seen by all of them
type rootCell struct {
	node *html.Node
}

// Selection is a chainable query and update handle over a container.
// Update, UpdateAll and Wrap return a new Selection with the edit queued;
// nothing touches the tree until ToContainer (or a Find) materializes it
//
// Markup sources are parsed afresh on every materialization, so they are
// never changed. Node sources are edited in place
type Selection struct {
	markup     string
	fromMarkup bool
	live       *rootCell
	ops        []*operation
	err        error
}

// Select starts a selection over markup, an element, a fragment or a
// document
func Select(src any) Selection {
	if h, ok := src.(string); ok {
		return Selection{markup: h, fromMarkup: true}
	}
	if el := elementShape(src); el != nil {
		src = el
	}
	switch Classify(src) {
	case KindElement, KindFragment, KindDocument:
		return Selection{live: &rootCell{node: src.(*html.Node)}}
	}
	return Selection{err: mishap(ErrInvalidInput, "select()",
		"a selection needs markup or a container, got a %s", Classify(src)).inspect(src)}
}

// Err returns the first error recorded while building the selection
func (s Selection) Err() error {
	return s.err
}

func (s Selection) with(apply func(root *html.Node) (*html.Node, error)) Selection {
	if s.err != nil {
		return s
	}
	ops := make([]*operation, len(s.ops), len(s.ops)+1)
	copy(ops, s.ops)
	s.ops = append(ops, &operation{apply: apply})
	return s
}

func (s Selection) parse() (*html.Node, error) {
	if dom.IsDocumentMarkup(s.markup) {
		return dom.ParseDocument(s.markup)
	}
	return dom.ParseFragment(s.markup)
}

// materialize applies the queued edits and returns the resulting root
func (s Selection) materialize() (*html.Node, error) {
	if s.err != nil {
		return nil, s.err
	}

	if s.fromMarkup {
		root, err := s.parse()
		if err != nil {
			return nil, mishap(ErrInvalidInput, "select()", "could not parse the source markup").wrap(err)
		}
		for _, op := range s.ops {
			if root, err = op.apply(root); err != nil {
				return nil, err
			}
		}
		return root, nil
	}

	for _, op := range s.ops {
		if op.done {
			continue
		}
		root, err := op.apply(s.live.node)
		if err != nil {
			return nil, err
		}
		op.done = true
		s.live.node = root
	}
	return s.live.node, nil
}

// adoptRoot applies a transform result to the selection root
func adoptRoot(root *html.Node, out any) (*html.Node, error) {
	switch t := out.(type) {
	case bool:
		if !t {
			return dom.NewFragment(), nil
		}
	case string:
		if dom.IsDocumentMarkup(t) {
			return dom.ParseDocument(t)
		}
		return dom.ParseFragment(t)
	case *html.Node:
		if t != nil && t != root && t.Parent == nil {
			return t, nil
		}
	}
	return root, nil
}

// settle applies a transform result to a matched element: false removes it
// and a new parentless node or markup takes its place
func settle(el *html.Node, out any) error {
	switch t := out.(type) {
	case bool:
		if !t {
			dom.Detach(el)
		}
	case string:
		frag, err := dom.ParseFragment(t)
		if err != nil {
			return err
		}
		dom.ReplaceWith(el, frag)
	case *html.Node:
		if t != nil && t != el && t.Parent == nil {
			dom.ReplaceWith(el, t)
		}
	}
	return nil
}

func updateFailed(op, selector string, err error) error {
	m := mishap(nil, op, "transform failed").wrap(err)
	m.Selector = selector
	return m
}

// Update applies fn to the first element matching selector. An empty
// selector applies fn to the root itself. A selector that matches nothing
// fails with ErrNotFound; errorContext is added to that error
func (s Selection) Update(selector string, fn Transform, errorContext ...string) Selection {
	return s.with(func(root *html.Node) (*html.Node, error) {
		if selector == "" {
			out, err := fn(Invocation{Node: root, Total: 1, Update: true})
			if err != nil {
				return nil, updateFailed("select.update()", selector, err)
			}
			return adoptRoot(root, out)
		}

		el, err := dom.QuerySelector(root, selector)
		if err != nil {
			return nil, selectorError("select.update()", selector, err)
		}
		if el == nil {
			m := mishap(ErrNotFound, "select.update()", "no element in the %s matched the selector", Classify(root))
			m.Selector = selector
			m.Context = strings.Join(errorContext, " ")
			return nil, m
		}
		out, err := fn(Invocation{Node: el, Total: 1, Update: true})
		if err != nil {
			return nil, updateFailed("select.update()", selector, err)
		}
		return root, settle(el, out)
	})
}

// UpdateAll applies fn to every element matching selector, in document
// order. The matches are found once up front so removals do not shift the
// index of later elements. A failing call stops the loop and leaves the
// earlier edits in place
func (s Selection) UpdateAll(selector string, fn Transform) Selection {
	return s.with(func(root *html.Node) (*html.Node, error) {
		matches, err := dom.QuerySelectorAll(root, selector)
		if err != nil {
			return nil, selectorError("select.updateAll()", selector, err)
		}
		for i, el := range matches {
			out, err := fn(Invocation{Node: el, Index: i, Total: len(matches), Update: true})
			if err != nil {
				return nil, updateFailed(fmt.Sprintf("select.updateAll()[%d/%d]", i, len(matches)), selector, err)
			}
			if err := settle(el, out); err != nil {
				return nil, err
			}
		}
		return root, nil
	})
}

// wrapperElement reduces a wrapper argument to one element
func wrapperElement(wrapper any) (*html.Node, error) {
	if n, ok := wrapper.(*html.Node); ok && n != nil && !dom.IsElement(n) {
		if !IsElementLike(n) {
			return nil, mishap(ErrInvalidInput, "createElement()", "a %s is not a single element", Classify(n))
		}
		return contentRoot(n).FirstChild, nil
	}
	return CreateElement(wrapper)
}

// Wrap puts the selection's content inside wrapper, which must describe
// exactly one element. An element root is replaced by the wrapper; the
// content of a fragment or document moves inside it. extra is echoed in the
// error raised for a malformed wrapper
func (s Selection) Wrap(wrapper any, extra ...string) Selection {
	w, err := wrapperElement(wrapper)
	if err != nil {
		m := mishap(ErrMalformedWrapper, "select.wrap()",
			"the wrapper must be a single element but a %s with other content was given", Classify(wrapper)).
			inspect(wrapper).wrap(err)
		m.Context = strings.Join(extra, " ")
		if s.err == nil {
			s.err = m
		}
		return s
	}

	return s.with(func(root *html.Node) (*html.Node, error) {
		parent := dom.Clone(w)
		if dom.IsElement(root) {
			out, err := Into(parent)(Invocation{Node: root, Total: 1, Update: true})
			if err != nil {
				return nil, updateFailed("select.wrap()", "", err)
			}
			return adoptRoot(root, out)
		}

		container := root
		if dom.IsDocument(root) {
			container = dom.Body(root)
		}
		out, err := Into(parent).Apply(dom.ChildNodes(container))
		if err != nil {
			return nil, updateFailed("select.wrap()", "", err)
		}
		dom.ReplaceChildren(container, out.(*html.Node))
		return root, nil
	})
}

// FindFirst returns the first element matching selector, or nil. When
// errorContext is given a missing match is an ErrNotFound carrying it
func (s Selection) FindFirst(selector string, errorContext ...string) (*html.Node, error) {
	root, err := s.materialize()
	if err != nil {
		return nil, err
	}
	el, err := dom.QuerySelector(root, selector)
	if err != nil {
		return nil, selectorError("select.findFirst()", selector, err)
	}
	if el == nil && len(errorContext) > 0 {
		m := mishap(ErrNotFound, "select.findFirst()", "no element matched the selector")
		m.Selector = selector
		m.Context = strings.Join(errorContext, " ")
		return nil, m
	}
	return el, nil
}

// FindAll returns every element matching selector in document order
func (s Selection) FindAll(selector string) ([]*html.Node, error) {
	root, err := s.materialize()
	if err != nil {
		return nil, err
	}
	found, err := dom.QuerySelectorAll(root, selector)
	if err != nil {
		return nil, selectorError("select.findAll()", selector, err)
	}
	return found, nil
}

// MapAll collects fn over every element matching selector. fn must not
// change the tree
func MapAll[T any](s Selection, selector string, fn func(el *html.Node, index int) T) ([]T, error) {
	found, err := s.FindAll(selector)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(found))
	for i, el := range found {
		out[i] = fn(el, i)
	}
	return out, nil
}

// ToContainer applies the queued edits. A markup source gives markup back;
// a node source gives the (possibly replaced) root node
func (s Selection) ToContainer() (any, error) {
	root, err := s.materialize()
	if err != nil {
		return nil, err
	}
	if s.fromMarkup {
		return ToHTML(root)
	}
	return root, nil
}

// ToNode is ToContainer for callers that want the tree whatever the source
func (s Selection) ToNode() (*html.Node, error) {
	return s.materialize()
}

// ToHTML is ToContainer for callers that want markup whatever the source
func (s Selection) ToHTML() (string, error) {
	root, err := s.materialize()
	if err != nil {
		return "", err
	}
	return ToHTML(root)
}
