package markup

import (
	"golang.org/x/net/html"

	"markupkit/internal/dom"
)

func asElement(op string, v any) (*html.Node, error) {
	if h, ok := v.(string); ok {
		return CreateElement(h)
	}
	if n, ok := v.(*html.Node); ok && dom.IsElement(n) {
		return n, nil
	}
	if el := elementShape(v); el != nil {
		return el, nil
	}
	return nil, invalidFor(op, v)
}

func matches(op string, el *html.Node, selector string) (bool, error) {
	ok, err := dom.Matches(el, selector)
	if err != nil {
		return false, selectorError(op, selector, err)
	}
	return ok, nil
}

// TraverseUpward walks the ancestors of el and returns the nearest one
// matching selector
func TraverseUpward(el any, selector string) (*html.Node, error) {
	start, err := asElement("traverseUpward", el)
	if err != nil {
		return nil, err
	}
	for p := dom.ParentElement(start); p != nil; p = dom.ParentElement(p) {
		ok, err := matches("traverseUpward", p, selector)
		if err != nil {
			return nil, err
		}
		if ok {
			return p, nil
		}
	}
	m := mishap(ErrNotFound, "traverseUpward", "failed to find a parent node matching the selector").inspect(start)
	m.Selector = selector
	return nil, m
}

// Peers returns the first later sibling of el matching selector. Given a
// list of nodes it returns the first element of the list that matches
func Peers(el any, selector string) (*html.Node, error) {
	if list, ok := el.([]*html.Node); ok {
		for _, n := range list {
			ok, err := matches("peers", n, selector)
			if err != nil {
				return nil, err
			}
			if ok {
				return n, nil
			}
		}
		m := mishap(ErrNotFound, "peers", "failed to find a peer node matching the selector in a list of %d nodes", len(list))
		m.Selector = selector
		return nil, m
	}

	start, err := asElement("peers", el)
	if err != nil {
		return nil, err
	}
	for s := dom.NextElementSibling(start); s != nil; s = dom.NextElementSibling(s) {
		ok, err := matches("peers", s, selector)
		if err != nil {
			return nil, err
		}
		if ok {
			return s, nil
		}
	}
	m := mishap(ErrNotFound, "peers", "failed to find a peer node matching the selector").inspect(start)
	m.Selector = selector
	return nil, m
}
