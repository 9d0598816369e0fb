package markup

import (
	"strings"

	"golang.org/x/net/html"

	"markupkit/internal/dom"
)

// CreateFragment parses markup into a fragment. Nodes are copied into a new
// fragment through their markup; nil gives an empty fragment
func CreateFragment(v any) (*html.Node, error) {
	switch t := v.(type) {
	case nil:
		return dom.NewFragment(), nil
	case string:
		return dom.ParseFragment(t)
	}
	if isNil(v) {
		return dom.NewFragment(), nil
	}
	if Classify(v) == KindDocument {
		inner, err := dom.InnerHTML(dom.Body(v.(*html.Node)))
		if err != nil {
			return nil, err
		}
		return dom.ParseFragment(inner)
	}
	markup, err := ToHTML(v)
	if err != nil {
		return nil, err
	}
	return dom.ParseFragment(markup)
}

// CreateElement returns the single element described by v. Markup may be
// surrounded by whitespace but must hold exactly one top-level element.
// An element passes through unchanged
func CreateElement(v any) (*html.Node, error) {
	if n, ok := v.(*html.Node); ok && dom.IsElement(n) {
		return n, nil
	}
	if isNil(v) {
		return nil, mishap(ErrInvalidInput, "createElement()", "value passed in was nil")
	}

	frag, err := CreateFragment(v)
	if err != nil {
		return nil, err
	}
	var el *html.Node
	for c := frag.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case dom.IsElement(c) && el == nil:
			el = c
		case dom.IsText(c) && strings.TrimSpace(c.Data) == "":
		default:
			return nil, mishap(ErrInvalidInput, "createElement()",
				"expected a single top-level element but got more content").inspect(v)
		}
	}
	if el == nil {
		return nil, mishap(ErrInvalidInput, "createElement()", "no element found in content").inspect(v)
	}
	dom.Detach(el)
	return el, nil
}

// CreateDocument builds a document from body and head markup. Body markup
// that is already a whole document is parsed as it is
func CreateDocument(body, head string) (*html.Node, error) {
	if dom.IsDocumentMarkup(body) {
		return dom.ParseDocument(body)
	}
	return dom.NewDocument(body, head)
}

// CreateTextNode returns a parentless text node
func CreateTextNode(text string) *html.Node {
	return dom.NewText(text)
}

// CreateCommentNode returns a parentless comment node
func CreateCommentNode(text string) *html.Node {
	return dom.NewComment(text)
}

// CreateNode turns markup into a single node when it describes exactly one
// node, or into a fragment otherwise. Nodes pass through unchanged
func CreateNode(v any) (*html.Node, error) {
	if n, ok := v.(*html.Node); ok && n != nil {
		return n, nil
	}
	h, ok := v.(string)
	if !ok {
		return nil, mishap(ErrInvalidInput, "createNode()", "expected markup or a node").inspect(v)
	}
	if dom.IsDocumentMarkup(h) {
		return dom.ParseDocument(h)
	}
	frag, err := dom.ParseFragment(h)
	if err != nil {
		return nil, err
	}
	if frag.FirstChild != nil && frag.FirstChild == frag.LastChild {
		n := frag.FirstChild
		dom.Detach(n)
		return n, nil
	}
	return frag, nil
}
