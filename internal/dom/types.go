package dom

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DOM node type codes as reported by browsers (Node.nodeType)
const (
	ElementCode  = 1
	TextCode     = 3
	CommentCode  = 8
	DocumentCode = 9
	DoctypeCode  = 10
	FragmentCode = 11
)

// TypeCode reports the classical DOM nodeType for n. x/net/html has no
// fragment node so a DocumentNode without an <html> element reports
// FragmentCode. Raw and error nodes report 0
func TypeCode(n *html.Node) int {
	if n == nil {
		return 0
	}
	switch n.Type {
	case html.ElementNode:
		return ElementCode
	case html.TextNode:
		return TextCode
	case html.CommentNode:
		return CommentCode
	case html.DoctypeNode:
		return DoctypeCode
	case html.DocumentNode:
		if IsDocument(n) {
			return DocumentCode
		}
		return FragmentCode
	}
	return 0
}

// IsDocument reports whether n is a full document: a DocumentNode
// holding an <html> element
func IsDocument(n *html.Node) bool {
	if n == nil || n.Type != html.DocumentNode {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Html {
			return true
		}
	}
	return false
}

// IsFragment reports whether n is a fragment root
func IsFragment(n *html.Node) bool {
	return n != nil && n.Type == html.DocumentNode && !IsDocument(n)
}

// IsElement reports whether n is an element node
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// IsText reports whether n is a text node
func IsText(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

// rawTextParents hold children the serializer must not escape
var rawTextParents = map[atom.Atom]bool{
	atom.Script:    true,
	atom.Style:     true,
	atom.Xmp:       true,
	atom.Iframe:    true,
	atom.Noembed:   true,
	atom.Noframes:  true,
	atom.Noscript:  true,
	atom.Plaintext: true,
}

// InRawText reports whether a text node sits inside a raw-text element
func InRawText(n *html.Node) bool {
	return n != nil && n.Parent != nil && n.Parent.Type == html.ElementNode && rawTextParents[n.Parent.DataAtom]
}
