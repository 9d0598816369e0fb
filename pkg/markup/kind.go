// Package markup manipulates HTML as data: it creates, queries, mutates and
// serializes fragments, documents and elements held in an in-memory
// golang.org/x/net/html tree
//
// Every polymorphic utility routes its input through a Solver, which
// classifies the value into one Kind and calls the handler registered for
// it. Mutation utilities are Transforms so they compose with the Select
// pipeline as well as being applied directly
package markup

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"markupkit/internal/dom"
)

// Kind is the content type of a value handed to a utility. It is computed,
// never stored on the value
type Kind uint8

const (
	KindNode Kind = iota // unclassifiable, generic fallback
	KindHTML
	KindText
	KindComment
	KindElement
	KindFragment
	KindDocument
)

var kindNames = [...]string{
	KindNode:     "node",
	KindHTML:     "html",
	KindText:     "text",
	KindComment:  "comment",
	KindElement:  "element",
	KindFragment: "fragment",
	KindDocument: "document",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Kinds lists every kind in declaration order
func Kinds() []Kind {
	return []Kind{KindNode, KindHTML, KindText, KindComment, KindElement, KindFragment, KindDocument}
}

// lookupTypeCode maps a DOM nodeType to a kind
func lookupTypeCode(code int) (Kind, bool) {
	switch code {
	case dom.ElementCode:
		return KindElement, true
	case dom.TextCode:
		return KindText, true
	case dom.CommentCode:
		return KindComment, true
	case dom.FragmentCode:
		return KindFragment, true
	}
	return KindNode, false
}

// Classify returns the kind of v. It never panics: nil and values it does
// not understand are KindNode
func Classify(v any) Kind {
	switch t := v.(type) {
	case string:
		return KindHTML
	case *html.Node:
		if t == nil {
			return KindNode
		}
		if k, ok := lookupTypeCode(dom.TypeCode(t)); ok {
			return k
		}
		switch {
		case textShaped(t):
			return KindText
		case dom.IsElement(t):
			return KindElement
		case dom.IsDocument(t):
			return KindDocument
		case dom.IsFragment(t):
			return KindFragment
		}
	}
	return KindNode
}

// textShaped matches childless character data the parser did not tag as
// text, such as raw nodes
func textShaped(n *html.Node) bool {
	return n.Type == html.RawNode && n.FirstChild == nil
}

// elementShape unwraps a generic value that holds exactly one element
func elementShape(v any) *html.Node {
	switch t := v.(type) {
	case *goquery.Selection:
		if t != nil && t.Length() == 1 && dom.IsElement(t.Get(0)) {
			return t.Get(0)
		}
	case *goquery.Document:
		if t != nil && t.Length() == 1 && dom.IsElement(t.Get(0)) {
			return t.Get(0)
		}
	}
	return nil
}

// textShape unwraps a generic value that holds exactly one text-like node
func textShape(v any) *html.Node {
	switch t := v.(type) {
	case *html.Node:
		if t != nil && textShaped(t) {
			return t
		}
	case *goquery.Selection:
		if t != nil && t.Length() == 1 && dom.IsText(t.Get(0)) {
			return t.Get(0)
		}
	}
	return nil
}

func isNil(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case *html.Node:
		return t == nil
	case *goquery.Selection:
		return t == nil
	case *goquery.Document:
		return t == nil
	}
	return false
}

// IsElementLike reports whether a fragment or document body wraps exactly
// one element and nothing else
func IsElementLike(v any) bool {
	root := contentRoot(v)
	if root == nil {
		return false
	}
	return root.FirstChild != nil && root.FirstChild == root.LastChild && dom.IsElement(root.FirstChild)
}

// IsTextNodeLike reports whether a fragment or document body wraps a
// single text node
func IsTextNodeLike(v any) bool {
	root := contentRoot(v)
	if root == nil {
		return false
	}
	return root.FirstChild != nil && root.FirstChild == root.LastChild && dom.IsText(root.FirstChild)
}

// HasSingularElement reports whether the container is bounded by one
// element child
func HasSingularElement(v any) bool {
	return IsElementLike(v)
}

// contentRoot returns the node holding a container's top-level content:
// the fragment itself or the body of a document
func contentRoot(v any) *html.Node {
	n, ok := v.(*html.Node)
	if !ok || n == nil {
		return nil
	}
	switch Classify(n) {
	case KindFragment:
		return n
	case KindDocument:
		return dom.Body(n)
	}
	return nil
}
