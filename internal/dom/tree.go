package dom

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Detach removes n from its parent, if it has one
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertBefore inserts child into parent ahead of ref (nil appends).
// A fragment child is spliced in: its children move, the fragment root
// is left empty. A child that already has a parent is moved
func InsertBefore(parent, child, ref *html.Node) {
	if parent == nil || child == nil || child == ref {
		return
	}
	if IsFragment(child) {
		for c := child.FirstChild; c != nil; {
			next := c.NextSibling
			child.RemoveChild(c)
			parent.InsertBefore(c, ref)
			c = next
		}
		return
	}
	Detach(child)
	parent.InsertBefore(child, ref)
}

// Append adds child as the last child of parent
func Append(parent, child *html.Node) {
	InsertBefore(parent, child, nil)
}

// Prepend adds child as the first child of parent
func Prepend(parent, child *html.Node) {
	InsertBefore(parent, child, parent.FirstChild)
}

// Before inserts n right before ref. It reports false when ref has no parent
func Before(ref, n *html.Node) bool {
	if ref.Parent == nil {
		return false
	}
	InsertBefore(ref.Parent, n, ref)
	return true
}

// After inserts n right after ref. It reports false when ref has no parent
func After(ref, n *html.Node) bool {
	if ref.Parent == nil {
		return false
	}
	InsertBefore(ref.Parent, n, ref.NextSibling)
	return true
}

// ReplaceWith puts replacement at the position of old and detaches old.
// It reports false when old has no parent
func ReplaceWith(old, replacement *html.Node) bool {
	if old == replacement {
		return old.Parent != nil
	}
	parent := old.Parent
	if parent == nil {
		return false
	}
	InsertBefore(parent, replacement, old)
	parent.RemoveChild(old)
	return true
}

// ReplaceChildren drops every child of parent and appends children
func ReplaceChildren(parent *html.Node, children ...*html.Node) {
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		parent.RemoveChild(c)
		c = next
	}
	for _, c := range children {
		Append(parent, c)
	}
}

// Clone returns a deep copy of n without a parent
func Clone(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(Clone(child))
	}
	return c
}

// Rename builds an element named tag carrying the attributes of n and
// moves the children of n into it. n is left empty and keeps its place
func Rename(n *html.Node, tag string) *html.Node {
	el := NewElement(tag)
	el.Namespace = n.Namespace
	if len(n.Attr) > 0 {
		el.Attr = make([]html.Attribute, len(n.Attr))
		copy(el.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		el.AppendChild(c)
		c = next
	}
	return el
}

// ChildNodes returns the direct children of n
func ChildNodes(n *html.Node) []*html.Node {
	var nodes []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodes = append(nodes, c)
	}
	return nodes
}

// FirstElementChild returns the first element child of n or nil
func FirstElementChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// ChildElementCount counts the element children of n
func ChildElementCount(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			count++
		}
	}
	return count
}

// ParentElement returns the parent of n when it is an element
func ParentElement(n *html.Node) *html.Node {
	if n == nil || n.Parent == nil || n.Parent.Type != html.ElementNode {
		return nil
	}
	return n.Parent
}

// NextElementSibling returns the next element sibling of n or nil
func NextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// Body returns the <body> element of a document
func Body(doc *html.Node) *html.Node {
	return findElement(doc, atom.Body)
}

// Head returns the <head> element of a document
func Head(doc *html.Node) *html.Node {
	return findElement(doc, atom.Head)
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
