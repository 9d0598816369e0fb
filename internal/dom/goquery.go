package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// selection wraps a single node in a goquery selection
func selection(n *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(n).Selection
}

// Compile parses a CSS selector group
func Compile(selector string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return sel, nil
}

// QuerySelector returns the first descendant of root matching selector,
// or nil when nothing matches
func QuerySelector(root *html.Node, selector string) (*html.Node, error) {
	m, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	found := selection(root).FindMatcher(m).First()
	if found.Length() == 0 {
		return nil, nil
	}
	return found.Get(0), nil
}

// QuerySelectorAll returns every descendant of root matching selector in
// document order
func QuerySelectorAll(root *html.Node, selector string) ([]*html.Node, error) {
	m, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	return selection(root).FindMatcher(m).Nodes, nil
}

// Matches reports whether the element matches a CSS selector
func Matches(n *html.Node, selector string) (bool, error) {
	if !IsElement(n) {
		return false, nil
	}
	m, err := Compile(selector)
	if err != nil {
		return false, err
	}
	return selection(n).IsMatcher(m), nil
}

// TagName returns the element's tag name
func TagName(n *html.Node) string {
	if !IsElement(n) {
		return ""
	}
	return goquery.NodeName(selection(n))
}

// Attr returns an attribute value and whether it was present
func Attr(n *html.Node, name string) (string, bool) {
	return selection(n).Attr(name)
}

// SetAttr sets an attribute on the element
func SetAttr(n *html.Node, name, value string) error {
	if !IsElement(n) {
		return fmt.Errorf("no element to set attribute on")
	}
	selection(n).SetAttr(name, value)
	return nil
}

// RemoveAttr removes an attribute from the element
func RemoveAttr(n *html.Node, name string) error {
	if !IsElement(n) {
		return fmt.Errorf("no element to remove attribute from")
	}
	selection(n).RemoveAttr(name)
	return nil
}

// Classes returns the element's class list
func Classes(n *html.Node) []string {
	class, exists := Attr(n, "class")
	if !exists || class == "" {
		return []string{}
	}
	return strings.Fields(class)
}

// TextContent returns the concatenated text of n and its descendants
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	return selection(n).Text()
}

// OuterHTML returns the outer HTML of an element
func OuterHTML(n *html.Node) (string, error) {
	if n == nil {
		return "", nil
	}
	return Render(n)
}
