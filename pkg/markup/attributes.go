package markup

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"markupkit/internal/css"
	"markupkit/internal/dom"
)

// Declaration is one property of an inline style attribute
type Declaration = css.Declaration

var styleParser = css.NewParser()

// topElement returns the element an attribute utility works on: the element
// itself or the first element of a fragment or document body
func topElement(op string, n *html.Node) (*html.Node, error) {
	if dom.IsElement(n) {
		return n, nil
	}
	root := contentRoot(n)
	if root == nil {
		return nil, invalidFor(op, n)
	}
	el := dom.FirstElementChild(root)
	if el == nil {
		return nil, mishap(ErrInvalidOperation, op, "the %s has no element to work on", Classify(n)).inspect(n)
	}
	return el, nil
}

// editTop builds a transform that edits the top-level element of whatever
// container it is applied to. Markup in gives markup out
func editTop(op string, edit func(el *html.Node) error) Transform {
	var self Transform
	self = func(in Invocation) (any, error) {
		onNode := func(n *html.Node) (any, error) {
			el, err := topElement(op, n)
			if err != nil {
				return nil, err
			}
			return n, edit(el)
		}
		invalid := func(n any) (any, error) {
			return nil, mishap(ErrInvalidOperation, op,
				"you can not use the %s utility on a node of type %q", op, Classify(n)).inspect(n)
		}

		return NewSolver(op, nil, Handlers[any]{
			HTML: func(h string) (any, error) {
				frag, err := dom.ParseFragment(h)
				if err != nil {
					return nil, err
				}
				if _, err := self(Invocation{Node: frag}); err != nil {
					return nil, err
				}
				return ToHTML(frag)
			},
			Text:     func(t *html.Node) (any, error) { return invalid(t) },
			Comment:  func(c *html.Node) (any, error) { return invalid(c) },
			Node:     invalid,
			Element:  onNode,
			Fragment: onNode,
			Document: onNode,
		}).Solve(in.Node)
	}
	return self
}

// readTop resolves the top-level element for the read-only helpers
func readTop(op string, v any) (*html.Node, error) {
	switch Classify(v) {
	case KindHTML:
		frag, err := dom.ParseFragment(v.(string))
		if err != nil {
			return nil, err
		}
		return topElement(op, frag)
	case KindElement, KindFragment, KindDocument:
		return topElement(op, v.(*html.Node))
	}
	if el := elementShape(v); el != nil {
		return el, nil
	}
	return nil, invalidFor(op, v)
}

// GetAttribute returns the value of an attribute on the top-level element of
// v. The second result is false when the attribute is absent
func GetAttribute(v any, name string) (string, bool, error) {
	el, err := readTop(fmt.Sprintf("getAttribute(%s)", name), v)
	if err != nil {
		return "", false, err
	}
	value, ok := dom.Attr(el, name)
	return value, ok, nil
}

// SetAttribute sets an attribute on the top-level element
func SetAttribute(name, value string) Transform {
	return editTop(fmt.Sprintf("setAttribute(%s)", name), func(el *html.Node) error {
		return dom.SetAttr(el, name, value)
	})
}

// RemoveAttribute drops an attribute from the top-level element
func RemoveAttribute(name string) Transform {
	return editTop(fmt.Sprintf("removeAttribute(%s)", name), func(el *html.Node) error {
		return dom.RemoveAttr(el, name)
	})
}

// GetClassList returns the classes of the top-level element. nil gives an
// empty list
func GetClassList(v any) ([]string, error) {
	if isNil(v) {
		return []string{}, nil
	}
	el, err := readTop("getClassList", v)
	if err != nil {
		return nil, err
	}
	return dom.Classes(el), nil
}

func setClasses(el *html.Node, classes []string) error {
	if len(classes) == 0 {
		return dom.RemoveAttr(el, "class")
	}
	return dom.SetAttr(el, "class", strings.Join(classes, " "))
}

// AddClass adds classes to the top-level element. Classes already present
// are not repeated
func AddClass(classes ...string) Transform {
	return editTop("addClass", func(el *html.Node) error {
		current := dom.Classes(el)
		for _, c := range classes {
			for _, f := range strings.Fields(c) {
				if !slices.Contains(current, f) {
					current = append(current, f)
				}
			}
		}
		return setClasses(el, current)
	})
}

// RemoveClass removes classes from the top-level element. Classes that are
// not present are ignored
func RemoveClass(classes ...string) Transform {
	return editTop("removeClass", func(el *html.Node) error {
		kept := slices.DeleteFunc(dom.Classes(el), func(c string) bool {
			return slices.Contains(classes, c)
		})
		return setClasses(el, kept)
	})
}

// FilterClasses removes every class matching one of the filters. A filter
// is a string (exact match) or a *regexp.Regexp. onRemoved, when not nil,
// receives the removed classes, which lets a caller move them elsewhere
func FilterClasses(onRemoved func(removed []string), filters ...any) Transform {
	return editTop("filterClasses", func(el *html.Node) error {
		matchers := make([]func(string) bool, 0, len(filters))
		for _, f := range filters {
			switch t := f.(type) {
			case string:
				want := strings.TrimSpace(t)
				matchers = append(matchers, func(c string) bool { return c == want })
			case *regexp.Regexp:
				matchers = append(matchers, t.MatchString)
			default:
				return mishap(ErrInvalidInput, "filterClasses", "filters must be strings or regular expressions, got %T", f)
			}
		}

		var removed, kept []string
		for _, c := range dom.Classes(el) {
			if slices.ContainsFunc(matchers, func(m func(string) bool) bool { return m(c) }) {
				removed = append(removed, c)
			} else {
				kept = append(kept, c)
			}
		}
		if err := setClasses(el, kept); err != nil {
			return err
		}
		if onRemoved != nil {
			onRemoved(removed)
		}
		return nil
	})
}

// HasParentElement reports whether a node sits under an element. Markup
// never has one and a document always does
func HasParentElement(v any) bool {
	switch Classify(v) {
	case KindHTML, KindNode:
		return false
	case KindDocument:
		return true
	}
	return dom.ParentElement(v.(*html.Node)) != nil
}

// GetParent returns the parent element of a node, or nil
func GetParent(v any) *html.Node {
	if Classify(v) == KindDocument || !HasParentElement(v) {
		return nil
	}
	return dom.ParentElement(v.(*html.Node))
}

// GetStyle returns the inline style declarations of the top-level element
// in source order
func GetStyle(v any) ([]Declaration, error) {
	el, err := readTop("getStyle", v)
	if err != nil {
		return nil, err
	}
	style, _ := dom.Attr(el, "style")
	return styleParser.ParseInlineStyle(style), nil
}

// SetStyle sets one inline style property, keeping its position when it is
// already declared. A trailing "!important" on value is honored
func SetStyle(property, value string) Transform {
	return editTop(fmt.Sprintf("setStyle(%s)", property), func(el *html.Node) error {
		d, ok := styleParser.ParseDeclaration(property + ": " + value)
		if !ok {
			return mishap(ErrInvalidInput, "setStyle", "invalid declaration %q: %q", property, value)
		}
		style, _ := dom.Attr(el, "style")
		return dom.SetAttr(el, "style", styleParser.ParseInlineStyle(style).Set(d).String())
	})
}

// RemoveStyle drops an inline style property. The style attribute goes away
// with its last declaration
func RemoveStyle(property string) Transform {
	return editTop(fmt.Sprintf("removeStyle(%s)", property), func(el *html.Node) error {
		style, ok := dom.Attr(el, "style")
		if !ok {
			return nil
		}
		rest := styleParser.ParseInlineStyle(style).Remove(property)
		if len(rest) == 0 {
			return dom.RemoveAttr(el, "style")
		}
		return dom.SetAttr(el, "style", rest.String())
	})
}
