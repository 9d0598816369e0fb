package markup

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"markupkit/internal/dom"
)

// Handling decides what a query does when nothing matches
type Handling int

const (
	// HandleNil returns a nil element and no error
	HandleNil Handling = iota
	// HandleError returns an ErrNotFound mishap
	HandleError
)

// queryRoot resolves the node a query searches under. Markup holding an
// <html> tag is parsed as a document; documents are searched from the body
func queryRoot(op string, source any) (*html.Node, error) {
	if h, ok := source.(string); ok {
		var (
			n   *html.Node
			err error
		)
		if dom.IsDocumentMarkup(h) {
			n, err = dom.ParseDocument(h)
		} else {
			n, err = dom.ParseFragment(h)
		}
		if err != nil {
			return nil, mishap(ErrInvalidInput, op, "could not parse the query source").inspect(h).wrap(err)
		}
		source = n
	}
	switch Classify(source) {
	case KindDocument:
		return dom.Body(source.(*html.Node)), nil
	case KindElement, KindFragment:
		return source.(*html.Node), nil
	}
	if el := elementShape(source); el != nil {
		return el, nil
	}
	return nil, invalidFor(op, source)
}

func selectorError(op, selector string, err error) error {
	m := mishap(ErrInvalidInput, op, "invalid selector").wrap(err)
	m.Selector = selector
	return m
}

// Query returns the first element under source matching selector. What
// happens when nothing matches depends on handling
func Query(source any, selector string, handling Handling) (*html.Node, error) {
	root, err := queryRoot("query", source)
	if err != nil {
		return nil, err
	}
	found, err := dom.QuerySelector(root, selector)
	if err != nil {
		return nil, selectorError("query", selector, err)
	}
	if found == nil && handling == HandleError {
		m := mishap(ErrNotFound, "query", "failed to find an HTML element for the selector in a %s", Classify(source))
		m.Selector = selector
		return nil, m
	}
	return found, nil
}

// QueryAll returns every element under source matching selector
func QueryAll(source any, selector string) ([]*html.Node, error) {
	root, err := queryRoot("queryAll", source)
	if err != nil {
		return nil, err
	}
	found, err := dom.QuerySelectorAll(root, selector)
	if err != nil {
		return nil, selectorError("queryAll", selector, err)
	}
	return found, nil
}

// TextCriteria filters elements, usually on their text content
type TextCriteria struct {
	name       string
	comparator string
	match      func(el *html.Node) bool
}

func (c TextCriteria) String() string {
	return fmt.Sprintf("%s %q", c.name, c.comparator)
}

func textCriteria(name, comparator string, test func(text string) bool) TextCriteria {
	return TextCriteria{
		name:       name,
		comparator: comparator,
		match:      func(el *html.Node) bool { return test(dom.TextContent(el)) },
	}
}

// TextContains matches elements whose text contains s
func TextContains(s string) TextCriteria {
	return textCriteria("contains", s, func(t string) bool { return strings.Contains(t, s) })
}

// TextStartsWith matches elements whose text starts with s
func TextStartsWith(s string) TextCriteria {
	return textCriteria("startsWith", s, func(t string) bool { return strings.HasPrefix(t, s) })
}

// TextEndsWith matches elements whose text ends with s
func TextEndsWith(s string) TextCriteria {
	return textCriteria("endsWith", s, func(t string) bool { return strings.HasSuffix(t, s) })
}

// TextDoesNotContain matches elements whose text lacks s
func TextDoesNotContain(s string) TextCriteria {
	return textCriteria("doesNotContain", s, func(t string) bool { return !strings.Contains(t, s) })
}

// TextMatches matches elements whose text matches re
func TextMatches(re *regexp.Regexp) TextCriteria {
	return textCriteria("regex", re.String(), re.MatchString)
}

// ElementWhere matches elements for which fn returns true
func ElementWhere(fn func(el *html.Node) bool) TextCriteria {
	return TextCriteria{name: "callback", comparator: "func", match: fn}
}

// FindWhere returns the first element matching both selector and criteria
func FindWhere(source any, selector string, handling Handling, criteria TextCriteria) (*html.Node, error) {
	all, err := QueryAll(source, selector)
	if err != nil {
		return nil, err
	}
	for _, el := range all {
		if criteria.match(el) {
			return el, nil
		}
	}
	if handling == HandleError {
		m := mishap(ErrNotFound, "findWhere",
			"failed to find any elements which met the selector as well as the %s criteria", criteria)
		m.Selector = selector
		return nil, m
	}
	return nil, nil
}

// FindAllWhere returns every element matching both selector and criteria
func FindAllWhere(source any, selector string, criteria TextCriteria) ([]*html.Node, error) {
	all, err := QueryAll(source, selector)
	if err != nil {
		return nil, err
	}
	var out []*html.Node
	for _, el := range all {
		if criteria.match(el) {
			out = append(out, el)
		}
	}
	return out, nil
}
