package markup

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"markupkit/internal/dom"
)

func htmlSolver() Solver[string] {
	var s Solver[string]
	s = NewSolver("toHTML", nil, Handlers[string]{
		HTML: func(h string) (string, error) { return h, nil },
		Text: func(t *html.Node) (string, error) {
			if t.Type == html.RawNode || dom.InRawText(t) {
				return t.Data, nil
			}
			return dom.EscapeText(t.Data), nil
		},
		Comment: func(c *html.Node) (string, error) {
			return "<!--" + c.Data + "-->", nil
		},
		Element: dom.OuterHTML,
		Document: func(d *html.Node) (string, error) {
			var b strings.Builder
			b.WriteString("<html>")
			if head := dom.Head(d); head != nil && head.FirstChild != nil {
				out, err := dom.OuterHTML(head)
				if err != nil {
					return "", err
				}
				b.WriteString(out)
			}
			if body := dom.Body(d); body != nil {
				out, err := dom.OuterHTML(body)
				if err != nil {
					return "", err
				}
				b.WriteString(out)
			}
			b.WriteString("</html>")
			return b.String(), nil
		},
		Fragment: func(f *html.Node) (string, error) {
			if IsElementLike(f) {
				return dom.OuterHTML(f.FirstChild)
			}
			var b strings.Builder
			for c := f.FirstChild; c != nil; c = c.NextSibling {
				out, err := s.Solve(c)
				if err != nil {
					return "", err
				}
				b.WriteString(out)
			}
			return b.String(), nil
		},
		Node: func(n any) (string, error) {
			if el := elementShape(n); el != nil {
				return dom.OuterHTML(el)
			}
			if t := textShape(n); t != nil {
				return t.Data, nil
			}
			if hn, ok := n.(*html.Node); ok && hn.Type == html.DoctypeNode {
				return dom.Render(hn)
			}
			return "", mishap(ErrUnhandledNodeType, "toHTML(node)",
				"unknown node type detected while converting to HTML: %T", n).inspect(n)
		},
	})
	return s
}

// ToHTML normalizes a node, markup, or a slice of them down to markup
// nil gives the empty string
func ToHTML(v any) (string, error) {
	if isNil(v) {
		return "", nil
	}

	s := htmlSolver()
	var items []any
	switch v.(type) {
	case []any, []string, []*html.Node:
		items = flatten(v)
	default:
		out, err := s.Solve(v)
		if err != nil {
			return "", mishap(nil, "toHTML("+Classify(v).String()+")",
				"problem converting %q to HTML", Classify(v)).inspect(v).wrap(err)
		}
		return out, nil
	}

	var b strings.Builder
	for _, item := range items {
		if isNil(item) {
			continue
		}
		out, err := s.Solve(item)
		if err != nil {
			kinds := make([]string, len(items))
			for i, it := range items {
				kinds[i] = Classify(it).String()
			}
			var first any
			if len(items) > 0 {
				first = items[0]
			}
			return "", mishap(nil, "toHTML([...])",
				"problem converting an array of %d nodes [%s] to HTML", len(items), strings.Join(kinds, ", ")).
				inspect(first).wrap(err)
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// Clone deep-copies any container; markup is returned as is
func Clone[T any](v T) (T, error) {
	var zero T
	out, err := NewSolver("clone", nil, Handlers[any]{
		HTML:     func(h string) (any, error) { return strings.Clone(h), nil },
		Text:     func(t *html.Node) (any, error) { return dom.Clone(t), nil },
		Comment:  func(c *html.Node) (any, error) { return dom.Clone(c), nil },
		Element:  func(e *html.Node) (any, error) { return dom.Clone(e), nil },
		Fragment: func(f *html.Node) (any, error) { return dom.Clone(f), nil },
		Document: func(d *html.Node) (any, error) { return dom.Clone(d), nil },
		Node: func(n any) (any, error) {
			return nil, mishap(ErrInvalidOperation, "clone", "can't clone an unknown node").inspect(n)
		},
	}).Solve(v)
	if err != nil {
		return zero, err
	}
	typed, ok := out.(T)
	if !ok {
		return zero, mishap(ErrInvalidOperation, "clone", "clone produced %T", out).inspect(v)
	}
	return typed, nil
}

var stripAll = bluemonday.StrictPolicy()

// SafeString returns the text of s with all markup removed
func SafeString(s string) string {
	return html.UnescapeString(stripAll.Sanitize(s))
}
