package markup

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"markupkit/internal/dom"
)

// GetChildren returns the element and text children of a container.
// Nested fragments are flattened and comments are skipped
func GetChildren(v any) ([]*html.Node, error) {
	n, ok := v.(*html.Node)
	if !ok || n == nil {
		if h, isHTML := v.(string); isHTML {
			frag, err := dom.ParseFragment(h)
			if err != nil {
				return nil, err
			}
			n = frag
		} else {
			return nil, mishap(ErrInvalidInput, "getChildren()", "expected a container").inspect(v)
		}
	}
	if dom.IsDocument(n) {
		n = dom.Body(n)
	}

	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch Classify(c) {
		case KindElement, KindText:
			out = append(out, c)
		case KindFragment, KindDocument:
			nested, err := GetChildren(c)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		}
	}
	return out, nil
}

// GetChildElements returns only the element children of a container
func GetChildElements(v any) ([]*html.Node, error) {
	children, err := GetChildren(v)
	if err != nil {
		return nil, err
	}
	out := children[:0]
	for _, c := range children {
		if dom.IsElement(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// insertable turns an argument into a node ready to be inserted. Markup
// becomes a fragment. Nodes are copied when fresh is set so one argument
// can be inserted at every match of an UpdateAll
func insertable(v any, fresh bool) (*html.Node, error) {
	switch t := v.(type) {
	case string:
		return dom.ParseFragment(t)
	case *html.Node:
		if t == nil {
			return nil, mishap(ErrInvalidInput, "insert", "nil node")
		}
		if fresh {
			return dom.Clone(t), nil
		}
		return t, nil
	}
	if el := elementShape(v); el != nil {
		if fresh {
			return dom.Clone(el), nil
		}
		return el, nil
	}
	return nil, mishap(ErrInvalidInput, "insert", "can not insert a value of type %T", v).inspect(v)
}

// Append adds nodes, in argument order, as the last children of the
// container it is applied to. Markup in gives markup out
func Append(nodes ...any) Transform {
	items := flatten(nodes)
	var self Transform
	self = func(in Invocation) (any, error) {
		add := func(parent *html.Node) error {
			for _, item := range items {
				n, err := insertable(item, in.Update)
				if err != nil {
					return err
				}
				dom.Append(parent, n)
			}
			return nil
		}

		return NewSolver("append", []Kind{KindText, KindComment, KindNode}, Handlers[any]{
			HTML: func(h string) (any, error) {
				el, err := CreateElement(h)
				if err != nil {
					return nil, err
				}
				if _, err := self(Invocation{Node: el}); err != nil {
					return nil, err
				}
				return ToHTML(el)
			},
			Element: func(e *html.Node) (any, error) {
				return e, add(e)
			},
			Fragment: func(f *html.Node) (any, error) {
				return f, add(f)
			},
			Document: func(d *html.Node) (any, error) {
				return d, add(dom.Body(d))
			},
		}).Solve(in.Node)
	}
	return self
}

// Prepend adds a node as the first child of the container it is applied to
func Prepend(node any) Transform {
	var self Transform
	self = func(in Invocation) (any, error) {
		add := func(parent *html.Node) error {
			n, err := insertable(node, in.Update)
			if err != nil {
				return err
			}
			dom.Prepend(parent, n)
			return nil
		}

		return NewSolver("prepend", []Kind{KindText, KindComment, KindNode}, Handlers[any]{
			HTML: func(h string) (any, error) {
				frag, err := dom.ParseFragment(h)
				if err != nil {
					return nil, err
				}
				target := frag
				if IsElementLike(frag) {
					target = frag.FirstChild
				}
				if _, err := self(Invocation{Node: target}); err != nil {
					return nil, err
				}
				return ToHTML(frag)
			},
			Element: func(e *html.Node) (any, error) {
				return e, add(e)
			},
			Fragment: func(f *html.Node) (any, error) {
				return f, add(f)
			},
			Document: func(d *html.Node) (any, error) {
				return d, add(dom.Body(d))
			},
		}).Solve(in.Node)
	}
	return self
}

// normalizeParent upgrades a wrapper argument to a live container
func normalizeParent(parent any) (*html.Node, error) {
	if isNil(parent) {
		return dom.NewFragment(), nil
	}
	switch Classify(parent) {
	case KindHTML:
		return CreateFragment(parent)
	case KindElement, KindFragment, KindDocument, KindText:
		return parent.(*html.Node), nil
	}
	if el := elementShape(parent); el != nil {
		return el, nil
	}
	return nil, invalidFor("into()", parent)
}

// Into wraps content into parent. Markup parents are parsed into a
// fragment and nil gives a fresh fragment. When the parent already has
// element children the content goes into its first element child
//
// Called from a selection the matched element is the content: it moves
// into the parent, which is reduced to one element and takes its place
func Into(parent any) Transform {
	_, wrapped := parent.(string)
	var pristine *html.Node
	if n, ok := parent.(*html.Node); ok && n != nil {
		pristine = dom.Clone(n)
	}
	return func(in Invocation) (any, error) {
		p := parent
		if pristine != nil && in.Update && in.Index > 0 {
			p = dom.Clone(pristine)
		}
		normalized, err := normalizeParent(p)
		if err != nil {
			return nil, err
		}
		if dom.IsText(normalized) || IsTextNodeLike(normalized) {
			out, _ := ToHTML(normalized)
			return nil, mishap(ErrInvalidOperation, "into()",
				"the wrapper node is wrapping a text node; this is not allowed. Parent HTML: %q", out).inspect(parent)
		}

		target := normalized
		if dom.IsDocument(target) {
			target = dom.Body(target)
		}
		if dom.ChildElementCount(target) > 0 {
			target = dom.FirstElementChild(target)
		}

		if matched, ok := in.Node.(*html.Node); ok && in.Update && dom.IsElement(matched) {
			home, next := matched.Parent, matched.NextSibling
			dom.Append(target, matched)
			replacement, err := singleElement(normalized)
			if err != nil {
				return nil, err
			}
			if home != nil {
				dom.InsertBefore(home, replacement, next)
			}
			return replacement, nil
		}

		content, err := transientFragment(flatten(in.Node))
		if err != nil {
			return nil, err
		}
		dom.Append(target, content)

		if wrapped && !in.Update {
			return ToHTML(normalized)
		}
		return normalized, nil
	}
}

// transientFragment copies content into a new fragment. Runs of markup are
// parsed together so adjacent text merges. Nodes are deep-copied
func transientFragment(items []any) (*html.Node, error) {
	frag := dom.NewFragment()
	var pending strings.Builder
	flush := func() error {
		if pending.Len() == 0 {
			return nil
		}
		parsed, err := dom.ParseFragment(pending.String())
		if err != nil {
			return err
		}
		pending.Reset()
		dom.Append(frag, parsed)
		return nil
	}

	for _, item := range items {
		if isNil(item) {
			continue
		}
		n, isNode := item.(*html.Node)
		if !isNode {
			n = elementShape(item)
		}
		if n == nil {
			markup, err := ToHTML(item)
			if err != nil {
				return nil, err
			}
			pending.WriteString(markup)
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		if dom.IsDocument(n) {
			n = dom.Body(n)
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				dom.Append(frag, dom.Clone(c))
			}
			continue
		}
		dom.Append(frag, dom.Clone(n))
	}
	return frag, flush()
}

// singleElement reduces a container to one element
func singleElement(n *html.Node) (*html.Node, error) {
	switch {
	case dom.IsElement(n):
		return n, nil
	case IsElementLike(n):
		el := contentRoot(n).FirstChild
		dom.Detach(el)
		return el, nil
	}
	markup, err := ToHTML(n)
	if err != nil {
		return nil, err
	}
	return CreateElement(markup)
}

// Wrap is Into with its arguments the other way around: it takes the
// content first and the parent when applied. Inside a selection the matched
// element is the parent
func Wrap(children ...any) Transform {
	return func(in Invocation) (any, error) {
		return Into(in.Node)(Invocation{Node: children})
	}
}

// insertion builds the node placed by Before and After. Markup may hold
// several nodes; they are all inserted
func insertion(v any, fresh bool) (*html.Node, error) {
	if h, ok := v.(string); ok {
		return dom.ParseFragment(h)
	}
	n, err := CreateNode(v)
	if err != nil {
		return nil, err
	}
	if fresh {
		return dom.Clone(n), nil
	}
	return n, nil
}

const noParentMessage = `the %s() utility depends on having a parent element in the target node ` +
	`as the parent's value must be mutated. If you do genuinely want this behavior then use a ` +
	`fragment (or just HTML strings)`

// Before inserts beforeNode immediately ahead of the node it is applied
// to. Elements need a parent and text needs a parent element; fragments
// and documents get the node prepended
func Before(beforeNode any) Transform {
	var self Transform
	self = func(in Invocation) (any, error) {
		op := func(n any) string {
			return fmt.Sprintf("before(%s)(%s)", Classify(beforeNode), Classify(n))
		}
		insert := func(n any, place func(*html.Node) bool) (any, error) {
			node, err := insertion(beforeNode, in.Update)
			if err != nil {
				return nil, err
			}
			if !place(node) {
				return nil, mishap(ErrMissingParent, op(n), noParentMessage, "before").inspect(n)
			}
			return n, nil
		}

		return NewSolver("before", nil, Handlers[any]{
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
			Text: func(t *html.Node) (any, error) {
				return insert(t, func(n *html.Node) bool {
					return dom.ParentElement(t) != nil && dom.Before(t, n)
				})
			},
			Comment: func(c *html.Node) (any, error) {
				return insert(c, func(n *html.Node) bool { return dom.Before(c, n) })
			},
			Element: func(e *html.Node) (any, error) {
				return insert(e, func(n *html.Node) bool { return dom.Before(e, n) })
			},
			Fragment: func(f *html.Node) (any, error) {
				return insert(f, func(n *html.Node) bool { dom.Prepend(f, n); return true })
			},
			Document: func(d *html.Node) (any, error) {
				return insert(d, func(n *html.Node) bool { dom.Prepend(dom.Body(d), n); return true })
			},
			Node: func(n any) (any, error) {
				return nil, mishap(ErrInvalidOperation, op(n),
					"the before() utility was passed an invalid container type for the target node: %s", Classify(n)).inspect(n)
			},
		}).Solve(in.Node)
	}
	return self
}

// After inserts afterNode immediately behind the element it is applied to.
// Fragments and documents get the node appended
func After(afterNode any) Transform {
	var self Transform
	self = func(in Invocation) (any, error) {
		op := func(n any) string {
			return fmt.Sprintf("after(%s)(%s)", Classify(afterNode), Classify(n))
		}
		insert := func(n any, place func(*html.Node) bool) (any, error) {
			node, err := insertion(afterNode, in.Update)
			if err != nil {
				return nil, err
			}
			if !place(node) {
				return nil, mishap(ErrMissingParent, op(n), noParentMessage, "after").inspect(n)
			}
			return n, nil
		}
		invalid := func(n any) (any, error) {
			return nil, mishap(ErrInvalidOperation, op(n),
				"the after() utility was passed an invalid container type: %s", Classify(n)).inspect(n)
		}

		return NewSolver("after", nil, Handlers[any]{
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
			Text:    func(t *html.Node) (any, error) { return invalid(t) },
			Comment: func(c *html.Node) (any, error) { return invalid(c) },
			Node:    invalid,
			Element: func(e *html.Node) (any, error) {
				return insert(e, func(n *html.Node) bool { return dom.After(e, n) })
			},
			Fragment: func(f *html.Node) (any, error) {
				return insert(f, func(n *html.Node) bool { dom.Append(f, n); return true })
			},
			Document: func(d *html.Node) (any, error) {
				return insert(d, func(n *html.Node) bool { dom.Append(dom.Body(d), n); return true })
			},
		}).Solve(in.Node)
	}
	return self
}

// ReplaceElement puts newElement where the element it is applied to sits
// under its parent. The old element is located by identity, so identical
// siblings are never confused. Without a parent the new element is just
// returned
func ReplaceElement(newElement any) Transform {
	return func(in Invocation) (any, error) {
		return NewSolver("replaceElement", []Kind{KindHTML, KindText, KindComment, KindFragment, KindDocument}, Handlers[any]{
			Element: func(old *html.Node) (any, error) {
				replacement, err := CreateElement(newElement)
				if err != nil {
					return nil, err
				}
				if n, ok := newElement.(*html.Node); ok && in.Update && in.Index > 0 && n == replacement {
					replacement = dom.Clone(replacement)
				}
				if replacement != old {
					dom.ReplaceWith(old, replacement)
				}
				return replacement, nil
			},
		}).Solve(in.Node)
	}
}

// renameMarkup swaps the outer open and close tag tokens of markup.
// It reports false when the markup does not start with the open tag
func renameMarkup(h, from, to string) (string, bool) {
	open := regexp.MustCompile(`(?i)^(\s*)<` + regexp.QuoteMeta(from) + `([\s/>])`)
	if !open.MatchString(h) {
		return h, false
	}
	closing := regexp.MustCompile(`(?i)</` + regexp.QuoteMeta(from) + `\s*>(\s*)$`)
	h = open.ReplaceAllString(h, "${1}<"+to+"${2}")
	h = closing.ReplaceAllString(h, "</"+to+">${1}")
	return h, true
}

// ChangeTagName renames the top-level element of a container while keeping
// its place under its parent. Renaming to the current tag (compared
// case-insensitively) returns the input untouched. Markup holding a single
// element is renamed on its tag text, and a parentless element is renamed
// as a copy so the caller's node keeps its children
func ChangeTagName(tagName string) Transform {
	same := func(tag string) bool { return strings.EqualFold(tag, tagName) }
	invalid := func(n any) (any, error) {
		return nil, mishap(ErrInvalidOperation, fmt.Sprintf("changeTagName(%s)", Classify(n)),
			"attempt to change the tag name of a %s node. This is not allowed.", Classify(n)).inspect(n)
	}

	var self Transform
	self = func(in Invocation) (any, error) {
		return NewSolver("changeTagName", nil, Handlers[any]{
			HTML: func(h string) (any, error) {
				if tag, ok := dom.OuterTag(h); ok {
					if same(tag) {
						return h, nil
					}
					if out, ok := renameMarkup(h, tag, tagName); ok {
						return out, nil
					}
				}
				frag, err := dom.ParseFragment(h)
				if err != nil {
					return nil, err
				}
				first := dom.FirstElementChild(frag)
				if first == nil {
					return nil, mishap(ErrInvalidOperation, "changeTagName(html)",
						"markup passed into changeTagName() has no element").inspect(h)
				}
				if same(first.Data) {
					return h, nil
				}
				if _, err := self(Invocation{Node: first}); err != nil {
					return nil, err
				}
				return ToHTML(frag)
			},
			Text:    func(t *html.Node) (any, error) { return invalid(t) },
			Comment: func(c *html.Node) (any, error) { return invalid(c) },
			Node:    invalid,
			Element: func(el *html.Node) (any, error) {
				if same(el.Data) {
					return el, nil
				}
				if el.Parent == nil {
					return dom.Rename(dom.Clone(el), tagName), nil
				}
				renamed := dom.Rename(el, tagName)
				return ReplaceElement(renamed)(Invocation{Node: el})
			},
			Fragment: func(f *html.Node) (any, error) {
				first := dom.FirstElementChild(f)
				if first == nil {
					return nil, mishap(ErrInvalidOperation, "changeTagName(fragment)",
						"fragment passed into changeTagName() has no elements as children").inspect(f)
				}
				if _, err := self(Invocation{Node: first}); err != nil {
					return nil, err
				}
				return f, nil
			},
			Document: func(d *html.Node) (any, error) {
				body := dom.Body(d)
				first := dom.FirstElementChild(body)
				if first == nil {
					return nil, mishap(ErrInvalidOperation, "changeTagName(document)",
						"document passed into changeTagName() has no elements in its body").inspect(d)
				}
				if _, err := self(Invocation{Node: first}); err != nil {
					return nil, err
				}
				bodyHTML, err := dom.InnerHTML(body)
				if err != nil {
					return nil, err
				}
				headHTML, err := dom.InnerHTML(dom.Head(d))
				if err != nil {
					return nil, err
				}
				return dom.NewDocument(bodyHTML, headHTML)
			},
		}).Solve(in.Node)
	}
	return self
}

// remember stores a deep copy of v in memory
func remember(memory *[]*html.Node, v any) error {
	if memory == nil {
		return nil
	}
	n, err := CreateNode(v)
	if err != nil {
		return err
	}
	*memory = append(*memory, dom.Clone(n))
	return nil
}

// Extract asks a selection to remove the matched node. When memory is
// given a deep copy of the node is kept there first
//
//	var memory []*html.Node
//	out, err := markup.Select(tree).UpdateAll(".bad-juju", markup.Extract(&memory)).ToContainer()
func Extract(memory *[]*html.Node) Transform {
	return func(in Invocation) (any, error) {
		if err := remember(memory, in.Node); err != nil {
			return nil, err
		}
		return false, nil
	}
}

// Placeholder swaps the element for a placeholder, keeping a deep copy of
// the original in memory when given. The default placeholder is an empty
// <placeholder> element; either way it receives the original's classes
func Placeholder(memory *[]*html.Node, placeholder *html.Node) Transform {
	return func(in Invocation) (any, error) {
		node, ok := in.Node.(*html.Node)
		if !ok || !dom.IsElement(node) {
			return nil, invalidFor("placeholder()", in.Node)
		}
		if err := remember(memory, node); err != nil {
			return nil, err
		}

		el := dom.NewElement("placeholder")
		if placeholder != nil {
			el = placeholder
			if in.Index > 0 || placeholder.Parent != nil {
				el = dom.Clone(placeholder)
			}
		}
		if classes := dom.Classes(node); len(classes) > 0 {
			if _, err := AddClass(classes...).Apply(el); err != nil {
				return nil, err
			}
		}
		dom.ReplaceWith(node, el)
		return el, nil
	}
}
