package dom

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var documentMarkup = regexp.MustCompile(`(?i)<html[\s>]|<!doctype\s`)

// IsDocumentMarkup reports whether markup describes a whole document
// rather than a fragment
func IsDocumentMarkup(markup string) bool {
	return documentMarkup.MatchString(markup)
}

// ParseFragment parses markup as the content of a <body> element and
// returns a fragment root holding the resulting nodes. Whitespace text is
// kept as is
func ParseFragment(markup string) (*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML fragment: %w", err)
	}

	root := NewFragment()
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

// ParseDocument parses markup into a full document
func ParseDocument(markup string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// NewDocument builds a document from body and head markup
func NewDocument(body, head string) (*html.Node, error) {
	return ParseDocument("<html><head>" + head + "</head><body>" + body + "</body></html>")
}

// NewFragment returns an empty fragment root
func NewFragment() *html.Node {
	return &html.Node{Type: html.DocumentNode}
}

// NewElement returns an empty, parentless element. Tag names are
// lower-cased the same way the parser does it
func NewElement(tag string) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

// NewText returns a parentless text node
func NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// NewComment returns a parentless comment node
func NewComment(text string) *html.Node {
	return &html.Node{Type: html.CommentNode, Data: text}
}

// OuterTag reads the tag name of markup that holds exactly one top-level
// element, surrounding whitespace aside. It works on tokens, so tags the
// tree builder drops out of context (a lone <td>) are still reported
func OuterTag(markup string) (string, bool) {
	z := html.NewTokenizer(strings.NewReader(markup))
	var tag string
	depth := 0
	closed := false
	outside := func() bool { return tag == "" || closed }

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return tag, closed && z.Err() == io.EOF
		case html.TextToken:
			if outside() && strings.TrimSpace(string(z.Text())) != "" {
				return "", false
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			if closed {
				return "", false
			}
			name, _ := z.TagName()
			if tag == "" {
				tag = string(name)
				if tt == html.SelfClosingTagToken || voidElements[atom.Lookup(name)] {
					closed = true
				} else {
					depth = 1
				}
				continue
			}
			if tt == html.StartTagToken && string(name) == tag {
				depth++
			}
		case html.EndTagToken:
			if outside() {
				return "", false
			}
			name, _ := z.TagName()
			if string(name) == tag {
				depth--
				closed = depth == 0
			}
		default:
			if outside() {
				return "", false
			}
		}
	}
}
