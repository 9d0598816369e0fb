package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// voidElements never take children or a closing tag
var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Keygen: true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\u00a0", "&nbsp;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "\u00a0", "&nbsp;")
)

// IsVoid reports whether n is a void element such as <br> or <img>
func IsVoid(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && n.Namespace == "" && voidElements[n.DataAtom]
}

// EscapeText escapes text content the way a browser's innerHTML does
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeAttr escapes a double-quoted attribute value
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// Render serializes n as HTML. Void elements are written without a
// closing slash and only the characters that must be escaped are.
// Document and fragment roots render their children
func Render(n *html.Node) (string, error) {
	var b strings.Builder
	if err := render(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

// InnerHTML serializes the children of n
func InnerHTML(n *html.Node) (string, error) {
	var b strings.Builder
	if n == nil {
		return "", nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func render(b *strings.Builder, n *html.Node) error {
	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := render(b, c); err != nil {
				return err
			}
		}
	case html.TextNode:
		if InRawText(n) {
			b.WriteString(n.Data)
		} else {
			b.WriteString(EscapeText(n.Data))
		}
	case html.RawNode:
		b.WriteString(n.Data)
	case html.CommentNode:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case html.DoctypeNode:
		if err := html.Render(b, n); err != nil {
			return fmt.Errorf("failed to serialize doctype: %w", err)
		}
	case html.ElementNode:
		b.WriteByte('<')
		b.WriteString(n.Data)
		for _, a := range n.Attr {
			b.WriteByte(' ')
			if a.Namespace != "" {
				b.WriteString(a.Namespace)
				b.WriteByte(':')
			}
			b.WriteString(a.Key)
			b.WriteString(`="`)
			b.WriteString(EscapeAttr(a.Val))
			b.WriteByte('"')
		}
		b.WriteByte('>')
		if IsVoid(n) {
			return nil
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := render(b, c); err != nil {
				return err
			}
		}
		b.WriteString("</")
		b.WriteString(n.Data)
		b.WriteByte('>')
	default:
		return fmt.Errorf("failed to serialize HTML: unknown node type %d", n.Type)
	}
	return nil
}
