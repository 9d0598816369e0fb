package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestParseFragmentKeepsWhitespace(t *testing.T) {
	markup := "\n\t<span>one</span>\n  <b>two</b>\n"
	frag, err := ParseFragment(markup)
	require.NoError(t, err)

	assert.Equal(t, FragmentCode, TypeCode(frag))
	out, err := Render(frag)
	require.NoError(t, err)
	assert.Equal(t, markup, out)
}

func TestParseDocument(t *testing.T) {
	doc, err := NewDocument(`<p class="x">hi</p>`, "<title>t</title>")
	require.NoError(t, err)

	assert.Equal(t, DocumentCode, TypeCode(doc))
	require.NotNil(t, Body(doc))
	require.NotNil(t, Head(doc))

	inner, err := InnerHTML(Body(doc))
	require.NoError(t, err)
	assert.Equal(t, `<p class="x">hi</p>`, inner)
}

func TestIsDocumentMarkup(t *testing.T) {
	assert.True(t, IsDocumentMarkup("<html><body></body></html>"))
	assert.True(t, IsDocumentMarkup("<!DOCTYPE html><p>x</p>"))
	assert.False(t, IsDocumentMarkup("<div>html</div>"))
}

func TestTypeCodes(t *testing.T) {
	assert.Equal(t, ElementCode, TypeCode(NewElement("div")))
	assert.Equal(t, TextCode, TypeCode(NewText("x")))
	assert.Equal(t, CommentCode, TypeCode(NewComment("x")))
	assert.Equal(t, 0, TypeCode(nil))
	assert.Equal(t, 0, TypeCode(&html.Node{Type: html.RawNode}))
}

func TestInsertSplicesFragments(t *testing.T) {
	parent := NewElement("div")
	frag, err := ParseFragment("<i>a</i><b>b</b>")
	require.NoError(t, err)

	Append(parent, frag)
	out, err := Render(parent)
	require.NoError(t, err)
	assert.Equal(t, "<div><i>a</i><b>b</b></div>", out)
	assert.Nil(t, frag.FirstChild)
}

func TestBeforeAfterReplace(t *testing.T) {
	frag, err := ParseFragment("<ul><li>one</li><li>two</li></ul>")
	require.NoError(t, err)
	items, err := QuerySelectorAll(frag, "li")
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.True(t, Before(items[0], NewText("0")))
	require.True(t, After(items[1], NewText("3")))
	require.True(t, ReplaceWith(items[1], NewElement("hr")))
	assert.False(t, Before(NewElement("p"), NewText("x")))

	out, err := Render(frag)
	require.NoError(t, err)
	assert.Equal(t, "<ul>0<li>one</li><hr>3</ul>", out)
}

func TestCloneIsDeep(t *testing.T) {
	frag, err := ParseFragment(`<div class="a"><span>x</span></div>`)
	require.NoError(t, err)
	div := FirstElementChild(frag)

	c := Clone(div)
	require.NoError(t, SetAttr(c, "class", "b"))
	c.FirstChild.FirstChild.Data = "y"

	assert.Nil(t, c.Parent)
	out, err := Render(div)
	require.NoError(t, err)
	assert.Equal(t, `<div class="a"><span>x</span></div>`, out)
}

func TestRenameMovesChildren(t *testing.T) {
	frag, err := ParseFragment(`<span class="c">hello <b>you</b></span>`)
	require.NoError(t, err)
	span := FirstElementChild(frag)

	div := Rename(span, "DIV")
	require.True(t, ReplaceWith(span, div))

	out, err := Render(frag)
	require.NoError(t, err)
	assert.Equal(t, `<div class="c">hello <b>you</b></div>`, out)
	assert.Equal(t, "div", TagName(div))
}

func TestQueries(t *testing.T) {
	frag, err := ParseFragment(`<script setup></script><script lang="ts"></script><p class="a b">t</p>`)
	require.NoError(t, err)

	found, err := QuerySelectorAll(frag, "script:not([setup])")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	p, err := QuerySelector(frag, ".b")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, []string{"a", "b"}, Classes(p))
	assert.Equal(t, "t", TextContent(p))

	none, err := QuerySelector(frag, ".missing")
	require.NoError(t, err)
	assert.Nil(t, none)

	ok, err := Matches(p, "p.a")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = QuerySelectorAll(frag, "p[")
	assert.Error(t, err)
}

func TestRenderMatchesSourceMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"void elements", `<p>line<br>break<img src="a.png"></p>`},
		{"quotes in text", `<p>it's "quoted"</p>`},
		{"quotes in attributes", `<a title="it's &quot;this&quot;">x</a>`},
		{"nbsp", `<p>a&nbsp;b</p>`},
		{"raw text", `<style>p > a { color: red }</style>`},
		{"comment", `<!-- note --><p>x</p>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frag, err := ParseFragment(tt.in)
			require.NoError(t, err)
			out, err := Render(frag)
			require.NoError(t, err)
			assert.Equal(t, tt.in, out)
		})
	}
}

func TestOuterTag(t *testing.T) {
	tests := []struct {
		in   string
		tag  string
		want bool
	}{
		{"<td>x</td>", "td", true},
		{"  <DIV class='a'><div>in</div></DIV>\n", "div", true},
		{"<img src=a.png>", "img", true},
		{"<span/>", "span", true},
		{"<b>1</b><b>2</b>", "", false},
		{"text <b>x</b>", "", false},
		{"<!-- c --><b>x</b>", "", false},
		{"<p>unclosed", "", false},
		{"plain", "", false},
	}
	for _, tt := range tests {
		tag, ok := OuterTag(tt.in)
		assert.Equal(t, tt.want, ok, tt.in)
		if tt.want {
			assert.Equal(t, tt.tag, tag, tt.in)
		}
	}
}
