package markup

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"markupkit/internal/dom"
)

const topicsPage = `
<html>
<div id="title" class="title">To be or not to be</div>
<ul class="a-list-above-all-others">
  <li>one</li>
  <li>two</li>
  <li>three</li>
</ul>
<div class="topic">topic one</div>
<div class="topic">topic two</div>
<div class="topic">
  topic three
  <span class="foo bar">foobar</span>
</div>
<div class="topic">something else</div>
</html>
`

func TestQuery(t *testing.T) {
	one, err := Query(topicsPage, "ul li", HandleError)
	require.NoError(t, err)
	assert.Equal(t, "one", dom.TextContent(one))

	list, err := Query(topicsPage, "ul", HandleError)
	require.NoError(t, err)
	assert.Equal(t, 3, dom.ChildElementCount(list))

	_, err = Query(topicsPage, "#not-here", HandleError)
	require.ErrorIs(t, err, ErrNotFound)
	var m *Mishap
	require.ErrorAs(t, err, &m)
	assert.Equal(t, "#not-here", m.Selector)

	missing, err := Query(topicsPage, "#not-here", HandleNil)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = Query(topicsPage, "li[", HandleNil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Query(CreateTextNode("x"), "li", HandleNil)
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestQueryAll(t *testing.T) {
	all, err := QueryAll(topicsPage, "ul li")
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, el := range all {
		assert.Equal(t, "li", el.Data)
	}

	el, err := CreateElement("<div><b>1</b><b>2</b></div>")
	require.NoError(t, err)
	bold, err := QueryAll(el, "b")
	require.NoError(t, err)
	assert.Len(t, bold, 2)
}

func TestFindWhere(t *testing.T) {
	two, err := FindWhere(topicsPage, ".topic", HandleNil, TextContains("two"))
	require.NoError(t, err)
	require.NotNil(t, two)
	assert.Equal(t, "topic two", dom.TextContent(two))

	missing, err := FindWhere(topicsPage, ".topic-schmopic", HandleNil, TextContains("two"))
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = FindWhere(topicsPage, ".topic", HandleError, TextStartsWith("nope"))
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `startsWith "nope"`)

	three, err := FindWhere(topicsPage, ".topic", HandleError, ElementWhere(func(el *html.Node) bool {
		return dom.ChildElementCount(el) > 0
	}))
	require.NoError(t, err)
	assert.Contains(t, dom.TextContent(three), "foobar")
}

func TestFindAllWhere(t *testing.T) {
	tests := []struct {
		name     string
		criteria TextCriteria
		want     int
	}{
		{"does not contain", TextDoesNotContain("topic"), 1},
		{"contains", TextContains("topic"), 3},
		{"ends with", TextEndsWith("one"), 1},
		{"regex", TextMatches(regexp.MustCompile(`^topic (one|two)$`)), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := FindAllWhere(topicsPage, ".topic", tt.criteria)
			require.NoError(t, err)
			assert.Len(t, found, tt.want)
		})
	}
}

func TestTraverseUpward(t *testing.T) {
	root, err := CreateElement(`<section class="outer"><div class="mid"><p><b>x</b></p></div></section>`)
	require.NoError(t, err)
	b, err := Query(root, "b", HandleError)
	require.NoError(t, err)

	mid, err := TraverseUpward(b, ".mid")
	require.NoError(t, err)
	assert.Equal(t, "div", mid.Data)

	outer, err := TraverseUpward(b, "section")
	require.NoError(t, err)
	assert.Same(t, root, outer)

	_, err = TraverseUpward(b, "article")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPeers(t *testing.T) {
	el, err := CreateElement(`<div><div class="one"></div><div class="two">TWO</div><div class="three"></div></div>`)
	require.NoError(t, err)
	one, err := Query(el, ".one", HandleError)
	require.NoError(t, err)

	two, err := Peers(one, ".two")
	require.NoError(t, err)
	assert.Equal(t, "TWO", dom.TextContent(two))

	_, err = Peers(two, ".one")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := QueryAll(el, "div")
	require.NoError(t, err)
	three, err := Peers(all, ".three")
	require.NoError(t, err)
	assert.True(t, strings.Contains(mustHTML(t, three), "three"))
}
