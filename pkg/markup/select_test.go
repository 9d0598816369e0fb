package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const lines = `
    <div class="wrapper">
      <span class="line line-1">1</span>
      <span class="line line-2">2</span>
      <span class="line line-3">3</span>
    </div>
    `

func TestSelectUpdateAll(t *testing.T) {
	toDiv := ChangeTagName("div")
	updated, err := Select(lines).UpdateAll(".line", toDiv).ToContainer()
	require.NoError(t, err)
	assert.Equal(t, strings.ReplaceAll(lines, "span", "div"), updated)

	found, err := Select(updated).FindAll(".line")
	require.NoError(t, err)
	require.Len(t, found, 3)
	for _, f := range found {
		assert.Equal(t, "div", f.Data)
	}
}

func TestSelectChainsOnAFreshCopy(t *testing.T) {
	s := Select(lines)

	_, err := s.UpdateAll(".line", ChangeTagName("div")).ToContainer()
	require.NoError(t, err)

	table, err := s.
		Update(".wrapper", ChangeTagName("table")).
		UpdateAll(".line", ChangeTagName("tr")).
		ToContainer()
	require.NoError(t, err)
	assert.Equal(t, `
    <table class="wrapper">
      <tr class="line line-1">1</tr>
      <tr class="line line-2">2</tr>
      <tr class="line line-3">3</tr>
    </table>
    `, table)
}

func TestSelectOverNodes(t *testing.T) {
	want := strings.ReplaceAll(lines, "span", "div")

	frag, err := CreateFragment(lines)
	require.NoError(t, err)
	out, err := Select(frag).UpdateAll(".line", ChangeTagName("div")).ToContainer()
	require.NoError(t, err)
	assert.Same(t, frag, out)
	assert.Equal(t, want, mustHTML(t, out))

	el, err := CreateElement(strings.TrimSpace(lines))
	require.NoError(t, err)
	out, err = Select(el).UpdateAll(".line", ChangeTagName("div")).ToContainer()
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(want), mustHTML(t, out))
}

func TestSelectUpdateRoot(t *testing.T) {
	src := `<div><span class="inside">inside</span></div>`

	converted, err := Select(src).Update("", ChangeTagName("table")).ToContainer()
	require.NoError(t, err)
	assert.Equal(t, `<table><span class="inside">inside</span></table>`, converted)

	converted, err = Select(src).
		Update("", ChangeTagName("table")).
		UpdateAll("span", ChangeTagName("tr")).
		ToContainer()
	require.NoError(t, err)
	assert.Equal(t, `<table><tr class="inside">inside</tr></table>`, converted)

	el, err := CreateElement(src)
	require.NoError(t, err)
	root, err := Select(el).Update("", ChangeTagName("section")).ToNode()
	require.NoError(t, err)
	assert.Equal(t, "section", root.Data)

	emptied, err := Select(src).Update("", Extract(nil)).ToContainer()
	require.NoError(t, err)
	assert.Equal(t, "", emptied)
}

func TestSelectUpdateNotFound(t *testing.T) {
	_, err := Select(lines).Update(".missing", ChangeTagName("p"), "looking for", "the missing line").ToContainer()
	require.ErrorIs(t, err, ErrNotFound)

	var m *Mishap
	require.ErrorAs(t, err, &m)
	assert.Equal(t, ".missing", m.Selector)
	assert.Equal(t, "looking for the missing line", m.Context)
}

func TestSelectUpdateAllIndexes(t *testing.T) {
	type call struct{ index, total int }
	var calls []call

	_, err := Select(lines).UpdateAll(".line", func(in Invocation) (any, error) {
		assert.True(t, in.Update)
		calls = append(calls, call{in.Index, in.Total})
		return false, nil
	}).ToContainer()
	require.NoError(t, err)
	assert.Equal(t, []call{{0, 3}, {1, 3}, {2, 3}}, calls)
}

func TestSelectUpdateAllStopsOnError(t *testing.T) {
	el, err := CreateElement(strings.TrimSpace(lines))
	require.NoError(t, err)

	_, err = Select(el).UpdateAll(".line", func(in Invocation) (any, error) {
		if in.Index == 1 {
			return ChangeTagName("x").Apply(CreateTextNode("boom"))
		}
		return ChangeTagName("b")(in)
	}).ToContainer()
	require.ErrorIs(t, err, ErrInvalidOperation)

	tags := []string{}
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			tags = append(tags, c.Data)
		}
	}
	assert.Equal(t, []string{"b", "span", "span"}, tags)
}

func TestSelectAppliesLiveEditsOnce(t *testing.T) {
	el, err := CreateElement("<ul><li>a</li></ul>")
	require.NoError(t, err)

	s := Select(el).UpdateAll("li", Append("<i>!</i>"))
	_, err = s.ToContainer()
	require.NoError(t, err)
	_, err = s.ToContainer()
	require.NoError(t, err)
	assert.Equal(t, "<ul><li>a<i>!</i></li></ul>", mustHTML(t, el))
}

func TestSelectFind(t *testing.T) {
	frag, err := CreateFragment(`<span class="foo bar">foobar</span>`)
	require.NoError(t, err)

	missing, err := Select(frag).FindFirst(".nonsense")
	require.NoError(t, err)
	assert.Nil(t, missing)

	nothing, err := Select(frag).FindAll(".nonsense")
	require.NoError(t, err)
	assert.Empty(t, nothing)

	_, err = Select(frag).FindFirst(".nonsense", "needed it")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSelectAttributePresence(t *testing.T) {
	src := `
<script lang="ts" setup>
const sayHi = (name: string) => "hi " + name
</script>
<script>
const sayBye = (name) => "bye " + name
</script>
<script setup="">
const test = ref(1)
</script>
<script lang="ts">
const test1: string = "test"
</script>
<script lang="js">
const test2 = "test2"
</script>
`
	withSetup, err := Select(src).FindAll("script[setup]")
	require.NoError(t, err)
	assert.Len(t, withSetup, 2)

	traditional, err := Select(src).FindAll("script:not([setup])")
	require.NoError(t, err)
	assert.Len(t, traditional, 3)
}

func TestMapAll(t *testing.T) {
	frag, err := CreateFragment(lines)
	require.NoError(t, err)

	texts, err := MapAll(Select(frag), "span", func(el *html.Node, i int) string {
		return el.FirstChild.Data
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, texts)

	_, err = MapAll(Select(frag), "span[", func(*html.Node, int) int { return 0 })
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSelectWrap(t *testing.T) {
	src := `<span class="foo bar">foobar</span>`
	wrapper := `<div class="wrapper">`

	out, err := Select(src).Wrap(wrapper).ToContainer()
	require.NoError(t, err)
	assert.Equal(t, wrapper+src+"</div>", out)

	el, err := CreateElement(src)
	require.NoError(t, err)
	out, err = Select(el).Wrap(wrapper).ToContainer()
	require.NoError(t, err)
	assert.Equal(t, KindElement, Classify(out))
	assert.Equal(t, wrapper+src+"</div>", mustHTML(t, out))

	w, err := CreateElement(wrapper)
	require.NoError(t, err)
	el, err = CreateElement(src)
	require.NoError(t, err)
	out, err = Select(el).Wrap(w).ToContainer()
	require.NoError(t, err)
	assert.Equal(t, KindElement, Classify(out))
	assert.Equal(t, wrapper+src+"</div>", mustHTML(t, out))
}

func TestSelectWrapRejectsMalformedWrapper(t *testing.T) {
	src := `<span class="foo bar">foobar</span>`

	s := Select(src).Wrap("hello world")
	require.ErrorIs(t, s.Err(), ErrMalformedWrapper)
	assert.Contains(t, s.Err().Error(), "select.wrap()")

	_, err := Select(src).Wrap("hello world", "end of days").ToContainer()
	require.ErrorIs(t, err, ErrMalformedWrapper)
	assert.Contains(t, err.Error(), "select.wrap()")
	assert.Contains(t, err.Error(), "end of days")

	_, err = Select(src).Wrap("<b>1</b><b>2</b>").ToContainer()
	assert.ErrorIs(t, err, ErrMalformedWrapper)
}

func TestSelectIntoEachMatch(t *testing.T) {
	el, err := CreateElement(`<div class="container"><span class="one item">one</span><span class="two item">two</span></div>`)
	require.NoError(t, err)
	want := `<div class="container"><span class="wrap-each"><span class="one item">one</span></span><span class="wrap-each"><span class="two item">two</span></span></div>`

	out, err := Select(el).UpdateAll(".item", Into(`<span class="wrap-each"></span>`)).ToContainer()
	require.NoError(t, err)
	assert.Equal(t, want, mustHTML(t, out))
	assert.Equal(t, want, mustHTML(t, el))

	items, err := Select(el).FindAll(".item")
	require.NoError(t, err)
	for _, item := range items {
		assert.True(t, HasParentElement(item))
	}
}

func TestSelectWrapEachMatch(t *testing.T) {
	src := `<div class="container"><span class="one item">one</span><span class="two item">two</span></div>`

	out, err := Select(src).UpdateAll(".item", Wrap(`<span class="wrap-each"></span>`)).ToContainer()
	require.NoError(t, err)
	assert.Equal(t, `<div class="container"><span class="one item">one<span class="wrap-each"></span></span><span class="two item">two<span class="wrap-each"></span></span></div>`, out)

	wrapped, err := Select(`<div class="wrapper"><span class="interior"></span></div>`).
		Update(".interior", Wrap(`<span class="another">another element</span>`)).
		ToContainer()
	require.NoError(t, err)
	assert.Equal(t, `<div class="wrapper"><span class="interior"><span class="another">another element</span></span></div>`, wrapped)
}

func TestSelectRejectsText(t *testing.T) {
	_, err := Select(CreateTextNode("x")).ToContainer()
	assert.ErrorIs(t, err, ErrInvalidInput)
}
