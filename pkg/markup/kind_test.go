package markup

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestClassify(t *testing.T) {
	frag, err := CreateFragment("<p>one</p>")
	require.NoError(t, err)
	doc, err := CreateDocument("<p>one</p>", "")
	require.NoError(t, err)
	el, err := CreateElement("<p>one</p>")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   any
		want Kind
	}{
		{"markup", "<p>one</p>", KindHTML},
		{"empty markup", "", KindHTML},
		{"text", CreateTextNode("hi"), KindText},
		{"raw", &html.Node{Type: html.RawNode, Data: "raw"}, KindText},
		{"comment", CreateCommentNode("c"), KindComment},
		{"element", el, KindElement},
		{"fragment", frag, KindFragment},
		{"document", doc, KindDocument},
		{"doctype", &html.Node{Type: html.DoctypeNode, Data: "html"}, KindNode},
		{"nil", nil, KindNode},
		{"nil node", (*html.Node)(nil), KindNode},
		{"number", 42, KindNode},
		{"selection", goquery.NewDocumentFromNode(el).Selection, KindNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}

func TestKindNames(t *testing.T) {
	names := make([]string, 0, len(Kinds()))
	for _, k := range Kinds() {
		names = append(names, k.String())
	}
	assert.Equal(t, []string{"node", "html", "text", "comment", "element", "fragment", "document"}, names)
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestShapePredicates(t *testing.T) {
	single, err := CreateFragment("<div>x</div>")
	require.NoError(t, err)
	many, err := CreateFragment("<div>x</div><div>y</div>")
	require.NoError(t, err)
	text, err := CreateFragment("just text")
	require.NoError(t, err)
	doc, err := CreateDocument("<main>x</main>", "")
	require.NoError(t, err)

	assert.True(t, IsElementLike(single))
	assert.True(t, HasSingularElement(single))
	assert.False(t, IsElementLike(many))
	assert.True(t, IsElementLike(doc))
	assert.True(t, IsTextNodeLike(text))
	assert.False(t, IsTextNodeLike(single))
	assert.False(t, IsElementLike("<div>x</div>"))
}
