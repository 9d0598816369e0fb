package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInlineStyle(t *testing.T) {
	p := NewParser()
	ds := p.ParseInlineStyle(`Color: red; background: url("a;b.png"); margin: 0 !important; color: blue`)

	require.Len(t, ds, 3)
	assert.Equal(t, Declaration{Property: "color", Value: "blue"}, ds[0])
	assert.Equal(t, `url("a;b.png")`, ds[1].Value)
	assert.True(t, ds[2].Important)
	assert.Equal(t, "0", ds[2].Value)
}

func TestParseDeclarationRejectsGarbage(t *testing.T) {
	p := NewParser()
	for _, in := range []string{"", "   ", "color", ": red", "color:"} {
		_, ok := p.ParseDeclaration(in)
		assert.False(t, ok, in)
	}
}

func TestDeclarationsEditing(t *testing.T) {
	ds := NewParser().ParseInlineStyle("color: red; margin: 0")

	ds = ds.Set(Declaration{Property: "COLOR", Value: "green"})
	ds = ds.Set(Declaration{Property: "padding", Value: "1px", Important: true})
	ds = ds.Remove("margin")

	assert.Equal(t, "color: green; padding: 1px !important", ds.String())
	d, ok := ds.Get("padding")
	require.True(t, ok)
	assert.Equal(t, "1px", d.Value)
	assert.Equal(t, "", Declarations(nil).String())
}
