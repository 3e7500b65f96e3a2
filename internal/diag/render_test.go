package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/zacostudio/zaco-compiler/internal/ast"
)

func sampleBag() *Bag {
	b := NewBag(0)
	b.Add(Diagnostic{
		Kind: Type, Code: "E2001", Message: "cannot assign 'string' to 'number'",
		Span:  ast.Span{Start: ast.Location{Line: 3, Column: 5}, End: ast.Location{Line: 3, Column: 11}},
		Notes: []string{"declared here"},
	})
	b.Add(Diagnostic{Kind: Warning, Code: "W0002", Message: "unused local 'x'"})
	return b
}

func TestRenderIncludesSummary(t *testing.T) {
	out := Render(sampleBag())
	assert.Contains(t, out, "E2001")
	assert.Contains(t, out, "note: declared here")
	assert.Contains(t, out, Summary(sampleBag()))
}

func TestRenderJSONFields(t *testing.T) {
	out, err := RenderJSON(sampleBag())
	require.NoError(t, err)

	assert.Equal(t, "type", gjson.Get(out, "0.kind").String())
	assert.Equal(t, "E2001", gjson.Get(out, "0.code").String())
	assert.Equal(t, "3:5-3:11", gjson.Get(out, "0.span").String())
	assert.Equal(t, "declared here", gjson.Get(out, "0.notes.0").String())
	assert.True(t, gjson.Get(out, "1.kind").Exists())
	assert.Equal(t, "warning", gjson.Get(out, "1.kind").String())
}

func TestOverflowEmitsSingleSyntheticWarning(t *testing.T) {
	b := NewBag(1)
	b.Add(Diagnostic{Kind: Type, Code: "E2001", Message: "first"})
	b.Add(Diagnostic{Kind: Type, Code: "E2002", Message: "second"})
	b.Add(Diagnostic{Kind: Type, Code: "E2003", Message: "third"})

	require.Equal(t, 1, b.ErrorCount())
	assert.Equal(t, 2, b.Overflowed())

	var notes int
	for _, d := range b.All() {
		if d.Code == "W0000" {
			notes++
		}
	}
	assert.Equal(t, 1, notes, "the overflow note must only be appended once")
}
