package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdered_KeepsInsertionOrder(t *testing.T) {
	o := NewOrdered()
	o.Set("zeta", &Schema{Type: "string"})
	o.Set("alpha", &Schema{Type: "integer"})
	o.Set("zeta", &Schema{Type: "boolean"})

	assert.Equal(t, []string{"zeta", "alpha"}, o.Keys())
	assert.Equal(t, 2, o.Len())
	got, ok := o.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, "boolean", got.Type)

	raw, err := o.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":{"type":"boolean"},"alpha":{"type":"integer"}}`, string(raw))
}

func TestOrdered_NilAndEmpty(t *testing.T) {
	var o *Ordered
	assert.Equal(t, 0, o.Len())
	assert.Nil(t, o.Keys())
	_, ok := o.Get("x")
	assert.False(t, ok)

	raw, err := NewOrdered().MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(raw))
}

func TestMarshal_Document(t *testing.T) {
	props := NewOrdered()
	props.Set("b", &Schema{Type: "string"})
	props.Set("a", &Schema{Ref: "#/$defs/Other"})
	defs := NewOrdered()
	defs.Set("Thing", &Schema{Type: "object", Properties: props, Required: []string{"b"}})

	out, err := Marshal(&Schema{Schema: Draft, ID: "com.example.foo.json", Defs: defs})
	require.NoError(t, err)
	want := `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "com.example.foo.json",
  "$defs": {
    "Thing": {
      "type": "object",
      "properties": {
        "b": {
          "type": "string"
        },
        "a": {
          "$ref": "#/$defs/Other"
        }
      },
      "required": [
        "b"
      ]
    }
  }
}
`
	assert.Equal(t, want, string(out))
}
