package typemap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/lexgen/internal/ir"
	"github.com/reoring/lexgen/internal/resolve"
	"github.com/reoring/lexgen/lexicon"
)

var ctx = Context{NSID: "com.example.foo"}

// sample returns a representative property of kind k.
func sample(t *testing.T, k lexicon.PropertyKind) lexicon.Property {
	t.Helper()
	p, ok := lexicon.NewProperty(k)
	require.True(t, ok, k.String())
	switch v := p.(type) {
	case *lexicon.Ref:
		v.Ref = "#thing"
	case *lexicon.Union:
		v.Refs = []string{"#a", "com.example.bar#b"}
	case *lexicon.Array:
		v.Items = &lexicon.String{}
	}
	return p
}

func TestMapProperty_EveryKind(t *testing.T) {
	for _, k := range lexicon.PropertyKinds() {
		t.Run(k.String(), func(t *testing.T) {
			got, err := MapProperty(sample(t, k), ctx)
			require.NoError(t, err)
			require.NotNil(t, got)
		})
	}
}

func TestMapProperty_Primitives(t *testing.T) {
	cases := []struct {
		p    lexicon.Property
		want ir.Type
	}{
		{&lexicon.Boolean{}, ir.NewPrimitive(ir.Bool)},
		{&lexicon.Integer{}, ir.NewPrimitive(ir.Int)},
		{&lexicon.String{Format: "datetime"}, ir.NewPrimitive(ir.Text)},
		{&lexicon.Bytes{}, ir.NewPrimitive(ir.Bytes)},
		{&lexicon.CIDLink{}, ir.NewPrimitive(ir.Link)},
		{&lexicon.Blob{}, &ir.Map{}},
		{&lexicon.Unknown{}, &ir.Any{}},
	}
	for _, tc := range cases {
		got, err := MapProperty(tc.p, ctx)
		require.NoError(t, err)
		assert.True(t, ir.Equal(tc.want, got), "%s: got %s", tc.p.Kind(), ir.String(got))
	}
}

func TestMapProperty_Ref(t *testing.T) {
	got, err := MapProperty(&lexicon.Ref{Ref: "#thing"}, ctx)
	require.NoError(t, err)
	n, ok := got.(*ir.Named)
	require.True(t, ok)
	assert.Equal(t, resolve.QualifiedName{NSID: "com.example.foo", Def: "thing"}, n.Ref)
	assert.Equal(t, "ComExampleFooThing", n.Class)

	got, err = MapProperty(&lexicon.Ref{Ref: "com.example.bar#baz"}, ctx)
	require.NoError(t, err)
	assert.Equal(t, "ComExampleBarBaz", got.(*ir.Named).Class)
}

func TestMapProperty_ArrayRoundTrip(t *testing.T) {
	for _, k := range lexicon.PropertyKinds() {
		if k == lexicon.KindArray {
			continue
		}
		item := sample(t, k)
		direct, err := MapProperty(item, ctx)
		require.NoError(t, err)
		seq, err := MapProperty(&lexicon.Array{Items: item}, ctx)
		require.NoError(t, err)
		s, ok := seq.(*ir.Sequence)
		require.True(t, ok, k.String())
		assert.True(t, ir.Equal(direct, s.Item), k.String())
	}
}

func TestMapProperty_NestedArrayRejected(t *testing.T) {
	_, err := MapProperty(&lexicon.Array{Items: &lexicon.Array{Items: &lexicon.String{}}}, ctx)
	require.Error(t, err)
}

func TestMapProperty_UnionOrder(t *testing.T) {
	got, err := MapProperty(&lexicon.Union{Refs: []string{"#A", "#B", "#C"}}, ctx)
	require.NoError(t, err)
	sum, ok := got.(*ir.Sum)
	require.True(t, ok)
	require.Len(t, sum.Members, 3)
	for i, def := range []string{"A", "B", "C"} {
		assert.Equal(t, def, sum.Members[i].Ref.Def)
	}
	assert.False(t, sum.Closed)
}

func TestMapProperty_ClosedUnion(t *testing.T) {
	got, err := MapProperty(&lexicon.Union{Refs: []string{"#a", "#b"}, Closed: true}, ctx)
	require.NoError(t, err)
	assert.True(t, got.(*ir.Sum).Closed)
}

func TestMapProperty_EmptyUnionIsUnknown(t *testing.T) {
	empty, err := MapProperty(&lexicon.Union{}, ctx)
	require.NoError(t, err)
	unknown, err := MapProperty(&lexicon.Unknown{}, ctx)
	require.NoError(t, err)
	assert.True(t, ir.Equal(unknown, empty))
}

func TestMapProperty_SingleMemberUnwrapped(t *testing.T) {
	union, err := MapProperty(&lexicon.Union{Refs: []string{"com.example.bar"}}, ctx)
	require.NoError(t, err)
	ref, err := MapProperty(&lexicon.Ref{Ref: "com.example.bar"}, ctx)
	require.NoError(t, err)
	assert.True(t, ir.Equal(ref, union))
}

func TestMapProperty_MalformedRef(t *testing.T) {
	_, err := MapProperty(&lexicon.Ref{Ref: "a#b#c"}, ctx)
	assert.True(t, errors.Is(err, resolve.ErrMalformedRef))
	_, err = MapProperty(&lexicon.Union{Refs: []string{"#ok", "#"}}, ctx)
	assert.True(t, errors.Is(err, resolve.ErrMalformedRef))
}
