package resolve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Forms(t *testing.T) {
	cases := []struct {
		ref   string
		owner string
		want  QualifiedName
	}{
		{"#thing", "com.example.foo", QualifiedName{"com.example.foo", "thing"}},
		{"#main", "com.example.foo", QualifiedName{"com.example.foo", "main"}},
		{"com.example.bar", "com.example.foo", QualifiedName{"com.example.bar", "main"}},
		{"com.example.bar#baz", "com.example.foo", QualifiedName{"com.example.bar", "baz"}},
		{"com.example.foo#thing", "com.example.foo", QualifiedName{"com.example.foo", "thing"}},
		{"a.b.c", "x.y.z", QualifiedName{"a.b.c", "main"}},
		{"a.b.c#Foo", "x.y.z", QualifiedName{"a.b.c", "Foo"}},
	}
	for _, tc := range cases {
		t.Run(tc.ref, func(t *testing.T) {
			got, err := Resolve(tc.ref, tc.owner)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolve_LocalUsesOwner(t *testing.T) {
	for _, owner := range []string{"com.example.foo", "app.bsky.feed.post", "a.b.c"} {
		first, err := Resolve("#Name", owner)
		require.NoError(t, err)
		second, err := Resolve("#Name", owner)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, owner, first.NSID)
	}
}

func TestResolve_ExternalIgnoresOwner(t *testing.T) {
	for _, owner := range []string{"com.example.foo", "a.b.c", "z.z.z"} {
		got, err := Resolve("a.b.c#Foo", owner)
		require.NoError(t, err)
		assert.Equal(t, QualifiedName{NSID: "a.b.c", Def: "Foo"}, got)

		got, err = Resolve("a.b.c", owner)
		require.NoError(t, err)
		assert.Equal(t, "main", got.Def)
	}
}

func TestResolve_Malformed(t *testing.T) {
	for _, ref := range []string{"", "#", "a.b.c#", "a.b.c#x#y", "##x", "not-an-nsid", "a.b#x", "com.example.foo#9bad", "com..foo#x"} {
		t.Run(ref, func(t *testing.T) {
			_, err := Resolve(ref, "com.example.owner")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRef))
		})
	}
}

func TestQualifiedName_String(t *testing.T) {
	assert.Equal(t, "com.example.foo", QualifiedName{"com.example.foo", "main"}.String())
	assert.Equal(t, "com.example.foo#bar", QualifiedName{"com.example.foo", "bar"}.String())
}

func TestClassName(t *testing.T) {
	cases := map[QualifiedName]string{
		{"com.example.foo", "main"}:              "ComExampleFoo",
		{"com.example.foo", "thing"}:             "ComExampleFooThing",
		{"com.example.bar", "baz"}:               "ComExampleBarBaz",
		{"com.atproto.repo.strongRef", "main"}:   "ComAtprotoRepoStrongRef",
		{"com.atproto.label.defs", "selfLabels"}: "ComAtprotoLabelDefsSelfLabels",
		{"io.my-app.feed", "viewRecord"}:         "IoMyAppFeedViewRecord",
		{"com.example.api", "getHTTPStatus"}:     "ComExampleApiGetHttpStatus",
		{"com.example.v2.thing", "main"}:         "ComExampleV2Thing",
	}
	for q, want := range cases {
		assert.Equal(t, want, ClassName(q), q.String())
	}
}

func TestClassName_KnownCollision(t *testing.T) {
	a := ClassName(QualifiedName{"com.example.fooBar", "main"})
	b := ClassName(QualifiedName{"com.example.foo", "bar"})
	assert.Equal(t, a, b)
}

func TestPascalCase(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"foo":           "Foo",
		"fooBar":        "FooBar",
		"FooBar":        "FooBar",
		"foo_bar":       "FooBar",
		"foo-bar":       "FooBar",
		"URLThing":      "UrlThing",
		"getHTTPStatus": "GetHttpStatus",
		"v2":            "V2",
		"cid-link":      "CidLink",
		"$type":         "Type",
	}
	for in, want := range cases {
		assert.Equal(t, want, PascalCase(in), in)
	}
}

func TestIsLocal(t *testing.T) {
	assert.True(t, IsLocal("#x"))
	assert.False(t, IsLocal("a.b.c#x"))
	assert.False(t, IsLocal("a.b.c"))
}
