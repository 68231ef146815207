package validation

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinRegistry(t *testing.T) {
	reg, err := Builtin()
	require.NoError(t, err)
	assert.Equal(t, []string{"prompt@1", "room-delete@1", "room@1", "room@2"}, reg.Refs())

	latest, err := reg.Lookup("room")
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Version)
	assert.Equal(t, "blur", latest.ValidateOn)
	assert.Equal(t, "input", latest.RevalidateOn)

	v1, err := reg.Lookup("room@1")
	require.NoError(t, err)
	f, ok := v1.Field("spaceId")
	require.True(t, ok)
	assert.Equal(t, KindInt, f.Type)
	_, ok = v1.Field("lat")
	assert.False(t, ok)
}

func TestLookupUnknown(t *testing.T) {
	reg, err := Builtin()
	require.NoError(t, err)

	_, err = reg.Lookup("room@9")
	assert.True(t, errors.Is(err, ErrSchemaNotFound))

	_, err = reg.Lookup("room@x")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrSchemaNotFound))
}

func TestParseRef(t *testing.T) {
	name, v, err := ParseRef(" room@2 ")
	require.NoError(t, err)
	assert.Equal(t, "room", name)
	assert.Equal(t, 2, v)

	name, v, err = ParseRef("prompt")
	require.NoError(t, err)
	assert.Equal(t, "prompt", name)
	assert.Zero(t, v)

	for _, bad := range []string{"", "@1", "room@0", "room@-1"} {
		_, _, err := ParseRef(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewRegistryRejectsBadSchemas(t *testing.T) {
	cases := map[string]Schema{
		"unknown tag":     {Name: "a", Version: 1, Fields: []Field{{Name: "x", Rules: []Rule{{Tag: "no_such_rule"}}}}},
		"unknown type":    {Name: "a", Version: 1, Fields: []Field{{Name: "x", Type: "date"}}},
		"duplicate field": {Name: "a", Version: 1, Fields: []Field{{Name: "x"}, {Name: "x"}}},
		"no fields":       {Name: "a", Version: 1},
		"no version":      {Name: "a", Fields: []Field{{Name: "x"}}},
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewRegistry(s)
			assert.Error(t, err)
		})
	}

	_, err := NewRegistry(
		Schema{Name: "a", Version: 1, Fields: []Field{{Name: "x"}}},
		Schema{Name: "a", Version: 1, Fields: []Field{{Name: "y"}}},
	)
	assert.Error(t, err)
}

func TestLoadRegistryFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"defs/listing.yaml": {Data: []byte(`
name: listing
version: 3
fields:
  - name: price
    type: float
    required: true
    rules:
      - tag: gt=0
`)},
	}
	reg, err := LoadRegistry(fsys, "defs")
	require.NoError(t, err)

	s, err := reg.Lookup("listing")
	require.NoError(t, err)
	res := Validate(s, map[string]string{"price": "19.9"})
	require.True(t, res.OK())
	assert.Equal(t, 19.9, res.Value["price"])

	res = Validate(s, map[string]string{"price": "0"})
	assert.Equal(t, []string{"Number must be greater than 0"}, res.FieldErrors("price"))

	fsys["defs/broken.yaml"] = &fstest.MapFile{Data: []byte("name: [")}
	_, err = LoadRegistry(fsys, "defs")
	assert.Error(t, err)
}
