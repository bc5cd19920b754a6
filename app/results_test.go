package app

import (
	"testing"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultsJoin(t *testing.T) {
	models := []flow.Model{
		flow.Pair([]byte("a"), []byte("1")),
		flow.Pair([]byte("b"), []byte("2")),
	}
	rawKeys, err := ResultsFromKeys(models).Marshal()
	require.NoError(t, err)
	rawValues, err := ResultsFromValues(models).Marshal()
	require.NoError(t, err)

	var keys, values ResultSet
	require.NoError(t, keys.Unmarshal(rawKeys))
	require.NoError(t, values.Unmarshal(rawValues))
	got, err := JoinResults(&keys, &values)
	require.NoError(t, err)
	assert.Equal(t, models, got)

	values.Results = values.Results[:1]
	_, err = JoinResults(&keys, &values)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestUnmarshalOneResult(t *testing.T) {
	meta := &flow.Metadata{Schema: 4}
	raw, err := meta.Marshal()
	require.NoError(t, err)
	set, err := (&ResultSet{Results: [][]byte{raw}}).Marshal()
	require.NoError(t, err)

	var got flow.Metadata
	require.NoError(t, UnmarshalOneResult(set, &got))
	assert.Equal(t, uint32(4), got.Schema)

	empty, err := (&ResultSet{}).Marshal()
	require.NoError(t, err)
	var untouched flow.Metadata
	require.NoError(t, UnmarshalOneResult(empty, &untouched))
	assert.Equal(t, uint32(0), untouched.Schema)

	two, err := (&ResultSet{Results: [][]byte{raw, raw}}).Marshal()
	require.NoError(t, err)
	assert.True(t, errors.ErrState.Is(UnmarshalOneResult(two, &got)))
}

func TestSplitPath(t *testing.T) {
	cases := map[string]struct {
		path     string
		wantPath string
		wantMod  string
	}{
		"plain":          {path: "/streams", wantPath: "/streams"},
		"prefix":         {path: "/streams/payer?prefix", wantPath: "/streams/payer", wantMod: "prefix"},
		"only the first": {path: "/?a?b", wantPath: "/", wantMod: "a?b"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path, mod := splitPath(tc.path)
			assert.Equal(t, tc.wantPath, path)
			assert.Equal(t, tc.wantMod, mod)
		})
	}
}
