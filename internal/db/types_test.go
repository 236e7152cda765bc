package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArray_Scan(t *testing.T) {
	var a StringArray
	require.NoError(t, a.Scan([]byte(`["go","sql"]`)))
	assert.Equal(t, StringArray{"go", "sql"}, a)

	require.NoError(t, a.Scan(nil))
	assert.Empty(t, a)

	err := a.Scan("not bytes")
	assert.Error(t, err)
}

func TestStringArray_Value(t *testing.T) {
	v, err := StringArray{"python"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["python"]`, string(v.([]byte)))

	v, err = StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestJSONMap_Scan(t *testing.T) {
	var m JSONMap
	require.NoError(t, m.Scan([]byte(`{"resume_id":"abc","score":87}`)))
	assert.Equal(t, "abc", m["resume_id"])
	assert.Equal(t, float64(87), m["score"])

	require.NoError(t, m.Scan(nil))
	assert.Empty(t, m)
}

func TestJSONMap_Value(t *testing.T) {
	v, err := JSONMap{"plan": "premium"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"plan":"premium"}`, string(v.([]byte)))

	v, err = JSONMap(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), v)
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "li_12345", nullIfEmpty("li_12345"))
}
