package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalDistinguishesAbsentNullAndValue(t *testing.T) {
	type payload struct {
		Sizes    Optional[[]string]  `json:"sizes"`
		Category Optional[uuid.UUID] `json:"category"`
	}

	var got payload
	require.NoError(t, json.Unmarshal([]byte(`{"sizes":["S","M","XL"],"category":"00000000-0000-0000-0000-000000000001"}`), &got))
	assert.True(t, got.Sizes.Set)
	assert.False(t, got.Sizes.Null)
	assert.Equal(t, []string{"S", "M", "XL"}, got.Sizes.Value)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", got.Category.Value.String())

	got = payload{}
	require.NoError(t, json.Unmarshal([]byte(`{"sizes":null}`), &got))
	assert.True(t, got.Sizes.Set)
	assert.True(t, got.Sizes.Null)
	assert.False(t, got.Category.Set)

	got = payload{}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &got))
	assert.False(t, got.Sizes.Set)
	assert.Equal(t, []string{"fallback"}, got.Sizes.Get([]string{"fallback"}))
}

func TestOptionalRejectsWrongType(t *testing.T) {
	var o Optional[int]
	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &o))
}

func TestOptionalMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A Optional[int] `json:"a"`
		B Optional[int] `json:"b"`
	}{A: Some(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":null}`, string(out))
}
