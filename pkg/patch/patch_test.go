package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type input struct {
	City  Opt[string]   `json:"city"`
	Limit Opt[int]      `json:"limit"`
	Tags  Opt[[]string] `json:"tags"`
}

func TestPresenceTracking(t *testing.T) {
	var in input
	require.NoError(t, json.Unmarshal([]byte(`{"city":"Казань","limit":null}`), &in))

	assert.True(t, in.City.Set)
	assert.Equal(t, "Казань", in.City.Value)
	assert.True(t, in.Limit.Set)
	assert.True(t, in.Limit.Null)
	assert.False(t, in.Tags.Set)
}

func TestApply(t *testing.T) {
	city := "Москва"
	Opt[string]{}.Apply(&city)
	assert.Equal(t, "Москва", city)

	Some("Казань").Apply(&city)
	assert.Equal(t, "Казань", city)

	n := 5
	ptr := &n
	Opt[int]{Set: true, Null: true}.ApplyPtr(&ptr)
	assert.Nil(t, ptr)

	Some(7).ApplyPtr(&ptr)
	require.NotNil(t, ptr)
	assert.Equal(t, 7, *ptr)
}
