package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSequence(t *testing.T) {
	for _, n := range []int{0, 1, 7, 45} {
		items := Normalize(makeItems(1, n))
		require.Len(t, items, n)
		for i, it := range items {
			assert.Equal(t, i+1, it.Sequence)
		}
	}
}

func TestNormalizeFields(t *testing.T) {
	raw := makeItems(3, 2)
	items := Normalize(raw)

	assert.Equal(t, Item{
		Sequence:  2,
		Author:    raw[1].Author(),
		Text:      "page 3 item 1",
		CreatedAt: raw[1].CreatedAt(),
		Retweets:  1,
		Favorites: 2,
	}, items[1])
}

func TestNormalizeEmptyIsNotNil(t *testing.T) {
	assert.NotNil(t, Normalize(nil))
	assert.Empty(t, Normalize(nil))
}

func TestNormalizeRoundTrip(t *testing.T) {
	first := Normalize(makeItems(1, 12))

	raw := make([]RawItem, 0, len(first))
	for _, it := range first {
		raw = append(raw, it.Raw())
	}

	assert.Equal(t, first, Normalize(raw))
}

func TestItemJSON(t *testing.T) {
	items := Normalize(makeItems(1, 1))
	data, err := json.Marshal(items[0])
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.ElementsMatch(t,
		[]string{"tweet_count", "username", "text", "created_at", "retweets", "favorites"},
		keys(fields))
	assert.Equal(t, float64(1), fields["tweet_count"])
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
