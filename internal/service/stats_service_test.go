package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The overview reports a figure for every counted collection,
// audio plays included.
func TestOverviewReportsEveryCountedCollection(t *testing.T) {
	raw, err := json.Marshal(Overview{
		Books:      CollectionStats{Count: 3, Views: 10, Downloads: 2},
		AudioPlays: 7,
		VideoViews: 9,
	})
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"audioPlays":7`)
	assert.Contains(t, string(raw), `"videoViews":9`)
	assert.Contains(t, string(raw), `"books":{"count":3,"views":10,"downloads":2}`)
}
