package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericEstimateValidatesScale(t *testing.T) {
	for _, p := range Scale {
		est, err := NumericEstimate(p)
		require.NoError(t, err)
		assert.Equal(t, p, est.Points)
		assert.False(t, est.Unsure)
	}

	for _, p := range []int{0, 4, 7, 100, -1} {
		_, err := NumericEstimate(p)
		assert.ErrorIs(t, err, ErrInvalidEstimate, "value %d must be rejected", p)
	}
}

func TestEstimateWireFormat(t *testing.T) {
	b, err := json.Marshal(Estimate{Points: 8})
	require.NoError(t, err)
	assert.Equal(t, "8", string(b))

	b, err = json.Marshal(UnsureEstimate())
	require.NoError(t, err)
	assert.Equal(t, `"?"`, string(b))

	var est Estimate
	require.NoError(t, json.Unmarshal([]byte(`13`), &est))
	assert.Equal(t, Estimate{Points: 13}, est)

	require.NoError(t, json.Unmarshal([]byte(`"?"`), &est))
	assert.True(t, est.Unsure)

	assert.ErrorIs(t, json.Unmarshal([]byte(`4`), &est), ErrInvalidEstimate)
	assert.ErrorIs(t, json.Unmarshal([]byte(`"coffee"`), &est), ErrInvalidEstimate)
	assert.ErrorIs(t, json.Unmarshal([]byte(`true`), &est), ErrInvalidEstimate)
}
