package algo

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSummarize tests mean, min and max over durations.
func TestSummarize(t *testing.T) {
	t.Run("empty input has no summary", func(t *testing.T) {
		assert.Nil(t, Summarize(nil))
		assert.Nil(t, Summarize([]time.Duration{}))
	})

	t.Run("single value", func(t *testing.T) {
		s := Summarize([]time.Duration{2 * time.Hour})
		require.NotNil(t, s)
		assert.Equal(t, 1, s.Count)
		assert.Equal(t, 2*time.Hour, s.Mean)
		assert.Equal(t, 2*time.Hour, s.Min)
		assert.Equal(t, 2*time.Hour, s.Max)
	})

	t.Run("negative durations are kept", func(t *testing.T) {
		s := Summarize([]time.Duration{-4 * time.Hour, 2 * time.Hour})
		require.NotNil(t, s)
		assert.Equal(t, -time.Hour, s.Mean)
		assert.Equal(t, -4*time.Hour, s.Min)
		assert.Equal(t, 2*time.Hour, s.Max)
	})

	t.Run("sub-second precision", func(t *testing.T) {
		s := Summarize([]time.Duration{1500 * time.Millisecond, 2500 * time.Millisecond})
		require.NotNil(t, s)
		assert.Equal(t, 2*time.Second, s.Mean)
	})

	t.Run("sum beyond duration range", func(t *testing.T) {
		big := time.Duration(math.MaxInt64 / 2)
		s := Summarize([]time.Duration{big, big, big})
		require.NotNil(t, s)
		assert.InDelta(t, float64(big), float64(s.Mean), float64(time.Second))
	})
}
