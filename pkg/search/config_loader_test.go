package search

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadThresholdsFromViper(t *testing.T) {
	t.Run("defaults when unset", func(t *testing.T) {
		thresholds := LoadThresholdsFromViper(viper.New())
		assert.Equal(t, DefaultThresholds(), thresholds)
	})

	t.Run("overrides", func(t *testing.T) {
		v := viper.New()
		v.Set("search.thresholds.total", "10s")
		v.Set("search.thresholds.embedding", "6s")
		v.Set("search.thresholds.search", "4s")

		thresholds := LoadThresholdsFromViper(v)
		assert.Equal(t, 10*time.Second, thresholds.Total)
		assert.Equal(t, 6*time.Second, thresholds.Embedding)
		assert.Equal(t, 4*time.Second, thresholds.Search)
	})

	t.Run("partial override keeps other defaults", func(t *testing.T) {
		v := viper.New()
		v.Set("search.thresholds.embedding", "500ms")

		thresholds := LoadThresholdsFromViper(v)
		assert.Equal(t, DefaultTotalBudget, thresholds.Total)
		assert.Equal(t, 500*time.Millisecond, thresholds.Embedding)
		assert.Equal(t, DefaultSearchBudget, thresholds.Search)
	})

	t.Run("non-positive values ignored", func(t *testing.T) {
		v := viper.New()
		v.Set("search.thresholds.total", "0s")
		v.Set("search.thresholds.search", "-1s")

		thresholds := LoadThresholdsFromViper(v)
		assert.Equal(t, DefaultThresholds(), thresholds)
	})
}
