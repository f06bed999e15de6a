package search

import "github.com/spf13/viper"

// LoadThresholdsFromViper builds performance budgets from viper under the
// search.thresholds key space, falling back to defaults for unset values.
//
// Recognized keys:
//
//	search.thresholds.total
//	search.thresholds.embedding
//	search.thresholds.search
func LoadThresholdsFromViper(v *viper.Viper) Thresholds {
	thresholds := DefaultThresholds()

	if v == nil {
		v = viper.GetViper()
	}

	if total := v.GetDuration("search.thresholds.total"); total > 0 {
		thresholds.Total = total
	}
	if embedding := v.GetDuration("search.thresholds.embedding"); embedding > 0 {
		thresholds.Embedding = embedding
	}
	if search := v.GetDuration("search.thresholds.search"); search > 0 {
		thresholds.Search = search
	}

	return thresholds
}
