package cache

import (
	"github.com/spf13/viper"
)

// LoadConfigFromViper builds a cache Config from viper under the
// cache.vector key space, falling back to defaults for unset values.
//
// Recognized keys:
//
//	cache.vector.max_memory_kb
//	cache.vector.max_vectors
//	cache.vector.lru_eviction_enabled
//	cache.vector.eviction_batch_size
func LoadConfigFromViper(v *viper.Viper) (*Config, error) {
	config := DefaultConfig()

	if v == nil {
		v = viper.GetViper()
	}

	if maxMemory := v.GetInt("cache.vector.max_memory_kb"); maxMemory > 0 {
		config.MaxMemoryKB = maxMemory
	}
	if maxVectors := v.GetInt("cache.vector.max_vectors"); maxVectors > 0 {
		config.MaxVectors = maxVectors
	}
	if v.IsSet("cache.vector.lru_eviction_enabled") {
		config.EnableLRUEviction = v.GetBool("cache.vector.lru_eviction_enabled")
	}
	if batchSize := v.GetInt("cache.vector.eviction_batch_size"); batchSize > 0 {
		config.EvictionBatchSize = batchSize
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
