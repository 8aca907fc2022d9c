package cache

import (
	"encoding/json"
	"log/slog"

	"github.com/maypok86/otter"
	"github.com/nerdwave-nick/pokeview/internal/metrics"
)

const otterLayer = "otter"

// OtterCache is the in-memory layer. Values are stored as JSON so every layer
// shares one encoding.
type OtterCache struct {
	cache   *otter.Cache[string, []byte]
	metrics *metrics.Metrics
}

func NewOtterCache(c *otter.Cache[string, []byte], m *metrics.Metrics) *OtterCache {
	return &OtterCache{cache: c, metrics: m}
}

func (c *OtterCache) Set(endpoint string, value any) error {
	slog.Debug("writing to otter cache", slog.String("endpoint", endpoint))
	bytes, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_ = c.cache.Set(endpoint, bytes)
	return nil
}

func (c *OtterCache) Get(endpoint string, value any) (bool, error) {
	bytes, found := c.cache.Get(endpoint)
	if !found {
		c.metrics.CacheMiss(otterLayer)
		return false, nil
	}
	err := json.Unmarshal(bytes, value)
	if err != nil {
		slog.Debug("unmarshalling from otter cache", slog.String("endpoint", endpoint), slog.Any("error", err))
		return true, err
	}
	c.metrics.CacheHit(otterLayer)
	return true, nil
}
