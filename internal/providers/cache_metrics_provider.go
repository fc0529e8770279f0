package providers

import "processingd/internal/structures"

// viewCacheMetrics counts hits and misses on the donation, group and settings
// view responses. A miss after a store change is expected: the version in the
// key moved and the view is recomputed.
type viewCacheMetrics struct {
	views   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *viewCacheMetrics) Get(key string) ([]byte, bool) {
	view, ok := c.views.Get(key)
	if ok {
		c.metrics.IncCacheHits()
	} else {
		c.metrics.IncCacheMisses()
	}
	return view, ok
}

func (c *viewCacheMetrics) Set(key string, view []byte) {
	c.views.Set(key, view)
}

// NewInstrumentedCacheProvider returns the view cache used by the controllers.
// A disabled or zero sized cache is returned bare, otherwise every lookup
// would be reported as a miss.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	views := NewCacheProvider(conf, logger)
	if _, disabled := views.(*noopCache); disabled {
		return views
	}
	return &viewCacheMetrics{views: views, metrics: metrics}
}
