package pool

import "github.com/prometheus/client_golang/prometheus"

// Collector exports registry counters as prometheus metrics.
//
//	prometheus.MustRegister(pool.NewCollector(reg))
type Collector struct {
	registry  *Registry
	created   *prometheus.Desc
	instances *prometheus.Desc
	inUse     *prometheus.Desc
	free      *prometheus.Desc
	highWater *prometheus.Desc
}

// NewCollector returns a collector reading from reg on every scrape.
func NewCollector(reg *Registry) *Collector {
	labels := []string{"pool"}
	return &Collector{
		registry: reg,
		created: prometheus.NewDesc(
			"stage_pool_created_total",
			"Instances the pool has instantiated.",
			labels, nil),
		instances: prometheus.NewDesc(
			"stage_pool_instances",
			"Live instances tracked by the pool, free or in use.",
			labels, nil),
		inUse: prometheus.NewDesc(
			"stage_pool_in_use",
			"Instances handed out and not yet returned.",
			labels, nil),
		free: prometheus.NewDesc(
			"stage_pool_free",
			"Instances queued for reuse.",
			labels, nil),
		highWater: prometheus.NewDesc(
			"stage_pool_high_water",
			"Largest number of instances in use at once.",
			labels, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.created
	ch <- c.instances
	ch <- c.inUse
	ch <- c.free
	ch <- c.highWater
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range c.registry.Stats() {
		ch <- prometheus.MustNewConstMetric(c.created, prometheus.CounterValue, float64(s.Created), s.Pool)
		ch <- prometheus.MustNewConstMetric(c.instances, prometheus.GaugeValue, float64(s.Live), s.Pool)
		ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(s.InUse), s.Pool)
		ch <- prometheus.MustNewConstMetric(c.free, prometheus.GaugeValue, float64(s.Free), s.Pool)
		ch <- prometheus.MustNewConstMetric(c.highWater, prometheus.GaugeValue, float64(s.HighWater), s.Pool)
	}
}
