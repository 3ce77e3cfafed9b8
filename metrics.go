package traycontrols

import "github.com/prometheus/client_golang/prometheus"

// Collector exports state and counters of a [Manager] as Prometheus metrics.
type Collector[G comparable] struct {
	manager *Manager[G]
	counter *prometheus.Desc
	gauge   *prometheus.Desc
}

// NewCollector returns a [Collector] for manager. Metric names are prefixed
// with namespace.
func NewCollector[G comparable](manager *Manager[G], namespace string) *Collector[G] {
	return &Collector[G]{
		manager: manager,
		counter: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "menu", "operations_total"),
			"Menu registry operation counters",
			[]string{"name"}, nil,
		),
		gauge: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "menu", "state"),
			"Menu registry state gauges",
			[]string{"name"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector[G]) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.counter
	ch <- c.gauge
}

// Collect implements prometheus.Collector.
func (c *Collector[G]) Collect(ch chan<- prometheus.Metric) {
	m := c.manager

	m.mu.Lock()
	stats := m.stats
	items := len(m.controls)
	groups := len(m.groups)
	selected := 0

	for _, g := range m.groups {
		if g.checked != "" {
			selected++
		}
	}
	m.mu.Unlock()

	ch <- prometheus.MustNewConstMetric(c.gauge, prometheus.GaugeValue, float64(items), "items")
	ch <- prometheus.MustNewConstMetric(c.gauge, prometheus.GaugeValue, float64(groups), "groups")
	ch <- prometheus.MustNewConstMetric(c.gauge, prometheus.GaugeValue, float64(selected), "selected_groups")
	ch <- prometheus.MustNewConstMetric(c.counter, prometheus.CounterValue, float64(stats.Inserts), "inserts")
	ch <- prometheus.MustNewConstMetric(c.counter, prometheus.CounterValue, float64(stats.Overwrites), "overwrites")
	ch <- prometheus.MustNewConstMetric(c.counter, prometheus.CounterValue, float64(stats.Removes), "removes")
	ch <- prometheus.MustNewConstMetric(c.counter, prometheus.CounterValue, float64(stats.Updates), "updates")
	ch <- prometheus.MustNewConstMetric(c.counter, prometheus.CounterValue, float64(stats.Misses), "misses")
	ch <- prometheus.MustNewConstMetric(c.counter, prometheus.CounterValue, float64(stats.FanOuts), "fanouts")
}
