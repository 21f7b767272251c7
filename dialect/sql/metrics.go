package sql

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StatsCollector exports QueryStats as Prometheus metrics.
type StatsCollector struct {
	stats      *QueryStats
	statements *prometheus.Desc
	duration   *prometheus.Desc
	slow       *prometheus.Desc
	errors     *prometheus.Desc
}

// NewStatsCollector returns a collector reading from stats. Metric names are
// prefixed with namespace.
func NewStatsCollector(namespace string, stats *QueryStats) *StatsCollector {
	return &StatsCollector{
		stats: stats,
		statements: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "sql", "statements_total"),
			"Number of statements executed.",
			[]string{"kind"}, nil,
		),
		duration: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "sql", "duration_seconds_total"),
			"Total time spent executing statements.",
			nil, nil,
		),
		slow: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "sql", "slow_statements_total"),
			"Number of statements exceeding the slow threshold.",
			nil, nil,
		),
		errors: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "sql", "errors_total"),
			"Number of failed statements.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.statements
	ch <- c.duration
	ch <- c.slow
	ch <- c.errors
}

// Collect implements prometheus.Collector.
func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats.Stats()
	ch <- prometheus.MustNewConstMetric(c.statements, prometheus.CounterValue, float64(s.TotalQueries), "query")
	ch <- prometheus.MustNewConstMetric(c.statements, prometheus.CounterValue, float64(s.TotalExecs), "exec")
	ch <- prometheus.MustNewConstMetric(c.statements, prometheus.CounterValue, float64(s.TotalInserts), "insert")
	ch <- prometheus.MustNewConstMetric(c.duration, prometheus.CounterValue, s.TotalDuration.Seconds())
	ch <- prometheus.MustNewConstMetric(c.slow, prometheus.CounterValue, float64(s.SlowQueries))
	ch <- prometheus.MustNewConstMetric(c.errors, prometheus.CounterValue, float64(s.Errors))
}

var _ prometheus.Collector = (*StatsCollector)(nil)
