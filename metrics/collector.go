// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics exposes consumer manager state to Prometheus.
//
// Exposed metrics:
//   - qcm_consumers_total{queue} - registered consumers
//   - qcm_consumers_notified{queue} - notified acquiring consumers
//   - qcm_consumers_highest_notified_priority{queue} - omitted while none is notified
//   - qcm_consumers_transitions_total{queue,from,to} - committed transitions
package metrics

import (
	"slices"
	"sync"

	"code.hybscloud.com/qcm"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	prometheusNamespace = "qcm"
	prometheusSubsystem = "consumers"
)

// StatsGetter provides the counters of one queue's consumer manager.
// [*qcm.Manager] implements it.
type StatsGetter interface {
	Total() int
	NotifiedAcquiring() int
	HighestNotifiedPriority() int
}

// Collector reads consumer manager state at scrape time.
type Collector struct {
	mu     sync.RWMutex
	queues map[string]StatsGetter

	totalDesc    *prometheus.Desc
	notifiedDesc *prometheus.Desc
	highestDesc  *prometheus.Desc
}

// NewCollector creates an empty collector. Queues are added with Track.
func NewCollector() *Collector {
	return &Collector{
		queues: make(map[string]StatsGetter),

		totalDesc: prometheus.NewDesc(
			prometheus.BuildFQName(prometheusNamespace, prometheusSubsystem, "total"),
			"The number of consumers registered with the queue",
			[]string{"queue"},
			nil),
		notifiedDesc: prometheus.NewDesc(
			prometheus.BuildFQName(prometheusNamespace, prometheusSubsystem, "notified"),
			"The number of acquiring consumers currently dispatch-ready",
			[]string{"queue"},
			nil),
		highestDesc: prometheus.NewDesc(
			prometheus.BuildFQName(prometheusNamespace, prometheusSubsystem, "highest_notified_priority"),
			"The highest priority among notified consumers",
			[]string{"queue"},
			nil),
	}
}

// Track starts reporting stats under the queue label, replacing any
// earlier getter for the same queue.
func (c *Collector) Track(queue string, stats StatsGetter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queues[queue] = stats
}

// Untrack stops reporting the queue.
func (c *Collector) Untrack(queue string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.queues, queue)
}

// Describe implements the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalDesc
	ch <- c.notifiedDesc
	ch <- c.highestDesc
}

// Collect implements the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	names := make([]string, 0, len(c.queues))
	for name := range c.queues {
		names = append(names, name)
	}
	slices.Sort(names)
	stats := make([]StatsGetter, len(names))
	for i, name := range names {
		stats[i] = c.queues[name]
	}
	c.mu.RUnlock()

	for i, name := range names {
		s := stats[i]
		collect(ch, c.totalDesc, s.Total(), name)
		collect(ch, c.notifiedDesc, s.NotifiedAcquiring(), name)
		if p := s.HighestNotifiedPriority(); p != qcm.NoneNotified {
			collect(ch, c.highestDesc, p, name)
		}
	}
}

func collect(ch chan<- prometheus.Metric, desc *prometheus.Desc, value int, labels ...string) {
	ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(value), labels...)
}
