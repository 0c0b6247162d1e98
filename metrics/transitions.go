// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"code.hybscloud.com/qcm"
	"github.com/prometheus/client_golang/prometheus"
)

// Transitions counts committed state transitions of one queue.
// It implements [qcm.Observer] and prometheus.Collector.
type Transitions struct {
	counter *prometheus.CounterVec
}

var _ qcm.Observer = (*Transitions)(nil)

// NewTransitions creates a transition counter labelled with queue.
func NewTransitions(queue string) *Transitions {
	return &Transitions{
		counter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   prometheusNamespace,
			Subsystem:   prometheusSubsystem,
			Name:        "transitions_total",
			Help:        "The number of committed consumer state transitions",
			ConstLabels: prometheus.Labels{"queue": queue},
		}, []string{"from", "to"}),
	}
}

// Transition implements qcm.Observer.
func (t *Transitions) Transition(_ qcm.Consumer, from, to qcm.State) {
	t.counter.WithLabelValues(from.String(), to.String()).Inc()
}

// Counter returns the counter for one from/to pair.
func (t *Transitions) Counter(from, to qcm.State) prometheus.Counter {
	return t.counter.WithLabelValues(from.String(), to.String())
}

// Describe implements the prometheus.Collector interface.
func (t *Transitions) Describe(ch chan<- *prometheus.Desc) {
	t.counter.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (t *Transitions) Collect(ch chan<- prometheus.Metric) {
	t.counter.Collect(ch)
}
