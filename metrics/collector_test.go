// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package metrics_test

import (
	"strings"
	"testing"

	"code.hybscloud.com/qcm"
	"code.hybscloud.com/qcm/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type consumer struct {
	qcm.Slot
	priority int
}

func (c *consumer) Priority() int           { return c.priority }
func (c *consumer) Acquires() bool          { return true }
func (c *consumer) NotifyWorkDesired() bool { return true }

type queue struct{}

func (queue) NextAvailableEntry(qcm.Consumer) (qcm.QueueEntry, bool) { return 1, true }
func (queue) NoHigherPriorityWithCredit(qcm.Consumer, qcm.QueueEntry) bool {
	return true
}

func TestCollector(t *testing.T) {
	orders := qcm.NewManager(queue{})
	audit := qcm.NewManager(queue{})
	c1, c2 := &consumer{priority: 2}, &consumer{priority: 9}
	orders.AddConsumer(c1)
	orders.AddConsumer(c2)
	orders.SetNotified(c1, true)
	audit.AddConsumer(&consumer{})

	collector := metrics.NewCollector()
	collector.Track("orders", orders)
	collector.Track("audit", audit)

	expected := `
# HELP qcm_consumers_highest_notified_priority The highest priority among notified consumers
# TYPE qcm_consumers_highest_notified_priority gauge
qcm_consumers_highest_notified_priority{queue="orders"} 2
# HELP qcm_consumers_notified The number of acquiring consumers currently dispatch-ready
# TYPE qcm_consumers_notified gauge
qcm_consumers_notified{queue="audit"} 0
qcm_consumers_notified{queue="orders"} 1
# HELP qcm_consumers_total The number of consumers registered with the queue
# TYPE qcm_consumers_total gauge
qcm_consumers_total{queue="audit"} 1
qcm_consumers_total{queue="orders"} 2
`
	require.NoError(t, testutil.CollectAndCompare(collector, strings.NewReader(expected)))

	t.Run("reads state at scrape time", func(t *testing.T) {
		orders.SetNotified(c2, true)
		collector.Untrack("audit")

		expected := `
# HELP qcm_consumers_highest_notified_priority The highest priority among notified consumers
# TYPE qcm_consumers_highest_notified_priority gauge
qcm_consumers_highest_notified_priority{queue="orders"} 9
# HELP qcm_consumers_notified The number of acquiring consumers currently dispatch-ready
# TYPE qcm_consumers_notified gauge
qcm_consumers_notified{queue="orders"} 2
`
		assert.NoError(t, testutil.CollectAndCompare(collector, strings.NewReader(expected),
			"qcm_consumers_highest_notified_priority", "qcm_consumers_notified"))
	})

	t.Run("registers with a registry", func(t *testing.T) {
		reg := prometheus.NewPedanticRegistry()
		require.NoError(t, reg.Register(collector))
		assert.Equal(t, 3, testutil.CollectAndCount(collector))
	})
}

func TestTransitions(t *testing.T) {
	transitions := metrics.NewTransitions("orders")
	q := queue{}
	m := qcm.New(q).Observer(transitions).Build()

	c := &consumer{priority: 1}
	m.AddConsumer(c)
	for range 3 {
		m.SetNotified(c, true)
		m.SetNotified(c, false)
	}
	m.SetNotified(c, true)
	m.SetNotified(c, true) // lost race, not counted
	m.RemoveConsumer(c)

	assert.Equal(t, float64(1), testutil.ToFloat64(transitions.Counter(qcm.Removed, qcm.Interested)))
	assert.Equal(t, float64(4), testutil.ToFloat64(transitions.Counter(qcm.Interested, qcm.Notified)))
	assert.Equal(t, float64(3), testutil.ToFloat64(transitions.Counter(qcm.Notified, qcm.Interested)))
	assert.Equal(t, float64(1), testutil.ToFloat64(transitions.Counter(qcm.Notified, qcm.Removed)))
	assert.Equal(t, float64(0), testutil.ToFloat64(transitions.Counter(qcm.Interested, qcm.NotInterested)))

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(transitions))
	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "qcm_consumers_transitions_total", families[0].GetName())
}
