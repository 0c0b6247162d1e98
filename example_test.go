// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qcm_test

import (
	"fmt"

	"code.hybscloud.com/qcm"
)

type subscriber struct {
	qcm.Slot
	name     string
	priority int
	browse   bool
}

func (s *subscriber) Priority() int           { return s.priority }
func (s *subscriber) Acquires() bool          { return !s.browse }
func (s *subscriber) NotifyWorkDesired() bool { return true }

// backlog is a queue with a fixed number of entries that admits a
// consumer only while no higher-priority consumer is notified.
type backlog struct {
	m       *qcm.Manager
	entries int
}

func (b *backlog) NextAvailableEntry(qcm.Consumer) (qcm.QueueEntry, bool) {
	return b.entries, b.entries > 0
}

func (b *backlog) NoHigherPriorityWithCredit(c qcm.Consumer, _ qcm.QueueEntry) bool {
	return b.m.HighestNotifiedPriority() <= c.Priority()
}

// ExampleManager demonstrates priority-aware admission.
func ExampleManager() {
	q := &backlog{entries: 3}
	m := qcm.NewManager(q)
	q.m = m

	high := &subscriber{name: "high", priority: 10}
	low := &subscriber{name: "low", priority: 5}
	m.AddConsumer(high)
	m.AddConsumer(low)

	fmt.Println("high notified:", m.SetNotified(high, true))
	fmt.Println("low notified:", m.SetNotified(low, true))

	// high runs out of credit
	m.SetNotified(high, false)
	fmt.Println("low notified:", m.SetNotified(low, true))
	fmt.Println("highest:", m.HighestNotifiedPriority())

	// Output:
	// high notified: true
	// low notified: false
	// low notified: true
	// highest: 5
}

// ExampleManager_Interested demonstrates prioritized iteration.
func ExampleManager_Interested() {
	m := qcm.NewManager(&backlog{})
	for _, s := range []*subscriber{
		{name: "b", priority: 1},
		{name: "a", priority: 7},
		{name: "c", priority: 1},
		{name: "browser", browse: true},
	} {
		m.AddConsumer(s)
	}

	for c := range m.Interested() {
		s := c.(*subscriber)
		fmt.Println(s.name, s.priority)
	}
	for c := range m.NonAcquiring() {
		fmt.Println("browsing:", c.(*subscriber).name)
	}

	// Output:
	// a 7
	// b 1
	// c 1
	// browsing: browser
}

// ExampleIterator demonstrates pull iteration until ErrWouldBlock.
func ExampleIterator() {
	q := &backlog{entries: 1}
	m := qcm.NewManager(q)
	q.m = m
	s := &subscriber{name: "only"}
	m.AddConsumer(s)
	m.SetNotified(s, true)

	it := m.NotifiedIterator()
	for {
		c, err := it.Next()
		if qcm.IsWouldBlock(err) {
			fmt.Println("exhausted")
			break
		}
		fmt.Println("deliver to", c.(*subscriber).name)
	}

	// Output:
	// deliver to only
	// exhausted
}

// ExampleManager_RemoveConsumer demonstrates bucket pruning.
func ExampleManager_RemoveConsumer() {
	m := qcm.NewManager(&backlog{})
	a := &subscriber{priority: 3}
	b := &subscriber{priority: 8}
	m.AddConsumer(a)
	m.AddConsumer(b)
	fmt.Println(m.Priorities(), m.Total())

	fmt.Println(m.RemoveConsumer(b), m.RemoveConsumer(b))
	fmt.Println(m.Priorities(), m.Total(), m.StateOf(b))

	// Output:
	// [8 3] 2
	// true false
	// [3] 1 REMOVED
}
