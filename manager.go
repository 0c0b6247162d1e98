// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qcm

import (
	"math"

	"code.hybscloud.com/atomix"
	"github.com/sirupsen/logrus"
)

// NoneNotified is returned by [Manager.HighestNotifiedPriority] when no
// acquiring consumer is notified.
const NoneNotified = math.MinInt

// Manager tracks which consumers of one queue are eligible for work.
//
// Every registered consumer is indexed in the "all" collection and sits in
// exactly one eligibility list:
//
//	interested     - acquiring, wants work, not dispatch-ready (bucketed)
//	notified       - acquiring, dispatch-ready (bucketed)
//	not interested - does not want work (flat)
//	non-acquiring  - browsing consumer that wants work (flat)
//
// Methods belong to one of three caller roles:
//
//	Configuration  AddConsumer, RemoveConsumer     one call at a time per Manager
//	Consumer I/O   SetInterest                     one call at a time per consumer
//	Any I/O        SetNotified, queries, iterators no restriction
//
// Role violations that can be detected cheaply panic. All other
// operations never block: a false result means the precondition no longer
// holds and the caller should re-evaluate on its next trigger.
type Manager struct {
	queue    Queue
	log      logrus.FieldLogger
	observer Observer

	buckets       *PriorityBuckets
	all           BucketView
	interested    BucketView
	notified      BucketView
	notInterested *NodeList
	nonAcquiring  *NodeList

	_           pad
	count       atomix.Int64
	_           pad
	configuring atomix.Uint64
}

func newManager(queue Queue, opts Options) *Manager {
	b := NewPriorityBuckets()
	return &Manager{
		queue:         queue,
		log:           opts.logger,
		observer:      opts.observer,
		buckets:       b,
		all:           b.View(CollectionAll),
		interested:    b.View(CollectionInterested),
		notified:      b.View(CollectionNotified),
		notInterested: NewNodeList(),
		nonAcquiring:  NewNodeList(),
	}
}

// =============================================================================
// Configuration role
// =============================================================================

// AddConsumer registers c. Its initial state is NotInterested if it does
// not want work, otherwise Interested (acquiring) or NonAcquiring.
//
// Panics if c is already registered and not removed.
func (m *Manager) AddConsumer(c Consumer) {
	m.enterConfig("AddConsumer")
	defer m.exitConfig()

	s := c.slot()
	if prev := s.node.Load(); prev != nil && prev.State() != Removed {
		m.violation("consumer already registered", logrus.Fields{"priority": prev.priority})
	}

	n := newNode(m, c)
	s.node.Store(n)
	b, created := m.buckets.LocateOrCreate(n.priority)
	if created {
		m.log.WithField("priority", n.priority).Debug("qcm: priority bucket created")
	}
	n.bucket = b
	n.allEntry = b.all.Add(n)

	to := NotInterested
	if c.NotifyWorkDesired() {
		if n.acquires {
			to = Interested
		} else {
			to = NonAcquiring
		}
	}
	n.entry = m.listFor(n, to).Add(n)
	n.state.StoreRelease(uint64(to))
	m.count.AddAcqRel(1)

	m.log.WithFields(logrus.Fields{
		"priority": n.priority,
		"acquires": n.acquires,
		"state":    to.String(),
	}).Debug("qcm: consumer registered")
	m.observe(n, Removed, to)
}

// RemoveConsumer unregisters c. The priority bucket is pruned from every
// collection once its last consumer leaves. Returns false if c was
// already removed.
func (m *Manager) RemoveConsumer(c Consumer) bool {
	m.enterConfig("RemoveConsumer")
	defer m.exitConfig()

	n := m.nodeOf(c)
	prev, ok := n.claim(fromAnyLive)
	if !ok {
		return false
	}
	n.commit(Removed)
	n.allEntry.Remove()
	n.allEntry = nil
	if m.buckets.RemoveIfEmpty(n.priority) {
		m.log.WithField("priority", n.priority).Debug("qcm: priority bucket pruned")
	}
	m.count.AddAcqRel(-1)

	m.log.WithFields(logrus.Fields{
		"priority": n.priority,
		"acquires": n.acquires,
		"state":    prev.String(),
	}).Debug("qcm: consumer unregistered")
	m.observe(n, prev, Removed)
	return true
}

func (m *Manager) enterConfig(op string) {
	if !m.configuring.CompareAndSwapAcqRel(0, 1) {
		m.violation("concurrent configuration call", logrus.Fields{"op": op})
	}
}

func (m *Manager) exitConfig() {
	m.configuring.StoreRelease(0)
}

// =============================================================================
// Consumer I/O role
// =============================================================================

// SetInterest records whether c wants work.
//
// interested=true moves NotInterested to Interested (acquiring) or
// NonAcquiring (browsing). interested=false moves Interested or Notified
// (acquiring) or NonAcquiring (browsing) to NotInterested. Returns false
// if the node was not in an allowed source state, including when it has
// been removed.
//
// Panics if called concurrently for the same consumer.
func (m *Manager) SetInterest(c Consumer, interested bool) bool {
	n := m.nodeOf(c)
	if !n.interest.CompareAndSwapAcqRel(0, 1) {
		m.violation("concurrent SetInterest for one consumer", logrus.Fields{"priority": n.priority})
	}
	defer n.interest.StoreRelease(0)

	switch {
	case interested && n.acquires:
		return n.moveFromTo(fromNotInterested, Interested)
	case interested:
		return n.moveFromTo(fromNotInterested, NonAcquiring)
	case n.acquires:
		return n.moveFromTo(fromAcquiringLive, NotInterested)
	default:
		return n.moveFromTo(fromNonAcquiring, NotInterested)
	}
}

// =============================================================================
// Any I/O role
// =============================================================================

// SetNotified marks c dispatch-ready (notified=true) or returns it to
// Interested (notified=false).
//
// For notified=true the queue must report an available entry for c and no
// higher-priority consumer with credit ahead of it; the check and the
// transition form one atomic step for the node. While the check runs the
// node reads as Interested and other calls never wait for it: a rival
// SetNotified(c, true) returns false, while RemoveConsumer, SetInterest(c,
// false) and SetNotified(c, false) preempt the admission, which then
// returns false. Non-acquiring consumers are always eligible and the call
// reports true without effect.
func (m *Manager) SetNotified(c Consumer, notified bool) bool {
	n := m.nodeOf(c)
	if !n.acquires {
		return true
	}
	if !notified {
		return n.moveFromTo(fromNotified, Interested)
	}
	return m.admit(n)
}

// admit runs the queue's admission check under the admitting tag and
// commits to Notified unless the admission was preempted meanwhile.
func (m *Manager) admit(n *Node) (admitted bool) {
	w, ok := n.beginAdmission()
	if !ok {
		return false
	}
	defer func() {
		if !admitted {
			n.abandonAdmission(w)
		}
	}()

	entry, ok := m.queue.NextAvailableEntry(n.consumer)
	if !ok || !m.queue.NoHigherPriorityWithCredit(n.consumer, entry) {
		return false
	}
	if !n.finishAdmission(w) {
		return false
	}
	n.commit(Notified)
	admitted = true
	m.observe(n, Interested, Notified)
	return true
}

// =============================================================================
// Queries
// =============================================================================

// Total returns the number of registered consumers.
func (m *Manager) Total() int {
	return int(m.count.Load())
}

// NotifiedAcquiring returns the number of notified consumers.
func (m *Manager) NotifiedAcquiring() int {
	return m.notified.Len()
}

// HighestNotifiedPriority returns the priority of the first notified
// consumer in priority order, or [NoneNotified].
func (m *Manager) HighestNotifiedPriority() int {
	if n, ok := m.notified.Iter().Next(); ok {
		return n.priority
	}
	return NoneNotified
}

// StateOf returns the current state of c.
func (m *Manager) StateOf(c Consumer) State {
	return m.nodeOf(c).State()
}

// Priorities returns the priorities that currently have a bucket, highest
// first.
func (m *Manager) Priorities() []int {
	return m.buckets.Priorities()
}

// =============================================================================
// Internals
// =============================================================================

// nodeOf returns the node registered for c in m. Panics if c was never
// registered with m.
func (m *Manager) nodeOf(c Consumer) *Node {
	n := c.slot().node.Load()
	if n == nil {
		m.violation("consumer not registered", nil)
	}
	if n.m != m {
		m.violation("consumer registered with another manager", logrus.Fields{"priority": n.priority})
	}
	return n
}

// listFor returns the list a node in state s resides in, nil for Removed.
func (m *Manager) listFor(n *Node, s State) *NodeList {
	switch s {
	case Interested:
		return n.bucket.interested
	case Notified:
		return n.bucket.notified
	case NotInterested:
		return m.notInterested
	case NonAcquiring:
		return m.nonAcquiring
	default:
		return nil
	}
}

func (m *Manager) observe(n *Node, from, to State) {
	if m.observer != nil {
		m.observer.Transition(n.consumer, from, to)
	}
}

func (m *Manager) violation(msg string, fields logrus.Fields) {
	m.log.WithFields(fields).Error("qcm: " + msg)
	panic("qcm: " + msg)
}
