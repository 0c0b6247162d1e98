// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qcm

import "sync/atomic"

// Consumer is a subscriber attached to a queue.
//
// Priority, Acquires and NotifyWorkDesired are read once at registration.
// Priority and Acquires must not change for the lifetime of a registration.
//
// Implementations satisfy the unexported slot method by embedding [Slot]:
//
//	type subscriber struct {
//	    qcm.Slot
//	    prio int
//	}
//
//	func (s *subscriber) Priority() int           { return s.prio }
//	func (s *subscriber) Acquires() bool          { return true }
//	func (s *subscriber) NotifyWorkDesired() bool { return true }
type Consumer interface {
	// Priority orders consumers; higher values are served first.
	Priority() int

	// Acquires reports whether consuming removes the message from the
	// queue. Non-acquiring consumers browse.
	Acquires() bool

	// NotifyWorkDesired reports whether the consumer currently wants to be
	// woken up for work.
	NotifyWorkDesired() bool

	slot() *Slot
}

// Slot holds the manager-side node of a consumer. Embed it by value in the
// consumer type; the zero value is an unregistered consumer.
//
// The node pointer outlives removal so that late calls from I/O paths
// observe the Removed state instead of an unknown consumer.
type Slot struct {
	node atomic.Pointer[Node]
}

func (s *Slot) slot() *Slot { return s }

// QueueEntry is an opaque message position handed out by the [Queue].
type QueueEntry any

// Queue is the delivery and credit side of the owning queue.
//
// Both methods are consulted from SetNotified(c, true) while c's admission
// is pending. They must not block. They may query the manager, including
// the state of c and of other consumers; a transition of c made from
// inside them preempts the pending admission.
type Queue interface {
	// NextAvailableEntry returns the next entry the consumer could take,
	// or false if there is none.
	NextAvailableEntry(c Consumer) (QueueEntry, bool)

	// NoHigherPriorityWithCredit reports whether no consumer of strictly
	// higher priority than c holds credit to take entry first.
	NoHigherPriorityWithCredit(c Consumer, entry QueueEntry) bool
}

// Observer receives committed state transitions.
//
// Transition is called after the node has moved, from whatever goroutine
// performed the move. Registration reports from=Removed; unregistration
// reports to=Removed. Implementations must be safe for concurrent use and
// must not block.
type Observer interface {
	Transition(c Consumer, from, to State)
}
