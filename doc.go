// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package qcm provides the per-queue consumer manager of a message broker.
//
// A [Manager] decides which consumers attached to one queue are currently
// eligible for work. It keeps every consumer in exactly one eligibility
// list and moves it between lists as interest and availability change:
//
//	acquiring:  NOT_INTERESTED ⇄ INTERESTED ⇄ NOTIFIED
//	browsing:   NOT_INTERESTED ⇄ NON_ACQUIRING
//
// SetInterest moves between NOT_INTERESTED and the interested side
// (NOTIFIED drops straight to NOT_INTERESTED). SetNotified moves between
// INTERESTED and NOTIFIED. RemoveConsumer moves any state to REMOVED.
//
// # Quick Start
//
//	type subscriber struct {
//	    qcm.Slot
//	    priority int
//	    browse   bool
//	}
//
//	func (s *subscriber) Priority() int           { return s.priority }
//	func (s *subscriber) Acquires() bool          { return !s.browse }
//	func (s *subscriber) NotifyWorkDesired() bool { return true }
//
//	m := qcm.NewManager(queue)
//	s := &subscriber{priority: 10}
//	m.AddConsumer(s)               // INTERESTED
//	if m.SetNotified(s, true) {    // admitted by the queue
//	    // s is dispatch-ready
//	}
//
// # Priorities
//
// The "all", "interested" and "notified" collections are bucketed by
// priority. Buckets are kept strictly descending and are created and
// pruned together by the configuration role, so delivery-path transitions
// never allocate bucket structure. Prioritized iteration visits buckets
// highest first and consumers of one bucket in the order they entered it.
//
// SetNotified(c, true) consults the [Queue] for an available entry and for
// a higher-priority consumer with credit. Only when both checks pass does
// c become notified, so a consumer is dispatch-ready only when nothing of
// higher priority is better positioned to consume first.
//
// # Caller Roles
//
// Each method belongs to one caller role:
//
//   - Configuration: AddConsumer, RemoveConsumer. One call at a time per
//     Manager, typically from the link attach/detach path.
//   - Consumer I/O: SetInterest. One call at a time per consumer, from the
//     consumer's own connection goroutine.
//   - Any I/O: SetNotified, iterators and counters. No restriction.
//
// Concurrent configuration calls and concurrent SetInterest calls for one
// consumer panic. Operating on a consumer that was never registered panics.
//
// # Races
//
// Losing a race is an expected outcome, not an error. A transition whose
// source state no longer holds returns false and leaves the node alone;
// the caller re-evaluates on its next trigger (delivery attempt, credit
// change). When 100 goroutines call SetNotified(c, true) at once, exactly
// one succeeds.
//
// Each transition is a compare-and-move on the node: the state tag is
// CASed to a transient claim, the list entry is relocated, then the
// destination state is published. Goroutines that observe a claim spin
// briefly ([code.hybscloud.com/spin]) until it settles; no foreign code
// runs inside a claim.
//
// The [Queue] admission check of SetNotified(c, true) runs outside any
// claim. While it is pending c reads as INTERESTED, a rival admission of c
// loses at once, and any other transition of c preempts it. Admissions of
// different consumers never wait for each other.
//
// # Iteration
//
// Iterators are weakly consistent. They never panic under concurrent
// transitions, never yield a consumer twice and always terminate; they may
// or may not observe concurrent moves. Pull iterators return
// [ErrWouldBlock] when exhausted:
//
//	it := m.NotifiedIterator()
//	for c, err := it.Next(); err == nil; c, err = it.Next() {
//	    deliver(c)
//	}
//
// Range-over-func sequences are available too:
//
//	for c := range m.Interested() {
//	    ...
//	}
//
// # Observability
//
// [Builder.Logger] injects a [github.com/sirupsen/logrus] logger for
// configuration-role events and contract violations. [Builder.Observer]
// receives every committed transition; package metrics provides a
// Prometheus observer and collector.
//
// # Race Detection
//
// Node list membership is handed over through acquire-release operations
// on the state tag ([code.hybscloud.com/atomix]). Go's race detector cannot
// observe these happens-before edges, so concurrent stress tests are
// skipped when [RaceEnabled] is set.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, [code.hybscloud.com/spin] for CPU pause instructions,
// [github.com/sirupsen/logrus] for logging and
// [github.com/hashicorp/go-multierror] for invariant reports.
package qcm
