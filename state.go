// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qcm

// State is the eligibility state of a registered consumer.
//
// A node's state always names the list it resides in:
//
//	Removed       - no list (and absent from the "all" index)
//	Interested    - priority-bucketed interested list
//	NotInterested - flat not-interested list
//	Notified      - priority-bucketed notified list
//	NonAcquiring  - flat non-acquiring (browsing) list
type State uint64

const (
	Removed State = iota
	Interested
	NotInterested
	Notified
	NonAcquiring

	// admitting marks an interested node whose admission check is running.
	// The node still resides in the interested list and reads as Interested.
	admitting

	// moving marks a node whose list membership is being changed by the
	// thread that claimed it. Never observable through the public API.
	moving State = 0xff
)

// The state word holds the State tag in its low byte. While a node is
// admitting, the upper bits carry the admission's epoch so that a stale
// admission cannot complete one that started after it was preempted.
const (
	tagBits = 8
	tagMask = 1<<tagBits - 1
)

func tagOf(w uint64) State {
	return State(w & tagMask)
}

func admittingWord(epoch uint64) uint64 {
	return epoch<<tagBits | uint64(admitting)
}

// String returns the state name.
func (s State) String() string {
	switch s {
	case Removed:
		return "REMOVED"
	case Interested:
		return "INTERESTED"
	case NotInterested:
		return "NOT_INTERESTED"
	case Notified:
		return "NOTIFIED"
	case NonAcquiring:
		return "NON_ACQUIRING"
	case admitting:
		return "ADMITTING"
	case moving:
		return "MOVING"
	default:
		return "UNKNOWN"
	}
}

// stateSet is a bitmask of allowed source states for a transition.
type stateSet uint8

func setOf(states ...State) stateSet {
	var s stateSet
	for _, st := range states {
		s |= 1 << st
	}
	return s
}

func (s stateSet) has(st State) bool {
	return st <= admitting && s&(1<<st) != 0
}

var (
	fromNotInterested = setOf(NotInterested)
	fromNotified      = setOf(Notified, admitting)
	fromNonAcquiring  = setOf(NonAcquiring)
	fromAcquiringLive = setOf(Interested, Notified, admitting)
	fromAnyLive       = setOf(Interested, NotInterested, Notified, NonAcquiring, admitting)
)
