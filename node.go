// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qcm

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Node is the manager-side record of one registered consumer.
//
// The state tag doubles as the ownership token for the node's list
// membership: a transition CASes the tag from an allowed source state to
// moving, relocates the entry, then publishes the destination state with a
// release store. Only the goroutine that won the CAS touches entry, so a
// node is never detached twice or attached to two lists.
//
// The queue admission check runs under the admitting tag, not moving:
// the node stays in the interested list and any other transition may
// preempt the admission instead of waiting for the queue.
type Node struct {
	m        *Manager
	consumer Consumer
	priority int
	acquires bool
	bucket   *Bucket

	state    atomix.Uint64
	allEntry *Entry // configuration role only
	entry    *Entry // owned by the state claim holder
	epoch    atomix.Uint64 // last admission
	interest atomix.Uint64
}

func newNode(m *Manager, c Consumer) *Node {
	return &Node{
		m:        m,
		consumer: c,
		priority: c.Priority(),
		acquires: c.Acquires(),
	}
}

// Consumer returns the consumer this node tracks.
func (n *Node) Consumer() Consumer {
	return n.consumer
}

// Priority returns the priority captured at registration.
func (n *Node) Priority() int {
	return n.priority
}

// State returns the node's settled state, waiting out an in-flight move.
// A node whose admission is pending reads as Interested.
func (n *Node) State() State {
	sw := spin.Wait{}
	for {
		switch s := tagOf(n.state.LoadAcquire()); s {
		case moving:
			sw.Once()
		case admitting:
			return Interested
		default:
			return s
		}
	}
}

// claim takes ownership of the node if its state is in from. It returns the
// state it observed; ok is false when that state is not an allowed source.
//
// Claiming an admitting node preempts the admission, which then fails to
// commit. The node is reported as Interested, where it still resides.
func (n *Node) claim(from stateSet) (prev State, ok bool) {
	sw := spin.Wait{}
	for {
		w := n.state.LoadAcquire()
		s := tagOf(w)
		if s == moving {
			sw.Once()
			continue
		}
		if s == admitting {
			prev = Interested
		} else {
			prev = s
		}
		if !from.has(s) {
			return prev, false
		}
		if n.state.CompareAndSwapAcqRel(w, uint64(moving)) {
			return prev, true
		}
	}
}

// beginAdmission marks an Interested node as admitting and returns the
// word to finish or abandon it with. It fails at once if the node is not
// Interested, including when another admission is pending.
func (n *Node) beginAdmission() (w uint64, ok bool) {
	sw := spin.Wait{}
	for {
		s := tagOf(n.state.LoadAcquire())
		if s == moving {
			sw.Once()
			continue
		}
		if s != Interested {
			return 0, false
		}
		w = admittingWord(n.epoch.AddAcqRel(1))
		if n.state.CompareAndSwapAcqRel(uint64(Interested), w) {
			return w, true
		}
	}
}

// finishAdmission claims the node for the move to Notified. It fails if
// the admission w was preempted.
func (n *Node) finishAdmission(w uint64) bool {
	return n.state.CompareAndSwapAcqRel(w, uint64(moving))
}

// abandonAdmission returns the node to Interested unless the admission w
// was preempted.
func (n *Node) abandonAdmission(w uint64) {
	n.state.CompareAndSwapAcqRel(w, uint64(Interested))
}

// commit relocates a claimed node to the list for to and publishes to.
// A node already in that list keeps its entry and position.
func (n *Node) commit(to State) {
	l := n.m.listFor(n, to)
	if n.entry == nil || n.entry.list != l {
		if n.entry != nil {
			n.entry.Remove()
			n.entry = nil
		}
		if l != nil {
			n.entry = l.Add(n)
		}
	}
	n.state.StoreRelease(uint64(to))
}

// moveFromTo atomically moves the node from any state in from to to.
// Losing to a concurrent transition is reported as false.
func (n *Node) moveFromTo(from stateSet, to State) bool {
	prev, ok := n.claim(from)
	if !ok {
		return false
	}
	n.commit(to)
	if prev != to {
		n.m.observe(n, prev, to)
	}
	return true
}
