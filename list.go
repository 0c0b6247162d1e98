// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qcm

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// sweepSlack is the number of tombstones tolerated beyond the live count
// before Remove unlinks them.
const sweepSlack = 32

// Entry is a handle into a [NodeList]. It removes its node in O(1)
// without searching the list.
type Entry struct {
	node    *Node
	list    *NodeList
	seq     uint64
	next    atomic.Pointer[Entry]
	deleted atomix.Uint64 // 0 = live, 1 = tombstoned
}

// Node returns the node this entry refers to.
func (e *Entry) Node() *Node {
	return e.node
}

// Remove detaches the entry from its list. Idempotent.
func (e *Entry) Remove() bool {
	return e.list.Remove(e)
}

// NodeList is an unbounded lock-free list of consumer nodes.
//
// Appends link at the tail with CAS (Michael-Scott); removal tombstones
// the entry and leaves physical unlinking to an amortized sweep. Any
// number of goroutines may Add, Remove and iterate concurrently.
//
// Iteration is weakly consistent: a cursor never yields an entry twice,
// never yields an entry appended after the cursor was created, skips
// tombstoned entries and terminates.
//
// Memory: one Entry per append until swept.
type NodeList struct {
	head     *Entry // sentinel, never removed
	tail     atomic.Pointer[Entry]
	_        pad
	seq      atomix.Uint64 // last assigned entry sequence
	_        pad
	size     atomix.Int64 // live entries
	dead     atomix.Int64 // tombstones since last sweep
	sweeping atomix.Uint64
}

// NewNodeList creates an empty list.
func NewNodeList() *NodeList {
	l := &NodeList{head: &Entry{}}
	l.head.list = l
	l.tail.Store(l.head)
	return l
}

// Add appends n and returns its removal handle.
func (l *NodeList) Add(n *Node) *Entry {
	e := &Entry{node: n, list: l}
	e.seq = l.seq.AddAcqRel(1)

	sw := spin.Wait{}
	for {
		tail := l.tail.Load()
		next := tail.next.Load()
		if next != nil {
			// Lagging tail: help it forward.
			l.tail.CompareAndSwap(tail, next)
			continue
		}
		if tail.next.CompareAndSwap(nil, e) {
			l.tail.CompareAndSwap(tail, e)
			l.size.AddAcqRel(1)
			return e
		}
		sw.Once()
	}
}

// Remove tombstones e. Returns false if e was already removed or does not
// belong to l.
func (l *NodeList) Remove(e *Entry) bool {
	if e == nil || e.list != l || e == l.head {
		return false
	}
	if !e.deleted.CompareAndSwapAcqRel(0, 1) {
		return false
	}
	l.size.AddAcqRel(-1)
	if l.dead.AddAcqRel(1) > l.size.Load()+sweepSlack {
		l.sweep()
	}
	return true
}

// IsEmpty reports whether the list holds no live entries.
func (l *NodeList) IsEmpty() bool {
	return l.size.Load() <= 0
}

// Len returns the number of live entries.
func (l *NodeList) Len() int {
	if n := l.size.Load(); n > 0 {
		return int(n)
	}
	return 0
}

// Iter returns a cursor positioned before the first entry.
func (l *NodeList) Iter() *Cursor {
	return &Cursor{pred: l.head, limit: l.seq.LoadAcquire()}
}

// sweep unlinks tombstoned entries that have a successor. The last entry
// stays linked so appenders always find the live end of the chain.
//
// Links only ever skip tombstoned entries and never point backwards, so a
// concurrent cursor cannot lose a live entry or revisit one. At most one
// sweep runs at a time; a Remove that loses the race leaves its tombstone
// for the next sweep.
func (l *NodeList) sweep() {
	if !l.sweeping.CompareAndSwapAcqRel(0, 1) {
		return
	}
	defer l.sweeping.StoreRelease(0)
	l.dead.Store(0)

	pred := l.head
	for {
		curr := pred.next.Load()
		if curr == nil {
			return
		}
		next := curr.next.Load()
		if next != nil && curr.deleted.LoadAcquire() == 1 {
			if pred.next.CompareAndSwap(curr, next) {
				continue
			}
		}
		pred = curr
	}
}

// Cursor walks a [NodeList] forward.
type Cursor struct {
	pred  *Entry
	limit uint64
}

// Next advances to the next live entry and returns its node.
// Returns (nil, false) once the end is reached.
func (c *Cursor) Next() (*Node, bool) {
	for {
		e := c.pred.next.Load()
		if e == nil {
			return nil, false
		}
		c.pred = e
		if e.seq > c.limit {
			continue
		}
		if e.deleted.LoadAcquire() == 0 {
			return e.node, true
		}
	}
}
