// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qcm

import (
	"slices"
	"sync/atomic"
)

// Collection selects one of the priority-bucketed collections.
type Collection uint8

const (
	CollectionAll Collection = iota
	CollectionInterested
	CollectionNotified
)

// Bucket holds the nodes of one priority value. A single Bucket carries the
// "all", "interested" and "notified" lists for its priority, so the three
// collections gain and lose buckets together.
type Bucket struct {
	priority   int
	all        *NodeList
	interested *NodeList
	notified   *NodeList
}

func newBucket(priority int) *Bucket {
	return &Bucket{
		priority:   priority,
		all:        NewNodeList(),
		interested: NewNodeList(),
		notified:   NewNodeList(),
	}
}

// Priority returns the bucket's priority.
func (b *Bucket) Priority() int {
	return b.priority
}

// List returns the bucket's list for collection c.
func (b *Bucket) List(c Collection) *NodeList {
	switch c {
	case CollectionInterested:
		return b.interested
	case CollectionNotified:
		return b.notified
	default:
		return b.all
	}
}

// PriorityBuckets is a strictly descending sequence of priority tiers.
//
// The tier slice is copy-on-write: LocateOrCreate and RemoveIfEmpty
// publish a new slice, readers iterate the slice loaded when their cursor
// was created. Structural mutation is single-writer (the configuration
// role); iteration is safe from any goroutine.
type PriorityBuckets struct {
	tiers atomic.Pointer[[]*Bucket]
}

// NewPriorityBuckets creates an empty bucket sequence.
func NewPriorityBuckets() *PriorityBuckets {
	b := &PriorityBuckets{}
	b.tiers.Store(&[]*Bucket{})
	return b
}

func (b *PriorityBuckets) snapshot() []*Bucket {
	return *b.tiers.Load()
}

// search returns the index of priority in the descending slice and whether
// a bucket with exactly that priority exists.
func search(tiers []*Bucket, priority int) (int, bool) {
	for i, t := range tiers {
		if t.priority == priority {
			return i, true
		}
		if t.priority < priority {
			return i, false
		}
	}
	return len(tiers), false
}

// LocateOrCreate returns the bucket for priority, inserting an empty one at
// its ordered position if none exists. Configuration role only.
func (b *PriorityBuckets) LocateOrCreate(priority int) (t *Bucket, created bool) {
	tiers := b.snapshot()
	i, ok := search(tiers, priority)
	if ok {
		return tiers[i], false
	}
	t = newBucket(priority)
	next := slices.Insert(slices.Clone(tiers), i, t)
	b.tiers.Store(&next)
	return t, true
}

// RemoveIfEmpty removes the bucket for priority if its "all" list holds no
// live node. Configuration role only.
func (b *PriorityBuckets) RemoveIfEmpty(priority int) bool {
	tiers := b.snapshot()
	i, ok := search(tiers, priority)
	if !ok || !tiers[i].all.IsEmpty() {
		return false
	}
	next := slices.Delete(slices.Clone(tiers), i, i+1)
	b.tiers.Store(&next)
	return true
}

// Priorities returns the current bucket priorities, highest first.
func (b *PriorityBuckets) Priorities() []int {
	tiers := b.snapshot()
	out := make([]int, len(tiers))
	for i, t := range tiers {
		out[i] = t.priority
	}
	return out
}

// View returns the collection c projected over the tiers.
func (b *PriorityBuckets) View(c Collection) BucketView {
	return BucketView{buckets: b, collection: c}
}

// BucketView is one collection (all, interested or notified) of a
// [PriorityBuckets].
type BucketView struct {
	buckets    *PriorityBuckets
	collection Collection
}

// Iter returns a prioritized cursor: tiers highest-first, entries in
// append order within a tier.
func (v BucketView) Iter() *PriorityCursor {
	return &PriorityCursor{tiers: v.buckets.snapshot(), collection: v.collection}
}

// Len returns the number of live nodes across all tiers.
func (v BucketView) Len() int {
	n := 0
	for _, t := range v.buckets.snapshot() {
		n += t.List(v.collection).Len()
	}
	return n
}

// IsEmpty reports whether no tier holds a live node in this collection.
func (v BucketView) IsEmpty() bool {
	for _, t := range v.buckets.snapshot() {
		if !t.List(v.collection).IsEmpty() {
			return false
		}
	}
	return true
}

// PriorityCursor walks a [BucketView] highest priority first.
type PriorityCursor struct {
	tiers      []*Bucket
	collection Collection
	idx        int
	inner      *Cursor
}

// Next returns the next node, or (nil, false) when every tier is
// exhausted.
func (c *PriorityCursor) Next() (*Node, bool) {
	for {
		if c.inner != nil {
			if n, ok := c.inner.Next(); ok {
				return n, true
			}
			c.inner = nil
		}
		if c.idx >= len(c.tiers) {
			return nil, false
		}
		c.inner = c.tiers[c.idx].List(c.collection).Iter()
		c.idx++
	}
}
