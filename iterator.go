// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qcm

import "iter"

type nodeCursor interface {
	Next() (*Node, bool)
}

// Iterator is a pull iterator over consumers.
//
// An Iterator is weakly consistent with concurrent transitions: it may or
// may not observe consumers that move while it is in use, never yields a
// consumer twice and always terminates. It is not safe for concurrent use
// by multiple goroutines.
type Iterator struct {
	cur nodeCursor
}

// Next returns the next consumer.
// Returns (nil, ErrWouldBlock) when the iterator is exhausted, including
// when a concurrent transition took the last candidate away.
func (it *Iterator) Next() (Consumer, error) {
	n, ok := it.cur.Next()
	if !ok {
		return nil, ErrWouldBlock
	}
	return n.consumer, nil
}

// InterestedIterator iterates interested consumers, highest priority first.
func (m *Manager) InterestedIterator() *Iterator {
	return &Iterator{cur: m.interested.Iter()}
}

// NotifiedIterator iterates notified consumers, highest priority first.
func (m *Manager) NotifiedIterator() *Iterator {
	return &Iterator{cur: m.notified.Iter()}
}

// AllIterator iterates every registered consumer, highest priority first.
func (m *Manager) AllIterator() *Iterator {
	return &Iterator{cur: m.all.Iter()}
}

// NonAcquiringIterator iterates browsing consumers in registration order.
func (m *Manager) NonAcquiringIterator() *Iterator {
	return &Iterator{cur: m.nonAcquiring.Iter()}
}

// NotInterestedIterator iterates consumers that do not want work, in the
// order they became not interested.
func (m *Manager) NotInterestedIterator() *Iterator {
	return &Iterator{cur: m.notInterested.Iter()}
}

// Interested returns a sequence over [Manager.InterestedIterator].
func (m *Manager) Interested() iter.Seq[Consumer] {
	return seq(m.InterestedIterator)
}

// Notified returns a sequence over [Manager.NotifiedIterator].
func (m *Manager) Notified() iter.Seq[Consumer] {
	return seq(m.NotifiedIterator)
}

// All returns a sequence over [Manager.AllIterator].
func (m *Manager) All() iter.Seq[Consumer] {
	return seq(m.AllIterator)
}

// NonAcquiring returns a sequence over [Manager.NonAcquiringIterator].
func (m *Manager) NonAcquiring() iter.Seq[Consumer] {
	return seq(m.NonAcquiringIterator)
}

// NotInterested returns a sequence over [Manager.NotInterestedIterator].
func (m *Manager) NotInterested() iter.Seq[Consumer] {
	return seq(m.NotInterestedIterator)
}

// seq adapts an iterator constructor; each range starts a fresh traversal.
func seq(newIter func() *Iterator) iter.Seq[Consumer] {
	return func(yield func(Consumer) bool) {
		it := newIter()
		for {
			c, err := it.Next()
			if err != nil {
				return
			}
			if !yield(c) {
				return
			}
		}
	}
}
