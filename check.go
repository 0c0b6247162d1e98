// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qcm

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Check verifies the manager's structural invariants and returns every
// violation found, or nil.
//
// The result is only meaningful while no transition is in flight, e.g.
// in tests after all goroutines have joined or from the configuration
// role during a quiet period.
func (m *Manager) Check() error {
	var result *multierror.Error
	fail := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf(format, args...))
	}

	live := 0
	tiers := m.buckets.snapshot()
	for i, b := range tiers {
		if i > 0 && tiers[i-1].priority <= b.priority {
			fail("bucket %d: priority %d not below %d", i, b.priority, tiers[i-1].priority)
		}
		if b.all.IsEmpty() {
			fail("bucket %d: priority %d has no consumers", i, b.priority)
		}
		for c := b.all.Iter(); ; {
			n, ok := c.Next()
			if !ok {
				break
			}
			live++
			if n.bucket != b || n.priority != b.priority {
				fail("node priority %d indexed under bucket %d", n.priority, b.priority)
			}
			m.checkNode(n, fail)
		}
		m.checkMembers(b.interested, Interested, fail)
		m.checkMembers(b.notified, Notified, fail)
	}
	m.checkMembers(m.notInterested, NotInterested, fail)
	m.checkMembers(m.nonAcquiring, NonAcquiring, fail)

	if total := m.Total(); total != live {
		fail("live count %d, indexed consumers %d", total, live)
	}
	return result.ErrorOrNil()
}

// checkNode verifies that a live node sits in the list its state names.
func (m *Manager) checkNode(n *Node, fail func(string, ...any)) {
	s := tagOf(n.state.LoadAcquire())
	switch {
	case s == Removed || s == moving || s == admitting:
		fail("indexed node priority %d in state %s", n.priority, s)
		return
	case n.acquires && s == NonAcquiring:
		fail("acquiring node priority %d in state %s", n.priority, s)
	case !n.acquires && (s == Interested || s == Notified):
		fail("browsing node priority %d in state %s", n.priority, s)
	}
	want := m.listFor(n, s)
	if n.entry == nil || n.entry.list != want {
		fail("node priority %d in state %s is not in the %s list", n.priority, s, s)
	} else if n.entry.deleted.LoadAcquire() != 0 {
		fail("node priority %d in state %s holds a removed entry", n.priority, s)
	}
}

// checkMembers verifies that every node in l is in state want.
func (m *Manager) checkMembers(l *NodeList, want State, fail func(string, ...any)) {
	for c := l.Iter(); ; {
		n, ok := c.Next()
		if !ok {
			return
		}
		if s := tagOf(n.state.LoadAcquire()); s != want {
			fail("node priority %d in %s list has state %s", n.priority, want, s)
		}
	}
}
