// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qcm

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
)

type stubConsumer struct {
	Slot
	priority int
}

func (c *stubConsumer) Priority() int           { return c.priority }
func (c *stubConsumer) Acquires() bool          { return true }
func (c *stubConsumer) NotifyWorkDesired() bool { return true }

type stubQueue struct{}

func (stubQueue) NextAvailableEntry(Consumer) (QueueEntry, bool)       { return nil, true }
func (stubQueue) NoHigherPriorityWithCredit(Consumer, QueueEntry) bool { return true }

// TestCheckReportsEveryViolation corrupts a manager behind its back and
// verifies Check reports each problem.
func TestCheckReportsEveryViolation(t *testing.T) {
	m := NewManager(stubQueue{})
	a, b := &stubConsumer{priority: 1}, &stubConsumer{priority: 2}
	m.AddConsumer(a)
	m.AddConsumer(b)
	if err := m.Check(); err != nil {
		t.Fatalf("Check on healthy manager: %v", err)
	}

	// a claims NOTIFIED while still sitting in the interested list
	a.slot().node.Load().state.StoreRelease(uint64(Notified))
	// the count drifts
	m.count.Add(1)

	err := m.Check()
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("Check: got %v, want *multierror.Error", err)
	}
	// wrong list, interested member in wrong state, count mismatch
	if got := len(merr.Errors); got != 3 {
		t.Fatalf("violations: got %d, want 3\n%v", got, err)
	}
}
