// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qcm_test

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"code.hybscloud.com/qcm"
)

// =============================================================================
// Delivery Path
// =============================================================================

func BenchmarkSetNotified_Toggle(b *testing.B) {
	m, _ := newTestManager()
	c := &testConsumer{priority: 1}
	m.AddConsumer(c)

	b.ResetTimer()
	for range b.N {
		m.SetNotified(c, true)
		m.SetNotified(c, false)
	}
}

func BenchmarkSetInterest_Toggle(b *testing.B) {
	m, _ := newTestManager()
	c := &testConsumer{priority: 1}
	m.AddConsumer(c)

	b.ResetTimer()
	for range b.N {
		m.SetInterest(c, false)
		m.SetInterest(c, true)
	}
}

func BenchmarkSetNotified_Contended(b *testing.B) {
	if qcm.RaceEnabled {
		b.Skip("skip: list handover uses cross-variable memory ordering")
	}
	m, _ := newTestManager()
	c := &testConsumer{priority: 1}
	m.AddConsumer(c)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if m.SetNotified(c, true) {
				m.SetNotified(c, false)
			}
		}
	})
}

// =============================================================================
// Iteration
// =============================================================================

func BenchmarkInterested_Range(b *testing.B) {
	for _, size := range []int{8, 64, 512} {
		b.Run(fmt.Sprintf("consumers=%d", size), func(b *testing.B) {
			m, _ := newTestManager()
			for i := range size {
				m.AddConsumer(&testConsumer{priority: i % 8})
			}

			b.ResetTimer()
			for range b.N {
				for range m.Interested() {
				}
			}
		})
	}
}

func BenchmarkHighestNotifiedPriority(b *testing.B) {
	m, _ := newTestManager()
	for i := range 64 {
		c := &testConsumer{priority: i % 8}
		m.AddConsumer(c)
		if i%8 == 0 {
			m.SetNotified(c, true)
		}
	}

	b.ResetTimer()
	for range b.N {
		_ = m.HighestNotifiedPriority()
	}
}

// =============================================================================
// Configuration Path
// =============================================================================

func BenchmarkAddRemove(b *testing.B) {
	m, _ := newTestManager()
	m.AddConsumer(&testConsumer{priority: 0})
	c := &testConsumer{priority: 1}

	b.ResetTimer()
	for range b.N {
		m.AddConsumer(c)
		m.RemoveConsumer(c)
	}
}

func BenchmarkMixed_NotifyDuringChurn(b *testing.B) {
	if qcm.RaceEnabled {
		b.Skip("skip: list handover uses cross-variable memory ordering")
	}
	m, _ := newTestManager()
	workers := runtime.GOMAXPROCS(0)
	cs := make([]*testConsumer, workers)
	for i := range cs {
		cs[i] = &testConsumer{priority: i % 4}
		m.AddConsumer(cs[i])
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c := &testConsumer{priority: 9}
		for {
			select {
			case <-stop:
				return
			default:
			}
			m.AddConsumer(c)
			m.RemoveConsumer(c)
		}
	}()

	b.ResetTimer()
	var mu sync.Mutex
	next := 0
	b.RunParallel(func(pb *testing.PB) {
		mu.Lock()
		c := cs[next%len(cs)]
		next++
		mu.Unlock()
		for pb.Next() {
			m.SetNotified(c, true)
			m.SetNotified(c, false)
		}
	})
	b.StopTimer()
	close(stop)
	wg.Wait()
}
