// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qcm

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Options configures a [Manager].
type Options struct {
	logger   logrus.FieldLogger
	observer Observer
}

// Builder creates managers with fluent configuration.
//
// Example:
//
//	m := qcm.New(queue).
//	    Logger(log.WithField("queue", "orders")).
//	    Observer(metrics.NewTransitions("orders")).
//	    Build()
type Builder struct {
	queue Queue
	opts  Options
}

// New creates a manager builder for the given queue.
//
// Panics if queue is nil.
func New(queue Queue) *Builder {
	if queue == nil {
		panic("qcm: queue must not be nil")
	}
	return &Builder{queue: queue}
}

// Logger sets the logger for configuration-role events and contract
// violations. Transitions on the delivery path are never logged.
// Defaults to a logger that discards output.
func (b *Builder) Logger(l logrus.FieldLogger) *Builder {
	b.opts.logger = l
	return b
}

// Observer sets the receiver of committed state transitions.
func (b *Builder) Observer(o Observer) *Builder {
	b.opts.observer = o
	return b
}

// Build creates the manager.
func (b *Builder) Build() *Manager {
	opts := b.opts
	if opts.logger == nil {
		opts.logger = discardLogger()
	}
	return newManager(b.queue, opts)
}

// NewManager creates a manager with default options.
func NewManager(queue Queue) *Manager {
	return New(queue).Build()
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte
