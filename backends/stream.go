// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package backends

import (
	"github.com/gomlx/xrt/types/xsync"
)

// Stream orders the work submitted to one device. Work enqueued on the same
// stream executes in FIFO order, which is what the asynchronous accelerator
// launch path relies on for correctness.
type Stream interface {
	// Enqueue submits work to the stream.
	Enqueue(work func())

	// BlockHostUntilDone blocks the calling goroutine until all work enqueued
	// so far has executed.
	BlockHostUntilDone()
}

// hostStream is the Stream of a host-resident device: work executes inline on
// the calling goroutine, so it is always done by the time Enqueue returns.
type hostStream struct{}

// NewHostStream returns the stream used by host-resident devices.
func NewHostStream() Stream { return hostStream{} }

func (hostStream) Enqueue(work func()) { work() }

func (hostStream) BlockHostUntilDone() {}

// OrderedStream executes enqueued work on a dedicated goroutine in FIFO order,
// the way an accelerator execution stream does. Enqueue returns immediately.
type OrderedStream struct {
	work chan func()
	done *xsync.Latch
}

const orderedStreamDepth = 128

// NewOrderedStream returns a running OrderedStream.
// Call Finalize to stop its goroutine when no longer needed.
func NewOrderedStream() *OrderedStream {
	s := &OrderedStream{
		work: make(chan func(), orderedStreamDepth),
		done: xsync.NewLatch(),
	}
	go s.loop()
	return s
}

func (s *OrderedStream) loop() {
	for work := range s.work {
		work()
	}
	s.done.Trigger()
}

// Enqueue submits work to the stream. It panics if the stream was finalized.
func (s *OrderedStream) Enqueue(work func()) {
	s.work <- work
}

// BlockHostUntilDone blocks until all work enqueued so far has executed.
func (s *OrderedStream) BlockHostUntilDone() {
	marker := xsync.NewLatch()
	s.work <- marker.Trigger
	marker.Wait()
}

// Finalize drains the stream and stops its goroutine. The stream must not be
// used afterward.
func (s *OrderedStream) Finalize() {
	close(s.work)
	s.done.Wait()
}
