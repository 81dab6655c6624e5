// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package writestrand

import "github.com/bitmark-inc/chaindb/fault"

// Task is a unit of work submitted to the strand. Its error, if any, is
// delivered back to the submitter via Run's return value.
type Task func() error

type request struct {
	task Task
	done chan error
}

// Strand is the single-writer serial executor.
type Strand struct {
	requests chan request
	shutdown chan struct{}
	finished chan struct{}
	stopped  bool
}

// Start launches the strand's goroutine. Submitted tasks run strictly in
// the order Run was called.
func Start() *Strand {
	s := &Strand{
		requests: make(chan request),
		shutdown: make(chan struct{}),
		finished: make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *Strand) loop() {
	defer close(s.finished)
	for {
		select {
		case req := <-s.requests:
			req.done <- req.task()
		case <-s.shutdown:
			return
		}
	}
}

// Run submits task and blocks until it has executed, returning its error.
// Returns fault.ErrServiceStopped if the strand has already been stopped.
func (s *Strand) Run(task Task) error {
	done := make(chan error, 1)
	select {
	case s.requests <- request{task: task, done: done}:
	case <-s.shutdown:
		return fault.ErrServiceStopped
	}
	select {
	case err := <-done:
		return err
	case <-s.shutdown:
		return fault.ErrServiceStopped
	}
}

// Stop signals the strand to exit and waits for the in-flight task, if
// any, to finish. Subsequent Run calls return fault.ErrServiceStopped.
func (s *Strand) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.shutdown)
	<-s.finished
}
