// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"testing"

	"github.com/bitmark-inc/chaindb/fault"
)

var (
	ErrIoOne             = fault.IoError("io one")
	ErrIoTwo             = fault.IoError("io two")
	ErrNotFoundOne       = fault.NotFoundError("not found one")
	ErrNotFoundTwo       = fault.NotFoundError("not found two")
	ErrDuplicateOne      = fault.DuplicateError("duplicate one")
	ErrDuplicateTwo      = fault.DuplicateError("duplicate two")
	ErrCorruptedOne      = fault.CorruptedChainError("corrupted one")
	ErrCorruptedTwo      = fault.CorruptedChainError("corrupted two")
	ErrServiceStoppedOne = fault.ServiceStoppedError("stopped one")
	ErrServiceStoppedTwo = fault.ServiceStoppedError("stopped two")
)

// test that the various error kinds can be subclassed and detected
func TestKinds(t *testing.T) {
	errorList := []struct {
		err       error
		io        bool
		notFound  bool
		duplicate bool
		corrupted bool
		stopped   bool
	}{
		{ErrIoOne, true, false, false, false, false},
		{ErrIoTwo, true, false, false, false, false},
		{ErrNotFoundOne, false, true, false, false, false},
		{ErrNotFoundTwo, false, true, false, false, false},
		{ErrDuplicateOne, false, false, true, false, false},
		{ErrDuplicateTwo, false, false, true, false, false},
		{ErrCorruptedOne, false, false, false, true, false},
		{ErrCorruptedTwo, false, false, false, true, false},
		{ErrServiceStoppedOne, false, false, false, false, true},
		{ErrServiceStoppedTwo, false, false, false, false, true},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrIo(err) != e.io {
			t.Errorf("%d: expected 'io' == %v for err = %v", i, e.io, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrDuplicate(err) != e.duplicate {
			t.Errorf("%d: expected 'duplicate' == %v for err = %v", i, e.duplicate, err)
		}
		if fault.IsErrCorruptedChain(err) != e.corrupted {
			t.Errorf("%d: expected 'corrupted chain' == %v for err = %v", i, e.corrupted, err)
		}
		if fault.IsErrServiceStopped(err) != e.stopped {
			t.Errorf("%d: expected 'service stopped' == %v for err = %v", i, e.stopped, err)
		}
	}
}
