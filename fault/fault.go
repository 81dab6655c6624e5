// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// error instances
//
// Provides a single instance of errors to allow easy comparison
package fault

// error base
type GenericError string

// to allow for different classes of errors
type IoError GenericError
type NotFoundError GenericError
type DuplicateError GenericError
type CorruptedChainError GenericError
type ServiceStoppedError GenericError

// common errors - grouped by kind
var (
	ErrAlreadyInitialised   = IoError("storage already initialised")
	ErrInvalidLoggerChannel = IoError("invalid logger channel")
	ErrDirLockFailed        = IoError("could not acquire directory lock")
	ErrInvalidMapping       = IoError("memory map is not valid")
	ErrResizeFailed         = IoError("mmap resize failed")
	ErrPoisoned             = IoError("write path poisoned after a growth failure")
	ErrInvalidCursor        = IoError("invalid cursor")
	ErrInvalidCount         = IoError("invalid count")
	ErrInvalidSettings      = IoError("invalid table settings")

	ErrKeyNotFound    = NotFoundError("key not found")
	ErrBlockNotFound  = NotFoundError("block not found")
	ErrHeightNotFound = NotFoundError("height not found")

	ErrDuplicateKey = DuplicateError("key already present")

	ErrCorruptedChain = CorruptedChainError("chain pointer exceeds allocator bounds")

	ErrServiceStopped = ServiceStoppedError("storage engine is shutting down")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e IoError) Error() string             { return string(e) }
func (e NotFoundError) Error() string       { return string(e) }
func (e DuplicateError) Error() string      { return string(e) }
func (e CorruptedChainError) Error() string { return string(e) }
func (e ServiceStoppedError) Error() string { return string(e) }

// determine the class of an error
func IsErrIo(e error) bool             { _, ok := e.(IoError); return ok }
func IsErrNotFound(e error) bool       { _, ok := e.(NotFoundError); return ok }
func IsErrDuplicate(e error) bool      { _, ok := e.(DuplicateError); return ok }
func IsErrCorruptedChain(e error) bool { _, ok := e.(CorruptedChainError); return ok }
func IsErrServiceStopped(e error) bool { _, ok := e.(ServiceStoppedError); return ok }
