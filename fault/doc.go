// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault provides the error-kind instances shared across the storage
// substrate. Every kind is a distinct string-based type so callers can
// switch on class with an IsErrXxx predicate rather than matching error
// text, matching the way the rest of the bitmarkd codebase compares errors.
package fault
