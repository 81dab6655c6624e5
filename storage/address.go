// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"
)

// HashAddress computes the 20-byte RIPEMD-160(SHA-256(x)) address hash used
// to key history_lookup (spec.md §6, "Address hashes are 20 byte
// (RIPEMD-160)"), matching payment_address::extract's hashing step. Script
// parsing to find x in the first place is out of scope here — callers supply
// the public key or script bytes they have already extracted.
func HashAddress(pubKeyOrScript []byte) AddressHash {
	sum := sha256.Sum256(pubKeyOrScript)
	h := ripemd160.New()
	h.Write(sum[:])

	var out AddressHash
	copy(out[:], h.Sum(nil))
	return out
}
