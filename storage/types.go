// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// Hash is a 32-byte block or transaction hash (spec.md §6).
type Hash = chainhash.Hash

// AddressHash is the 20-byte RIPEMD-160 hash used to key the history table.
type AddressHash [20]byte

// Outpoint identifies a previously created output: its owning transaction
// hash and its zero-based index within that transaction's outputs.
type Outpoint struct {
	Hash  Hash
	Index uint32
}

// BlockHeader is the fixed-size portion of a block record stored in
// blocks_rows.
type BlockHeader struct {
	Height     uint64
	Hash       Hash
	PrevHash   Hash
	MerkleRoot Hash
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32
}

// Block is a header plus the ordered list of transactions it commits to;
// push/pop operate one block at a time.
type Block struct {
	Header       BlockHeader
	Transactions []Tx
}

// Tx is one transaction as it is pushed through the store.
type Tx struct {
	Hash    Hash
	Raw     []byte
	Inputs  []Input
	Outputs []Output
}

// Input is one transaction input: the outpoint it spends, plus the address
// hash extracted from its unlocking script, if any (script parsing itself is
// out of scope — callers that can extract an address populate this).
type Input struct {
	PreviousOutput Outpoint
	AddressHash    *AddressHash
}

// Output is one transaction output. AddressHash is set when the caller could
// extract a payment address from its script. Ephemeral is set when the
// output's script carries a stealth ephemeral key/prefix marker — it is
// always the first half of an ephemeral/payment pair (spec.md §6, "Stealth
// row"), never the last output in a transaction.
type Output struct {
	Value       uint64
	AddressHash *AddressHash
	Ephemeral   *StealthKey
}

// StealthKey is the ephemeral key and prefix extracted from the first output
// of a stealth payment pair.
type StealthKey struct {
	EphemeralKey [32]byte
	Prefix       uint32
}

// HistoryKind distinguishes a spend row from an output row within the same
// address's history list; both share the same (point, height, value)
// layout (spec.md §6, "value_or_checksum").
type HistoryKind uint8

const (
	HistoryKindOutput HistoryKind = iota
	HistoryKindSpend
)

// HistoryRow is one entry in a key's spend/output history list
// (history_rows). For an output row, Point is the outpoint created and
// Value is the amount it carries; for a spend row, Point is the outpoint
// that was spent and Value is unused.
type HistoryRow struct {
	Point  Outpoint
	Height uint64
	Value  uint64
	Kind   HistoryKind
}
