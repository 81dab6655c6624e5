// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import "encoding/binary"

// GetTransaction is a read-through TransactionsTable.Get:
// a cache hit avoids walking the slab chain under the seqlock entirely.
// Negative lookups are cached too (storage/cache.go's txTombstone marker),
// so a repeat lookup for an already-missing hash still skips the slab walk.
func (e *Engine) GetTransaction(hash Hash) (height uint64, index uint32, raw []byte, inputs []Input, outputs []Output, ok bool) {
	key := string(hash[:])

	if cached, found := e.cache.Get(key); found {
		height, index, body := decodeCachedTx(cached)
		raw, inputs, outputs = decodeTxBody(body)
		return height, index, raw, inputs, outputs, true
	}

	height, index, body, found := e.Transactions.Get(hash)
	if !found {
		e.cache.Set(txTombstone, key, nil)
		return 0, 0, nil, nil, nil, false
	}

	e.cache.Set(txPresent, key, encodeCachedTx(height, index, body))
	raw, inputs, outputs = decodeTxBody(body)
	return height, index, raw, inputs, outputs, true
}

func encodeCachedTx(height uint64, index uint32, body []byte) []byte {
	buf := make([]byte, 12+len(body))
	binary.LittleEndian.PutUint64(buf[0:8], height)
	binary.LittleEndian.PutUint32(buf[8:12], index)
	copy(buf[12:], body)
	return buf
}

func decodeCachedTx(buf []byte) (height uint64, index uint32, body []byte) {
	height = binary.LittleEndian.Uint64(buf[0:8])
	index = binary.LittleEndian.Uint32(buf[8:12])
	body = buf[12:]
	return
}
