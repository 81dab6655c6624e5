// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import "encoding/binary"

// encodeTxBody packs a transaction's raw bytes plus the input/output
// metadata Push needs to reverse spends, history, and stealth bookkeeping
// on Pop, since script parsing to recover that metadata from raw bytes
// alone is out of scope (spec.md §1 Non-goals).
func encodeTxBody(tx Tx) []byte {
	size := 4 + len(tx.Raw) + 2
	for range tx.Inputs {
		size += outpointSize + 1 + 20
	}
	size += 2
	for _, out := range tx.Outputs {
		size += 8 + 1 + 20 + 1
		if out.Ephemeral != nil {
			size += 32 + 4
		}
	}

	buf := make([]byte, size)
	offset := 0

	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(tx.Raw)))
	offset += 4
	copy(buf[offset:], tx.Raw)
	offset += len(tx.Raw)

	binary.LittleEndian.PutUint16(buf[offset:], uint16(len(tx.Inputs)))
	offset += 2
	for _, in := range tx.Inputs {
		copy(buf[offset:], encodeOutpoint(in.PreviousOutput))
		offset += outpointSize
		if in.AddressHash != nil {
			buf[offset] = 1
			copy(buf[offset+1:], in.AddressHash[:])
		}
		offset += 1 + 20
	}

	binary.LittleEndian.PutUint16(buf[offset:], uint16(len(tx.Outputs)))
	offset += 2
	for _, out := range tx.Outputs {
		binary.LittleEndian.PutUint64(buf[offset:], out.Value)
		offset += 8
		if out.AddressHash != nil {
			buf[offset] = 1
			copy(buf[offset+1:], out.AddressHash[:])
		}
		offset += 1 + 20
		if out.Ephemeral != nil {
			buf[offset] = 1
			offset++
			copy(buf[offset:], out.Ephemeral.EphemeralKey[:])
			offset += 32
			binary.LittleEndian.PutUint32(buf[offset:], out.Ephemeral.Prefix)
			offset += 4
		} else {
			offset++
		}
	}

	return buf
}

// decodeTxBody reverses encodeTxBody.
func decodeTxBody(buf []byte) (raw []byte, inputs []Input, outputs []Output) {
	offset := 0

	rawLen := binary.LittleEndian.Uint32(buf[offset:])
	offset += 4
	raw = buf[offset : offset+int(rawLen)]
	offset += int(rawLen)

	inputCount := binary.LittleEndian.Uint16(buf[offset:])
	offset += 2
	inputs = make([]Input, inputCount)
	for i := range inputs {
		inputs[i].PreviousOutput = decodeOutpoint(buf[offset : offset+outpointSize])
		offset += outpointSize
		hasAddr := buf[offset] == 1
		if hasAddr {
			var addr AddressHash
			copy(addr[:], buf[offset+1:offset+21])
			inputs[i].AddressHash = &addr
		}
		offset += 1 + 20
	}

	outputCount := binary.LittleEndian.Uint16(buf[offset:])
	offset += 2
	outputs = make([]Output, outputCount)
	for i := range outputs {
		outputs[i].Value = binary.LittleEndian.Uint64(buf[offset:])
		offset += 8
		hasAddr := buf[offset] == 1
		if hasAddr {
			var addr AddressHash
			copy(addr[:], buf[offset+1:offset+21])
			outputs[i].AddressHash = &addr
		}
		offset += 1 + 20
		hasEphemeral := buf[offset] == 1
		offset++
		if hasEphemeral {
			var key StealthKey
			copy(key.EphemeralKey[:], buf[offset:offset+32])
			offset += 32
			key.Prefix = binary.LittleEndian.Uint32(buf[offset:])
			offset += 4
			outputs[i].Ephemeral = &key
		}
	}

	return raw, inputs, outputs
}
