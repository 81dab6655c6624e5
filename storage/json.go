// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/hex"
	"encoding/json"
)

// jsonBlock is the on-disk JSON shape accepted by command/chaindb's push
// command and emitted by command/chaindb-query's dump-block, grounded on
// dump-block.go's blockResult pattern but hex rather than struct-tagged
// binary fields throughout.
type jsonBlock struct {
	Header       jsonHeader `json:"header"`
	Transactions []jsonTx   `json:"transactions"`
}

type jsonHeader struct {
	Height     uint64 `json:"height"`
	Hash       string `json:"hash"`
	PrevHash   string `json:"previousHash"`
	MerkleRoot string `json:"merkleRoot"`
	Timestamp  uint32 `json:"timestamp"`
	Bits       uint32 `json:"bits"`
	Nonce      uint32 `json:"nonce"`
}

type jsonTx struct {
	Hash    string       `json:"hash"`
	Raw     string       `json:"raw"`
	Inputs  []jsonInput  `json:"inputs"`
	Outputs []jsonOutput `json:"outputs"`
}

type jsonInput struct {
	PreviousTxHash string `json:"previousTxHash"`
	PreviousIndex  uint32 `json:"previousIndex"`
	AddressHash    string `json:"addressHash,omitempty"`
}

type jsonOutput struct {
	Value        uint64 `json:"value"`
	AddressHash  string `json:"addressHash,omitempty"`
	EphemeralKey string `json:"ephemeralKey,omitempty"`
	Prefix       uint32 `json:"prefix,omitempty"`
}

func hashToHex(h Hash) string  { return hex.EncodeToString(h[:]) }
func addrToHex(a AddressHash) string { return hex.EncodeToString(a[:]) }

func hexToHash(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	copy(h[:], b)
	return h, nil
}

func hexToAddr(s string) (AddressHash, error) {
	var a AddressHash
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, err
	}
	copy(a[:], b)
	return a, nil
}

// MarshalBlock renders block the way command/chaindb-query prints it and
// command/chaindb's push command reads it back.
func MarshalBlock(block Block) ([]byte, error) {
	jb := jsonBlock{
		Header: jsonHeader{
			Height:     block.Header.Height,
			Hash:       hashToHex(block.Header.Hash),
			PrevHash:   hashToHex(block.Header.PrevHash),
			MerkleRoot: hashToHex(block.Header.MerkleRoot),
			Timestamp:  block.Header.Timestamp,
			Bits:       block.Header.Bits,
			Nonce:      block.Header.Nonce,
		},
		Transactions: make([]jsonTx, len(block.Transactions)),
	}

	for i, tx := range block.Transactions {
		jtx := jsonTx{
			Hash:    hashToHex(tx.Hash),
			Raw:     hex.EncodeToString(tx.Raw),
			Inputs:  make([]jsonInput, len(tx.Inputs)),
			Outputs: make([]jsonOutput, len(tx.Outputs)),
		}
		for j, in := range tx.Inputs {
			jtx.Inputs[j] = jsonInput{
				PreviousTxHash: hashToHex(in.PreviousOutput.Hash),
				PreviousIndex:  in.PreviousOutput.Index,
			}
			if in.AddressHash != nil {
				jtx.Inputs[j].AddressHash = addrToHex(*in.AddressHash)
			}
		}
		for k, out := range tx.Outputs {
			jout := jsonOutput{Value: out.Value}
			if out.AddressHash != nil {
				jout.AddressHash = addrToHex(*out.AddressHash)
			}
			if out.Ephemeral != nil {
				jout.EphemeralKey = hex.EncodeToString(out.Ephemeral.EphemeralKey[:])
				jout.Prefix = out.Ephemeral.Prefix
			}
			jtx.Outputs[k] = jout
		}
		jb.Transactions[i] = jtx
	}

	return json.MarshalIndent(jb, "", "  ")
}

// UnmarshalBlock parses the format MarshalBlock produces.
func UnmarshalBlock(data []byte) (Block, error) {
	var jb jsonBlock
	if err := json.Unmarshal(data, &jb); err != nil {
		return Block{}, err
	}

	var block Block
	var err error
	if block.Header.Hash, err = hexToHash(jb.Header.Hash); err != nil {
		return Block{}, err
	}
	if block.Header.PrevHash, err = hexToHash(jb.Header.PrevHash); err != nil {
		return Block{}, err
	}
	if block.Header.MerkleRoot, err = hexToHash(jb.Header.MerkleRoot); err != nil {
		return Block{}, err
	}
	block.Header.Height = jb.Header.Height
	block.Header.Timestamp = jb.Header.Timestamp
	block.Header.Bits = jb.Header.Bits
	block.Header.Nonce = jb.Header.Nonce

	block.Transactions = make([]Tx, len(jb.Transactions))
	for i, jtx := range jb.Transactions {
		tx := Tx{}
		if tx.Hash, err = hexToHash(jtx.Hash); err != nil {
			return Block{}, err
		}
		if tx.Raw, err = hex.DecodeString(jtx.Raw); err != nil {
			return Block{}, err
		}

		tx.Inputs = make([]Input, len(jtx.Inputs))
		for j, jin := range jtx.Inputs {
			in := Input{}
			if in.PreviousOutput.Hash, err = hexToHash(jin.PreviousTxHash); err != nil {
				return Block{}, err
			}
			in.PreviousOutput.Index = jin.PreviousIndex
			if jin.AddressHash != "" {
				a, err := hexToAddr(jin.AddressHash)
				if err != nil {
					return Block{}, err
				}
				in.AddressHash = &a
			}
			tx.Inputs[j] = in
		}

		tx.Outputs = make([]Output, len(jtx.Outputs))
		for k, jout := range jtx.Outputs {
			out := Output{Value: jout.Value}
			if jout.AddressHash != "" {
				a, err := hexToAddr(jout.AddressHash)
				if err != nil {
					return Block{}, err
				}
				out.AddressHash = &a
			}
			if jout.EphemeralKey != "" {
				raw, err := hex.DecodeString(jout.EphemeralKey)
				if err != nil {
					return Block{}, err
				}
				var key StealthKey
				copy(key.EphemeralKey[:], raw)
				key.Prefix = jout.Prefix
				out.Ephemeral = &key
			}
			tx.Outputs[k] = out
		}

		block.Transactions[i] = tx
	}

	return block, nil
}
