// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import "github.com/bitmark-inc/chaindb/fault"

// isSpecialDuplicate reports whether the transaction at (height, index) is
// one of the two historical duplicate txids on the real Bitcoin chain
// (heights 91842 and 91880, both index 0): storing them again would
// shadow the original's spend bookkeeping with an unrelated coinbase.
// Grounded on db_interface.cpp's is_special_duplicate.
func isSpecialDuplicate(height uint64, index int) bool {
	return index == 0 && (height == 91842 || height == 91880)
}

// Push appends block at the next height. Sync order is spends,
// transactions, history, stealth, then blocks last — a crash between the
// sub-table syncs and the block sync leaves the block absent on restart,
// so the push is simply repeated and the orphaned sub-table rows are
// tolerated (spec.md §5).
func (e *Engine) Push(block Block) error {
	return e.strand.Run(func() error {
		if err := e.checkPoisoned(); err != nil {
			return err
		}
		return e.poison(e.pushLocked(block))
	})
}

func (e *Engine) pushLocked(block Block) error {
	height := e.Blocks.Height()
	txHashes := make([]Hash, len(block.Transactions))

	for i, tx := range block.Transactions {
		txHashes[i] = tx.Hash
		if isSpecialDuplicate(height, i) {
			continue
		}

		for inputIndex, in := range tx.Inputs {
			if err := e.Spends.Store(in.PreviousOutput, Outpoint{Hash: tx.Hash, Index: uint32(inputIndex)}); err != nil {
				return err
			}
		}

		if height >= e.settings.HistoryTrackingHeight {
			for _, in := range tx.Inputs {
				if in.AddressHash == nil {
					continue
				}
				if err := e.History.Add(*in.AddressHash, HistoryRow{Point: in.PreviousOutput, Height: height, Kind: HistoryKindSpend}); err != nil {
					return err
				}
			}
			for outputIndex, out := range tx.Outputs {
				if out.AddressHash == nil {
					continue
				}
				row := HistoryRow{Point: Outpoint{Hash: tx.Hash, Index: uint32(outputIndex)}, Height: height, Value: out.Value, Kind: HistoryKindOutput}
				if err := e.History.Add(*out.AddressHash, row); err != nil {
					return err
				}
			}
		}

		// a stealth payment is two adjacent outputs: an ephemeral-key
		// carrier followed by the payment output it addresses; the last
		// output can never start a pair.
		for outputIndex := 0; outputIndex+1 < len(tx.Outputs); outputIndex++ {
			carrier := tx.Outputs[outputIndex]
			payment := tx.Outputs[outputIndex+1]
			if carrier.Ephemeral == nil || payment.AddressHash == nil {
				continue
			}
			e.Stealth.Add(carrier.Ephemeral.Prefix, StealthRow{
				EphemeralKey: carrier.Ephemeral.EphemeralKey,
				AddressHash:  *payment.AddressHash,
				TxHash:       tx.Hash,
			})
		}

		if err := e.Transactions.Store(tx.Hash, height, uint32(i), encodeTxBody(tx)); err != nil {
			return err
		}
	}

	if err := e.Spends.Sync(); err != nil {
		return err
	}
	if err := e.Transactions.Sync(); err != nil {
		return err
	}
	if err := e.History.Sync(); err != nil {
		return err
	}
	if err := e.Stealth.Sync(int(height)); err != nil {
		return err
	}
	if err := e.Blocks.Store(height, block.Header, txHashes); err != nil {
		return err
	}
	if err := e.Blocks.Sync(); err != nil {
		return err
	}

	blocksPushedTotal.Inc()
	chainHeight.Set(float64(height))
	return nil
}

// Pop removes the top block and returns it, byte-identical to the block
// that was pushed at that height (spec.md §8 S5/S6). Push places a block at
// the chain's next height and does not store Header.Height; the returned
// Header.Height is the height the popped block occupied. Transactions are
// unwound in reverse order, each one's outputs then inputs then the
// transaction record itself, mirroring db_interface::pop.
func (e *Engine) Pop() (Block, error) {
	var result Block
	err := e.strand.Run(func() error {
		if err := e.checkPoisoned(); err != nil {
			return err
		}
		block, err := e.popLocked()
		if err != nil {
			return e.poison(err)
		}
		result = block
		return nil
	})
	return result, err
}

func (e *Engine) popLocked() (Block, error) {
	if e.Blocks.Height() == 0 {
		return Block{}, fault.ErrHeightNotFound
	}
	height := e.Blocks.Height() - 1

	header, txHashes, ok := e.Blocks.GetByHeight(height)
	if !ok {
		return Block{}, fault.ErrBlockNotFound
	}

	txs := make([]Tx, len(txHashes))
	for i := len(txHashes) - 1; i >= 0; i-- {
		hash := txHashes[i]
		if isSpecialDuplicate(height, i) {
			txs[i] = Tx{Hash: hash}
			continue
		}

		_, _, body, ok := e.Transactions.Get(hash)
		if !ok {
			return Block{}, fault.ErrCorruptedChain
		}
		raw, inputs, outputs := decodeTxBody(body)
		txs[i] = Tx{Hash: hash, Raw: raw, Inputs: inputs, Outputs: outputs}

		if height >= e.settings.HistoryTrackingHeight {
			for outputIndex := len(outputs) - 1; outputIndex >= 0; outputIndex-- {
				if outputs[outputIndex].AddressHash != nil {
					e.History.DeleteLast(*outputs[outputIndex].AddressHash)
				}
			}
			for inputIndex := len(inputs) - 1; inputIndex >= 0; inputIndex-- {
				if inputs[inputIndex].AddressHash != nil {
					e.History.DeleteLast(*inputs[inputIndex].AddressHash)
				}
			}
		}

		for inputIndex := len(inputs) - 1; inputIndex >= 0; inputIndex-- {
			e.Spends.Unlink(inputs[inputIndex].PreviousOutput)
		}

		e.Transactions.Unlink(hash)
	}

	if err := e.Spends.Sync(); err != nil {
		return Block{}, err
	}
	if err := e.Transactions.Sync(); err != nil {
		return Block{}, err
	}
	if err := e.History.Sync(); err != nil {
		return Block{}, err
	}
	if err := e.Stealth.Unlink(int(height)); err != nil {
		return Block{}, err
	}

	e.Blocks.Unlink(height, header.Hash)
	if err := e.Blocks.Sync(); err != nil {
		return Block{}, err
	}

	e.cache.Clear()
	blocksPoppedTotal.Inc()
	chainHeight.Set(float64(height - 1))
	return Block{Header: header, Transactions: txs}, nil
}
