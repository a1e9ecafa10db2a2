// Package dump accumulates decoded blocks as flattened records and writes them
// as a single JSON document once the block stream completes.
package dump

import (
	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/jsondump/chain"
	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/jsondump/model"
)

// Transform flattens a decoded block into one record per input and one per output.
// Hashes are rendered in display order, i.e. with the stored bytes reversed.
func Transform(block *chain.Block) model.BlockRecord {
	inCount, outCount := countRecords(block)
	rec := model.BlockRecord{
		Hash:      block.Hash.String(),
		Timestamp: block.Timestamp,
		Inputs:    make([]model.TxRecord, 0, inCount),
		Outputs:   make([]model.TxRecord, 0, outCount),
	}

	for i := range block.Txs {
		tx := &block.Txs[i]
		txid := tx.Hash.String()
		for j := 0; j < tx.InputCount; j++ {
			rec.Inputs = append(rec.Inputs, model.TxRecord{
				TxID:    txid,
				Address: model.NoAddress(),
			})
		}
		for _, out := range tx.Outputs {
			rec.Outputs = append(rec.Outputs, model.TxRecord{
				TxID:    txid,
				Address: out.Address,
			})
		}
	}
	return rec
}

func countRecords(block *chain.Block) (inputs, outputs int) {
	for i := range block.Txs {
		if n := block.Txs[i].InputCount; n > 0 {
			inputs += n
		}
		outputs += len(block.Txs[i].Outputs)
	}
	return inputs, outputs
}
