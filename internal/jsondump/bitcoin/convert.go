// Package bitcoin decodes raw Bitcoin blocks into the shape consumed by the dump
// and fetches them from a node over RPC.
package bitcoin

import (
	"fmt"

	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/jsondump/chain"
	"github.com/goodnatureofminers/blockinsight7000-jsondump/pkg/safe"
)

// ConvertBlock maps a wire block into a decoded chain.Block, resolving output
// addresses with the decoder.
func ConvertBlock(msg *wire.MsgBlock, decoder *ScriptDecoder) (*chain.Block, error) {
	hash := msg.BlockHash()
	timestamp, err := safe.Uint32(msg.Header.Timestamp.Unix())
	if err != nil {
		return nil, fmt.Errorf("block %s timestamp overflow: %w", hash, err)
	}

	txs := make([]chain.Transaction, 0, len(msg.Transactions))
	for _, tx := range msg.Transactions {
		outputs := make([]chain.Output, 0, len(tx.TxOut))
		for _, out := range tx.TxOut {
			outputs = append(outputs, chain.Output{Address: decoder.Address(out.PkScript)})
		}
		txs = append(txs, chain.Transaction{
			Hash:       tx.TxHash(),
			InputCount: len(tx.TxIn),
			Outputs:    outputs,
		})
	}

	return &chain.Block{
		Hash:      hash,
		Timestamp: timestamp,
		Txs:       txs,
	}, nil
}
