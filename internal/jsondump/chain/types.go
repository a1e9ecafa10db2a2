// Package chain defines the decoded block shape handed to the dump and the
// interfaces connecting a block source, the driver and the dump callback.
package chain

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/jsondump/model"
)

// Block is a fully decoded block. Hashes are kept in wire byte order.
type Block struct {
	Hash      chainhash.Hash
	Timestamp uint32
	Txs       []Transaction
}

// Transaction is a decoded transaction. Inputs are only counted.
type Transaction struct {
	Hash       chainhash.Hash
	InputCount int
	Outputs    []Output
}

// Output carries the address resolved from the output script, if any.
type Output struct {
	Address model.Address
}

// Callback receives the block stream. The driver calls OnStart once, OnBlock for
// every block in ascending height order and OnComplete once at the end.
type Callback interface {
	OnStart(height uint64) error
	OnBlock(block *Block, height uint64) error
	OnComplete(height uint64) error
}

// BlockSource provides decoded blocks by height.
type BlockSource interface {
	LatestHeight(ctx context.Context) (uint64, error)
	FetchBlock(ctx context.Context, height uint64) (*Block, error)
}
