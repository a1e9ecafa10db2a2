package dump

import (
	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/jsondump/chain"
	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/jsondump/model"
)

// Accumulator keeps every transformed block in memory, in call order, together
// with running totals. It is not safe for concurrent use; the block stream has a
// single caller.
type Accumulator struct {
	startHeight uint64
	endHeight   uint64
	txCount     uint64
	inCount     uint64
	outCount    uint64
	blocks      []model.BlockRecord
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Begin records the starting height of the run.
func (a *Accumulator) Begin(height uint64) {
	a.startHeight = height
}

// Consume transforms the block and appends it. Height is informational only.
func (a *Accumulator) Consume(block *chain.Block, _ uint64) model.BlockRecord {
	rec := Transform(block)
	a.blocks = append(a.blocks, rec)

	a.txCount += uint64(len(block.Txs))
	a.inCount += uint64(len(rec.Inputs))
	a.outCount += uint64(len(rec.Outputs))
	return rec
}

// Summary reports the current totals.
func (a *Accumulator) Summary() model.Summary {
	return model.Summary{
		StartHeight: a.startHeight,
		EndHeight:   a.endHeight,
		Blocks:      len(a.blocks),
		TxCount:     a.txCount,
		InCount:     a.inCount,
		OutCount:    a.outCount,
	}
}

// Finish records the ending height and hands over the accumulated records. The
// accumulator drops its own reference to them.
func (a *Accumulator) Finish(height uint64) ([]model.BlockRecord, model.Summary) {
	a.endHeight = height
	summary := a.Summary()

	blocks := a.blocks
	if blocks == nil {
		blocks = []model.BlockRecord{}
	}
	a.blocks = nil
	return blocks, summary
}
