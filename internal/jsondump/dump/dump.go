package dump

import (
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/jsondump/chain"
	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/jsondump/model"
	"go.uber.org/zap"
)

// Dump implements chain.Callback: blocks are accumulated in memory and exported
// once the stream completes.
type Dump struct {
	folder   string
	acc      *Accumulator
	exporter Exporter
	metrics  Metrics
	logger   *zap.Logger

	summary model.Summary
}

var _ chain.Callback = (*Dump)(nil)

// New builds a Dump writing blocks.json into folder. metrics may be nil.
func New(folder string, metrics Metrics, logger *zap.Logger) *Dump {
	return newDump(folder, NewFileExporter(folder), metrics, logger)
}

func newDump(folder string, exporter Exporter, metrics Metrics, logger *zap.Logger) *Dump {
	return &Dump{
		folder:   folder,
		acc:      NewAccumulator(),
		exporter: exporter,
		metrics:  metrics,
		logger:   logger.Named("jsondump"),
	}
}

// OnStart records the starting height.
func (d *Dump) OnStart(height uint64) error {
	d.acc.Begin(height)
	d.logger.Info("using jsondump", zap.String("dump_folder", d.folder), zap.Uint64("start_height", height))
	return nil
}

// OnBlock flattens and buffers the block.
func (d *Dump) OnBlock(block *chain.Block, height uint64) error {
	rec := d.acc.Consume(block, height)
	if d.metrics != nil {
		d.metrics.ObserveBlock(len(block.Txs), len(rec.Inputs), len(rec.Outputs))
	}
	return nil
}

// OnComplete exports everything accumulated so far and logs the totals.
func (d *Dump) OnComplete(height uint64) (err error) {
	blocks, summary := d.acc.Finish(height)
	d.summary = summary

	started := time.Now()
	err = d.exporter.Export(blocks)
	if d.metrics != nil {
		d.metrics.ObserveExport(err, len(blocks), started)
	}
	if err != nil {
		d.logger.Error("export failed", zap.Uint64("end_height", height), zap.Error(err))
		return fmt.Errorf("export %d blocks: %w", len(blocks), err)
	}

	d.logger.Info("dumped all blocks",
		zap.Uint64("end_height", summary.EndHeight),
		zap.Int("blocks", summary.Blocks),
		zap.Uint64("transactions", summary.TxCount),
		zap.Uint64("inputs", summary.InCount),
		zap.Uint64("outputs", summary.OutCount),
	)
	return nil
}

// Summary returns the totals reported by the last OnComplete.
func (d *Dump) Summary() model.Summary {
	return d.summary
}
