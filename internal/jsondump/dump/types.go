package dump

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/jsondump/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Exporter persists the accumulated block records.
	Exporter interface {
		Export(blocks []model.BlockRecord) error
	}
	// Metrics observes dump progress.
	Metrics interface {
		ObserveBlock(txs, inputs, outputs int)
		ObserveExport(err error, blocks int, started time.Time)
	}
)
