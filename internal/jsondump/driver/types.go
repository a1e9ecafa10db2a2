package driver

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/jsondump/chain"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	BlockSource interface {
		LatestHeight(ctx context.Context) (uint64, error)
		FetchBlock(ctx context.Context, height uint64) (*chain.Block, error)
	}
	Callback interface {
		OnStart(height uint64) error
		OnBlock(block *chain.Block, height uint64) error
		OnComplete(height uint64) error
	}
	Metrics interface {
		ObserveFetch(err error, started time.Time)
		ObserveHeight(height uint64)
	}
)
