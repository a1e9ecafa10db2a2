// Package driver walks a height range of a block source and feeds the blocks to a
// callback in ascending height order.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/jsondump/chain"
	"github.com/goodnatureofminers/blockinsight7000-jsondump/pkg/workerpool"
	"go.uber.org/zap"
)

// Config controls the height range and fetch behaviour of a Driver.
type Config struct {
	StartHeight uint64
	// EndHeight is the last height to dump. Zero means the node tip minus
	// Confirmations.
	EndHeight     uint64
	Confirmations uint64

	WorkerCount   int
	ChunkSize     int
	MaxRetries    int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.WorkerCount <= 0 {
		c.WorkerCount = defaultWorkerCount
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = defaultChunkSize
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = defaultRetryDelay
	}
	if c.MaxRetryDelay <= 0 {
		c.MaxRetryDelay = defaultMaxRetryDelay
	}
	return c
}

// Driver prefetches blocks concurrently but invokes the callback from a single
// goroutine, strictly in height order.
type Driver struct {
	source   BlockSource
	callback Callback
	metrics  Metrics
	cfg      Config
	logger   *zap.Logger
	sleep    func(context.Context, time.Duration) error
}

// New builds a Driver. metrics may be nil.
func New(source BlockSource, callback Callback, metrics Metrics, cfg Config, logger *zap.Logger) *Driver {
	return &Driver{
		source:   source,
		callback: callback,
		metrics:  metrics,
		cfg:      cfg.withDefaults(),
		logger:   logger.Named("driver"),
		sleep:    clock.SleepWithContext,
	}
}

// Run dumps the configured range: OnStart, one OnBlock per height, OnComplete.
func (d *Driver) Run(ctx context.Context) error {
	start := d.cfg.StartHeight
	end, err := d.resolveEndHeight(ctx)
	if err != nil {
		return err
	}
	if start > end {
		return fmt.Errorf("start height %d is above end height %d", start, end)
	}

	d.logger.Info("starting block stream", zap.Uint64("start_height", start), zap.Uint64("end_height", end))
	if err := d.callback.OnStart(start); err != nil {
		return fmt.Errorf("on start height %d: %w", start, err)
	}

	chunk := uint64(d.cfg.ChunkSize)
	for from := start; ; from += chunk {
		to := end
		if end-from >= chunk {
			to = from + chunk - 1
		}
		if err := d.processRange(ctx, from, to); err != nil {
			return err
		}
		d.logger.Info("processed blocks", zap.Uint64("height", to), zap.Uint64("end_height", end))
		if to == end {
			break
		}
	}

	if err := d.callback.OnComplete(end); err != nil {
		return fmt.Errorf("on complete height %d: %w", end, err)
	}
	return nil
}

func (d *Driver) resolveEndHeight(ctx context.Context) (uint64, error) {
	if d.cfg.EndHeight != 0 {
		return d.cfg.EndHeight, nil
	}
	latest, err := d.source.LatestHeight(ctx)
	if err != nil {
		return 0, fmt.Errorf("latest height: %w", err)
	}
	if latest < d.cfg.Confirmations {
		return 0, fmt.Errorf("tip %d has fewer than %d confirmations", latest, d.cfg.Confirmations)
	}
	return latest - d.cfg.Confirmations, nil
}

func (d *Driver) processRange(ctx context.Context, from, to uint64) error {
	heights := make([]uint64, 0, to-from+1)
	for h := from; ; h++ {
		heights = append(heights, h)
		if h == to {
			break
		}
	}

	blocks, err := workerpool.Map(ctx, d.cfg.WorkerCount, heights, d.fetch)
	if err != nil {
		return err
	}

	for i, block := range blocks {
		if err := d.callback.OnBlock(block, heights[i]); err != nil {
			return fmt.Errorf("on block height %d: %w", heights[i], err)
		}
		if d.metrics != nil {
			d.metrics.ObserveHeight(heights[i])
		}
	}
	return nil
}

func (d *Driver) fetch(ctx context.Context, height uint64) (*chain.Block, error) {
	for attempt := 0; ; attempt++ {
		started := time.Now()
		block, err := d.source.FetchBlock(ctx, height)
		if d.metrics != nil {
			d.metrics.ObserveFetch(err, started)
		}
		if err == nil {
			return block, nil
		}
		if ctx.Err() != nil || attempt >= d.cfg.MaxRetries {
			return nil, fmt.Errorf("fetch block height %d: %w", height, err)
		}

		delay := clock.Backoff(attempt, d.cfg.RetryDelay, d.cfg.MaxRetryDelay)
		d.logger.Warn("fetch block failed, retrying",
			zap.Uint64("height", height),
			zap.Int("attempt", attempt+1),
			zap.Duration("sleep", delay),
			zap.Error(err),
		)
		if err := d.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}
