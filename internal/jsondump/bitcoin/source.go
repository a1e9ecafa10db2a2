package bitcoin

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/jsondump/chain"
	"github.com/goodnatureofminers/blockinsight7000-jsondump/pkg/safe"
	"go.uber.org/ratelimit"
)

// RPCSource implements chain.BlockSource on top of a node RPC client.
type RPCSource struct {
	rpc     RPCClient
	decoder *ScriptDecoder
	limiter ratelimit.Limiter
}

var _ chain.BlockSource = (*RPCSource)(nil)

// NewRPCSource creates a source issuing at most rps block fetches per second.
// A non-positive rps disables throttling.
func NewRPCSource(rpc RPCClient, decoder *ScriptDecoder, rps int) *RPCSource {
	limiter := ratelimit.NewUnlimited()
	if rps > 0 {
		limiter = ratelimit.New(rps)
	}
	return &RPCSource{
		rpc:     rpc,
		decoder: decoder,
		limiter: limiter,
	}
}

// LatestHeight returns the height of the node's best block.
func (s *RPCSource) LatestHeight(_ context.Context) (uint64, error) {
	count, err := s.rpc.GetBlockCount()
	if err != nil {
		return 0, err
	}
	height, err := safe.Uint64(count)
	if err != nil {
		return 0, fmt.Errorf("block count overflow: %w", err)
	}
	return height, nil
}

// FetchBlock retrieves and decodes the block at height.
func (s *RPCSource) FetchBlock(ctx context.Context, height uint64) (*chain.Block, error) {
	rpcHeight, err := safe.Int64(height)
	if err != nil {
		return nil, fmt.Errorf("block height %d exceeds rpc limit: %w", height, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.limiter.Take()
	hash, err := s.rpc.GetBlockHash(rpcHeight)
	if err != nil {
		return nil, fmt.Errorf("get block hash at height %d: %w", height, err)
	}
	msg, err := s.rpc.GetBlock(hash)
	if err != nil {
		return nil, fmt.Errorf("get block %s: %w", hash, err)
	}

	block, err := ConvertBlock(msg, s.decoder)
	if err != nil {
		return nil, fmt.Errorf("convert block at height %d: %w", height, err)
	}
	return block, nil
}
