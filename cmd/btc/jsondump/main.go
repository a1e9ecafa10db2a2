package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/jsondump/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/jsondump/driver"
	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/jsondump/dump"
	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/metrics"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type config struct {
	DumpFolder    string `long:"dump-folder" env:"BTC_JSONDUMP_DUMP_FOLDER" description:"folder blocks.json is written to" required:"true"`
	Network       string `long:"network" env:"BTC_JSONDUMP_NETWORK" description:"network name (mainnet, testnet, regtest, signet)" default:"mainnet"`
	RPCURL        string `long:"rpc-url" env:"BTC_JSONDUMP_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser       string `long:"rpc-user" env:"BTC_JSONDUMP_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword   string `long:"rpc-password" env:"BTC_JSONDUMP_RPC_PASSWORD" description:"Bitcoin RPC password"`
	StartHeight   uint64 `long:"start-height" env:"BTC_JSONDUMP_START_HEIGHT" description:"first height to dump" default:"0"`
	EndHeight     uint64 `long:"end-height" env:"BTC_JSONDUMP_END_HEIGHT" description:"last height to dump, 0 means tip minus confirmations" default:"0"`
	Confirmations uint64 `long:"confirmations" env:"BTC_JSONDUMP_CONFIRMATIONS" description:"blocks kept below the tip when end height is 0" default:"6"`
	Workers       int    `long:"workers" env:"BTC_JSONDUMP_WORKERS" description:"concurrent block fetches" default:"8"`
	RPS           int    `long:"rps" env:"BTC_JSONDUMP_RPS" description:"max block fetches per second, 0 disables the limit" default:"0"`
	MaxRetries    int    `long:"max-retries" env:"BTC_JSONDUMP_MAX_RETRIES" description:"retries per block fetch" default:"5"`
	MetricsAddr   string `long:"metrics-addr" env:"BTC_JSONDUMP_METRICS_ADDR" description:"address for metrics server, empty disables it" default:":2112"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("btc jsondump failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	if cfg.MetricsAddr != "" {
		startMetricsServer(ctx, cfg.MetricsAddr, logger)
	}

	decoder, err := bitcoin.NewScriptDecoder(cfg.Network)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DumpFolder, 0o755); err != nil {
		return fmt.Errorf("create dump folder: %w", err)
	}

	rpcClient, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("init btc rpc client: %w", err)
	}
	defer func() {
		rpcClient.Shutdown()
		rpcClient.WaitForShutdown()
	}()

	rpc := bitcoin.NewRPCClient(rpcClient, metrics.NewRPCClient(cfg.Network))
	source := bitcoin.NewRPCSource(rpc, decoder, cfg.RPS)
	callback := dump.New(cfg.DumpFolder, metrics.NewDump(cfg.Network), logger)

	d := driver.New(source, callback, metrics.NewDriver(cfg.Network), driver.Config{
		StartHeight:   cfg.StartHeight,
		EndHeight:     cfg.EndHeight,
		Confirmations: cfg.Confirmations,
		WorkerCount:   cfg.Workers,
		MaxRetries:    cfg.MaxRetries,
	}, logger)
	return d.Run(ctx)
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}
