package driver

import "time"

const (
	defaultWorkerCount   = 8
	defaultChunkSize     = 100
	defaultRetryDelay    = 1 * time.Second
	defaultMaxRetryDelay = 30 * time.Second
)
