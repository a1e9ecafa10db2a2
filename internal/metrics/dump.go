// Package metrics exposes application metrics collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dumpBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "jsondump",
		Name:      "blocks_total",
		Help:      "Count of blocks consumed by the dump.",
	}, []string{"network"})

	dumpRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "jsondump",
		Name:      "records_total",
		Help:      "Count of transactions, inputs and outputs consumed by the dump.",
	}, []string{"network", "kind"})

	dumpExportTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "jsondump",
		Name:      "export_total",
		Help:      "Count of export attempts.",
	}, []string{"network", "status"})

	dumpExportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "jsondump",
		Name:      "export_duration_seconds",
		Help:      "Duration of writing the blocks document.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms..~80s
	}, []string{"network", "status"})

	dumpExportSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "jsondump",
		Name:      "export_size_blocks",
		Help:      "Number of blocks written per export.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
	}, []string{"network"})
)

// Dump tracks metrics for the JSON dump callback.
type Dump struct {
	network string
}

// NewDump constructs a Dump collector for the given network.
func NewDump(network string) *Dump {
	if network == "" {
		network = "unknown"
	}
	return &Dump{network: network}
}

// ObserveBlock records the record counts of one consumed block.
func (m Dump) ObserveBlock(txs, inputs, outputs int) {
	dumpBlocksTotal.WithLabelValues(m.network).Inc()
	dumpRecordsTotal.WithLabelValues(m.network, "tx").Add(float64(txs))
	dumpRecordsTotal.WithLabelValues(m.network, "input").Add(float64(inputs))
	dumpRecordsTotal.WithLabelValues(m.network, "output").Add(float64(outputs))
}

// ObserveExport records an export attempt outcome, its duration and size.
func (m Dump) ObserveExport(err error, blocks int, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	dumpExportTotal.WithLabelValues(m.network, status).Inc()
	dumpExportDuration.WithLabelValues(m.network, status).Observe(time.Since(started).Seconds())
	dumpExportSize.WithLabelValues(m.network).Observe(float64(blocks))
}
