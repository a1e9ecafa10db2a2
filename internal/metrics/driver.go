package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	driverFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "driver",
		Name:      "fetch_block_total",
		Help:      "Count of block fetch attempts.",
	}, []string{"network", "status"})

	driverFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "driver",
		Name:      "fetch_block_duration_seconds",
		Help:      "Duration of fetching and decoding a single block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	driverHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "driver",
		Name:      "processed_height",
		Help:      "Last height handed to the callback.",
	}, []string{"network"})
)

// Driver tracks metrics for the block driver.
type Driver struct {
	network string
}

// NewDriver constructs a Driver collector for the given network.
func NewDriver(network string) *Driver {
	if network == "" {
		network = "unknown"
	}
	return &Driver{network: network}
}

// ObserveFetch records a block fetch attempt outcome and duration.
func (m Driver) ObserveFetch(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	driverFetchTotal.WithLabelValues(m.network, status).Inc()
	driverFetchDuration.WithLabelValues(m.network, status).Observe(time.Since(started).Seconds())
}

// ObserveHeight sets the last processed height.
func (m Driver) ObserveHeight(height uint64) {
	driverHeight.WithLabelValues(m.network).Set(float64(height))
}
