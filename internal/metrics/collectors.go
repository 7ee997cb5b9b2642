package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors for the simulation itself. They are registered on
// the default registry so both the CLI process and the HTTP server expose
// them without extra wiring. promauto panics on duplicate registration,
// which is why these live in package-level vars rather than a constructor.
var (
	// TicksTotal counts every clock tick simulated across all machines.
	TicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alusim_ticks_total",
		Help: "Total number of clock ticks simulated.",
	})

	// OpsTotal counts completed operations by opcode mnemonic.
	OpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alusim_ops_total",
		Help: "Total number of completed ALU operations.",
	}, []string{"opcode"})

	// OpTicks observes how many ticks each operation needed to raise done.
	// Widths up to 1024 bits complete within 1026 ticks, so the exponential
	// ladder tops out at 2048.
	OpTicks = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "alusim_op_ticks",
		Help:    "Ticks needed per ALU operation.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"opcode"})
)

// ObserveOperation records one completed operation in every simulation
// collector.
func ObserveOperation(opcode string, ticks uint64) {
	TicksTotal.Add(float64(ticks))
	OpsTotal.WithLabelValues(opcode).Inc()
	OpTicks.WithLabelValues(opcode).Observe(float64(ticks))
}
