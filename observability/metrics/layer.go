package metrics

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// LayerMetrics aggregates counters for layer engine operations.
type LayerMetrics struct {
	operations *prometheus.CounterVec
	feeVolume  *prometheus.CounterVec
}

var (
	layerOnce     sync.Once
	layerRegistry *LayerMetrics
)

// Layer returns the process-wide layer metrics registry, registering the
// collectors on first use.
func Layer() *LayerMetrics {
	layerOnce.Do(func() {
		layerRegistry = &LayerMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "layer_operations_total",
				Help: "Count of layer engine operations by name and outcome.",
			}, []string{"op", "outcome"}),
			feeVolume: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "layer_fee_volume_total",
				Help: "Cumulative fee units routed per fee wallet role.",
			}, []string{"route"}),
		}
		prometheus.MustRegister(
			layerRegistry.operations,
			layerRegistry.feeVolume,
		)
	})
	return layerRegistry
}

// ObserveOperation records the outcome of a single engine operation.
func (m *LayerMetrics) ObserveOperation(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.operations.WithLabelValues(op, outcome).Inc()
}

// ObserveFee accumulates routed fee volume for the given route label. Amounts
// beyond float64 precision are clamped by the conversion; the counter tracks
// volume for dashboards, not accounting.
func (m *LayerMetrics) ObserveFee(route string, amount *big.Int) {
	if m == nil || amount == nil || amount.Sign() <= 0 {
		return
	}
	value, _ := new(big.Float).SetInt(amount).Float64()
	m.feeVolume.WithLabelValues(route).Add(value)
}
