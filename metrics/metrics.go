// Package metrics wires the capacity balancer's loop into Prometheus,
// registering collectors against a caller-supplied prometheus.Registerer
// rather than the global default registry so multiple balancers in one
// process don't collide.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Balancer holds the collectors a single CapacityBalancer run reports
// into. A nil *Balancer is valid and every method on it is a no-op, so
// wiring metrics is opt-in for callers of txbuilder.Balance.
type Balancer struct {
	iterations       prometheus.Counter
	finalFeeShannons prometheus.Histogram
	providerAdvances prometheus.Counter
}

// NewBalancer creates and registers a Balancer's collectors against reg.
func NewBalancer(reg prometheus.Registerer) (*Balancer, error) {
	b := &Balancer{
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "txbuilder",
			Subsystem: "balancer",
			Name:      "iterations_total",
			Help:      "Number of fixed-point iterations the capacity balancer ran before returning.",
		}),
		finalFeeShannons: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "txbuilder",
			Subsystem: "balancer",
			Name:      "final_fee_shannons",
			Help:      "Final transaction fee, in shannons, of a successfully balanced transaction.",
			Buckets:   prometheus.ExponentialBuckets(100, 4, 10),
		}),
		providerAdvances: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "txbuilder",
			Subsystem: "balancer",
			Name:      "provider_advances_total",
			Help:      "Number of times the balancer exhausted one capacity provider lock script and advanced to the next.",
		}),
	}
	for _, c := range []prometheus.Collector{b.iterations, b.finalFeeShannons, b.providerAdvances} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// IncIteration records one pass through the balancer's loop.
func (b *Balancer) IncIteration() {
	if b == nil {
		return
	}
	b.iterations.Inc()
}

// ObserveFinalFee records the fee of a successfully balanced transaction.
func (b *Balancer) ObserveFinalFee(shannons uint64) {
	if b == nil {
		return
	}
	b.finalFeeShannons.Observe(float64(shannons))
}

// IncProviderAdvance records the balancer moving on to the next capacity
// provider lock script because the current one ran out of cells.
func (b *Balancer) IncProviderAdvance() {
	if b == nil {
		return
	}
	b.providerAdvances.Inc()
}
