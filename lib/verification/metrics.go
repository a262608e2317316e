package verification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	verdictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "x402hub",
		Name:      "verifications_total",
		Help:      "Verification outcomes by network and result.",
	}, []string{"network", "result"})

	verifyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "x402hub",
		Name:      "verification_duration_seconds",
		Help:      "Time spent reading the chain for one verification.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network"})
)

func observe(network string, verdict *Verdict, err error) {
	result := "valid"
	switch {
	case err != nil:
		result = "inconclusive"
	case !verdict.Valid:
		result = string(verdict.Reason)
	}
	verdictsTotal.WithLabelValues(network, result).Inc()
}
