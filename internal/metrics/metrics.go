package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	verificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crosscheck",
			Name:      "verifications_total",
			Help:      "Total verifications completed, partitioned by confidence level.",
		},
		[]string{"level"},
	)

	verificationsFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crosscheck",
			Name:      "verifications_failed_total",
			Help:      "Verification attempts that ended in a fatal error, partitioned by cause.",
		},
		[]string{"cause"},
	)

	providerErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crosscheck",
			Name:      "provider_errors_total",
			Help:      "Failed provider calls, partitioned by provider and error reason.",
		},
		[]string{"provider", "reason"},
	)

	verificationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "crosscheck",
			Name:      "verification_seconds",
			Help:      "End-to-end verification latency in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
	)
)

// Register attaches crosscheck collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		verificationsTotal,
		verificationsFailedTotal,
		providerErrorsTotal,
		verificationSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveVerification records one completed verification.
func ObserveVerification(duration time.Duration, level string) {
	verificationsTotal.WithLabelValues(level).Inc()
	if duration < 0 {
		duration = 0
	}
	verificationSeconds.Observe(duration.Seconds())
}

// ObserveFailure records a verification attempt that returned a fatal error.
func ObserveFailure(cause string) {
	verificationsFailedTotal.WithLabelValues(cause).Inc()
}

// ObserveProviderError records one failed provider call.
func ObserveProviderError(provider, reason string) {
	providerErrorsTotal.WithLabelValues(provider, reason).Inc()
}
