package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Verification outcomes used as the "result" label.
const (
	ResultValid     = "valid"
	ResultInvalid   = "invalid"
	ResultMalformed = "malformed"
	ResultError     = "error"
)

type Metrics struct {
	SignaturesTotal    *prometheus.CounterVec
	SignFailures       prometheus.Counter
	VerificationsTotal *prometheus.CounterVec
	Wallets            prometheus.Gauge
}

// New registers on the default registerer.
func New() *Metrics {
	return NewWithRegistry(nil)
}

func NewWithRegistry(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		SignaturesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "arsign_signatures_total",
			Help: "Signatures produced, per wallet address",
		}, []string{"address"}),
		SignFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "arsign_sign_failures_total",
			Help: "Signing attempts rejected by the crypto layer",
		}),
		VerificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "arsign_verifications_total",
			Help: "Verification requests by result",
		}, []string{"result"}),
		Wallets: factory.NewGauge(prometheus.GaugeOpts{
			Name: "arsign_wallets",
			Help: "Wallets loaded into the registry",
		}),
	}
}
