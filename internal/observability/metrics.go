// README: Prometheus metrics for the offer flow and HTTP surface.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OffersPresented = promauto.NewCounter(prometheus.CounterOpts{Namespace: "courier", Name: "offers_presented_total", Help: "Offers shown to drivers"})
	OffersIgnored   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "courier", Name: "offers_ignored_total", Help: "Offers refused at the precondition gate"})
	OffersAccepted  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "courier", Name: "offers_accepted_total", Help: "Offers accepted by drivers"})
	OffersRejected  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "courier", Name: "offers_rejected_total", Help: "Offers rejected by drivers"})
	OffersExpired   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "courier", Name: "offers_expired_total", Help: "Offers expired on timeout"})

	DriversOnline = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "courier", Name: "drivers_online", Help: "Drivers currently available"})

	DeliveriesCompleted = promauto.NewCounter(prometheus.CounterOpts{Namespace: "courier", Name: "deliveries_completed_total", Help: "Deliveries reaching delivered status"})

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "courier",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
