package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Consumer outcomes.
const (
	OutcomeAcked    = "acked"
	OutcomeRequeued = "requeued"
	OutcomeDropped  = "dropped"
)

var MessagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "feed_consumer_messages_total",
	Help: "The total number of consumed messages by consumer and outcome",
}, []string{"consumer", "outcome"})

// Serve exposes /metrics; blocks until the server fails.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
