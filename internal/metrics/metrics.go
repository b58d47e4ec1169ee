package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

type Registry struct {
	reg             *prometheus.Registry
	Inbound         *prometheus.CounterVec
	OutboundSends   *prometheus.CounterVec
	OutboundRetries prometheus.Counter
	RowsMerged      *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	inbound := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seedvdi_inbound_messages_total",
		Help: "Inbound VDI transactions by type and result.",
	}, []string{"type", "result"})
	sends := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seedvdi_outbound_sends_total",
		Help: "Outbound SEED posts by type and result.",
	}, []string{"type", "result"})
	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "seedvdi_outbound_retries_total",
		Help: "Outbound SEED attempts after the first.",
	})
	merged := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seedvdi_rows_merged_total",
		Help: "Rows inserted into the warehouse by table.",
	}, []string{"table"})

	r.MustRegister(inbound, sends, retries, merged)
	return &Registry{
		reg:             r,
		Inbound:         inbound,
		OutboundSends:   sends,
		OutboundRetries: retries,
		RowsMerged:      merged,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }
