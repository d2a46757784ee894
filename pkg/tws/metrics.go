package tws

import (
	"github.com/prometheus/client_golang/prometheus"
)

var requestDurations = prometheus.NewSummaryVec(prometheus.SummaryOpts{
	Name:       "tws_request_duration_us",
	Help:       "tws request durations microseconds",
	AgeBuckets: 1,
}, []string{"request", "outcome"})

var pendingRequests = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "tws_pending_requests",
	Help: "tws requests waiting for a reply",
})

var sentRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "tws_sent_requests_total",
	Help: "tws requests written to the transport",
}, []string{"request"})

var connectionState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Name: "tws_connection_state",
	Help: "tws connection state by gateway, see ConnectionState",
}, []string{"gate"})

var inboundMessages = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "tws_inbound_messages_total",
	Help: "tws messages dispatched by the pump",
}, []string{"message"})

var terminalErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "tws_terminal_errors_total",
	Help: "tws gateway error notifications by code",
}, []string{"code", "severity"})

var reconnects = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "tws_reconnects_total",
	Help: "tws scheduled reconnect cycles",
})

var pumpStarts = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "tws_pump_starts_total",
	Help: "tws message pump starts",
})

var handlerPanics = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "tws_handler_panics_total",
	Help: "tws message handlers recovered by the pump",
})

func init() {
	prometheus.MustRegister(
		requestDurations,
		pendingRequests,
		sentRequests,
		connectionState,
		inboundMessages,
		terminalErrors,
		reconnects,
		pumpStarts,
		handlerPanics,
	)
}
