package events

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks domain event dispatch and integration event publishing.
type Metrics struct {
	dispatched      *prometheus.CounterVec
	handlerFailures *prometheus.CounterVec
	published       *prometheus.CounterVec
	publishFailures *prometheus.CounterVec
}

// NewMetrics creates and registers the event metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modushop",
			Subsystem: "events",
			Name:      "dispatched_total",
			Help:      "Number of domain events delivered to handlers",
		}, []string{"event_name"}),
		handlerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modushop",
			Subsystem: "events",
			Name:      "handler_failures_total",
			Help:      "Number of handler invocations that returned an error",
		}, []string{"event_name"}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modushop",
			Subsystem: "events",
			Name:      "integration_published_total",
			Help:      "Number of integration events published to the bus",
		}, []string{"topic"}),
		publishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modushop",
			Subsystem: "events",
			Name:      "integration_publish_failures_total",
			Help:      "Number of failed integration event publishes",
		}, []string{"topic"}),
	}

	if reg != nil {
		reg.MustRegister(m.dispatched, m.handlerFailures, m.published, m.publishFailures)
	}
	return m
}

// EventDispatched records one delivered domain event.
func (m *Metrics) EventDispatched(eventName string) {
	if m == nil {
		return
	}
	m.dispatched.WithLabelValues(eventName).Inc()
}

// HandlerFailed records one failed handler invocation.
func (m *Metrics) HandlerFailed(eventName string) {
	if m == nil {
		return
	}
	m.handlerFailures.WithLabelValues(eventName).Inc()
}

// IntegrationPublished records one published integration event.
func (m *Metrics) IntegrationPublished(topic string) {
	if m == nil {
		return
	}
	m.published.WithLabelValues(topic).Inc()
}

// IntegrationPublishFailed records one failed publish.
func (m *Metrics) IntegrationPublishFailed(topic string) {
	if m == nil {
		return
	}
	m.publishFailures.WithLabelValues(topic).Inc()
}
