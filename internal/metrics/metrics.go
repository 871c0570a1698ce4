// Package metrics exposes Prometheus counters for stepper activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for steppers.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	IntentsTotal       *prometheus.CounterVec
	SettlesTotal       *prometheus.CounterVec
	HandlerErrorsTotal *prometheus.CounterVec
	Quantity           *prometheus.GaugeVec
}

// New creates stepper metrics and registers them with reg.
// Passing prometheus.DefaultRegisterer exposes them on the default
// handler; tests pass a fresh prometheus.NewRegistry().
//
// Metrics:
//   - stepper_intents_total{stepper,kind} - increments, decrements, repeats and external sets
//   - stepper_settles_total{stepper,outcome} - quiet periods elapsed by outcome
//   - stepper_handler_errors_total{stepper} - failed settled-event handlers
//   - stepper_quantity{stepper} - current quantity
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		IntentsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepper_intents_total",
				Help: "Total number of quantity intents applied",
			},
			[]string{"stepper", "kind"},
		),
		SettlesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepper_settles_total",
				Help: "Total number of elapsed quiet periods by outcome",
			},
			[]string{"stepper", "outcome"}, // "baseline", "unchanged", "changed"
		),
		HandlerErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepper_handler_errors_total",
				Help: "Total number of settled-event handler failures",
			},
			[]string{"stepper"},
		),
		Quantity: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stepper_quantity",
				Help: "Current quantity held by the stepper",
			},
			[]string{"stepper"},
		),
	}
}

// RecordIntent counts one applied intent and updates the quantity gauge.
func (m *Metrics) RecordIntent(stepper, kind string, value int) {
	if m == nil {
		return
	}
	m.IntentsTotal.WithLabelValues(stepper, kind).Inc()
	m.Quantity.WithLabelValues(stepper).Set(float64(value))
}

// RecordSettle counts an elapsed quiet period.
func (m *Metrics) RecordSettle(stepper, outcome string) {
	if m == nil {
		return
	}
	m.SettlesTotal.WithLabelValues(stepper, outcome).Inc()
}

// RecordHandlerError counts a failed notification.
func (m *Metrics) RecordHandlerError(stepper string) {
	if m == nil {
		return
	}
	m.HandlerErrorsTotal.WithLabelValues(stepper).Inc()
}

// Forget drops the series of a stepper that has been torn down.
func (m *Metrics) Forget(stepper string) {
	if m == nil {
		return
	}
	m.Quantity.DeleteLabelValues(stepper)
}
