// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what the runner does.
type Metrics struct {
	registry *prometheus.Registry

	Declarations *prometheus.CounterVec // Analyses by resulting state
	Diagnostics  *prometheus.CounterVec // Diagnostics by rule
	Fixes        *prometheus.CounterVec // Fix attempts by rule and outcome
	CacheLookups *prometheus.CounterVec // Cache lookups by result
}

// NewMetrics creates the runner metrics and registers them on registry. A
// nil registry gets a private one.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: registry,
		Declarations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "doclint_declarations_analyzed_total",
				Help: "Total number of analyzed declarations",
			},
			[]string{"state"},
		),
		Diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "doclint_diagnostics_total",
				Help: "Total number of reported diagnostics",
			},
			[]string{"rule"},
		),
		Fixes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "doclint_fixes_total",
				Help: "Total number of fix attempts",
			},
			[]string{"rule", "outcome"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "doclint_cache_lookups_total",
				Help: "Total number of result cache lookups",
			},
			[]string{"result"},
		),
	}
	registry.MustRegister(m.Declarations, m.Diagnostics, m.Fixes, m.CacheLookups)
	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes the current metric values in the Prometheus text
// format, for node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) declaration(state State) {
	if m != nil {
		m.Declarations.WithLabelValues(state.String()).Inc()
	}
}

func (m *Metrics) diagnostic(rule string) {
	if m != nil {
		m.Diagnostics.WithLabelValues(rule).Inc()
	}
}

func (m *Metrics) fix(rule, outcome string) {
	if m != nil {
		m.Fixes.WithLabelValues(rule, outcome).Inc()
	}
}

func (m *Metrics) cacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
