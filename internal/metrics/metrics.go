// Package metrics holds the domain counters of the access workflow.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Access counts validation outcomes and compensation steps.
type Access struct {
	validations   *prometheus.CounterVec
	compensations *prometheus.CounterVec
}

// NewAccess registers the access collectors on reg.
func NewAccess(reg prometheus.Registerer) (*Access, error) {
	m := &Access{
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "securedoc",
				Name:      "access_validations_total",
				Help:      "Token validations by outcome.",
			},
			[]string{"outcome"},
		),
		compensations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "securedoc",
				Name:      "compensations_total",
				Help:      "Compensating saga steps by saga and outcome.",
			},
			[]string{"saga", "outcome"},
		),
	}
	for _, c := range []prometheus.Collector{m.validations, m.compensations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Validation records one token validation outcome.
func (m *Access) Validation(outcome string) {
	m.validations.WithLabelValues(outcome).Inc()
}

// Compensation records the result of a compensating step.
func (m *Access) Compensation(saga, outcome string) {
	m.compensations.WithLabelValues(saga, outcome).Inc()
}
