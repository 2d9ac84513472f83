// Package metrics counts remediation outcomes and writes them as a Prometheus textfile.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricNamespace = "actup"

const (
	remediationOutcomesMetricName = "remediation_outcomes_total"
	outcomeLabel                  = "outcome"
)

type Outcome string

const (
	OutcomeCreated    Outcome = "created"
	OutcomeNoChange   Outcome = "no_change"
	OutcomeExistingPR Outcome = "existing_pr"
	OutcomeDeclined   Outcome = "declined"
	OutcomeDryRun     Outcome = "dry_run"
	OutcomeFailed     Outcome = "failed"
)

type Collector struct {
	registry *prometheus.Registry
	outcomes *prometheus.CounterVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	return &Collector{
		registry: reg,
		outcomes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      remediationOutcomesMetricName,
				Help:      "count of repositories by remediation outcome",
			},
			[]string{outcomeLabel},
		),
	}
}

func (c *Collector) Observe(outcome Outcome) {
	c.outcomes.With(prometheus.Labels{outcomeLabel: string(outcome)}).Inc()
}

// Count returns the current value of the counter of outcome.
func (c *Collector) Count(outcome Outcome) (float64, error) {
	families, err := c.registry.Gather()
	if err != nil {
		return 0, fmt.Errorf("gather metrics: %w", err)
	}
	for _, family := range families {
		if family.GetName() != metricNamespace+"_"+remediationOutcomesMetricName {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == outcomeLabel && label.GetValue() == string(outcome) {
					return m.GetCounter().GetValue(), nil
				}
			}
		}
	}
	return 0, nil
}

// WriteTextfile writes every metric to path in the text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics to a textfile: %w", err)
	}
	return nil
}
