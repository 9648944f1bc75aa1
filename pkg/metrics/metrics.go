// Package metrics instruments the analytics pipeline with Prometheus
// counters. The CLI is one-shot, so nothing is scraped over HTTP; the
// counters accumulate over a run and can be dumped at exit for debugging
// slow or surprising batches.
package metrics

import (
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "studtrack"

// Pipeline holds the counters for one CLI invocation.
type Pipeline struct {
	registry *prometheus.Registry

	MeetingsNormalized *prometheus.CounterVec
	NormalizeFailures  prometheus.Counter
	ChatGroupsScored   prometheus.Counter
	SpamDetected       prometheus.Counter
	ReportsGenerated   prometheus.Counter
}

// NewPipeline creates a fresh counter set on a private registry.
func NewPipeline() *Pipeline {
	p := &Pipeline{
		registry: prometheus.NewRegistry(),
		MeetingsNormalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meetings_normalized_total",
			Help:      "Meetings successfully normalized, by kind.",
		}, []string{"kind"}),
		NormalizeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "normalize_failures_total",
			Help:      "Meetings rejected during normalization.",
		}),
		ChatGroupsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_groups_scored_total",
			Help:      "Per-sender chat groups run through the spam detector.",
		}),
		SpamDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spam_detected_total",
			Help:      "Chat groups classified as spam.",
		}),
		ReportsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_generated_total",
			Help:      "Report artifacts written.",
		}),
	}

	p.registry.MustRegister(
		p.MeetingsNormalized,
		p.NormalizeFailures,
		p.ChatGroupsScored,
		p.SpamDetected,
		p.ReportsGenerated,
	)
	return p
}

// Dump writes the current counter values to w as "name{labels} value" lines,
// sorted by metric name for stable output.
func (p *Pipeline) Dump(w io.Writer) error {
	families, err := p.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})

	for _, family := range families {
		for _, m := range family.GetMetric() {
			labels := ""
			for _, l := range m.GetLabel() {
				if labels != "" {
					labels += ","
				}
				labels += fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
			}
			name := family.GetName()
			if labels != "" {
				name += "{" + labels + "}"
			}
			if _, err := fmt.Fprintf(w, "%s %g\n", name, m.GetCounter().GetValue()); err != nil {
				return err
			}
		}
	}
	return nil
}
