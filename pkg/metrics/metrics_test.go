package metrics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_DumpIncludesAllCounters(t *testing.T) {
	p := NewPipeline()
	p.MeetingsNormalized.WithLabelValues("online").Add(2)
	p.MeetingsNormalized.WithLabelValues("offline").Inc()
	p.NormalizeFailures.Inc()
	p.ChatGroupsScored.Add(5)
	p.SpamDetected.Inc()
	p.ReportsGenerated.Inc()

	var buf bytes.Buffer
	require.NoError(t, p.Dump(&buf))
	out := buf.String()

	assert.Contains(t, out, `studtrack_meetings_normalized_total{kind="online"} 2`)
	assert.Contains(t, out, `studtrack_meetings_normalized_total{kind="offline"} 1`)
	assert.Contains(t, out, "studtrack_normalize_failures_total 1")
	assert.Contains(t, out, "studtrack_chat_groups_scored_total 5")
	assert.Contains(t, out, "studtrack_spam_detected_total 1")
	assert.Contains(t, out, "studtrack_reports_generated_total 1")
}

func TestPipeline_FreshRegistryPerRun(t *testing.T) {
	// Two pipelines must not share counters (no global registry).
	a := NewPipeline()
	b := NewPipeline()
	a.SpamDetected.Inc()

	var buf bytes.Buffer
	require.NoError(t, b.Dump(&buf))
	assert.Contains(t, buf.String(), "studtrack_spam_detected_total 0")
}
