// Package cmd provides CLI commands for the studtrack tool.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/studtrack/studtrack-cli/config"
	sterrors "github.com/studtrack/studtrack-cli/pkg/errors"
	"github.com/studtrack/studtrack-cli/pkg/logging"
	"github.com/studtrack/studtrack-cli/pkg/meeting"
	"github.com/studtrack/studtrack-cli/pkg/metrics"
)

// Deps holds the shared dependencies for analysis commands. Zero fields are
// filled in lazily so tests can inject only what they care about.
type Deps struct {
	Config     *config.CLIConfig
	LoadConfig func() (*config.CLIConfig, error)
	Logger     logging.Logger
	Metrics    *metrics.Pipeline
}

// DefaultDeps returns the default dependencies for production use.
func DefaultDeps() *Deps {
	return &Deps{
		LoadConfig: config.LoadConfig,
	}
}

// ensure fills in any missing dependencies with defaults.
func (d *Deps) ensure() error {
	if d.Config == nil {
		load := d.LoadConfig
		if load == nil {
			load = config.LoadConfig
		}
		cfg, err := load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		d.Config = cfg
	}
	if d.Logger == nil {
		d.Logger = logging.NewNopLogger()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewPipeline()
	}
	return nil
}

// loadBatch reads a meeting document from disk and normalizes it into a
// Batch, honoring the configured skip-invalid policy and recording pipeline
// counters along the way.
func loadBatch(deps *Deps, path string) (*meeting.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", sterrors.ErrIO, path, err)
	}

	doc, err := meeting.DecodeDocument(data)
	if err != nil {
		deps.Metrics.NormalizeFailures.Inc()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	before := len(doc.Meetings)
	batch, err := meeting.NormalizeBatch(doc, meeting.NormalizeOptions{
		SkipInvalid: deps.Config.SkipInvalid,
		Logger:      deps.Logger,
	})
	if err != nil {
		deps.Metrics.NormalizeFailures.Inc()
		return nil, err
	}

	for i := range batch.Meetings {
		deps.Metrics.MeetingsNormalized.WithLabelValues(string(batch.Meetings[i].Kind)).Inc()
	}
	if skipped := before - len(batch.Meetings); skipped > 0 {
		for i := 0; i < skipped; i++ {
			deps.Metrics.NormalizeFailures.Inc()
		}
	}

	deps.Logger.Debug("batch normalized",
		logging.F("source", path),
		logging.F("meetings", len(batch.Meetings)),
		logging.F("skipped", before-len(batch.Meetings)))

	return batch, nil
}

// renderStructured writes v as JSON or YAML according to format. Text
// rendering is command-specific and handled by the callers.
func renderStructured(w io.Writer, format config.OutputFormat, v interface{}) error {
	switch format {
	case config.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported output format: %q", format)
	}
}

// sortedKeys returns the keys of m in lexicographic order, for deterministic
// console output over map-shaped aggregates.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// meetingHeading formats the standard "Title (date)" heading, with the
// location suffix for offline meetings.
func meetingHeading(m *meeting.Meeting) string {
	if m.Location != "" {
		return fmt.Sprintf("%s (%s) at %s", m.Title, m.Date, m.Location)
	}
	return fmt.Sprintf("%s (%s)", m.Title, m.Date)
}
