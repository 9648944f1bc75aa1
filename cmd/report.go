package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	sterrors "github.com/studtrack/studtrack-cli/pkg/errors"
	"github.com/studtrack/studtrack-cli/pkg/logging"
	"github.com/studtrack/studtrack-cli/pkg/meeting"
	"github.com/studtrack/studtrack-cli/pkg/report"
)

// Report command flags.
var reportOut string

// NewReportCommand creates the report command.
func NewReportCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "report <input>",
		Short: "Generate the comprehensive meeting analytics report",
		Long: `Generate the comprehensive meeting analytics report.

Reads a meeting document (JSON or YAML), normalizes it, and writes a
five-section text report:

  1. EXECUTIVE SUMMARY        meeting counts and total engagement
  2. ONLINE MEETINGS ANALYSIS per-meeting engagement, sessions, chat
  3. OFFLINE MEETINGS ANALYSIS attendance, punctuality, activities
  4. PARTICIPANT ANALYSIS     cross-meeting engagement and reliability
  5. RECOMMENDATIONS          attendance concerns and low engagement

Examples:
  studtrack report meetings.json
  studtrack report meetings.yaml --out weekly_report.txt
  studtrack report meetings.json --skip-invalid`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(deps, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&reportOut, "out", "", "report output path (default from config, studtrack_report.txt)")

	return cmd
}

func runReport(deps *Deps, cmd *cobra.Command, input string) error {
	if err := deps.ensure(); err != nil {
		return err
	}

	runID := uuid.New().String()
	log := deps.Logger.With(logging.F("run_id", runID))

	batch, err := loadBatch(deps, input)
	if err != nil {
		return err
	}

	out := reportOut
	if out == "" {
		out = deps.Config.ReportPath
	}

	if err := writeReportFile(batch, out); err != nil {
		return err
	}

	deps.Metrics.ReportsGenerated.Inc()
	log.Info("report generated",
		logging.F("output", out),
		logging.F("meetings", len(batch.Meetings)))

	fmt.Fprintf(cmd.OutOrStdout(), "Report generated: %s\n", out)
	return nil
}

// writeReportFile renders the report to path. The file handle is closed on
// every path, and close failures on a successful render still surface: a
// buffered write error may only appear at close time.
func writeReportFile(batch *meeting.Batch, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", sterrors.ErrIO, path, err)
	}

	genErr := report.Generate(f, batch, report.Options{
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
	})
	closeErr := f.Close()

	if genErr != nil {
		return fmt.Errorf("%w: writing %s: %v", sterrors.ErrIO, path, genErr)
	}
	if closeErr != nil {
		return fmt.Errorf("%w: closing %s: %v", sterrors.ErrIO, path, closeErr)
	}
	return nil
}
