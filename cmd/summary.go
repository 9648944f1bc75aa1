package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studtrack/studtrack-cli/pkg/aggregate"
	"github.com/studtrack/studtrack-cli/pkg/meeting"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "summary <input>",
		Short: "Print per-meeting console summaries",
		Long: `Print per-meeting console summaries.

For online meetings: how long each participant was in the meeting, plus the
chat message count. For offline meetings: each participant's attendance
status with punctuality notes, plus the logged activity count.

Examples:
  studtrack summary meetings.json
  studtrack summary meetings.yaml --skip-invalid`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(deps, cmd.OutOrStdout(), args[0])
		},
	}

	return cmd
}

func runSummary(deps *Deps, out io.Writer, input string) error {
	if err := deps.ensure(); err != nil {
		return err
	}

	batch, err := loadBatch(deps, input)
	if err != nil {
		return err
	}

	for i := range batch.Meetings {
		m := &batch.Meetings[i]
		fmt.Fprintf(out, "%s (%s) - %s%s\n", m.Title, m.Date, strings.ToUpper(string(m.Kind)), locationSuffix(m))

		if m.Kind == meeting.KindOnline {
			printOnlineSummary(out, m)
		} else {
			printOfflineSummary(out, m)
		}
	}

	return nil
}

func locationSuffix(m *meeting.Meeting) string {
	if m.Location == "" {
		return ""
	}
	return " at " + m.Location
}

func printOnlineSummary(out io.Writer, m *meeting.Meeting) {
	totals := aggregate.TotalTime(m)
	for i := range m.Participants {
		secs := totals[m.Participants[i].Name]
		fmt.Fprintf(out, "  %s was in the meet for: %d minutes and %d seconds.\n",
			m.Participants[i].Name, secs/60, secs%60)
	}
	fmt.Fprintf(out, "  Chat messages: %d\n", len(m.Chats))
}

func printOfflineSummary(out io.Writer, m *meeting.Meeting) {
	for i := range m.Participants {
		p := &m.Participants[i]
		presence, ok := p.Participation.(meeting.OfflinePresence)
		if !ok || presence.Attendance == nil {
			continue
		}
		att := presence.Attendance

		line := fmt.Sprintf("  %s: %s", p.Name, att.Status)
		if att.Attended() {
			if att.LateByMinutes > 0 {
				line += fmt.Sprintf(" (late by %d minutes)", att.LateByMinutes)
			}
			if att.EarlyLeaveMinutes > 0 {
				line += fmt.Sprintf(" (left %d minutes early)", att.EarlyLeaveMinutes)
			}
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "  Activities recorded: %d\n", len(m.Activities))
}
