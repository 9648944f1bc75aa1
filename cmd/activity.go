package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/studtrack/studtrack-cli/pkg/aggregate"
	"github.com/studtrack/studtrack-cli/pkg/meeting"
)

// NewActivityCommand creates the activity command.
func NewActivityCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "activity <input>",
		Short: "Analyze logged activities in offline meetings",
		Long: `Analyze logged activities in offline meetings.

For each offline meeting with logged activities, prints a per-participant
table of activity count and most common activity, followed by an attendance
summary with present/late/absent counts and the attendance rate.

Examples:
  studtrack activity meetings.json
  studtrack activity meetings.yaml --skip-invalid`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActivity(deps, cmd.OutOrStdout(), args[0])
		},
	}

	return cmd
}

func runActivity(deps *Deps, out io.Writer, input string) error {
	if err := deps.ensure(); err != nil {
		return err
	}

	batch, err := loadBatch(deps, input)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "=== Offline Meeting Activity Analysis ===")
	for i := range batch.Meetings {
		m := &batch.Meetings[i]
		if m.Kind != meeting.KindOffline || len(m.Activities) == 0 {
			continue
		}
		printActivityAnalysis(out, m)
	}

	return nil
}

func printActivityAnalysis(out io.Writer, m *meeting.Meeting) {
	fmt.Fprintf(out, "\n%s\n", meetingHeading(m))

	byParticipant := aggregate.ActivitiesByParticipant(m)

	fmt.Fprintln(out, "--------------------------------------------------")
	fmt.Fprintf(out, "%-15s %-15s %-20s\n", "Participant", "Activities", "Most Common Activity")
	fmt.Fprintln(out, "--------------------------------------------------")

	for _, name := range sortedKeys(byParticipant) {
		acts := byParticipant[name]
		fmt.Fprintf(out, "%-15s %-15d %-20s\n", name, len(acts), mostCommonActivity(acts))
	}

	fmt.Fprintln(out, "\nAttendance Summary:")
	counts := aggregate.AttendanceStatusCounts(m)
	fmt.Fprintf(out, "- Present: %d, Late: %d, Absent: %d\n",
		counts[meeting.StatusPresent], counts[meeting.StatusLate], counts[meeting.StatusAbsent])

	if rate, ok := aggregate.AttendanceRate(m); ok {
		fmt.Fprintf(out, "- Attendance Rate: %.1f%%\n", rate)
	} else {
		fmt.Fprintln(out, "- Attendance Rate: N/A (no participants)")
	}
}

// mostCommonActivity returns the most frequent activity label, breaking
// count ties toward the lexicographically smaller label.
func mostCommonActivity(acts []meeting.Activity) string {
	counts := make(map[string]int, len(acts))
	for i := range acts {
		counts[acts[i].Label]++
	}

	best := "None"
	bestCount := 0
	for _, label := range sortedKeys(counts) {
		if counts[label] > bestCount {
			best = label
			bestCount = counts[label]
		}
	}
	return best
}
