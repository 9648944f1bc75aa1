package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/studtrack/studtrack-cli/config"
	"github.com/studtrack/studtrack-cli/pkg/aggregate"
	"github.com/studtrack/studtrack-cli/pkg/meeting"
)

// Views command flags.
var (
	viewsMeetingID string
	viewsOutput    string
)

// SessionView is a session rendered with display timestamps.
type SessionView struct {
	Join            string `json:"join" yaml:"join"`
	Leave           string `json:"leave" yaml:"leave"`
	DurationSeconds int64  `json:"duration_seconds" yaml:"duration_seconds"`
}

// ChatView is a chat message rendered with a display timestamp.
type ChatView struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Sender    string `json:"sender" yaml:"sender"`
	Message   string `json:"message" yaml:"message"`
}

// BatchView is the full set of presentation aggregates for one scope: a
// single meeting when MeetingID is set, otherwise the whole batch.
type BatchView struct {
	MeetingID string `json:"meeting_id,omitempty" yaml:"meeting_id,omitempty"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`

	TotalTime  map[string]int64         `json:"total_time_seconds" yaml:"total_time_seconds"`
	Sessions   map[string][]SessionView `json:"sessions" yaml:"sessions"`
	ChatCounts map[string]int64         `json:"chat_counts" yaml:"chat_counts"`
	Chats      map[string][]ChatView    `json:"chats" yaml:"chats"`

	// Offline-only aggregates; nil for online meetings and the overall scope.
	AttendanceStatusCounts map[string]int   `json:"attendance_status_counts,omitempty" yaml:"attendance_status_counts,omitempty"`
	ActivityCounts         map[string]int64 `json:"activity_counts,omitempty" yaml:"activity_counts,omitempty"`
}

// NewViewsCommand creates the views command.
func NewViewsCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "views <input>",
		Short: "Emit the presentation aggregates for a meeting or the whole batch",
		Long: `Emit the presentation aggregates for a meeting or the whole batch.

Computes the per-participant aggregates a dashboard would consume: total
engaged time, session lists, chat counts, and chat messages. For a single
offline meeting, attendance status counts and activity label counts are
included as well.

Without --meeting the aggregates span the whole batch; chat aggregates then
cover online meetings only.

Examples:
  studtrack views meetings.json
  studtrack views meetings.json --meeting m1
  studtrack views meetings.json --meeting m1 -o json
  studtrack views meetings.yaml -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViews(deps, cmd.OutOrStdout(), args[0])
		},
	}

	cmd.Flags().StringVar(&viewsMeetingID, "meeting", "", "scope aggregates to a single meeting ID")
	cmd.Flags().StringVarP(&viewsOutput, "output", "o", "", "output format: text, json, yaml")

	return cmd
}

func runViews(deps *Deps, out io.Writer, input string) error {
	if err := deps.ensure(); err != nil {
		return err
	}

	batch, err := loadBatch(deps, input)
	if err != nil {
		return err
	}

	var view *BatchView
	if viewsMeetingID != "" {
		m := batch.ByID(viewsMeetingID)
		if m == nil {
			return fmt.Errorf("meeting %q not found", viewsMeetingID)
		}
		view = meetingView(m)
	} else {
		view = overallView(batch)
	}

	format := deps.Config.OutputFormat
	if viewsOutput != "" {
		format = config.OutputFormat(viewsOutput)
	}

	if format == config.OutputFormatText {
		printView(out, view)
		return nil
	}
	return renderStructured(out, format, view)
}

func meetingView(m *meeting.Meeting) *BatchView {
	v := &BatchView{
		MeetingID:  m.ID,
		Title:      m.Title,
		TotalTime:  aggregate.TotalTime(m),
		Sessions:   sessionViews(aggregate.Sessions(m)),
		ChatCounts: aggregate.ChatCounts(m),
		Chats:      chatViews(aggregate.ChatsBySender(m)),
	}
	if m.Kind == meeting.KindOffline {
		v.AttendanceStatusCounts = aggregate.AttendanceStatusCounts(m)
		v.ActivityCounts = aggregate.ActivityCounts(m)
	}
	return v
}

func overallView(b *meeting.Batch) *BatchView {
	return &BatchView{
		TotalTime:  aggregate.OverallTotalTime(b),
		Sessions:   sessionViews(aggregate.OverallSessions(b)),
		ChatCounts: aggregate.OverallChatCounts(b),
		Chats:      chatViews(aggregate.OverallChats(b)),
	}
}

func sessionViews(m map[string][]meeting.Session) map[string][]SessionView {
	out := make(map[string][]SessionView, len(m))
	for name, sessions := range m {
		views := make([]SessionView, len(sessions))
		for i, s := range sessions {
			views[i] = SessionView{
				Join:            s.Join.Format(meeting.TimestampLayout),
				Leave:           s.Leave.Format(meeting.TimestampLayout),
				DurationSeconds: s.Duration,
			}
		}
		out[name] = views
	}
	return out
}

func chatViews(m map[string][]meeting.Chat) map[string][]ChatView {
	out := make(map[string][]ChatView, len(m))
	for name, chats := range m {
		views := make([]ChatView, len(chats))
		for i, c := range chats {
			views[i] = ChatView{
				Timestamp: c.Timestamp.Format(meeting.TimestampLayout),
				Sender:    c.Sender,
				Message:   c.Message,
			}
		}
		out[name] = views
	}
	return out
}

func printView(out io.Writer, v *BatchView) {
	if v.MeetingID != "" {
		fmt.Fprintf(out, "Meeting: %s (%s)\n", v.Title, v.MeetingID)
	} else {
		fmt.Fprintln(out, "Overall (all meetings)")
	}

	fmt.Fprintln(out, "\nTotal Time:")
	for _, name := range sortedKeys(v.TotalTime) {
		secs := v.TotalTime[name]
		fmt.Fprintf(out, "  %s: %dm %ds\n", name, secs/60, secs%60)
	}

	fmt.Fprintln(out, "\nSessions:")
	for _, name := range sortedKeys(v.Sessions) {
		fmt.Fprintf(out, "  %s:\n", name)
		for _, s := range v.Sessions[name] {
			fmt.Fprintf(out, "    %s - %s (%ds)\n", s.Join, s.Leave, s.DurationSeconds)
		}
	}

	fmt.Fprintln(out, "\nChat Counts:")
	for _, name := range sortedKeys(v.ChatCounts) {
		fmt.Fprintf(out, "  %s: %d\n", name, v.ChatCounts[name])
	}

	fmt.Fprintln(out, "\nChats:")
	for _, name := range sortedKeys(v.Chats) {
		fmt.Fprintf(out, "  %s:\n", name)
		for _, c := range v.Chats[name] {
			fmt.Fprintf(out, "    [%s] %s\n", c.Timestamp, c.Message)
		}
	}

	if v.AttendanceStatusCounts != nil {
		fmt.Fprintln(out, "\nAttendance Status Counts:")
		for _, status := range sortedKeys(v.AttendanceStatusCounts) {
			fmt.Fprintf(out, "  %s: %d\n", status, v.AttendanceStatusCounts[status])
		}
	}

	if v.ActivityCounts != nil {
		fmt.Fprintln(out, "\nActivity Counts:")
		for _, label := range sortedKeys(v.ActivityCounts) {
			fmt.Fprintf(out, "  %s: %d\n", label, v.ActivityCounts[label])
		}
	}
}
