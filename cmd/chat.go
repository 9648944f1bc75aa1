package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/studtrack/studtrack-cli/pkg/aggregate"
	"github.com/studtrack/studtrack-cli/pkg/meeting"
	"github.com/studtrack/studtrack-cli/pkg/spam"
)

// NewChatCommand creates the chat command.
func NewChatCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "chat <input>",
		Short: "Analyze chat patterns in online meetings",
		Long: `Analyze chat patterns in online meetings.

For each online meeting with chat traffic, prints a per-sender table of
message count, spam verdict, and spam score, followed by meeting highlights
(most active sender, total messages).

The spam score combines rapid-fire bursts, repeated identical messages, and
overall message density. A high score, a tight burst of messages, or a run
of duplicates flags the sender as spam-like.

Examples:
  studtrack chat meetings.json
  studtrack chat meetings.yaml --skip-invalid`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(deps, cmd.OutOrStdout(), args[0])
		},
	}

	return cmd
}

func runChat(deps *Deps, out io.Writer, input string) error {
	if err := deps.ensure(); err != nil {
		return err
	}

	batch, err := loadBatch(deps, input)
	if err != nil {
		return err
	}

	detector := spam.NewDetector(spam.DefaultRules())

	fmt.Fprintln(out, "=== Online Meeting Chat Pattern Analysis ===")
	for i := range batch.Meetings {
		m := &batch.Meetings[i]
		if m.Kind != meeting.KindOnline || len(m.Chats) == 0 {
			continue
		}
		printChatAnalysis(deps, out, detector, m)
	}

	return nil
}

func printChatAnalysis(deps *Deps, out io.Writer, detector *spam.Detector, m *meeting.Meeting) {
	fmt.Fprintf(out, "\n%s (%s)\n", m.Title, m.Date)

	bySender := aggregate.ChatsBySender(m)

	fmt.Fprintln(out, "--------------------------------------------------")
	fmt.Fprintf(out, "%-15s %-15s %-20s %-15s\n", "Participant", "Messages", "Pattern", "Spam Score")
	fmt.Fprintln(out, "--------------------------------------------------")

	var (
		mostActive      string
		mostActiveCount int
	)

	for _, sender := range sortedKeys(bySender) {
		analysis := detector.Analyze(sender, bySender[sender])
		deps.Metrics.ChatGroupsScored.Inc()

		verdict := "Normal"
		if analysis.Spam {
			verdict = "SPAM DETECTED"
			deps.Metrics.SpamDetected.Inc()
		}
		fmt.Fprintf(out, "%-15s %-15d %-20s %-15.1f\n",
			analysis.Sender, analysis.MessageCount, verdict, analysis.Score)

		if analysis.MessageCount > mostActiveCount {
			mostActive = analysis.Sender
			mostActiveCount = analysis.MessageCount
		}
	}

	if mostActive == "" {
		mostActive = "None"
	}

	fmt.Fprintln(out, "\nMeeting Highlights:")
	fmt.Fprintf(out, "- Most active: %s\n", mostActive)
	fmt.Fprintf(out, "- Total messages: %d\n", len(m.Chats))
}
