package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewViewsCommand verifies the views command structure.
func TestNewViewsCommand(t *testing.T) {
	cmd := NewViewsCommand(testDeps())

	assert.Equal(t, "views", cmd.Use[:5], "command name should be views")
	assert.NotEmpty(t, cmd.Short, "command should have short description")
	assert.NotEmpty(t, cmd.Long, "command should have long description")

	meetingFlag := cmd.Flags().Lookup("meeting")
	require.NotNil(t, meetingFlag, "meeting flag should exist")
	assert.Equal(t, "string", meetingFlag.Value.Type(), "meeting flag should be string")

	outputFlag := cmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag, "output flag should exist")
	require.NotNil(t, cmd.Flags().ShorthandLookup("o"), "output flag should have shorthand -o")
}

func resetViewsFlags(t *testing.T) {
	t.Cleanup(func() {
		viewsMeetingID = ""
		viewsOutput = ""
	})
	viewsMeetingID = ""
	viewsOutput = ""
}

func TestViewsCommand_OverallText(t *testing.T) {
	resetViewsFlags(t)

	cmd := NewViewsCommand(testDeps())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{writeFixture(t)})

	require.NoError(t, cmd.Execute())
	got := out.String()

	assert.Contains(t, got, "Overall (all meetings)")

	// Alice: 45 min online plus 120 min offline.
	assert.Contains(t, got, "  Alice: 165m 0s")
	assert.Contains(t, got, "  Bob: 30m 0s")

	// Chat aggregates cover online meetings only.
	assert.Contains(t, got, "  Bob: 3")
	assert.Contains(t, got, "[2026-03-02 10:10:00] agenda is up")

	// Overall scope carries no offline-only sections.
	assert.NotContains(t, got, "Attendance Status Counts:")
	assert.NotContains(t, got, "Activity Counts:")
}

func TestViewsCommand_SingleOfflineMeeting(t *testing.T) {
	resetViewsFlags(t)

	cmd := NewViewsCommand(testDeps())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{writeFixture(t), "--meeting", "m2"})

	require.NoError(t, cmd.Execute())
	got := out.String()

	assert.Contains(t, got, "Meeting: Workshop (m2)")
	assert.Contains(t, got, "Attendance Status Counts:")
	assert.Contains(t, got, "  present: 1")
	assert.Contains(t, got, "  late: 1")
	assert.Contains(t, got, "  absent: 1")
	assert.Contains(t, got, "Activity Counts:")
	assert.Contains(t, got, "  whiteboarding: 2")
	assert.Contains(t, got, "  note taking: 1")

	// Offline attendance synthesizes one session from check-in to check-out.
	assert.Contains(t, got, "    2026-03-03 09:00:00 - 2026-03-03 11:00:00 (7200s)")
}

func TestViewsCommand_JSONOutput(t *testing.T) {
	resetViewsFlags(t)

	cmd := NewViewsCommand(testDeps())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{writeFixture(t), "--meeting", "m1", "-o", "json"})

	require.NoError(t, cmd.Execute())

	var view BatchView
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))

	assert.Equal(t, "m1", view.MeetingID)
	assert.Equal(t, "Sprint Planning", view.Title)
	assert.Equal(t, int64(2700), view.TotalTime["Alice"])
	assert.Equal(t, int64(3), view.ChatCounts["Bob"])
	require.Len(t, view.Sessions["Bob"], 1)
	assert.Equal(t, "2026-03-02 10:05:00", view.Sessions["Bob"][0].Join)
	assert.Nil(t, view.AttendanceStatusCounts)
}

func TestViewsCommand_UnknownMeeting(t *testing.T) {
	resetViewsFlags(t)

	cmd := NewViewsCommand(testDeps())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{writeFixture(t), "--meeting", "nope"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `meeting "nope" not found`)
}
