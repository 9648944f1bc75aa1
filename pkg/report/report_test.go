package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studtrack/studtrack-cli/pkg/meeting"
)

func ts(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func tsp(hour, min int) *time.Time {
	t := ts(hour, min)
	return &t
}

func testBatch() *meeting.Batch {
	online := meeting.Meeting{
		ID: "m1", Title: "Weekly Sync", Date: "2025-03-10", Kind: meeting.KindOnline,
		Participants: []meeting.Participant{
			{Name: "Alice", Participation: meeting.OnlinePresence{Sessions: []meeting.Session{
				{Join: ts(9, 0), Leave: ts(10, 0), Duration: 3600},
				{Join: ts(10, 30), Leave: ts(11, 0), Duration: 1800},
			}}},
			{Name: "Bob", Participation: meeting.OnlinePresence{Sessions: []meeting.Session{
				{Join: ts(9, 0), Leave: ts(9, 20), Duration: 1200},
			}}},
		},
		Chats: []meeting.Chat{
			{Timestamp: ts(9, 1), Sender: "Alice", Message: "hi"},
			{Timestamp: ts(9, 2), Sender: "Bob", Message: "hello"},
			{Timestamp: ts(9, 3), Sender: "Alice", Message: "agenda"},
		},
	}
	offline := meeting.Meeting{
		ID: "m2", Title: "Workshop", Date: "2025-03-11", Kind: meeting.KindOffline, Location: "Room 4",
		Participants: []meeting.Participant{
			{Name: "Alice", Participation: meeting.OfflinePresence{Attendance: &meeting.Attendance{
				Status: meeting.StatusPresent, CheckIn: tsp(9, 0), CheckOut: tsp(11, 0),
			}}},
			{Name: "Bob", Participation: meeting.OfflinePresence{Attendance: &meeting.Attendance{
				Status: meeting.StatusPresent, CheckIn: tsp(9, 0), CheckOut: tsp(11, 0),
			}}},
			{Name: "Carol", Participation: meeting.OfflinePresence{Attendance: &meeting.Attendance{
				Status: meeting.StatusLate, CheckIn: tsp(9, 30), CheckOut: tsp(10, 45),
				LateByMinutes: 30, EarlyLeaveMinutes: 15,
			}}},
			{Name: "Dave", Participation: meeting.OfflinePresence{Attendance: &meeting.Attendance{
				Status: meeting.StatusAbsent,
			}}},
		},
		Activities: []meeting.Activity{
			{Timestamp: ts(10, 0), Participant: "Alice", Label: "whiteboard"},
			{Timestamp: ts(10, 5), Participant: "Alice", Label: "discussion"},
			{Timestamp: ts(10, 10), Participant: "Carol", Label: "whiteboard"},
		},
	}
	return meeting.NewBatch([]meeting.Meeting{online, offline})
}

func generate(t *testing.T, b *meeting.Batch) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, b, Options{GeneratedAt: "2025-03-12 08:00:00"}))
	return buf.String()
}

func TestGenerate_SectionOrder(t *testing.T) {
	out := generate(t, testBatch())

	sections := []string{
		"EXECUTIVE SUMMARY",
		"ONLINE MEETINGS ANALYSIS",
		"OFFLINE MEETINGS ANALYSIS",
		"PARTICIPANT PERFORMANCE ANALYSIS",
		"RECOMMENDATIONS",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(out, s)
		require.NotEqual(t, -1, idx, "missing section %q", s)
		assert.Greater(t, idx, last, "section %q out of order", s)
		last = idx
	}
}

func TestGenerate_ExecutiveSummary(t *testing.T) {
	out := generate(t, testBatch())

	assert.Contains(t, out, "Total Meetings: 2")
	assert.Contains(t, out, "Online Meetings: 1")
	assert.Contains(t, out, "Offline Meetings: 1")

	// Alice: 1.5h online + 2h offline = 3h30m; tops the ranking.
	assert.Contains(t, out, "Alice: 3 hours 30 minutes")
}

func TestGenerate_OnlineDetail(t *testing.T) {
	out := generate(t, testBatch())

	assert.Contains(t, out, "Meeting: Weekly Sync (2025-03-10)")
	assert.Contains(t, out, "Alice: 1 hours 30 minutes (2 sessions)")
	assert.Contains(t, out, "Session 1: 09:00 - 10:00 (60 minutes)")
	assert.Contains(t, out, "Session 2: 10:30 - 11:00 (30 minutes)")
	assert.Contains(t, out, "Alice: 2 messages")
	assert.Contains(t, out, "Bob: 1 messages")

	// Chat counts are ranked descending.
	assert.Less(t, strings.Index(out, "Alice: 2 messages"), strings.Index(out, "Bob: 1 messages"))
}

func TestGenerate_OfflineDetail(t *testing.T) {
	out := generate(t, testBatch())

	assert.Contains(t, out, "Meeting: Workshop (2025-03-11) at Room 4")
	// 2 present + 1 late out of 4 participants.
	assert.Contains(t, out, "Attendance Rate: 75.0%")
	assert.Contains(t, out, "Present: 2, Late: 1, Absent: 1")
	assert.Contains(t, out, "Carol: late (75 minutes) - Late by 30 minutes - Left 15 minutes early")
	assert.Contains(t, out, "Dave: absent")
	assert.NotContains(t, out, "Dave: absent (")
	assert.Contains(t, out, "whiteboard: 2 times")
	assert.Contains(t, out, "discussion: 1 times")
	assert.Contains(t, out, "Alice: 2 activities")
}

func TestGenerate_ParticipantAnalysis(t *testing.T) {
	out := generate(t, testBatch())

	assert.Contains(t, out, "Alice: 3 hours 30 minutes (2 meetings)")
	// All three offline attendees have 100% reliability; ties break by name.
	aliceIdx := strings.Index(out, "Alice: 100.0% (1/1 meetings)")
	bobIdx := strings.Index(out, "Bob: 100.0% (1/1 meetings)")
	carolIdx := strings.Index(out, "Carol: 100.0% (1/1 meetings)")
	require.NotEqual(t, -1, aliceIdx)
	require.NotEqual(t, -1, bobIdx)
	require.NotEqual(t, -1, carolIdx)
	assert.Less(t, aliceIdx, bobIdx)
	assert.Less(t, bobIdx, carolIdx)

	// Dave is absent with 0/1.
	assert.Contains(t, out, "Dave: 0.0% (0/1 meetings)")
}

func TestGenerate_Recommendations(t *testing.T) {
	out := generate(t, testBatch())

	assert.Contains(t, out, "Online meetings: 1 (50.0%)")
	assert.Contains(t, out, "Offline meetings: 1 (50.0%)")
	// Dave: 1 absence in 1 meeting.
	assert.Contains(t, out, "Dave: 100.0% absence rate (1 absences in 1 meetings)")
	assert.Contains(t, out, "follow-up for frequent absentees")
	// Average total time: Alice 12600 + Bob 8400 + Carol 4500 = 25500/3 = 8500;
	// 70% cutoff = 5950; Carol (4500) is below it.
	assert.Contains(t, out, "Carol: Low engagement (1 hours 15 minutes total)")
	assert.NotContains(t, out, "Bob: Low engagement")
	assert.Contains(t, out, "GENERAL RECOMMENDATIONS")
}

func TestGenerate_EmptyBatch(t *testing.T) {
	out := generate(t, meeting.NewBatch(nil))

	assert.Contains(t, out, "Total Meetings: 0")
	assert.Contains(t, out, "No participant time recorded.")
	assert.Contains(t, out, "No online meetings found.")
	assert.Contains(t, out, "No offline meetings found.")
	assert.Contains(t, out, "No participants found.")
	assert.Contains(t, out, "No offline attendance recorded.")
	assert.Contains(t, out, "No meetings found.")
	assert.Contains(t, out, "No absence records found.")
	assert.Contains(t, out, "No engagement data recorded.")
	assert.Contains(t, out, "GENERAL RECOMMENDATIONS")
}

func TestGenerate_ZeroParticipantOfflineMeeting(t *testing.T) {
	b := meeting.NewBatch([]meeting.Meeting{{
		ID: "m1", Title: "Ghost Meeting", Date: "2025-03-11", Kind: meeting.KindOffline, Location: "Room 0",
	}})

	out := generate(t, b)
	assert.Contains(t, out, "Attendance Rate: N/A (no participants)")
	assert.Contains(t, out, "No activities recorded.")
}

func TestGenerate_Idempotent(t *testing.T) {
	b := testBatch()

	first := generate(t, b)
	second := generate(t, b)
	assert.Equal(t, first, second, "report generation must be byte-identical across runs")
}

// failingWriter fails after n successful writes.
type failingWriter struct {
	n int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n <= 0 {
		return 0, errors.New("disk full")
	}
	w.n--
	return len(p), nil
}

func TestGenerate_SurfacesWriteError(t *testing.T) {
	err := Generate(&failingWriter{n: 3}, testBatch(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
