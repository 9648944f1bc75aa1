// Package aggregate builds participant-level views over normalized meetings,
// both per-meeting and across a whole batch.
//
// All functions are pure: they recompute fresh maps from the immutable batch
// on every call and never cache or mutate shared state. Overall aggregates
// use union-of-keys semantics: a participant absent from a meeting simply
// contributes nothing to it.
package aggregate

import (
	"time"

	"github.com/studtrack/studtrack-cli/pkg/meeting"
)

// TotalTime returns participant name -> total engaged seconds for one
// meeting. Online participants contribute the sum of their session
// durations. Offline participants contribute check-out minus check-in when
// both checkpoints exist; otherwise they have no entry at all, so missing
// checkpoints never understate engagement as zero.
func TotalTime(m *meeting.Meeting) map[string]int64 {
	result := make(map[string]int64)
	for i := range m.Participants {
		p := &m.Participants[i]
		switch pres := p.Participation.(type) {
		case meeting.OnlinePresence:
			var total int64
			for _, s := range pres.Sessions {
				total += s.Duration
			}
			result[p.Name] = total
		case meeting.OfflinePresence:
			if secs, ok := attendanceSeconds(pres.Attendance); ok {
				result[p.Name] = secs
			}
		}
	}
	return result
}

// Sessions returns participant name -> session list for one meeting. Online
// participants get their session list verbatim. Offline participants get a
// single synthesized session from check-in/check-out when both exist, else
// no entry, so time-windowed consumers can treat both meeting kinds
// uniformly.
func Sessions(m *meeting.Meeting) map[string][]meeting.Session {
	result := make(map[string][]meeting.Session)
	for i := range m.Participants {
		p := &m.Participants[i]
		switch pres := p.Participation.(type) {
		case meeting.OnlinePresence:
			result[p.Name] = pres.Sessions
		case meeting.OfflinePresence:
			att := pres.Attendance
			if att == nil || att.CheckIn == nil || att.CheckOut == nil {
				continue
			}
			result[p.Name] = []meeting.Session{{
				Join:     *att.CheckIn,
				Leave:    *att.CheckOut,
				Duration: int64(att.CheckOut.Sub(*att.CheckIn) / time.Second),
			}}
		}
	}
	return result
}

// ChatCounts returns sender name -> message count for one meeting. Offline
// meetings have no chat log, so the result is empty for them.
func ChatCounts(m *meeting.Meeting) map[string]int64 {
	result := make(map[string]int64)
	for i := range m.Chats {
		result[m.Chats[i].Sender]++
	}
	return result
}

// ChatsBySender groups one meeting's chat messages by sender, preserving
// input order within each group.
func ChatsBySender(m *meeting.Meeting) map[string][]meeting.Chat {
	result := make(map[string][]meeting.Chat)
	for i := range m.Chats {
		c := m.Chats[i]
		result[c.Sender] = append(result[c.Sender], c)
	}
	return result
}

// AttendanceStatusCounts returns status -> participant count for one offline
// meeting. Participants without an attendance block are not counted under
// any status.
func AttendanceStatusCounts(m *meeting.Meeting) map[string]int {
	result := make(map[string]int)
	for i := range m.Participants {
		if pres, ok := m.Participants[i].Participation.(meeting.OfflinePresence); ok && pres.Attendance != nil {
			result[pres.Attendance.Status]++
		}
	}
	return result
}

// AttendanceRate returns (present + late) / total participants * 100 for one
// meeting. The second return is false when the meeting has no participants
// and the rate is undefined.
func AttendanceRate(m *meeting.Meeting) (float64, bool) {
	if len(m.Participants) == 0 {
		return 0, false
	}
	attended := 0
	for i := range m.Participants {
		if pres, ok := m.Participants[i].Participation.(meeting.OfflinePresence); ok && pres.Attendance.Attended() {
			attended++
		}
	}
	return float64(attended) / float64(len(m.Participants)) * 100, true
}

// ActivityCounts returns activity label -> occurrence count for one meeting.
func ActivityCounts(m *meeting.Meeting) map[string]int64 {
	result := make(map[string]int64)
	for i := range m.Activities {
		result[m.Activities[i].Label]++
	}
	return result
}

// ActivityByParticipant returns participant name -> activity count for one
// meeting.
func ActivityByParticipant(m *meeting.Meeting) map[string]int64 {
	result := make(map[string]int64)
	for i := range m.Activities {
		result[m.Activities[i].Participant]++
	}
	return result
}

// ActivitiesByParticipant groups one meeting's activities by participant,
// preserving input order within each group.
func ActivitiesByParticipant(m *meeting.Meeting) map[string][]meeting.Activity {
	result := make(map[string][]meeting.Activity)
	for i := range m.Activities {
		a := m.Activities[i]
		result[a.Participant] = append(result[a.Participant], a)
	}
	return result
}

// OverallTotalTime sums per-meeting total time across the batch, keyed by
// participant name.
func OverallTotalTime(b *meeting.Batch) map[string]int64 {
	result := make(map[string]int64)
	for i := range b.Meetings {
		for name, secs := range TotalTime(&b.Meetings[i]) {
			result[name] += secs
		}
	}
	return result
}

// OverallSessions concatenates per-meeting session views across the batch,
// keyed by participant name.
func OverallSessions(b *meeting.Batch) map[string][]meeting.Session {
	result := make(map[string][]meeting.Session)
	for i := range b.Meetings {
		for name, sessions := range Sessions(&b.Meetings[i]) {
			result[name] = append(result[name], sessions...)
		}
	}
	return result
}

// OverallChatCounts sums chat counts across the batch's online meetings.
// Offline meetings are silently omitted, not zero-filled.
func OverallChatCounts(b *meeting.Batch) map[string]int64 {
	result := make(map[string]int64)
	for i := range b.Meetings {
		if b.Meetings[i].Kind != meeting.KindOnline {
			continue
		}
		for name, count := range ChatCounts(&b.Meetings[i]) {
			result[name] += count
		}
	}
	return result
}

// OverallChats concatenates chat groups across the batch's online meetings,
// keyed by sender name.
func OverallChats(b *meeting.Batch) map[string][]meeting.Chat {
	result := make(map[string][]meeting.Chat)
	for i := range b.Meetings {
		if b.Meetings[i].Kind != meeting.KindOnline {
			continue
		}
		for name, chats := range ChatsBySender(&b.Meetings[i]) {
			result[name] = append(result[name], chats...)
		}
	}
	return result
}

// attendanceSeconds returns the engaged seconds of an attendance record, or
// false when either checkpoint is missing.
func attendanceSeconds(att *meeting.Attendance) (int64, bool) {
	if att == nil || att.CheckIn == nil || att.CheckOut == nil {
		return 0, false
	}
	return int64(att.CheckOut.Sub(*att.CheckIn) / time.Second), true
}
