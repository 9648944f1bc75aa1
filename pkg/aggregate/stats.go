package aggregate

import "github.com/studtrack/studtrack-cli/pkg/meeting"

// ParticipantStats is the merged cross-meeting record for one participant
// name: meeting membership, engaged time by kind, session/chat/activity
// counts, and attendance status tallies from offline meetings.
type ParticipantStats struct {
	Meetings        int   `json:"meetings"`
	OnlineMeetings  int   `json:"online_meetings"`
	OfflineMeetings int   `json:"offline_meetings"`
	OnlineSeconds   int64 `json:"online_seconds"`
	OfflineSeconds  int64 `json:"offline_seconds"`
	Sessions        int   `json:"sessions"`
	ChatMessages    int64 `json:"chat_messages"`
	Present         int   `json:"present"`
	Late            int   `json:"late"`
	Absent          int   `json:"absent"`
	Activities      int64 `json:"activities"`
}

// TotalSeconds is the participant's combined online and offline engaged time.
func (s *ParticipantStats) TotalSeconds() int64 {
	return s.OnlineSeconds + s.OfflineSeconds
}

// Reliability returns the attendance reliability rate in percent, computed as
// (present + late) / offline meetings * 100. The second return is false for
// participants with no offline meetings, for whom the rate is undefined.
func (s *ParticipantStats) Reliability() (float64, bool) {
	if s.OfflineMeetings == 0 {
		return 0, false
	}
	return float64(s.Present+s.Late) / float64(s.OfflineMeetings) * 100, true
}

// CollectStats builds the merged per-participant record for every
// participant name appearing in at least one meeting of the batch.
func CollectStats(b *meeting.Batch) map[string]*ParticipantStats {
	stats := make(map[string]*ParticipantStats)
	get := func(name string) *ParticipantStats {
		s, ok := stats[name]
		if !ok {
			s = &ParticipantStats{}
			stats[name] = s
		}
		return s
	}

	for i := range b.Meetings {
		m := &b.Meetings[i]
		chatCounts := ChatCounts(m)
		activityCounts := ActivityByParticipant(m)

		for j := range m.Participants {
			p := &m.Participants[j]
			s := get(p.Name)
			s.Meetings++

			switch pres := p.Participation.(type) {
			case meeting.OnlinePresence:
				s.OnlineMeetings++
				for _, sess := range pres.Sessions {
					s.OnlineSeconds += sess.Duration
				}
				s.Sessions += len(pres.Sessions)
				s.ChatMessages += chatCounts[p.Name]
			case meeting.OfflinePresence:
				s.OfflineMeetings++
				if att := pres.Attendance; att != nil {
					switch att.Status {
					case meeting.StatusPresent:
						s.Present++
					case meeting.StatusLate:
						s.Late++
					case meeting.StatusAbsent:
						s.Absent++
					}
					if secs, ok := attendanceSeconds(att); ok {
						s.OfflineSeconds += secs
					}
				}
				s.Activities += activityCounts[p.Name]
			}
		}
	}
	return stats
}
